package llcp

import (
	"encoding/binary"
	"fmt"
)

//get or default
func getByte(b []byte, i int, def byte) (byte, error) {
	bb, err := getBytes(b, i, 1)
	if err != nil {
		return def, err
	}
	return bb[0], nil
}

//get or default
func getUint16LE(b []byte, i int, def uint16) (uint16, error) {
	bb, err := getBytes(b, i, 2)
	if err != nil {
		return def, err
	}
	return binary.LittleEndian.Uint16(bb), nil
}

func getUint24LE(b []byte, i int, def uint32) (uint32, error) {
	bb, err := getBytes(b, i, 3)
	if err != nil {
		return def, err
	}
	return uint32(bb[0]) | uint32(bb[1])<<8 | uint32(bb[2])<<16, nil
}

func getUint32LE(b []byte, i int, def uint32) (uint32, error) {
	bb, err := getBytes(b, i, 4)
	if err != nil {
		return def, err
	}
	return binary.LittleEndian.Uint32(bb), nil
}

func getBytes(bytes []byte, start int, count int) ([]byte, error) {
	if bytes == nil || start >= len(bytes) {
		return nil, fmt.Errorf("index error")
	}

	if count < 0 {
		return bytes[start:], nil
	}

	end := start + count
	//end is non-inclusive
	if end > len(bytes) {
		return nil, fmt.Errorf("index error")
	}

	return bytes[start:end], nil
}

func putUint24LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}

func checkLen(b []byte, n int) error {
	if len(b) < n {
		return fmt.Errorf("invalid length %v, need %v", len(b), n)
	}
	return nil
}
