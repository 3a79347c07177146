package evt

import (
	"encoding/binary"
	"fmt"
)

func (e LECISEstablished) SubeventCodeWErr() (uint8, error) {
	return getByte(e, 0, 0xff)
}

func (e LECISEstablished) StatusWErr() (uint8, error) {
	return getByte(e, 1, 0xff)
}

func (e LECISEstablished) ConnectionHandleWErr() (uint16, error) {
	return getUint16LE(e, 2, 0xffff)
}

func (e LECISEstablished) CIGSyncDelayWErr() (uint32, error) {
	return getUint24LE(e, 4, 0)
}

func (e LECISEstablished) CISSyncDelayWErr() (uint32, error) {
	return getUint24LE(e, 7, 0)
}

func (e LECISEstablished) TransportLatencyCToPWErr() (uint32, error) {
	return getUint24LE(e, 10, 0)
}

func (e LECISEstablished) TransportLatencyPToCWErr() (uint32, error) {
	return getUint24LE(e, 13, 0)
}

func (e LECISEstablished) NSEWErr() (uint8, error) {
	return getByte(e, 18, 0)
}

func (e LECISEstablished) ISOIntervalWErr() (uint16, error) {
	return getUint16LE(e, 27, 0)
}

func (e LECISRequest) SubeventCodeWErr() (uint8, error) {
	return getByte(e, 0, 0xff)
}

func (e LECISRequest) ACLConnectionHandleWErr() (uint16, error) {
	return getUint16LE(e, 1, 0xffff)
}

func (e LECISRequest) CISConnectionHandleWErr() (uint16, error) {
	return getUint16LE(e, 3, 0xffff)
}

func (e LECISRequest) CIGIDWErr() (uint8, error) {
	return getByte(e, 5, 0xff)
}

func (e LECISRequest) CISIDWErr() (uint8, error) {
	return getByte(e, 6, 0xff)
}

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
