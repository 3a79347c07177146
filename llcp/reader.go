package llcp

import "encoding/binary"

// reader walks CtrData left to right and keeps the first index error.
type reader struct {
	b   []byte
	off int
	err error
}

func (r *reader) fail(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

func (r *reader) u8() byte {
	v, err := getByte(r.b, r.off, 0)
	r.fail(err)
	r.off++
	return v
}

func (r *reader) u16() uint16 {
	v, err := getUint16LE(r.b, r.off, 0)
	r.fail(err)
	r.off += 2
	return v
}

func (r *reader) u24() uint32 {
	v, err := getUint24LE(r.b, r.off, 0)
	r.fail(err)
	r.off += 3
	return v
}

func (r *reader) u32() uint32 {
	v, err := getUint32LE(r.b, r.off, 0)
	r.fail(err)
	r.off += 4
	return v
}

type writer struct {
	b   []byte
	off int
}

func (w *writer) u8(v byte) {
	w.b[w.off] = v
	w.off++
}

func (w *writer) u16(v uint16) {
	binary.LittleEndian.PutUint16(w.b[w.off:], v)
	w.off += 2
}

func (w *writer) u24(v uint32) {
	putUint24LE(w.b[w.off:], v)
	w.off += 3
}

func (w *writer) u32(v uint32) {
	binary.LittleEndian.PutUint32(w.b[w.off:], v)
	w.off += 4
}
