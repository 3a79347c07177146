package llcp

import (
	"fmt"

	"github.com/pkg/errors"
)

// PDU is an LL control PDU; Marshal and Unmarshal operate on CtrData only.
type PDU interface {
	Opcode() byte
	Len() int
	Marshal(b []byte) error
	Unmarshal(b []byte) error
}

// CisReq is LL_CIS_REQ [Vol 6, Part B, 2.4.2.29].
type CisReq struct {
	CigID           uint8
	CisID           uint8
	PhyMToS         uint8
	PhySToM         uint8
	Framed          bool
	MaxSduMToS      uint16
	MaxSduSToM      uint16
	SduIntervalMToS uint32
	SduIntervalSToM uint32
	MaxPduMToS      uint16
	MaxPduSToM      uint16
	Nse             uint8
	SubIntervalUsec uint32
	BnMToS          uint8
	BnSToM          uint8
	FtMToS          uint8
	FtSToM          uint8
	IsoInterval     uint16
	OffsetMinUsec   uint32
	OffsetMaxUsec   uint32
	ConnEventCount  uint16
}

func (p *CisReq) Opcode() byte { return OpCisReq }
func (p *CisReq) Len() int     { return cisReqLen }

func (p *CisReq) Marshal(b []byte) error {
	if err := checkLen(b, cisReqLen); err != nil {
		return err
	}
	w := writer{b: b}
	w.u8(p.CigID)
	w.u8(p.CisID)
	w.u8(p.PhyMToS)
	w.u8(p.PhySToM)
	sdu := p.MaxSduMToS & maxSduMask
	if p.Framed {
		sdu |= framedBit
	}
	w.u16(sdu)
	w.u16(p.MaxSduSToM & maxSduMask)
	w.u24(p.SduIntervalMToS & sduIntMask)
	w.u24(p.SduIntervalSToM & sduIntMask)
	w.u16(p.MaxPduMToS)
	w.u16(p.MaxPduSToM)
	w.u8(p.Nse)
	w.u24(p.SubIntervalUsec & uint24Mask)
	w.u8(p.BnMToS&bnNibbleLow | (p.BnSToM&bnNibbleLow)<<4)
	w.u8(p.FtMToS)
	w.u8(p.FtSToM)
	w.u16(p.IsoInterval)
	w.u24(p.OffsetMinUsec & uint24Mask)
	w.u24(p.OffsetMaxUsec & uint24Mask)
	w.u16(p.ConnEventCount)
	return nil
}

func (p *CisReq) Unmarshal(b []byte) error {
	r := reader{b: b}
	p.CigID = r.u8()
	p.CisID = r.u8()
	p.PhyMToS = r.u8()
	p.PhySToM = r.u8()
	sdu := r.u16()
	p.Framed = sdu&framedBit != 0
	p.MaxSduMToS = sdu & maxSduMask
	p.MaxSduSToM = r.u16() & maxSduMask
	p.SduIntervalMToS = r.u24() & sduIntMask
	p.SduIntervalSToM = r.u24() & sduIntMask
	p.MaxPduMToS = r.u16()
	p.MaxPduSToM = r.u16()
	p.Nse = r.u8()
	p.SubIntervalUsec = r.u24()
	bn := r.u8()
	p.BnMToS = bn & bnNibbleLow
	p.BnSToM = bn >> 4
	p.FtMToS = r.u8()
	p.FtSToM = r.u8()
	p.IsoInterval = r.u16()
	p.OffsetMinUsec = r.u24()
	p.OffsetMaxUsec = r.u24()
	p.ConnEventCount = r.u16()
	return errors.Wrap(r.err, "cis req")
}

// CisRsp is LL_CIS_RSP.
type CisRsp struct {
	OffsetMinUsec  uint32
	OffsetMaxUsec  uint32
	ConnEventCount uint16
}

func (p *CisRsp) Opcode() byte { return OpCisRsp }
func (p *CisRsp) Len() int     { return cisRspLen }

func (p *CisRsp) Marshal(b []byte) error {
	if err := checkLen(b, cisRspLen); err != nil {
		return err
	}
	w := writer{b: b}
	w.u24(p.OffsetMinUsec & uint24Mask)
	w.u24(p.OffsetMaxUsec & uint24Mask)
	w.u16(p.ConnEventCount)
	return nil
}

func (p *CisRsp) Unmarshal(b []byte) error {
	r := reader{b: b}
	p.OffsetMinUsec = r.u24()
	p.OffsetMaxUsec = r.u24()
	p.ConnEventCount = r.u16()
	return errors.Wrap(r.err, "cis rsp")
}

// CisInd is LL_CIS_IND.
type CisInd struct {
	AccessAddress    uint32
	OffsetUsec       uint32
	CigSyncDelayUsec uint32
	CisSyncDelayUsec uint32
	ConnEventCount   uint16
}

func (p *CisInd) Opcode() byte { return OpCisInd }
func (p *CisInd) Len() int     { return cisIndLen }

func (p *CisInd) Marshal(b []byte) error {
	if err := checkLen(b, cisIndLen); err != nil {
		return err
	}
	w := writer{b: b}
	w.u32(p.AccessAddress)
	w.u24(p.OffsetUsec & uint24Mask)
	w.u24(p.CigSyncDelayUsec & uint24Mask)
	w.u24(p.CisSyncDelayUsec & uint24Mask)
	w.u16(p.ConnEventCount)
	return nil
}

func (p *CisInd) Unmarshal(b []byte) error {
	r := reader{b: b}
	p.AccessAddress = r.u32()
	p.OffsetUsec = r.u24()
	p.CigSyncDelayUsec = r.u24()
	p.CisSyncDelayUsec = r.u24()
	p.ConnEventCount = r.u16()
	return errors.Wrap(r.err, "cis ind")
}

// CisTerminateInd is LL_CIS_TERMINATE_IND.
type CisTerminateInd struct {
	CigID     uint8
	CisID     uint8
	ErrorCode uint8
}

func (p *CisTerminateInd) Opcode() byte { return OpCisTerminateInd }
func (p *CisTerminateInd) Len() int     { return cisTerminateIndLen }

func (p *CisTerminateInd) Marshal(b []byte) error {
	if err := checkLen(b, cisTerminateIndLen); err != nil {
		return err
	}
	b[0], b[1], b[2] = p.CigID, p.CisID, p.ErrorCode
	return nil
}

func (p *CisTerminateInd) Unmarshal(b []byte) error {
	r := reader{b: b}
	p.CigID = r.u8()
	p.CisID = r.u8()
	p.ErrorCode = r.u8()
	return errors.Wrap(r.err, "cis terminate ind")
}

// RejectExtInd is LL_REJECT_EXT_IND.
type RejectExtInd struct {
	RejectOpcode uint8
	ErrorCode    uint8
}

func (p *RejectExtInd) Opcode() byte { return OpRejectExtInd }
func (p *RejectExtInd) Len() int     { return rejectExtIndLen }

func (p *RejectExtInd) Marshal(b []byte) error {
	if err := checkLen(b, rejectExtIndLen); err != nil {
		return err
	}
	b[0], b[1] = p.RejectOpcode, p.ErrorCode
	return nil
}

func (p *RejectExtInd) Unmarshal(b []byte) error {
	r := reader{b: b}
	p.RejectOpcode = r.u8()
	p.ErrorCode = r.u8()
	return errors.Wrap(r.err, "reject ext ind")
}

var factory = map[byte]func() PDU{
	OpCisReq:          func() PDU { return &CisReq{} },
	OpCisRsp:          func() PDU { return &CisRsp{} },
	OpCisInd:          func() PDU { return &CisInd{} },
	OpCisTerminateInd: func() PDU { return &CisTerminateInd{} },
	OpRejectExtInd:    func() PDU { return &RejectExtInd{} },
}

// Encode prefixes the opcode and marshals p.
func Encode(p PDU) ([]byte, error) {
	b := make([]byte, 1+p.Len())
	b[0] = p.Opcode()
	if err := p.Marshal(b[1:]); err != nil {
		return nil, errors.Wrapf(err, "encode opcode 0x%02x", p.Opcode())
	}
	return b, nil
}

// Decode parses an opcode-prefixed control PDU.
func Decode(b []byte) (PDU, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("nil/empty pdu")
	}

	f, ok := factory[b[0]]
	if !ok {
		return nil, fmt.Errorf("unsupported opcode 0x%02x", b[0])
	}

	p := f()
	if len(b)-1 < p.Len() {
		return nil, fmt.Errorf("opcode 0x%02x: invalid length %v", b[0], len(b)-1)
	}
	if err := p.Unmarshal(b[1:]); err != nil {
		return nil, err
	}
	return p, nil
}
