package evt

import (
	"encoding/binary"
	"fmt"
)

// LECISEstablished [Vol 4, Part E, 7.7.65.25], starting at the subevent code.
type LECISEstablished []byte

// LECISRequest [Vol 4, Part E, 7.7.65.26], starting at the subevent code.
type LECISRequest []byte

type CISEstablishedParams struct {
	Status               uint8
	ConnectionHandle     uint16
	CIGSyncDelayUsec     uint32
	CISSyncDelayUsec     uint32
	TransportLatencyCToP uint32
	TransportLatencyPToC uint32
	PHYCToP              uint8
	PHYPToC              uint8
	NSE                  uint8
	BNCToP               uint8
	BNPToC               uint8
	FTCToP               uint8
	FTPToC               uint8
	MaxPDUCToP           uint16
	MaxPDUPToC           uint16
	ISOInterval          uint16
}

func NewLECISEstablished(p CISEstablishedParams) LECISEstablished {
	b := make([]byte, leCISEstablishedLen)
	b[0] = LECISEstablishedSubCode
	b[1] = p.Status
	binary.LittleEndian.PutUint16(b[2:], p.ConnectionHandle)
	putUint24LE(b[4:], p.CIGSyncDelayUsec)
	putUint24LE(b[7:], p.CISSyncDelayUsec)
	putUint24LE(b[10:], p.TransportLatencyCToP)
	putUint24LE(b[13:], p.TransportLatencyPToC)
	b[16] = p.PHYCToP
	b[17] = p.PHYPToC
	b[18] = p.NSE
	b[19] = p.BNCToP
	b[20] = p.BNPToC
	b[21] = p.FTCToP
	b[22] = p.FTPToC
	binary.LittleEndian.PutUint16(b[23:], p.MaxPDUCToP)
	binary.LittleEndian.PutUint16(b[25:], p.MaxPDUPToC)
	binary.LittleEndian.PutUint16(b[27:], p.ISOInterval)
	return b
}

func NewLECISRequest(aclHandle, cisHandle uint16, cigID, cisID uint8) LECISRequest {
	b := make([]byte, leCISRequestLen)
	b[0] = LECISRequestSubCode
	binary.LittleEndian.PutUint16(b[1:], aclHandle)
	binary.LittleEndian.PutUint16(b[3:], cisHandle)
	b[5] = cigID
	b[6] = cisID
	return b
}

// Packet frames an LE meta subevent as an HCI event packet.
func Packet(sub []byte) ([]byte, error) {
	if len(sub) == 0 || len(sub) > 255 {
		return nil, fmt.Errorf("invalid subevent length %v", len(sub))
	}
	b := make([]byte, 2+len(sub))
	b[0] = LEMetaCode
	b[1] = byte(len(sub))
	copy(b[2:], sub)
	return b, nil
}

// Subevent strips the HCI event header, checking the parameter length.
func Subevent(pkt []byte) ([]byte, error) {
	code, err := getByte(pkt, 0, 0)
	if err != nil {
		return nil, err
	}
	if code != LEMetaCode {
		return nil, fmt.Errorf("not an le meta event: 0x%02x", code)
	}
	plen, err := getByte(pkt, 1, 0)
	if err != nil {
		return nil, err
	}
	if int(plen) != len(pkt[2:]) {
		return nil, fmt.Errorf("invalid event packet: % X", pkt)
	}
	return pkt[2:], nil
}

func (e LECISEstablished) Status() uint8 {
	v, _ := e.StatusWErr()
	return v
}

func (e LECISEstablished) ConnectionHandle() uint16 {
	v, _ := e.ConnectionHandleWErr()
	return v
}

func (e LECISEstablished) CIGSyncDelay() uint32 {
	v, _ := e.CIGSyncDelayWErr()
	return v
}

func (e LECISEstablished) CISSyncDelay() uint32 {
	v, _ := e.CISSyncDelayWErr()
	return v
}

func (e LECISRequest) CISConnectionHandle() uint16 {
	v, _ := e.CISConnectionHandleWErr()
	return v
}
