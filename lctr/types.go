package lctr

import "fmt"

type Phy uint8

const (
	Phy1M    Phy = 0x01
	Phy2M    Phy = 0x02
	PhyCoded Phy = 0x04

	supportedPhys = Phy1M | Phy2M | PhyCoded
)

func (p Phy) String() string {
	switch p {
	case Phy1M:
		return "1M"
	case Phy2M:
		return "2M"
	case PhyCoded:
		return "coded"
	}
	return fmt.Sprintf("phy(0x%02x)", uint8(p))
}

// single bit within the supported mask
func (p Phy) valid() bool {
	return p != 0 && p&^supportedPhys == 0 && p&(p-1) == 0
}

// ConnParams is the state of the ACL connection the streams ride on.
type ConnParams struct {
	Handle          uint16
	IntervalUsec    uint32
	EventCounter    uint16
	AnchorPointUsec uint64
}

// ConnIntervalUsec converts an HCI connection interval (1.25 ms units).
func ConnIntervalUsec(units uint16) uint32 {
	return uint32(units) * connIntervalUnitUsec
}

// StreamRequest carries the decoded LL_CIS_REQ parameters.
type StreamRequest struct {
	CigID           uint8
	CisID           uint8
	PhyMToS         Phy
	PhySToM         Phy
	Framing         uint8
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
	CeRef           uint16
}

// IsoIntervalUsec is the requested ISO interval in microseconds.
func (r StreamRequest) IsoIntervalUsec() uint64 {
	return uint64(r.IsoInterval) * isoIntervalUnitUsec
}

// StreamIndication carries the decoded LL_CIS_IND parameters.
type StreamIndication struct {
	AccessAddress    uint32
	OffsetUsec       uint32
	CigSyncDelayUsec uint32
	CisSyncDelayUsec uint32
	CeRef            uint16
}
