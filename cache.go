package bleiso

import "fmt"

// ScheduleCache persists committed CIG schedules between runs.
type ScheduleCache interface {
	Store(key string, s Schedule, replace bool) error
	Load(key string) (Schedule, error)
	Keys() ([]string, error)
	Clear() error
}

// Schedule is the committed layout of one CIG.
type Schedule struct {
	AclHandle       uint16          `json:"acl_handle"`
	CigID           uint8           `json:"cig_id"`
	Packing         string          `json:"packing"`
	IsoIntervalUsec uint64          `json:"iso_interval_usec"`
	AnchorUsec      uint64          `json:"anchor_usec"`
	EventCounter    uint16          `json:"event_counter"`
	Built           bool            `json:"built"`
	Started         bool            `json:"started"`
	Streams         []ScheduleEntry `json:"streams"`
}

type ScheduleEntry struct {
	CisID                uint8  `json:"cis_id"`
	CisHandle            uint16 `json:"cis_handle"`
	StartUsec            uint32 `json:"start_usec"`
	Nse                  uint8  `json:"nse"`
	SubIntervalUsec      uint32 `json:"sub_interval_usec"`
	DelayUsec            uint32 `json:"delay_usec"`
	NextStreamOffsetUsec uint32 `json:"next_stream_offset_usec"`
	Trailing             bool   `json:"trailing,omitempty"`
}

// Key names a schedule by connection and CIG.
func (s Schedule) Key() string {
	return ScheduleKey(s.AclHandle, s.CigID)
}

func ScheduleKey(aclHandle uint16, cigID uint8) string {
	return fmt.Sprintf("%04x/%02x", aclHandle, cigID)
}
