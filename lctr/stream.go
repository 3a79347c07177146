package lctr

type streamState int

const (
	streamRequested streamState = iota
	streamAccepted
	streamEstablished
)

var streamStateStrings = map[streamState]string{
	streamRequested:   "requested",
	streamAccepted:    "accepted",
	streamEstablished: "established",
}

func (s streamState) String() string {
	return streamStateStrings[s]
}

// StreamContext is the scheduling record of one CIS.
type StreamContext struct {
	CigID     uint8
	CisID     uint8
	CisHandle uint16

	// verbatim copy of the admitted request
	Req StreamRequest

	IsoInterval     uint16
	Nse             uint8
	SubIntervalUsec uint32

	DelayUsec            uint32
	NextStreamOffsetUsec uint32
	AnchorOffsetUsec     uint64

	AccessAddress    uint32
	OffsetUsec       uint32
	CigSyncDelayUsec uint32
	CisSyncDelayUsec uint32
	CeRef            uint16
	CisEventCounter  uint16

	state    streamState
	handle   Handle
	list     *StreamList
	prev     Handle
	next     Handle
	trailing bool
}

func (s *StreamContext) Handle() Handle {
	return s.handle
}

// Linked reports whether the stream is a member of a group's list.
func (s *StreamContext) Linked() bool {
	return s.list != nil
}

// Trailing reports whether the stream runs after the interleaved rounds of
// its group instead of inside them.
func (s *StreamContext) Trailing() bool {
	return s.trailing
}

// StartOffsetUsec is the stream's first sub-event relative to the CIG anchor.
func (s *StreamContext) StartOffsetUsec() uint32 {
	if s.CisSyncDelayUsec > s.CigSyncDelayUsec {
		return 0
	}
	return s.CigSyncDelayUsec - s.CisSyncDelayUsec
}

// DurationUsec is the time taken by all sub-events sent back to back.
func (s *StreamContext) DurationUsec() uint32 {
	return uint32(s.Nse) * s.SubIntervalUsec
}

func (s *StreamContext) SubEventLenUsec() uint32 {
	return SubEventLenUsec(s.Req)
}

func (s *StreamContext) applyRequest(req StreamRequest) {
	s.Req = req
	s.CigID = req.CigID
	s.CisID = req.CisID
	s.IsoInterval = req.IsoInterval
	s.Nse = req.Nse
	s.SubIntervalUsec = req.SubIntervalUsec
	s.CeRef = req.CeRef
}

func (s *StreamContext) applyIndication(ind StreamIndication) {
	s.AccessAddress = ind.AccessAddress
	s.OffsetUsec = ind.OffsetUsec
	s.CigSyncDelayUsec = ind.CigSyncDelayUsec
	s.CisSyncDelayUsec = ind.CisSyncDelayUsec
	s.CeRef = ind.CeRef
}
