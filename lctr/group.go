package lctr

import (
	"fmt"

	"github.com/rigado/bleiso"
)

type Packing int

const (
	Sequential Packing = iota
	Interleaved
)

func (p Packing) String() string {
	switch p {
	case Sequential:
		return "sequential"
	case Interleaved:
		return "interleaved"
	}
	return fmt.Sprintf("packing(%d)", int(p))
}

// BodBuilder commits a CIG to the radio scheduler.
type BodBuilder interface {
	BuildBod(g *GroupContext) error
}

// GroupContext is the aggregate schedule state of one CIG.
type GroupContext struct {
	CigID            uint8
	Packing          Packing
	IsoInterval      uint16
	AnchorPointUsec  uint64
	EventCounter     uint16
	CigSyncDelayUsec uint32
	IsBodBuilt       bool
	IsBodStarted     bool
	Streams          *StreamList

	packingDecided bool
	store          *Store
	builder        BodBuilder
	log            bleiso.Logger
}

func NewGroupContext(cigID uint8, store *Store, builder BodBuilder, log bleiso.Logger) *GroupContext {
	if log == nil {
		log = bleiso.GetLogger()
	}

	return &GroupContext{
		CigID:   cigID,
		Streams: NewStreamList(store),
		store:   store,
		builder: builder,
		log:     log.ChildLogger(map[string]interface{}{"cig": cigID}),
	}
}

func (g *GroupContext) IsoIntervalUsec() uint64 {
	return uint64(g.IsoInterval) * isoIntervalUnitUsec
}

// Stream resolves a member of the group.
func (g *GroupContext) Stream(h Handle) (*StreamContext, bool) {
	if !g.Streams.Contains(h) {
		return nil, false
	}
	return g.store.Get(h)
}

// Start marks the committed schedule entry as running.
func (g *GroupContext) Start() error {
	if !g.IsBodBuilt {
		return fmt.Errorf("cig %v: bod not built", g.CigID)
	}
	g.IsBodStarted = true
	return nil
}

// Advance moves the group's anchor forward by whole ISO events.
func (g *GroupContext) Advance(events uint16) {
	g.AnchorPointUsec += uint64(events) * g.IsoIntervalUsec()
	g.EventCounter += events
}

// RemoveStream unlinks h and hands its reserved time to its predecessor so
// the remaining layout keeps its shape.
func (g *GroupContext) RemoveStream(h Handle) error {
	s, ok := g.Stream(h)
	if !ok {
		return fmt.Errorf("cig %v: stream %v not a member", g.CigID, h)
	}

	if pc, ok := g.store.Get(s.prev); ok {
		switch {
		case g.Packing == Interleaved && !s.trailing:
			// s starts where pc's window ends
			if s.NextStreamOffsetUsec != 0 {
				pc.NextStreamOffsetUsec = pc.DelayUsec + s.NextStreamOffsetUsec
			}
			pc.DelayUsec += s.DelayUsec
		case s.next.Valid():
			pc.NextStreamOffsetUsec += s.NextStreamOffsetUsec
		default:
			pc.NextStreamOffsetUsec = 0
		}
	}

	return g.Streams.Remove(h)
}

func (g *GroupContext) commit() error {
	if g.builder != nil {
		if err := g.builder.BuildBod(g); err != nil {
			return err
		}
	}
	g.IsBodBuilt = true
	return nil
}

type streamTiming struct {
	h     Handle
	delay uint32
	next  uint32
}

type groupSnapshot struct {
	packing        Packing
	packingDecided bool
	isoInterval    uint16
	anchor         uint64
	cigSyncDelay   uint32
	built          bool
	timings        []streamTiming
}

func (g *GroupContext) snapshot() groupSnapshot {
	snap := groupSnapshot{
		packing:        g.Packing,
		packingDecided: g.packingDecided,
		isoInterval:    g.IsoInterval,
		anchor:         g.AnchorPointUsec,
		cigSyncDelay:   g.CigSyncDelayUsec,
		built:          g.IsBodBuilt,
	}
	for _, h := range g.Streams.Handles() {
		if s, ok := g.store.Get(h); ok {
			snap.timings = append(snap.timings, streamTiming{h, s.DelayUsec, s.NextStreamOffsetUsec})
		}
	}
	return snap
}

func (g *GroupContext) restore(snap groupSnapshot) {
	g.Packing = snap.packing
	g.packingDecided = snap.packingDecided
	g.IsoInterval = snap.isoInterval
	g.AnchorPointUsec = snap.anchor
	g.CigSyncDelayUsec = snap.cigSyncDelay
	g.IsBodBuilt = snap.built
	for _, t := range snap.timings {
		if s, ok := g.store.Get(t.h); ok {
			s.DelayUsec = t.delay
			s.NextStreamOffsetUsec = t.next
		}
	}
}
