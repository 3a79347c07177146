package lctr

import (
	"github.com/pkg/errors"
)

// Placement is the outcome of placing one stream into its CIG.
type Placement struct {
	AnchorUsec      uint64
	CisEventCounter uint16
	Packing         Packing
	Committed       bool
}

type plan struct {
	first        bool
	packing      Packing
	groupAnchor  uint64
	cisEvent     uint16
	anchorOffset uint64
	anchorUsec   uint64
	trailing     bool
	timings      []streamTiming
}

// PlaceStream links the stream h into g without overlapping the streams
// already scheduled there. Either the whole placement is applied or g and
// its streams are left as they were.
func PlaceStream(g *GroupContext, conn ConnParams, h Handle) (Placement, error) {
	s, ok := g.store.Get(h)
	switch {
	case !ok:
		return Placement{}, invalidParam("unknown stream %v", h)
	case s.Linked():
		return Placement{}, invalidParam("stream %v already placed", h)
	case conn.IntervalUsec == 0:
		return Placement{}, invalidParam("connection interval is zero")
	case g.IsBodBuilt && s.IsoInterval != g.IsoInterval:
		return Placement{}, invalidParam("IsoInterval %v differs from cig IsoInterval %v", s.IsoInterval, g.IsoInterval)
	}

	p, err := planPlacement(g, conn, s)
	if err != nil {
		return Placement{}, errors.Wrapf(err, "cis %v", s.CisID)
	}

	snap := g.snapshot()
	if err := g.apply(s, p); err != nil {
		g.unapply(s, snap)
		return Placement{}, err
	}

	committed := false
	if !g.IsBodStarted {
		if err := g.commit(); err != nil {
			g.unapply(s, snap)
			return Placement{}, errors.Wrapf(err, "cig %v: build bod", g.CigID)
		}
		committed = true
	}

	g.log.Debugf("cis %v placed: anchor %v, cis event %v, delay %v, next offset %v",
		s.CisID, p.anchorUsec, s.CisEventCounter, s.DelayUsec, s.NextStreamOffsetUsec)

	return Placement{
		AnchorUsec:      p.anchorUsec,
		CisEventCounter: s.CisEventCounter,
		Packing:         g.Packing,
		Committed:       committed,
	}, nil
}

// anchorOffset is the stream's first anchor relative to the current ACL
// anchor. A reference event behind the current one yields past=true.
func anchorOffset(conn ConnParams, s *StreamContext) (uint64, bool) {
	diff := s.CeRef - conn.EventCounter
	if diff >= eventCounterHalf {
		return 0, true
	}
	return uint64(diff)*uint64(conn.IntervalUsec) + uint64(s.OffsetUsec), false
}

// aclRefTime is the ACL anchor of the event after the stream's reference event.
func aclRefTime(conn ConnParams, s *StreamContext) uint64 {
	diff := int64(int16(s.CeRef - conn.EventCounter))
	t := int64(conn.AnchorPointUsec) + (diff+1)*int64(conn.IntervalUsec)
	if t < 0 {
		return 0
	}
	return uint64(t)
}

// cisEventSearchLimit bounds the reference event search to the number of ISO
// intervals a full event counter range of the ACL can span.
func cisEventSearchLimit(conn ConnParams, g *GroupContext) uint64 {
	iso := g.IsoIntervalUsec()
	if iso == 0 {
		return 0
	}
	n := uint64(0xFFFF)*uint64(conn.IntervalUsec)/iso + 2
	if n > 0xFFFF {
		n = 0xFFFF
	}
	return n
}

func findCisEvent(g *GroupContext, conn ConnParams, s *StreamContext) (uint16, error) {
	ref := aclRefTime(conn, s)
	iso := g.IsoIntervalUsec()
	limit := cisEventSearchLimit(conn, g)

	for k := uint64(1); k <= limit; k++ {
		if g.AnchorPointUsec+k*iso > ref {
			return uint16(k), nil
		}
	}

	return 0, newError(OffsetSearchExhausted, "no cig event after acl ref %v within %v iso intervals", ref, limit)
}

func planPlacement(g *GroupContext, conn ConnParams, s *StreamContext) (*plan, error) {
	p := &plan{}

	off, past := anchorOffset(conn, s)
	if past {
		g.log.Warnf("cis %v: reference event %v already past conn event %v", s.CisID, s.CeRef, conn.EventCounter)
	}
	p.anchorOffset = off

	start := uint64(s.StartOffsetUsec())
	iso := uint64(s.IsoInterval) * isoIntervalUnitUsec

	if !g.IsBodBuilt {
		abs := conn.AnchorPointUsec + off
		switch {
		case abs < start:
			return nil, invalidParam("cis anchor %v precedes cig anchor", abs)
		case start+uint64(s.DurationUsec()) > iso:
			return nil, newError(UnsupportedFeature, "%v usec of sub-events at %v do not fit iso interval %v",
				s.DurationUsec(), start, iso)
		}

		p.first = true
		p.packing = Sequential
		p.groupAnchor = abs - start
		p.anchorUsec = abs
		p.timings = []streamTiming{{h: s.handle, delay: s.DurationUsec()}}
		return p, nil
	}

	k, err := findCisEvent(g, conn, s)
	if err != nil {
		return nil, err
	}
	p.cisEvent = k
	p.anchorUsec = g.AnchorPointUsec + uint64(k)*g.IsoIntervalUsec() + start

	head, ok := g.store.Get(g.Streams.Head())
	if !ok {
		return nil, invalidParam("cig %v has no streams", g.CigID)
	}

	p.packing = g.Packing
	if !g.packingDecided && g.Streams.Count() == 1 {
		if start < uint64(head.StartOffsetUsec())+uint64(head.SubIntervalUsec) {
			p.packing = Interleaved
		} else {
			p.packing = Sequential
		}
		g.log.Infof("cis %v starts at %v, head slot ends at %v: %v packing",
			s.CisID, start, uint64(head.StartOffsetUsec())+uint64(head.SubIntervalUsec), p.packing)
	}

	switch p.packing {
	case Interleaved:
		err = planInterleaved(g, s, head, p)
	default:
		err = planSequential(g, s, head, p)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func planSequential(g *GroupContext, s, head *StreamContext, p *plan) error {
	prevHandle := g.Streams.Tail()
	prev, _ := g.store.Get(prevHandle)

	start := s.StartOffsetUsec()
	prevEnd := prev.StartOffsetUsec() + prev.DurationUsec()
	iso := g.IsoIntervalUsec()

	switch {
	case start < prevEnd:
		return newError(UnsupportedFeature, "start %v overlaps cis %v slot ending at %v", start, prev.CisID, prevEnd)
	case uint64(start)+uint64(s.DurationUsec()) > iso:
		return newError(UnsupportedFeature, "slot ending at %v exceeds iso interval %v",
			uint64(start)+uint64(s.DurationUsec()), iso)
	}

	// chain from the head: what is left after the earlier offsets
	next := start - head.StartOffsetUsec()
	for h := g.Streams.Head(); h.Valid() && h != prevHandle; h = g.Streams.Next(h) {
		c, _ := g.store.Get(h)
		next -= c.NextStreamOffsetUsec
	}

	p.timings = []streamTiming{
		{h: prevHandle, delay: prev.DelayUsec, next: next},
		{h: s.handle, delay: s.DurationUsec()},
	}
	return nil
}

func planInterleaved(g *GroupContext, s, head *StreamContext, p *plan) error {
	tailHandle := g.Streams.Tail()
	tail, _ := g.store.Get(tailHandle)

	sub := head.SubIntervalUsec
	start := s.StartOffsetUsec()
	roundEnd := head.StartOffsetUsec() + sub

	if tail.trailing || start+s.SubEventLenUsec() > roundEnd {
		return planTrailing(g, s, tail, p)
	}

	prevEnd := tail.StartOffsetUsec() + tail.SubEventLenUsec()
	rounds := uint64(s.Nse)
	if rounds == 0 {
		rounds = 1
	}
	lastEnd := uint64(start) + (rounds-1)*uint64(sub) + uint64(s.SubEventLenUsec())

	switch {
	case s.SubIntervalUsec != sub:
		return newError(UnsupportedFeature, "sub interval %v differs from cig sub interval %v", s.SubIntervalUsec, sub)
	case start < prevEnd:
		return newError(UnsupportedFeature, "start %v overlaps cis %v sub-event ending at %v", start, tail.CisID, prevEnd)
	case lastEnd > g.IsoIntervalUsec():
		return newError(UnsupportedFeature, "last sub-event ending at %v exceeds iso interval %v", lastEnd, g.IsoIntervalUsec())
	}

	p.timings = []streamTiming{
		{h: tailHandle, delay: start - tail.StartOffsetUsec(), next: tail.NextStreamOffsetUsec},
		{h: s.handle, delay: roundEnd - start},
	}
	if pp, ok := g.store.Get(tail.prev); ok {
		p.timings = append(p.timings, streamTiming{
			h:     tail.prev,
			delay: tail.StartOffsetUsec() - pp.StartOffsetUsec(),
			next:  pp.NextStreamOffsetUsec,
		})
	}
	return nil
}

// planTrailing places s back to back after the interleaved rounds, or after
// the last stream already trailing them.
func planTrailing(g *GroupContext, s, tail *StreamContext, p *plan) error {
	start := s.StartOffsetUsec()
	end := uint64(start) + uint64(s.DurationUsec())

	free := uint64(tail.StartOffsetUsec()) + uint64(tail.DelayUsec)
	if !tail.trailing {
		free = interleavedEnd(g)
	}

	switch {
	case s.Nse == 0:
		return invalidParam("cis %v has no sub-events", s.CisID)
	case uint64(start) < free:
		return newError(UnsupportedFeature, "start %v overlaps slots ending at %v", start, free)
	case end > g.IsoIntervalUsec():
		return newError(UnsupportedFeature, "slot ending at %v exceeds iso interval %v", end, g.IsoIntervalUsec())
	}

	p.trailing = true
	p.timings = []streamTiming{
		{h: tail.handle, delay: tail.DelayUsec, next: start - tail.StartOffsetUsec()},
		{h: s.handle, delay: s.DurationUsec()},
	}
	return nil
}

// interleavedEnd is where the last round of the interleaved streams ends.
func interleavedEnd(g *GroupContext) uint64 {
	var end uint64
	for _, h := range g.Streams.Handles() {
		c, _ := g.store.Get(h)
		if c.trailing {
			continue
		}
		rounds := uint64(c.Nse)
		if rounds == 0 {
			rounds = 1
		}
		e := uint64(c.StartOffsetUsec()) + (rounds-1)*uint64(c.SubIntervalUsec) + uint64(c.DelayUsec)
		if e > end {
			end = e
		}
	}
	return end
}

func (g *GroupContext) apply(s *StreamContext, p *plan) error {
	if p.first {
		if err := g.Streams.InsertHead(s.handle); err != nil {
			return err
		}
		g.IsoInterval = s.IsoInterval
		g.Packing = Sequential
		g.AnchorPointUsec = p.groupAnchor
	} else {
		if err := g.Streams.InsertTail(s.handle); err != nil {
			return err
		}
		if !g.packingDecided && g.Streams.Count() == 2 {
			g.Packing = p.packing
			g.packingDecided = true
		}
	}

	s.CisEventCounter = p.cisEvent
	s.AnchorOffsetUsec = p.anchorOffset
	s.trailing = p.trailing
	g.CigSyncDelayUsec = s.CigSyncDelayUsec

	for _, t := range p.timings {
		if c, ok := g.store.Get(t.h); ok {
			c.DelayUsec = t.delay
			c.NextStreamOffsetUsec = t.next
		}
	}
	return nil
}

func (g *GroupContext) unapply(s *StreamContext, snap groupSnapshot) {
	if g.Streams.Contains(s.handle) {
		_ = g.Streams.Remove(s.handle)
	}
	g.restore(snap)
	s.CisEventCounter = 0
	s.AnchorOffsetUsec = 0
	s.DelayUsec = 0
	s.NextStreamOffsetUsec = 0
	s.trailing = false
}
