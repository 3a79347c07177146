package lctr

import (
	"fmt"
	"sort"
)

// Slot is one reserved window of a stream, relative to the CIG anchor.
type Slot struct {
	Handle    Handle
	CisID     uint8
	Round     int
	StartUsec uint64
	EndUsec   uint64
}

// Layout expands the group's delay and next-stream offset chain into the
// windows each stream occupies within one ISO interval, ordered by start
// time. The walk starts at the head's first sub-event.
func Layout(g *GroupContext) []Slot {
	var out []Slot

	head, ok := g.store.Get(g.Streams.Head())
	if !ok {
		return out
	}
	sub := uint64(head.SubIntervalUsec)
	pos := uint64(head.StartOffsetUsec())

	for _, h := range g.Streams.Handles() {
		s, _ := g.store.Get(h)
		delay := uint64(s.DelayUsec)

		step, width := sub, delay
		if g.Packing != Interleaved || s.trailing {
			// back to back sub-events sharing the reserved time
			step, width = delay, delay
			if s.Nse > 0 {
				step = delay / uint64(s.Nse)
				width = step
			}
		}

		for j := 0; j < int(s.Nse); j++ {
			sl := Slot{Handle: h, CisID: s.CisID, Round: j}
			sl.StartUsec = pos + uint64(j)*step
			sl.EndUsec = sl.StartUsec + width
			out = append(out, sl)
		}

		switch {
		case s.NextStreamOffsetUsec != 0:
			pos += uint64(s.NextStreamOffsetUsec)
		case g.Packing == Interleaved && !s.trailing:
			pos += delay
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartUsec < out[j].StartUsec
	})
	return out
}

// CheckLayout fails on the first pair of overlapping or empty windows.
func CheckLayout(slots []Slot) error {
	for i, s := range slots {
		if s.EndUsec <= s.StartUsec {
			return fmt.Errorf("cis %v round %v: empty window [%v, %v)", s.CisID, s.Round, s.StartUsec, s.EndUsec)
		}
		if i == 0 {
			continue
		}
		p := slots[i-1]
		if s.StartUsec < p.EndUsec {
			return fmt.Errorf("cis %v round %v [%v, %v) overlaps cis %v round %v [%v, %v)",
				s.CisID, s.Round, s.StartUsec, s.EndUsec, p.CisID, p.Round, p.StartUsec, p.EndUsec)
		}
	}
	return nil
}
