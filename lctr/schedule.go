package lctr

import "github.com/rigado/bleiso"

// Schedule flattens the group into its persisted form.
func (g *GroupContext) Schedule(aclHandle uint16) bleiso.Schedule {
	sch := bleiso.Schedule{
		AclHandle:       aclHandle,
		CigID:           g.CigID,
		Packing:         g.Packing.String(),
		IsoIntervalUsec: g.IsoIntervalUsec(),
		AnchorUsec:      g.AnchorPointUsec,
		EventCounter:    g.EventCounter,
		Built:           g.IsBodBuilt,
		Started:         g.IsBodStarted,
	}

	for _, h := range g.Streams.Handles() {
		s, ok := g.store.Get(h)
		if !ok {
			continue
		}
		sch.Streams = append(sch.Streams, bleiso.ScheduleEntry{
			CisID:                s.CisID,
			CisHandle:            s.CisHandle,
			StartUsec:            s.StartOffsetUsec(),
			Nse:                  s.Nse,
			SubIntervalUsec:      s.SubIntervalUsec,
			DelayUsec:            s.DelayUsec,
			NextStreamOffsetUsec: s.NextStreamOffsetUsec,
			Trailing:             s.trailing,
		})
	}
	return sch
}

// Schedules snapshots every committed group of the connection.
func (c *Coordinator) Schedules() []bleiso.Schedule {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []bleiso.Schedule
	for _, g := range c.sortedGroups() {
		if g.IsBodBuilt {
			out = append(out, g.Schedule(c.conn.Handle))
		}
	}
	return out
}
