package lctr

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/rigado/bleiso"
	"github.com/rigado/bleiso/evt"
	"github.com/rigado/bleiso/llcp"
)

// Coordinator runs the peripheral side of the CIS establishment procedure
// for one ACL connection. All methods are serialized on one mutex, so a
// coordinator is the single writer of its groups and streams.
type Coordinator struct {
	mu sync.Mutex

	conn           ConnParams
	setupDelayUsec uint32
	maxGroups      int
	maxStreams     int
	hostSupport    bool
	writePDU       func([]byte) error
	writeEvent     func([]byte) error
	builder        BodBuilder
	log            bleiso.Logger

	store   *Store
	groups  map[uint8]*GroupContext
	handles map[uint16]Handle
	pending Handle
}

func NewCoordinator(conn ConnParams, opts ...bleiso.Option) (*Coordinator, error) {
	c := &Coordinator{
		conn:           conn,
		setupDelayUsec: DefaultSetupDelayUsec,
		maxGroups:      DefaultMaxGroups,
		maxStreams:     DefaultMaxStreams,
		hostSupport:    true,
		log:            bleiso.GetLogger(),
		groups:         make(map[uint8]*GroupContext),
		handles:        make(map[uint16]Handle),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, errors.Wrap(err, "coordinator option")
		}
	}

	c.store = NewStore(c.maxStreams)
	c.log = c.log.ChildLogger(map[string]interface{}{"acl": conn.Handle})
	return c, nil
}

// UpdateConnection records the ACL's latest anchor and event counter.
func (c *Coordinator) UpdateConnection(conn ConnParams) {
	c.mu.Lock()
	defer c.mu.Unlock()
	conn.Handle = c.conn.Handle
	c.conn = conn
}

func (c *Coordinator) Connection() ConnParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

// HandleCisReq admits a peer's LL_CIS_REQ and notifies the host. On failure
// the peer is sent LL_REJECT_EXT_IND and nothing is kept.
func (c *Coordinator) HandleCisReq(req StreamRequest) (uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, err := c.admit(req)
	if err != nil {
		c.log.Warnf("cis req cig %v cis %v rejected: %v", req.CigID, req.CisID, err)
		if serr := c.sendPDU(&llcp.RejectExtInd{RejectOpcode: llcp.OpCisReq, ErrorCode: StatusOf(err)}); serr != nil {
			c.log.Errorf("cis req: %v", serr)
		}
		return 0, err
	}

	s, _ := c.store.Get(h)
	c.log.Debugf("cis req cig %v cis %v admitted as handle 0x%04x", req.CigID, req.CisID, s.CisHandle)
	if err := c.sendEvent(evt.NewLECISRequest(c.conn.Handle, s.CisHandle, s.CigID, s.CisID)); err != nil {
		c.log.Errorf("cis req: %v", err)
	}
	return s.CisHandle, nil
}

func (c *Coordinator) admit(req StreamRequest) (Handle, error) {
	if !c.hostSupport {
		return NilHandle, newError(UnsupportedFeature, "host support for connected isochronous channels not enabled")
	}
	if c.pending.Valid() {
		return NilHandle, newError(ProcedureCollision, "cis procedure already in progress")
	}
	if err := ValidateStreamRequest(c.conn, req, c.setupDelayUsec); err != nil {
		return NilHandle, errors.Wrap(err, "cis req")
	}

	g, exists := c.groups[req.CigID]
	if exists {
		if g.IsBodBuilt && g.IsoInterval != req.IsoInterval {
			return NilHandle, invalidParam("IsoInterval %v differs from cig %v IsoInterval %v", req.IsoInterval, g.CigID, g.IsoInterval)
		}
		for _, mh := range g.Streams.Handles() {
			if m, ok := c.store.Get(mh); ok && m.CisID == req.CisID {
				return NilHandle, invalidParam("cis id %v already in use in cig %v", req.CisID, g.CigID)
			}
		}
	} else {
		for _, o := range c.groups {
			if !o.IsBodBuilt {
				return NilHandle, newError(UnsupportedFeature, "cig %v still being built", o.CigID)
			}
		}
		if len(c.groups) >= c.maxGroups {
			return NilHandle, newError(ResourceExhausted, "no cig context available (max %v)", c.maxGroups)
		}
	}

	h, s, err := c.store.Alloc()
	if err != nil {
		return NilHandle, err
	}
	s.applyRequest(req)
	s.CisHandle = cisHandleBase + h.index
	s.state = streamRequested

	if !exists {
		g = NewGroupContext(req.CigID, c.store, c.builder, c.log)
		c.groups[req.CigID] = g
	}
	c.handles[s.CisHandle] = h
	c.pending = h
	return h, nil
}

// Pending returns the CIS handle of the procedure in progress, if any.
func (c *Coordinator) Pending() (uint16, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.store.Get(c.pending)
	if !ok {
		return 0, false
	}
	return s.CisHandle, true
}

// AcceptCisReq answers the pending request with LL_CIS_RSP.
func (c *Coordinator) AcceptCisReq(cisHandle uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, s, err := c.lookupPending(cisHandle, streamRequested)
	if err != nil {
		return err
	}

	rsp := &llcp.CisRsp{
		OffsetMinUsec:  s.Req.OffsetMinUsec,
		OffsetMaxUsec:  s.Req.OffsetMaxUsec,
		ConnEventCount: s.Req.CeRef,
	}
	if err := c.sendPDU(rsp); err != nil {
		return err
	}
	s.state = streamAccepted
	return nil
}

// RejectCisReq refuses the pending request on behalf of the host.
func (c *Coordinator) RejectCisReq(cisHandle uint16, reason uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, _, err := c.lookupPending(cisHandle, streamRequested)
	if err != nil {
		return err
	}

	c.release(h)
	return c.sendPDU(&llcp.RejectExtInd{RejectOpcode: llcp.OpCisReq, ErrorCode: reason})
}

// HandleCisInd places the accepted stream using the master's LL_CIS_IND and
// reports the outcome to the host with LE CIS Established.
func (c *Coordinator) HandleCisInd(ind StreamIndication) (Placement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.store.Get(c.pending)
	if !ok {
		return Placement{}, invalidParam("no cis procedure in progress")
	}
	if s.state != streamAccepted {
		return Placement{}, invalidParam("unexpected cis ind in state %v", s.state)
	}
	h := c.pending
	g := c.groups[s.CigID]

	var pl Placement
	err := ValidateStreamIndication(s.Req, ind)
	if err == nil {
		s.applyIndication(ind)
		pl, err = PlaceStream(g, c.conn, h)
	}
	if err != nil {
		c.log.Warnf("cis ind cig %v cis %v failed: %v", s.CigID, s.CisID, err)
		if serr := c.sendEvent(c.establishedEvent(StatusOf(err), s)); serr != nil {
			c.log.Errorf("cis ind: %v", serr)
		}
		c.release(h)
		return Placement{}, err
	}

	s.state = streamEstablished
	c.pending = NilHandle
	c.log.Infof("cis %v established in cig %v: anchor %v, cis event %v, %v packing",
		s.CisID, s.CigID, pl.AnchorUsec, pl.CisEventCounter, pl.Packing)
	if err := c.sendEvent(c.establishedEvent(StatusSuccess, s)); err != nil {
		c.log.Errorf("cis ind: %v", err)
	}
	return pl, nil
}

// Terminate tears a stream down locally and tells the peer.
func (c *Coordinator) Terminate(cisHandle uint16, reason uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.handles[cisHandle]
	if !ok {
		return invalidParam("unknown cis handle 0x%04x", cisHandle)
	}
	s, _ := c.store.Get(h)
	ind := &llcp.CisTerminateInd{CigID: s.CigID, CisID: s.CisID, ErrorCode: reason}

	c.release(h)
	return c.sendPDU(ind)
}

// StartGroup marks a committed CIG as running on the radio.
func (c *Coordinator) StartGroup(cigID uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.groups[cigID]
	if !ok {
		return invalidParam("unknown cig %v", cigID)
	}
	return g.Start()
}

// AdvanceGroup moves a CIG's schedule origin forward by whole ISO events.
func (c *Coordinator) AdvanceGroup(cigID uint8, events uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.groups[cigID]
	if !ok {
		return invalidParam("unknown cig %v", cigID)
	}
	g.Advance(events)
	return nil
}

// Group snapshots one group, committed or not.
func (c *Coordinator) Group(cigID uint8) (bleiso.Schedule, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.groups[cigID]
	if !ok {
		return bleiso.Schedule{}, false
	}
	return g.Schedule(c.conn.Handle), true
}

// Groups snapshots every group of the connection ordered by CIG ID.
func (c *Coordinator) Groups() []bleiso.Schedule {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []bleiso.Schedule
	for _, g := range c.sortedGroups() {
		out = append(out, g.Schedule(c.conn.Handle))
	}
	return out
}

// GroupLayout expands one group's windows.
func (c *Coordinator) GroupLayout(cigID uint8) ([]Slot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.groups[cigID]
	if !ok {
		return nil, false
	}
	return Layout(g), true
}

func (c *Coordinator) sortedGroups() []*GroupContext {
	out := make([]*GroupContext, 0, len(c.groups))
	for _, g := range c.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CigID < out[j].CigID
	})
	return out
}

// Stream returns a copy of the stream context behind a CIS handle.
func (c *Coordinator) Stream(cisHandle uint16) (StreamContext, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.handles[cisHandle]
	if !ok {
		return StreamContext{}, false
	}
	s, ok := c.store.Get(h)
	if !ok {
		return StreamContext{}, false
	}
	return *s, true
}

func (c *Coordinator) lookupPending(cisHandle uint16, state streamState) (Handle, *StreamContext, error) {
	h, ok := c.handles[cisHandle]
	if !ok || h != c.pending {
		return NilHandle, nil, invalidParam("cis handle 0x%04x has no procedure in progress", cisHandle)
	}
	s, _ := c.store.Get(h)
	if s.state != state {
		return NilHandle, nil, invalidParam("cis handle 0x%04x in state %v", cisHandle, s.state)
	}
	return h, s, nil
}

// release unlinks and frees a stream, dropping its group once empty.
func (c *Coordinator) release(h Handle) {
	s, ok := c.store.Get(h)
	if !ok {
		return
	}

	g := c.groups[s.CigID]
	if g != nil && s.Linked() {
		if err := g.RemoveStream(h); err != nil {
			c.log.Errorf("release cis %v: %v", s.CisID, err)
		}
	}

	delete(c.handles, s.CisHandle)
	if c.pending == h {
		c.pending = NilHandle
	}
	if err := c.store.Free(h); err != nil {
		c.log.Errorf("release cis %v: %v", s.CisID, err)
	}

	if g != nil && g.Streams.Count() == 0 {
		c.log.Debugf("cig %v empty, removed", g.CigID)
		delete(c.groups, g.CigID)
	}
}

func (c *Coordinator) establishedEvent(status uint8, s *StreamContext) evt.LECISEstablished {
	p := evt.CISEstablishedParams{
		Status:           status,
		ConnectionHandle: s.CisHandle,
	}
	if status != StatusSuccess {
		return evt.NewLECISEstablished(p)
	}

	iso := uint32(s.IsoInterval) * isoIntervalUnitUsec
	framed := s.Req.Framing == FramingFramed

	p.CIGSyncDelayUsec = s.CigSyncDelayUsec
	p.CISSyncDelayUsec = s.CisSyncDelayUsec
	p.TransportLatencyCToP = transportLatency(s.CigSyncDelayUsec, s.Req.FtMToS, iso, s.Req.SduIntervalMToS, framed)
	p.TransportLatencyPToC = transportLatency(s.CigSyncDelayUsec, s.Req.FtSToM, iso, s.Req.SduIntervalSToM, framed)
	p.PHYCToP = uint8(s.Req.PhyMToS)
	p.PHYPToC = uint8(s.Req.PhySToM)
	p.NSE = s.Nse
	p.BNCToP = s.Req.BnMToS
	p.BNPToC = s.Req.BnSToM
	p.FTCToP = s.Req.FtMToS
	p.FTPToC = s.Req.FtSToM
	p.MaxPDUCToP = s.Req.MaxPduMToS
	p.MaxPDUPToC = s.Req.MaxPduSToM
	p.ISOInterval = s.IsoInterval
	return evt.NewLECISEstablished(p)
}

// transportLatency [Vol 6, Part G, 3.2.1 and 3.2.2].
func transportLatency(cigSyncDelay uint32, ft uint8, isoUsec, sduInterval uint32, framed bool) uint32 {
	var l int64
	if framed {
		l = int64(cigSyncDelay) + int64(ft)*int64(isoUsec) + int64(sduInterval)
	} else {
		l = int64(cigSyncDelay) + int64(ft)*int64(isoUsec) - int64(sduInterval)
	}
	if l < 0 {
		return 0
	}
	return uint32(l)
}

func (c *Coordinator) sendPDU(p llcp.PDU) error {
	b, err := llcp.Encode(p)
	if err != nil {
		return err
	}
	if c.writePDU == nil {
		c.log.Debugf("llcp tx (no writer): % x", b)
		return nil
	}
	return errors.Wrap(c.writePDU(b), "write pdu")
}

func (c *Coordinator) sendEvent(sub []byte) error {
	pkt, err := evt.Packet(sub)
	if err != nil {
		return err
	}
	if c.writeEvent == nil {
		c.log.Debugf("hci evt (no writer): % x", pkt)
		return nil
	}
	return errors.Wrap(c.writeEvent(pkt), "write event")
}
