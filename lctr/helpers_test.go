package lctr

import "testing"

var baseConn = ConnParams{
	Handle:          0x0040,
	IntervalUsec:    7500,
	EventCounter:    100,
	AnchorPointUsec: 1000000,
}

// 2M with 10 octet PDUs: 468 usec per sub-event
func baseReq(cigID, cisID uint8) StreamRequest {
	return StreamRequest{
		CigID:           cigID,
		CisID:           cisID,
		PhyMToS:         Phy2M,
		PhySToM:         Phy2M,
		Framing:         FramingUnframed,
		MaxSduMToS:      10,
		MaxSduSToM:      10,
		SduIntervalMToS: 10000,
		SduIntervalSToM: 10000,
		MaxPduMToS:      10,
		MaxPduSToM:      10,
		Nse:             2,
		SubIntervalUsec: 2000,
		BnMToS:          1,
		BnSToM:          1,
		FtMToS:          1,
		FtSToM:          1,
		IsoInterval:     10,
		OffsetMinUsec:   500,
		OffsetMaxUsec:   3000,
		CeRef:           102,
	}
}

// singleEventReq asks for one 1000 usec sub-event per ISO event.
func singleEventReq(cigID, cisID uint8) StreamRequest {
	req := baseReq(cigID, cisID)
	req.Nse = 1
	req.SubIntervalUsec = 1000
	req.OffsetMaxUsec = 5000
	return req
}

// ind places a stream start usec after the CIG anchor.
func ind(start uint32) StreamIndication {
	return StreamIndication{
		AccessAddress:    0x8E89BED6,
		OffsetUsec:       2000,
		CigSyncDelayUsec: 4000 + start,
		CisSyncDelayUsec: 4000,
		CeRef:            102,
	}
}

func newStream(t *testing.T, st *Store, req StreamRequest, in StreamIndication) Handle {
	t.Helper()
	h, s, err := st.Alloc()
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	s.applyRequest(req)
	s.applyIndication(in)
	return h
}

type countingBuilder struct {
	calls int
	err   error
}

func (b *countingBuilder) BuildBod(g *GroupContext) error {
	b.calls++
	return b.err
}
