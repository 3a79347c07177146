package lctr

import (
	"testing"

	"github.com/rigado/bleiso/evt"
	"github.com/rigado/bleiso/llcp"
)

func encode(t *testing.T, p llcp.PDU) []byte {
	t.Helper()
	b, err := llcp.Encode(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return b
}

func TestHandlePDUEstablish(t *testing.T) {
	c, s := newTestCoordinator(t)

	req := baseReq(1, 4)
	req.Framing = FramingFramed
	if err := c.HandlePDU(encode(t, req.PDU())); err != nil {
		t.Fatal(err)
	}

	st, ok := c.Stream(0x0100)
	if !ok {
		t.Fatal("no stream after cis req")
	}
	if st.Req != req {
		t.Fatalf("request did not survive the round trip:\n%+v\n%+v", st.Req, req)
	}

	if err := c.AcceptCisReq(0x0100); err != nil {
		t.Fatal(err)
	}
	if err := c.HandlePDU(encode(t, ind(0).PDU())); err != nil {
		t.Fatal(err)
	}

	sub, err := evt.Subevent(s.events[len(s.events)-1])
	if err != nil {
		t.Fatal(err)
	}
	est := evt.LECISEstablished(sub)
	if est.Status() != StatusSuccess {
		t.Fatalf("expected success, got 0x%02x", est.Status())
	}
	// framed: 4000 + 10000 + 1*12500
	if lat, _ := est.TransportLatencyPToCWErr(); lat != 26500 {
		t.Fatalf("bad transport latency %v", lat)
	}

	// cis rsp from a peer is not expected on this side
	if err := c.HandlePDU(encode(t, &llcp.CisRsp{})); err != nil {
		t.Fatal(err)
	}
}

func TestHandlePDUPeerTerminate(t *testing.T) {
	c, s := newTestCoordinator(t)
	h, _ := establish(t, c, baseReq(2, 5), ind(0))
	sent := len(s.pdus)

	err := c.HandlePDU(encode(t, &llcp.CisTerminateInd{CigID: 2, CisID: 5, ErrorCode: StatusRemoteUserTerminated}))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Stream(h); ok {
		t.Fatal("stream survived peer terminate")
	}
	if len(c.Groups()) != 0 {
		t.Fatal("group survived its last stream")
	}
	if len(s.pdus) != sent {
		t.Fatal("peer terminate must not be answered")
	}

	err = c.HandlePDU(encode(t, &llcp.CisTerminateInd{CigID: 2, CisID: 5}))
	if err == nil {
		t.Fatal("terminate for unknown cis accepted")
	}
}

func TestHandlePDUPeerReject(t *testing.T) {
	c, s := newTestCoordinator(t)

	h, err := c.HandleCisReq(baseReq(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if err := c.AcceptCisReq(h); err != nil {
		t.Fatal(err)
	}

	err = c.HandlePDU(encode(t, &llcp.RejectExtInd{RejectOpcode: llcp.OpCisRsp, ErrorCode: StatusInvalidLLParameters}))
	if err != nil {
		t.Fatal(err)
	}

	sub, _ := evt.Subevent(s.events[len(s.events)-1])
	if st := evt.LECISEstablished(sub).Status(); st != StatusInvalidLLParameters {
		t.Fatalf("expected 0x%02x, got 0x%02x", StatusInvalidLLParameters, st)
	}
	if _, ok := c.Stream(h); ok {
		t.Fatal("stream survived peer reject")
	}

	err = c.HandlePDU(encode(t, &llcp.RejectExtInd{RejectOpcode: llcp.OpCisRsp}))
	if err == nil {
		t.Fatal("reject without procedure accepted")
	}
	err = c.HandlePDU(encode(t, &llcp.RejectExtInd{RejectOpcode: llcp.OpCisReq}))
	if err == nil {
		t.Fatal("reject of unrelated opcode accepted")
	}
}

func TestHandlePDUBadInput(t *testing.T) {
	c, _ := newTestCoordinator(t)

	for _, b := range [][]byte{nil, {0x02}, {llcp.OpCisReq, 0x01}} {
		if err := c.HandlePDU(b); err == nil {
			t.Errorf("% x: expected error", b)
		}
	}
}
