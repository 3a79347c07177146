package evt

import (
	"testing"
)

func TestCISEstablishedPacket(t *testing.T) {
	e := NewLECISEstablished(CISEstablishedParams{
		Status:           0x00,
		ConnectionHandle: 0x0101,
		CIGSyncDelayUsec: 0x012345,
		CISSyncDelayUsec: 4500,
		NSE:              2,
		ISOInterval:      10,
	})

	pkt, err := Packet(e)
	if err != nil {
		t.Fatal(err)
	}
	if pkt[0] != LEMetaCode || int(pkt[1]) != leCISEstablishedLen {
		t.Fatalf("bad header % x", pkt[:2])
	}

	sub, err := Subevent(pkt)
	if err != nil {
		t.Fatal(err)
	}

	got := LECISEstablished(sub)
	if c, _ := got.SubeventCodeWErr(); c != LECISEstablishedSubCode {
		t.Fatalf("bad subevent code %x", c)
	}
	if got.ConnectionHandle() != 0x0101 {
		t.Fatalf("bad handle %x", got.ConnectionHandle())
	}
	if got.CIGSyncDelay() != 0x012345 || got.CISSyncDelay() != 4500 {
		t.Fatalf("bad sync delays %v %v", got.CIGSyncDelay(), got.CISSyncDelay())
	}
	if n, _ := got.NSEWErr(); n != 2 {
		t.Fatalf("bad nse %v", n)
	}
	if iso, _ := got.ISOIntervalWErr(); iso != 10 {
		t.Fatalf("bad iso interval %v", iso)
	}
}

func TestCISRequest(t *testing.T) {
	e := NewLECISRequest(0x0040, 0x0100, 1, 7)
	if h := e.CISConnectionHandle(); h != 0x0100 {
		t.Fatalf("bad cis handle %x", h)
	}
	if h, _ := e.ACLConnectionHandleWErr(); h != 0x0040 {
		t.Fatalf("bad acl handle %x", h)
	}
	if id, _ := e.CISIDWErr(); id != 7 {
		t.Fatalf("bad cis id %v", id)
	}
}

func TestSubeventErrors(t *testing.T) {
	if _, err := Subevent([]byte{0x0e, 0x01, 0x00}); err == nil {
		t.Fatal("no error on non-meta event")
	}
	if _, err := Subevent([]byte{LEMetaCode, 0x05, 0x19}); err == nil {
		t.Fatal("no error on bad length")
	}
	if _, err := LECISEstablished([]byte{LECISEstablishedSubCode}).StatusWErr(); err == nil {
		t.Fatal("no error on truncated event")
	}
	if _, err := Packet(nil); err == nil {
		t.Fatal("no error on empty subevent")
	}
}
