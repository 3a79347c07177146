package llcp

import (
	"bytes"
	"reflect"
	"testing"
)

func TestCisReqLayout(t *testing.T) {
	req := &CisReq{
		CigID:           1,
		CisID:           2,
		PhyMToS:         0x02,
		PhySToM:         0x01,
		Framed:          true,
		MaxSduMToS:      0x0123,
		MaxSduSToM:      0x0040,
		SduIntervalMToS: 10000,
		SduIntervalSToM: 0x0FFFFF,
		MaxPduMToS:      40,
		MaxPduSToM:      251,
		Nse:             3,
		SubIntervalUsec: 2500,
		BnMToS:          1,
		BnSToM:          2,
		FtMToS:          1,
		FtSToM:          4,
		IsoInterval:     8,
		OffsetMinUsec:   500,
		OffsetMaxUsec:   5000,
		ConnEventCount:  0x1234,
	}

	b, err := Encode(req)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(b) != 1+cisReqLen {
		t.Fatalf("expected %v bytes, got %v", 1+cisReqLen, len(b))
	}
	if b[0] != OpCisReq {
		t.Fatalf("bad opcode %x", b[0])
	}
	// framed flag lives in the top bit of Max_SDU_M_To_S
	if b[5] != 0x23 || b[6] != 0x81 {
		t.Fatalf("bad max sdu encoding % x", b[5:7])
	}
	// BN nibbles: M->S low, S->M high
	if b[23] != 0x21 {
		t.Fatalf("bad bn encoding %x", b[23])
	}
	if !bytes.Equal(b[34:36], []byte{0x34, 0x12}) {
		t.Fatalf("bad conn event count % x", b[34:36])
	}

	p, err := Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(p, req) {
		t.Fatalf("decoded %+v, expected %+v", p, req)
	}
}

func TestCisIndLayout(t *testing.T) {
	ind := []byte{OpCisInd,
		0x78, 0x56, 0x34, 0x12, // access address
		0xd0, 0x07, 0x00, // offset 2000
		0x10, 0x27, 0x00, // cig sync delay 10000
		0x88, 0x13, 0x00, // cis sync delay 5000
		0x05, 0x00, // conn event count
	}

	p, err := Decode(ind)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	got, ok := p.(*CisInd)
	if !ok {
		t.Fatalf("expected *CisInd, got %T", p)
	}

	exp := &CisInd{
		AccessAddress:    0x12345678,
		OffsetUsec:       2000,
		CigSyncDelayUsec: 10000,
		CisSyncDelayUsec: 5000,
		ConnEventCount:   5,
	}
	if !reflect.DeepEqual(got, exp) {
		t.Fatalf("decoded %+v, expected %+v", got, exp)
	}
}

func TestRejectAndTerminateEncode(t *testing.T) {
	b, err := Encode(&RejectExtInd{RejectOpcode: OpCisReq, ErrorCode: 0x1e})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, []byte{OpRejectExtInd, OpCisReq, 0x1e}) {
		t.Fatalf("bad reject encoding % x", b)
	}

	b, err = Encode(&CisTerminateInd{CigID: 3, CisID: 4, ErrorCode: 0x13})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, []byte{OpCisTerminateInd, 3, 4, 0x13}) {
		t.Fatalf("bad terminate encoding % x", b)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode(nil); err == nil {
		t.Fatal("no error on empty pdu")
	}

	if _, err := Decode([]byte{0x7f, 0x00}); err == nil {
		t.Fatal("no error on unknown opcode")
	}

	// truncated cis rsp
	if _, err := Decode([]byte{OpCisRsp, 0x00, 0x00, 0x00, 0x10}); err == nil {
		t.Fatal("no error on truncated pdu")
	}

	var rsp CisRsp
	if err := rsp.Unmarshal([]byte{0x01, 0x02}); err == nil {
		t.Fatal("no error from short unmarshal")
	}

	if err := rsp.Marshal(make([]byte, 3)); err == nil {
		t.Fatal("no error from short marshal buffer")
	}
}
