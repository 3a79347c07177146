package lctr

import (
	"testing"
)

func TestValidateStreamRequest(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(r *StreamRequest)
		valid bool
	}{
		{"base", func(r *StreamRequest) {}, true},
		{"iso interval min", func(r *StreamRequest) { r.IsoInterval = IsoIntervalMin }, true},
		{"iso interval too small", func(r *StreamRequest) { r.IsoInterval = IsoIntervalMin - 1 }, false},
		{"iso interval max", func(r *StreamRequest) { r.IsoInterval = IsoIntervalMax }, true},
		{"iso interval too big", func(r *StreamRequest) { r.IsoInterval = IsoIntervalMax + 1 }, false},
		{"nse zero", func(r *StreamRequest) { r.Nse = 0 }, false},
		{"nse too big", func(r *StreamRequest) { r.Nse = NseMax + 1; r.SubIntervalUsec = 100 }, false},
		{"framed", func(r *StreamRequest) { r.Framing = FramingFramed }, true},
		{"bad framing", func(r *StreamRequest) { r.Framing = 2 }, false},
		{"max sdu m->s", func(r *StreamRequest) { r.MaxSduMToS = MaxSduMax }, true},
		{"max sdu m->s too big", func(r *StreamRequest) { r.MaxSduMToS = MaxSduMax + 1 }, false},
		{"max sdu s->m too big", func(r *StreamRequest) { r.MaxSduSToM = MaxSduMax + 1 }, false},
		{"sdu interval m->s too big", func(r *StreamRequest) { r.SduIntervalMToS = SduIntervalMax + 1 }, false},
		{"sdu interval s->m too big", func(r *StreamRequest) { r.SduIntervalSToM = SduIntervalMax + 1 }, false},
		{"max pdu m->s", func(r *StreamRequest) { r.MaxPduMToS = MaxPduMax }, true},
		{"max pdu m->s too big", func(r *StreamRequest) { r.MaxPduMToS = MaxPduMax + 1 }, false},
		{"max pdu s->m too big", func(r *StreamRequest) { r.MaxPduSToM = MaxPduMax + 1 }, false},
		{"phy coded", func(r *StreamRequest) { r.PhyMToS = PhyCoded }, true},
		{"phy none", func(r *StreamRequest) { r.PhyMToS = 0 }, false},
		{"phy two bits", func(r *StreamRequest) { r.PhySToM = Phy1M | Phy2M }, false},
		{"phy reserved", func(r *StreamRequest) { r.PhySToM = 0x08 }, false},
		{"ft zero m->s", func(r *StreamRequest) { r.FtMToS = 0 }, false},
		{"ft zero s->m", func(r *StreamRequest) { r.FtSToM = 0 }, false},
		{"ft max", func(r *StreamRequest) { r.FtSToM = FtMax }, true},
		{"bn max", func(r *StreamRequest) { r.BnMToS = BnMax }, true},
		{"bn too big m->s", func(r *StreamRequest) { r.BnMToS = BnMax + 1 }, false},
		{"bn too big s->m", func(r *StreamRequest) { r.BnSToM = BnMax + 1 }, false},
		{"offset max below min", func(r *StreamRequest) { r.OffsetMinUsec = 3001 }, false},
		{"offset min equals max", func(r *StreamRequest) { r.OffsetMinUsec = 3000 }, true},
		// 7500 - (2*2000 - 200) = 3700
		{"offset just below size limit", func(r *StreamRequest) { r.OffsetMaxUsec = 3699 }, true},
		{"offset at size limit", func(r *StreamRequest) { r.OffsetMaxUsec = 3700 }, false},
		{"burst longer than interval", func(r *StreamRequest) { r.Nse = 5; r.OffsetMinUsec = 0; r.OffsetMaxUsec = 0 }, false},
	}

	for _, tc := range tests {
		req := baseReq(1, 1)
		tc.edit(&req)
		err := ValidateStreamRequest(baseConn, req, DefaultSetupDelayUsec)
		if tc.valid && err != nil {
			t.Errorf("%v: unexpected error %v", tc.name, err)
		}
		if !tc.valid {
			if err == nil {
				t.Errorf("%v: expected error", tc.name)
			} else if KindOf(err) != InvalidParameter {
				t.Errorf("%v: expected invalid parameter, got %v", tc.name, err)
			}
		}
	}
}

func TestValidateStreamRequestFirstFailureWins(t *testing.T) {
	req := baseReq(1, 1)
	req.Nse = 0
	req.MaxPduMToS = 300

	err := ValidateStreamRequest(baseConn, req, DefaultSetupDelayUsec)
	if err == nil {
		t.Fatal("expected error")
	}
	if want := "invalid parameter: invalid Nse 0"; err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestValidateStreamRequestTooBig(t *testing.T) {
	// 7500 - (1*1000 - 200) leaves 6700 usec for the offset window
	tests := []struct {
		name      string
		offsetMax uint32
		valid     bool
	}{
		{"fits", 5000, true},
		{"last fitting offset", 6699, true},
		{"at limit", 6700, false},
		{"past limit", 7400, false},
	}

	for _, tc := range tests {
		req := singleEventReq(1, 1)
		req.OffsetMaxUsec = tc.offsetMax

		err := ValidateStreamRequest(baseConn, req, 200)
		if tc.valid {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		if KindOf(err) != InvalidParameter {
			t.Fatalf("%s: expected invalid parameter, got %v", tc.name, err)
		}
		if StatusOf(err) != StatusInvalidLLParameters {
			t.Fatalf("%s: expected status 0x%02x, got 0x%02x", tc.name, StatusInvalidLLParameters, StatusOf(err))
		}
	}
}

func TestValidateStreamIndication(t *testing.T) {
	req := baseReq(1, 1)

	tests := []struct {
		name  string
		in    StreamIndication
		valid bool
	}{
		{"base", ind(0), true},
		{"offset min", StreamIndication{OffsetUsec: 500}, true},
		{"offset max", StreamIndication{OffsetUsec: 3000}, true},
		{"offset below window", StreamIndication{OffsetUsec: 499}, false},
		{"offset above window", StreamIndication{OffsetUsec: 3001}, false},
		{"cis sync after cig sync", StreamIndication{OffsetUsec: 1000, CigSyncDelayUsec: 100, CisSyncDelayUsec: 200}, false},
	}

	for _, tc := range tests {
		err := ValidateStreamIndication(req, tc.in)
		if tc.valid != (err == nil) {
			t.Errorf("%v: valid %v, got %v", tc.name, tc.valid, err)
		}
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		kind   ErrorKind
		status uint8
	}{
		{InvalidParameter, 0x1E},
		{UnsupportedFeature, 0x11},
		{ResourceExhausted, 0x0D},
		{OffsetSearchExhausted, 0x1F},
		{ProcedureCollision, 0x23},
	}

	for _, tc := range tests {
		if s := StatusOf(newError(tc.kind, "x")); s != tc.status {
			t.Errorf("%v: expected 0x%02x, got 0x%02x", tc.kind, tc.status, s)
		}
	}
	if StatusOf(nil) != StatusSuccess {
		t.Error("nil error should map to success")
	}
}
