package main

import (
	"fmt"
	"io"
	"io/ioutil"

	"github.com/fatih/color"
	"github.com/mcuadros/go-defaults"
	"github.com/pkg/errors"
	"github.com/rigado/bleiso"
	"github.com/rigado/bleiso/lctr"
	"github.com/rigado/bleiso/llcp"
	"gopkg.in/yaml.v3"
)

// Scenario is a connection plus the control procedures run over it.
type Scenario struct {
	Name       string         `yaml:"name"`
	Connection ConnectionStep `yaml:"connection"`
	Steps      []Step         `yaml:"steps"`
}

type ConnectionStep struct {
	Handle       uint16 `yaml:"handle" default:"64"`
	IntervalUsec uint32 `yaml:"interval_usec" default:"7500"`
	EventCounter uint16 `yaml:"event_counter"`
	AnchorUsec   uint64 `yaml:"anchor_usec"`
}

func (c *ConnectionStep) UnmarshalYAML(value *yaml.Node) error {
	defaults.SetDefaults(c)
	type plain ConnectionStep
	return value.Decode((*plain)(c))
}

func (c ConnectionStep) params() lctr.ConnParams {
	return lctr.ConnParams{
		Handle:          c.Handle,
		IntervalUsec:    c.IntervalUsec,
		EventCounter:    c.EventCounter,
		AnchorPointUsec: c.AnchorUsec,
	}
}

// Step holds exactly one action. Expect names the error kind the action
// must fail with; empty means it must succeed.
type Step struct {
	Request    *RequestStep    `yaml:"request"`
	Reject     *uint8          `yaml:"reject"`
	Indication *IndicationStep `yaml:"indication"`
	Start      *uint8          `yaml:"start"`
	Advance    *AdvanceStep    `yaml:"advance"`
	Terminate  *TerminateStep  `yaml:"terminate"`
	Connection *ConnectionStep `yaml:"connection"`
	Expect     string          `yaml:"expect"`
}

type RequestStep struct {
	CigID           uint8  `yaml:"cig"`
	CisID           uint8  `yaml:"cis"`
	PhyMToS         uint8  `yaml:"phy_m_to_s" default:"2"`
	PhySToM         uint8  `yaml:"phy_s_to_m" default:"2"`
	Framed          bool   `yaml:"framed"`
	MaxSduMToS      uint16 `yaml:"max_sdu_m_to_s" default:"40"`
	MaxSduSToM      uint16 `yaml:"max_sdu_s_to_m" default:"40"`
	SduIntervalMToS uint32 `yaml:"sdu_interval_m_to_s" default:"10000"`
	SduIntervalSToM uint32 `yaml:"sdu_interval_s_to_m" default:"10000"`
	MaxPduMToS      uint16 `yaml:"max_pdu_m_to_s" default:"40"`
	MaxPduSToM      uint16 `yaml:"max_pdu_s_to_m" default:"40"`
	Nse             uint8  `yaml:"nse" default:"2"`
	SubIntervalUsec uint32 `yaml:"sub_interval_usec" default:"2000"`
	BnMToS          uint8  `yaml:"bn_m_to_s" default:"1"`
	BnSToM          uint8  `yaml:"bn_s_to_m" default:"1"`
	FtMToS          uint8  `yaml:"ft_m_to_s" default:"1"`
	FtSToM          uint8  `yaml:"ft_s_to_m" default:"1"`
	IsoInterval     uint16 `yaml:"iso_interval" default:"8"`
	OffsetMinUsec   uint32 `yaml:"offset_min_usec" default:"500"`
	OffsetMaxUsec   uint32 `yaml:"offset_max_usec" default:"3000"`
	CeRef           uint16 `yaml:"ce_ref"`
}

func (r *RequestStep) UnmarshalYAML(value *yaml.Node) error {
	defaults.SetDefaults(r)
	type plain RequestStep
	return value.Decode((*plain)(r))
}

func (r RequestStep) request() lctr.StreamRequest {
	req := lctr.StreamRequest{
		CigID:           r.CigID,
		CisID:           r.CisID,
		PhyMToS:         lctr.Phy(r.PhyMToS),
		PhySToM:         lctr.Phy(r.PhySToM),
		Framing:         lctr.FramingUnframed,
		MaxSduMToS:      r.MaxSduMToS,
		MaxSduSToM:      r.MaxSduSToM,
		SduIntervalMToS: r.SduIntervalMToS,
		SduIntervalSToM: r.SduIntervalSToM,
		MaxPduMToS:      r.MaxPduMToS,
		MaxPduSToM:      r.MaxPduSToM,
		Nse:             r.Nse,
		SubIntervalUsec: r.SubIntervalUsec,
		BnMToS:          r.BnMToS,
		BnSToM:          r.BnSToM,
		FtMToS:          r.FtMToS,
		FtSToM:          r.FtSToM,
		IsoInterval:     r.IsoInterval,
		OffsetMinUsec:   r.OffsetMinUsec,
		OffsetMaxUsec:   r.OffsetMaxUsec,
		CeRef:           r.CeRef,
	}
	if r.Framed {
		req.Framing = lctr.FramingFramed
	}
	return req
}

type IndicationStep struct {
	AccessAddress    uint32 `yaml:"access_address" default:"2391391958"`
	OffsetUsec       uint32 `yaml:"offset_usec"`
	CigSyncDelayUsec uint32 `yaml:"cig_sync_delay_usec"`
	CisSyncDelayUsec uint32 `yaml:"cis_sync_delay_usec"`
	CeRef            uint16 `yaml:"ce_ref"`
}

func (i *IndicationStep) UnmarshalYAML(value *yaml.Node) error {
	defaults.SetDefaults(i)
	type plain IndicationStep
	return value.Decode((*plain)(i))
}

func (i IndicationStep) indication() lctr.StreamIndication {
	return lctr.StreamIndication{
		AccessAddress:    i.AccessAddress,
		OffsetUsec:       i.OffsetUsec,
		CigSyncDelayUsec: i.CigSyncDelayUsec,
		CisSyncDelayUsec: i.CisSyncDelayUsec,
		CeRef:            i.CeRef,
	}
}

type AdvanceStep struct {
	CigID  uint8  `yaml:"cig"`
	Events uint16 `yaml:"events"`
}

type TerminateStep struct {
	CisHandle uint16 `yaml:"cis_handle"`
	Reason    uint8  `yaml:"reason" default:"19"`
}

func (t *TerminateStep) UnmarshalYAML(value *yaml.Node) error {
	defaults.SetDefaults(t)
	type plain TerminateStep
	return value.Decode((*plain)(t))
}

func loadScenario(filename string) (*Scenario, error) {
	in, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return parseScenario(in)
}

func parseScenario(in []byte) (*Scenario, error) {
	sc := &Scenario{}
	defaults.SetDefaults(&sc.Connection)
	if err := yaml.Unmarshal(in, sc); err != nil {
		return nil, errors.Wrap(err, "parse scenario")
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", sc.Name)
	}
	return sc, nil
}

// logBuilder stands in for the radio scheduler.
type logBuilder struct {
	log bleiso.Logger
}

func (b *logBuilder) BuildBod(g *lctr.GroupContext) error {
	b.log.Infof("bod built: cig %v, %v streams, anchor %v, %v packing",
		g.CigID, g.Streams.Count(), g.AnchorPointUsec, g.Packing)
	return nil
}

type runner struct {
	co  *lctr.Coordinator
	out io.Writer
}

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	infoColor = color.New(color.FgCyan)
)

// run executes every step, stopping at the first outcome that differs from
// the step's expectation.
func (r *runner) run(sc *Scenario) error {
	for i, st := range sc.Steps {
		desc, err := r.step(st)
		if desc == "" {
			return fmt.Errorf("step %v: no action", i)
		}

		got := ""
		if err != nil {
			got = lctr.KindOf(err).String()
		}
		if got != st.Expect {
			failColor.Fprintf(r.out, "step %-3d %-12s FAIL %v\n", i, desc, err)
			return fmt.Errorf("step %v (%v): expected %q, got %v", i, desc, st.Expect, err)
		}

		if err != nil {
			okColor.Fprintf(r.out, "step %-3d %-12s ok (%v)\n", i, desc, got)
		} else {
			okColor.Fprintf(r.out, "step %-3d %-12s ok\n", i, desc)
		}
	}
	return nil
}

func (r *runner) step(st Step) (string, error) {
	switch {
	case st.Request != nil:
		b, err := llcp.Encode(st.Request.request().PDU())
		if err != nil {
			return "request", err
		}
		if err := r.co.HandlePDU(b); err != nil {
			return "request", err
		}
		h, _ := r.co.Pending()
		return "request", r.co.AcceptCisReq(h)

	case st.Reject != nil:
		h, ok := r.co.Pending()
		if !ok {
			return "reject", fmt.Errorf("no procedure to reject")
		}
		return "reject", r.co.RejectCisReq(h, *st.Reject)

	case st.Indication != nil:
		h, _ := r.co.Pending()
		b, err := llcp.Encode(st.Indication.indication().PDU())
		if err != nil {
			return "indication", err
		}
		if err := r.co.HandlePDU(b); err != nil {
			return "indication", err
		}
		if s, ok := r.co.Stream(h); ok {
			infoColor.Fprintf(r.out, "         cis 0x%04x: cis event %v, anchor offset %v, delay %v\n",
				s.CisHandle, s.CisEventCounter, s.AnchorOffsetUsec, s.DelayUsec)
		}
		return "indication", nil

	case st.Start != nil:
		return "start", r.co.StartGroup(*st.Start)

	case st.Advance != nil:
		return "advance", r.co.AdvanceGroup(st.Advance.CigID, st.Advance.Events)

	case st.Terminate != nil:
		return "terminate", r.co.Terminate(st.Terminate.CisHandle, st.Terminate.Reason)

	case st.Connection != nil:
		r.co.UpdateConnection(st.Connection.params())
		return "connection", nil
	}
	return "", nil
}

// printLayout writes one line per reserved window of every group.
func printLayout(out io.Writer, co *lctr.Coordinator) {
	for _, sch := range co.Groups() {
		infoColor.Fprintf(out, "cig %v: %v packing, iso interval %v usec, anchor %v\n",
			sch.CigID, sch.Packing, sch.IsoIntervalUsec, sch.AnchorUsec)
		slots, _ := co.GroupLayout(sch.CigID)
		for _, sl := range slots {
			fmt.Fprintf(out, "  cis %-3d round %-2d [%6d, %6d)\n", sl.CisID, sl.Round, sl.StartUsec, sl.EndUsec)
		}
	}
}

// validateScenario checks every request against the scenario's connection
// without running the procedures.
func validateScenario(out io.Writer, sc *Scenario, setupDelayUsec uint32) int {
	failed := 0
	conn := sc.Connection.params()
	for i, st := range sc.Steps {
		if st.Connection != nil {
			conn = st.Connection.params()
		}
		if st.Request == nil {
			continue
		}
		err := lctr.ValidateStreamRequest(conn, st.Request.request(), setupDelayUsec)
		if err != nil {
			failed++
			failColor.Fprintf(out, "step %-3d cig %v cis %v: %v\n", i, st.Request.CigID, st.Request.CisID, err)
			continue
		}
		okColor.Fprintf(out, "step %-3d cig %v cis %v: ok\n", i, st.Request.CigID, st.Request.CisID)
	}
	return failed
}
