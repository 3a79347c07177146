package lctr

import (
	"fmt"

	"github.com/rigado/bleiso/llcp"
)

var dispatcher = map[byte]llcpDispatcher{
	llcp.OpCisReq:          llcpDispatcher{"cis req", onCisReq},
	llcp.OpCisRsp:          llcpDispatcher{"cis rsp", nil},
	llcp.OpCisInd:          llcpDispatcher{"cis ind", onCisInd},
	llcp.OpCisTerminateInd: llcpDispatcher{"cis terminate ind", onCisTerminateInd},
	llcp.OpRejectExtInd:    llcpDispatcher{"reject ext ind", onRejectExtInd},
}

type llcpDispatcher struct {
	desc    string
	handler func(c *Coordinator, p llcp.PDU) error
}

// HandlePDU decodes an LL control PDU from the peer and runs its handler.
func (c *Coordinator) HandlePDU(b []byte) error {
	p, err := llcp.Decode(b)
	if err != nil {
		return err
	}

	d, ok := dispatcher[p.Opcode()]
	if !ok || d.handler == nil {
		c.log.Debugf("llcp rx: %v unhandled", d.desc)
		return nil
	}

	c.log.Debugf("llcp rx: %v", d.desc)
	return d.handler(c, p)
}

func onCisReq(c *Coordinator, p llcp.PDU) error {
	_, err := c.HandleCisReq(NewStreamRequest(p.(*llcp.CisReq)))
	return err
}

func onCisInd(c *Coordinator, p llcp.PDU) error {
	_, err := c.HandleCisInd(NewStreamIndication(p.(*llcp.CisInd)))
	return err
}

// the peer tore the stream down; nothing goes back on air
func onCisTerminateInd(c *Coordinator, p llcp.PDU) error {
	t := p.(*llcp.CisTerminateInd)

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, h := range c.handles {
		s, ok := c.store.Get(h)
		if !ok || s.CigID != t.CigID || s.CisID != t.CisID {
			continue
		}
		c.log.Infof("cis %v in cig %v terminated by peer: 0x%02x", t.CisID, t.CigID, t.ErrorCode)
		c.release(h)
		return nil
	}
	return invalidParam("terminate for unknown cis %v in cig %v", t.CisID, t.CigID)
}

// a master refusing our LL_CIS_RSP ends the pending procedure
func onRejectExtInd(c *Coordinator, p llcp.PDU) error {
	r := p.(*llcp.RejectExtInd)
	if r.RejectOpcode != llcp.OpCisRsp {
		return fmt.Errorf("reject ext ind for opcode 0x%02x", r.RejectOpcode)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.store.Get(c.pending)
	if !ok {
		return invalidParam("reject ext ind without cis procedure")
	}
	c.log.Infof("cis %v in cig %v rejected by peer: 0x%02x", s.CisID, s.CigID, r.ErrorCode)
	status := r.ErrorCode
	if status == StatusSuccess {
		status = StatusUnspecified
	}
	if err := c.sendEvent(c.establishedEvent(status, s)); err != nil {
		c.log.Errorf("reject ext ind: %v", err)
	}
	c.release(c.pending)
	return nil
}
