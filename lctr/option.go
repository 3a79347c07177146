package lctr

import (
	"fmt"

	"github.com/rigado/bleiso"
)

// Options are applied by NewCoordinator; calling the setters afterwards is
// not safe for concurrent use.

func (c *Coordinator) SetSetupDelay(usec uint32) error {
	c.setupDelayUsec = usec
	return nil
}

func (c *Coordinator) SetMaxGroups(n int) error {
	if n < 1 || n > 0xFF {
		return fmt.Errorf("invalid max groups %v", n)
	}
	c.maxGroups = n
	return nil
}

func (c *Coordinator) SetMaxStreams(n int) error {
	if n < 1 || n > cisHandleMax-cisHandleBase+1 {
		return fmt.Errorf("invalid max streams %v", n)
	}
	c.maxStreams = n
	return nil
}

func (c *Coordinator) SetHostSupport(enabled bool) error {
	c.hostSupport = enabled
	return nil
}

func (c *Coordinator) SetPDUWriter(w func([]byte) error) error {
	c.writePDU = w
	return nil
}

func (c *Coordinator) SetEventWriter(w func([]byte) error) error {
	c.writeEvent = w
	return nil
}

func (c *Coordinator) SetBodBuilder(b interface{}) error {
	bb, ok := b.(BodBuilder)
	if !ok {
		return fmt.Errorf("unknown bod builder type %T", b)
	}
	c.builder = bb
	return nil
}

func (c *Coordinator) SetLogger(l bleiso.Logger) error {
	if l == nil {
		return fmt.Errorf("nil logger")
	}
	c.log = l
	return nil
}
