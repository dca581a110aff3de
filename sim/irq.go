package sim

import (
	"sync"

	"duadc/core"
)

// irqCtrl is the simulated interrupt controller. It reproduces the
// controller contract exactly: one registered consumer, handlers run to
// completion, and an event raised while a handler runs is pended and
// delivered after the handler returns instead of nesting.
type irqCtrl struct {
	mu        sync.Mutex
	handler   func(core.Event)
	enabled   [2]bool
	inHandler bool
	pending   []core.Event
}

func (c *irqCtrl) SetHandler(h func(core.Event)) {
	c.mu.Lock()
	c.handler = h
	c.mu.Unlock()
}

func (c *irqCtrl) EnableLine(line core.IRQLine) {
	c.mu.Lock()
	if int(line) < len(c.enabled) {
		c.enabled[line] = true
	}
	c.mu.Unlock()
}

func (c *irqCtrl) DisableLine(line core.IRQLine) {
	c.mu.Lock()
	if int(line) < len(c.enabled) {
		c.enabled[line] = false
	}
	c.mu.Unlock()
}

func eventLine(ev core.Event) core.IRQLine {
	if ev == core.EventConversionComplete {
		return core.LineConversion
	}
	return core.LineSerial
}

// raise delivers one event to the consumer. Calls while a handler is
// already running queue the event; the running delivery drains the queue
// before returning, preserving run-to-completion order. Events on masked
// lines are discarded, as on a masked hardware line.
func (c *irqCtrl) raise(ev core.Event) {
	c.mu.Lock()
	if c.handler == nil || !c.enabled[eventLine(ev)] {
		c.mu.Unlock()
		return
	}
	if c.inHandler {
		c.pending = append(c.pending, ev)
		c.mu.Unlock()
		return
	}
	c.inHandler = true
	handler := c.handler
	c.mu.Unlock()

	handler(ev)
	for {
		c.mu.Lock()
		if len(c.pending) == 0 {
			c.inHandler = false
			c.mu.Unlock()
			return
		}
		next := c.pending[0]
		c.pending = c.pending[1:]
		deliver := c.enabled[eventLine(next)]
		c.mu.Unlock()
		if deliver {
			handler(next)
		}
	}
}

// raiseAll delivers a batch in order.
func (c *irqCtrl) raiseAll(evs []core.Event) {
	for _, ev := range evs {
		c.raise(ev)
	}
}
