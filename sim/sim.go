// Package sim provides a software model of the dual-converter board:
// two converter units in regular-simultaneous lockstep, a one-shot
// transfer channel, a compare-match pace timer, a serial line with a
// host-side port, and an interrupt controller, all driven by one
// virtual clock. A pipeline runs against it unmodified, and tests can
// inspect the exact byte stream a real board would emit.
package sim

import (
	"sync"

	"duadc/core"
)

// Options set the board's physical characteristics in virtual ticks.
// One tick stands in for one count of the timer input clock; a real
// board derives this from its clock tree, which the simulation
// collapses to a single rate.
type Options struct {
	// TickHz is the virtual tick rate. It scales serial byte times.
	TickHz uint32
	// SettleTicks is the converter power-on stabilization delay.
	SettleTicks uint64
	// CalTicks is the self-calibration duration.
	CalTicks uint64
	// SampleTicks is the conversion time for one channel of a scan.
	SampleTicks uint64
}

func (o Options) withDefaults() Options {
	if o.TickHz == 0 {
		o.TickHz = 18_000_000
	}
	if o.SettleTicks == 0 {
		o.SettleTicks = 100_000
	}
	if o.CalTicks == 0 {
		o.CalTicks = 6_000
	}
	if o.SampleTicks == 0 {
		o.SampleTicks = 52
	}
	return o
}

// sim is the spine shared by every peripheral: the lock serializing all
// board state, the virtual clock, and the events collected while the
// lock is held. Peripheral methods mutate state under mu, then deliver
// the collected events only after unlocking, so a consumer's handler
// never runs inside the lock.
type sim struct {
	mu     sync.Mutex
	clk    clock
	irq    *irqCtrl
	opts   Options
	raised []core.Event

	sources [int(core.MaxChannel) + 1]Source
	xfer    *transferChan
}

// raise queues an event while mu is held.
func (s *sim) raise(ev core.Event) {
	s.raised = append(s.raised, ev)
}

// flush takes the queued events; the caller delivers them after
// releasing mu.
func (s *sim) flush() []core.Event {
	evs := s.raised
	s.raised = nil
	return evs
}

// stepLocked runs the next scheduled clock action. Peripheral polls
// call it when their flag is not yet set, so a busy-wait loop pulls
// virtual time forward one event per poll instead of spinning.
func (s *sim) stepLocked() {
	s.clk.step()
}
