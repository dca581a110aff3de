package sim

import (
	"errors"

	"duadc/core"
)

// paceTimer is the simulated compare-match timer. Once started, its
// counter runs from zero to Period and wraps; the match flag goes
// sticky every time the counter passes Compare and stays set until
// cleared.
type paceTimer struct {
	s *sim

	cfg     core.TimerConfig
	running bool
	matched bool
	match   timer
}

func (t *paceTimer) Configure(cfg core.TimerConfig) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.running {
		return errors.New("timer already running")
	}
	if cfg.Compare > cfg.Period {
		return errors.New("compare beyond period")
	}
	t.cfg = cfg
	return nil
}

func (t *paceTimer) Start() {
	t.s.mu.Lock()
	if !t.running {
		t.running = true
		t.match.wake = t.s.clk.now + uint64(t.cfg.Compare)
		t.match.action = t.matchAction
		t.s.clk.schedule(&t.match)
	}
	t.s.mu.Unlock()
}

func (t *paceTimer) matchAction(tm *timer) uint8 {
	t.matched = true
	tm.wake += uint64(t.cfg.Period) + 1
	return actionReschedule
}

func (t *paceTimer) CompareMatch() bool {
	t.s.mu.Lock()
	if t.running && !t.matched {
		t.s.stepLocked()
	}
	m := t.matched
	evs := t.s.flush()
	t.s.mu.Unlock()
	t.s.irq.raiseAll(evs)
	return m
}

func (t *paceTimer) ClearCompareMatch() {
	t.s.mu.Lock()
	t.matched = false
	t.s.mu.Unlock()
}
