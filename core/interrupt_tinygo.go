//go:build tinygo

package core

import "runtime/interrupt"

// irqState is the opaque token returned by lock and consumed by unlock.
type irqState = interrupt.State

// irqGuard provides mutual exclusion by masking interrupts, the only
// primitive the single-core target needs.
type irqGuard struct{}

func (g *irqGuard) lock() irqState {
	return interrupt.Disable()
}

func (g *irqGuard) unlock(state irqState) {
	interrupt.Restore(state)
}
