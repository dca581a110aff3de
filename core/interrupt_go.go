//go:build !tinygo

package core

import "sync"

// irqState is the opaque token returned by lock and consumed by unlock.
type irqState uintptr

// irqGuard provides the mutual exclusion that interrupt masking provides
// on hardware. The host build uses a real lock because simulated boards
// may deliver events from other goroutines; ring head/tail updates need
// the same happens-before guarantee the single-core target gets for free.
type irqGuard struct {
	mu sync.Mutex
}

func (g *irqGuard) lock() irqState {
	g.mu.Lock()
	return 0
}

func (g *irqGuard) unlock(irqState) {
	g.mu.Unlock()
}
