package core

import "errors"

// ErrWaitBudget reports that a bounded busy-wait exhausted its poll
// budget before the hardware flag asserted.
var ErrWaitBudget = errors.New("wait budget exhausted")

// waitFor polls flag until it reports true. A budget of zero spins
// forever, which matches how firmware waits on status flags; a positive
// budget bounds the spin to that many polls so simulated hardware that
// never asserts the flag turns into an error instead of a hang.
func waitFor(flag func() bool, budget int) error {
	if budget <= 0 {
		for !flag() {
		}
		return nil
	}
	for i := 0; i < budget; i++ {
		if flag() {
			return nil
		}
	}
	return ErrWaitBudget
}
