package core

import "testing"

func TestWaitForUnbounded(t *testing.T) {
	polls := 0
	err := waitFor(func() bool {
		polls++
		return polls >= 3
	}, 0)
	if err != nil {
		t.Errorf("Unbounded wait returned error: %v", err)
	}
	if polls != 3 {
		t.Errorf("Expected 3 polls, got %d", polls)
	}
}

func TestWaitForBudget(t *testing.T) {
	polls := 0
	err := waitFor(func() bool {
		polls++
		return false
	}, 5)
	if err != ErrWaitBudget {
		t.Errorf("Expected ErrWaitBudget, got %v", err)
	}
	if polls != 5 {
		t.Errorf("Expected 5 polls, got %d", polls)
	}

	if err := waitFor(func() bool { return true }, 1); err != nil {
		t.Errorf("Flag already set should succeed: %v", err)
	}
}
