package core

// TimerConfig sets the pace timer's counting range. The timer counts up
// to Period, wrapping to zero, and raises its compare-match flag each time
// the count reaches Compare. Real-time cadence depends on the board's
// clock tree and is not part of this config.
type TimerConfig struct {
	Period  uint32
	Compare uint32
}

// PaceTimer is the abstract interface to the free-running timer that
// paces conversion starts. The flag is poll-and-clear: hardware sets it
// on each compare match and software clears it after observing it.
type PaceTimer interface {
	// Configure applies the counting range. The timer must not be
	// running.
	Configure(cfg TimerConfig) error

	// Start begins free-running counting.
	Start()

	// CompareMatch reports whether a compare match occurred since the
	// flag was last cleared.
	CompareMatch() bool

	// ClearCompareMatch resets the compare-match flag.
	ClearCompareMatch()
}
