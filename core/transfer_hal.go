package core

// TransferEngine is the abstract interface to one direct-memory-transfer
// channel moving combined converter words into a sample store.
type TransferEngine interface {
	// Arm fully resets and reconfigures the channel for a one-shot burst
	// of count words into dst, starting at dst[0]. A drained channel is
	// never resumed: without the full reset its memory pointer sits past
	// the intended region and later bursts land at drifting offsets.
	Arm(dst []uint32, count int) error

	// Complete reports whether the armed burst has finished landing in
	// memory. Arm clears it.
	Complete() bool
}
