package protocol

// Ring is a fixed-capacity circular byte queue shared between the main
// context and interrupt handlers. It does no locking of its own; callers
// provide mutual exclusion around every access.
type Ring struct {
	buf   []byte
	read  int
	write int
	size  int
	drops uint32
}

// NewRing creates a ring that accepts up to capacity bytes. One extra slot
// is allocated internally so a full ring is distinguishable from an empty
// one without a separate count.
func NewRing(capacity int) *Ring {
	return &Ring{
		buf:  make([]byte, capacity+1),
		size: capacity + 1,
	}
}

// Put appends one byte. When the ring is full the byte is dropped, the drop
// counter advances and Put reports false; stored contents never change.
func (r *Ring) Put(b byte) bool {
	next := (r.write + 1) % r.size
	if next == r.read {
		// Full: overflow policy is drop, not block.
		r.drops++
		return false
	}
	r.buf[r.write] = b
	r.write = next
	return true
}

// Get removes and returns the oldest byte. The second result is false when
// the ring is empty, and an empty Get leaves the ring unchanged.
func (r *Ring) Get() (byte, bool) {
	if r.read == r.write {
		return 0, false
	}
	b := r.buf[r.read]
	r.read = (r.read + 1) % r.size
	return b, true
}

// Write appends data byte by byte under the Put overflow policy and returns
// the number of bytes accepted. Bytes that do not fit are dropped and
// counted, not buffered.
func (r *Ring) Write(data []byte) int {
	written := 0
	for _, b := range data {
		if r.Put(b) {
			written++
		}
	}
	return written
}

// Used returns the number of bytes waiting to be read.
func (r *Ring) Used() int {
	if r.write >= r.read {
		return r.write - r.read
	}
	return r.size - r.read + r.write
}

// Free returns the number of bytes the ring can still accept.
func (r *Ring) Free() int {
	return r.size - r.Used() - 1
}

// IsEmpty returns true if the ring holds no bytes.
func (r *Ring) IsEmpty() bool {
	return r.read == r.write
}

// Drops returns how many bytes have been dropped on overflow since the
// ring was created or last Reset.
func (r *Ring) Drops() uint32 {
	return r.drops
}

// Reset discards all buffered bytes and clears the drop counter.
func (r *Ring) Reset() {
	r.read = 0
	r.write = 0
	r.drops = 0
}
