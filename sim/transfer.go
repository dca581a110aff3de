package sim

import "errors"

// transferChan is the simulated one-shot transfer channel. Arm gives it
// a destination and a word budget; each scan step offers one word. A
// word offered with no armed budget left is refused and the scan's
// burst is marked short, which is what Complete reports. The write
// cursor keeps moving between scans if the consumer forgets to re-arm,
// so stale data lands at drifting offsets exactly as it would on real
// hardware.
type transferChan struct {
	s *sim

	dst   []uint32
	count int
	pos   int
	armed bool

	burstOK     bool
	scanPushes  int
	scanRefused int

	arms    uint32
	refused uint32
}

func (t *transferChan) Arm(dst []uint32, count int) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if count <= 0 || count > len(dst) {
		return errors.New("transfer count out of range")
	}
	t.dst = dst
	t.count = count
	t.pos = 0
	t.armed = true
	t.burstOK = false
	t.arms++
	return nil
}

func (t *transferChan) Complete() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.burstOK
}

// push offers one word. Called from clock actions with the lock held.
func (t *transferChan) push(w uint32) {
	t.scanPushes++
	if !t.armed || t.pos >= t.count {
		t.scanRefused++
		t.refused++
		return
	}
	t.dst[t.pos] = w
	t.pos++
}

func (t *transferChan) beginScan() {
	t.scanPushes = 0
	t.scanRefused = 0
}

// endScan marks the burst complete if every offered word landed.
func (t *transferChan) endScan() {
	t.burstOK = t.scanPushes > 0 && t.scanRefused == 0
}
