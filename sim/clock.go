package sim

// timer represents one scheduled action on the virtual clock
type timer struct {
	wake   uint64
	action func(*timer) uint8
	next   *timer
}

const (
	actionDone       = 0
	actionReschedule = 1
)

// clock is the virtual time base every simulated peripheral hangs off.
// Nothing here is concurrency safe; the owning Sim serializes access.
type clock struct {
	now  uint64
	head *timer
}

// schedule adds a timer to the queue
func (c *clock) schedule(t *timer) {
	c.insert(t)
}

// insert places a timer in sorted order by wake time
func (c *clock) insert(t *timer) {
	if c.head == nil || t.wake < c.head.wake {
		t.next = c.head
		c.head = t
		return
	}

	cur := c.head
	for cur.next != nil && cur.next.wake < t.wake {
		cur = cur.next
	}

	t.next = cur.next
	cur.next = t
}

// step advances time to the next scheduled action and dispatches
// everything due at that instant. It reports whether any action ran.
func (c *clock) step() bool {
	if c.head == nil {
		return false
	}
	if c.head.wake > c.now {
		c.now = c.head.wake
	}
	c.dispatch()
	return true
}

// advanceTo moves time forward to target, dispatching every action that
// falls due on the way. Time never moves backward.
func (c *clock) advanceTo(target uint64) {
	for c.head != nil && c.head.wake <= target {
		c.now = c.head.wake
		c.dispatch()
	}
	if target > c.now {
		c.now = target
	}
}

// dispatch runs all timers due at the current time
func (c *clock) dispatch() {
	for c.head != nil && c.head.wake <= c.now {
		t := c.head
		c.head = t.next
		t.next = nil // Clear next pointer to avoid circular references

		result := t.action(t)

		// Reschedule if requested; the action updated wake
		if result == actionReschedule {
			c.insert(t)
		}
	}
}
