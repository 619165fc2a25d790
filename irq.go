package serial

import "sync"

// pollIRQ emulates a level RXNE interrupt for peripherals that have no way
// to signal arrival on their own: the interrupt is raised from the status
// poll that first observes RXNE set.
type pollIRQ struct {
	mu      sync.Mutex
	isr     func()
	enabled bool
	level   bool
}

func (q *pollIRQ) enable(isr func()) {
	q.mu.Lock()
	q.isr, q.enabled = isr, true
	q.mu.Unlock()
}

func (q *pollIRQ) disable() {
	q.mu.Lock()
	q.enabled = false
	q.mu.Unlock()
}

// clear drops the recorded level, as reading the data register clears
// RXNE on hardware. The next poll that finds data raises the interrupt again.
func (q *pollIRQ) clear() {
	q.mu.Lock()
	q.level = false
	q.mu.Unlock()
}

// observe records the current RXNE level and raises the interrupt on a
// rising edge. isr runs without the lock held.
func (q *pollIRQ) observe(rxne bool) {
	q.mu.Lock()
	rising := rxne && !q.level
	q.level = rxne
	isr := q.isr
	fire := rising && q.enabled && isr != nil
	q.mu.Unlock()
	if fire {
		isr()
	}
}
