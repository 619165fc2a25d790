package serial

import "time"

// Clock is a monotonic millisecond counter. It may wrap, but not within a
// single read timeout window.
type Clock interface {
	Millis() uint32
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() uint32

func (f ClockFunc) Millis() uint32 { return f() }

// SystemClock counts milliseconds since it was created using the runtime's
// monotonic clock.
type SystemClock struct {
	epoch time.Time
}

// NewSystemClock returns a SystemClock starting at zero.
func NewSystemClock() *SystemClock {
	return &SystemClock{epoch: time.Now()}
}

func (c *SystemClock) Millis() uint32 {
	return uint32(time.Since(c.epoch).Milliseconds())
}
