// Package serialtest provides fake peripherals, platforms and clocks for
// testing code built on package serial without hardware.
package serialtest

import "sync/atomic"

// Clock is a fake millisecond clock. Every Millis call advances it by Step,
// so busy-wait loops in the code under test make progress without sleeping.
type Clock struct {
	now  atomic.Uint32
	Step uint32
}

// NewClock returns a Clock at start that advances one millisecond per read.
func NewClock(start uint32) *Clock {
	c := &Clock{Step: 1}
	c.now.Store(start)
	return c
}

// Millis returns the current time and then advances it by Step.
func (c *Clock) Millis() uint32 {
	return c.now.Add(c.Step) - c.Step
}

// Now returns the current time without advancing it.
func (c *Clock) Now() uint32 { return c.now.Load() }

// Advance moves the clock forward by ms.
func (c *Clock) Advance(ms uint32) { c.now.Add(ms) }
