package serialtest

import (
	"sync"

	serial "github.com/luhtfiimanal/go-serialport"
)

// Platform records the clock, pin and interrupt setup requested of it.
type Platform struct {
	mu     sync.Mutex
	clocks []serial.ClockGate
	pins   map[serial.Pin]serial.PinMode
	irqs   []serial.IRQ

	// Err, when set, is returned by every call.
	Err error
}

func (p *Platform) EnableClock(gate serial.ClockGate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.clocks = append(p.clocks, gate)
	return nil
}

func (p *Platform) ConfigurePin(pin serial.Pin, mode serial.PinMode) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	if p.pins == nil {
		p.pins = make(map[serial.Pin]serial.PinMode)
	}
	p.pins[pin] = mode
	return nil
}

func (p *Platform) EnableIRQ(irq serial.IRQ) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.irqs = append(p.irqs, irq)
	return nil
}

// Clocks returns the enabled clock gates in call order.
func (p *Platform) Clocks() []serial.ClockGate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]serial.ClockGate(nil), p.clocks...)
}

// PinMode returns the mode pin was configured to.
func (p *Platform) PinMode(pin serial.Pin) (serial.PinMode, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.pins[pin]
	return m, ok
}

// IRQs returns the enabled interrupt lines in call order.
func (p *Platform) IRQs() []serial.IRQ {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]serial.IRQ(nil), p.irqs...)
}
