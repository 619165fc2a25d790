package serialtest

import (
	"sync"

	serial "github.com/luhtfiimanal/go-serialport"
)

type arrival struct {
	at uint32
	b  byte
}

// Peripheral is a scripted UART register block driven by a fake Clock.
//
// Received bytes are scheduled with Receive and become visible through RXNE
// once the clock reaches their arrival time. Transmitted bytes are recorded
// and, with Loopback set, fed straight back into the receiver.
type Peripheral struct {
	clock *Clock

	mu      sync.Mutex
	rx      []arrival
	dr      byte
	sent    []byte
	cfgs    []serial.LineConfig
	enabled bool
	rxIE    bool
	isr     func()
	txeWait int
	tcWait  int
	polls   int

	// Loopback wires TX to RX.
	Loopback bool
	// TxPolls is how many status reads a write keeps TC clear for.
	TxPolls int
}

// NewPeripheral returns a Peripheral timed by clock.
func NewPeripheral(clock *Clock) *Peripheral {
	return &Peripheral{clock: clock}
}

func (p *Peripheral) Configure(cfg serial.LineConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfgs = append(p.cfgs, cfg)
	return nil
}

func (p *Peripheral) Enable() {
	p.mu.Lock()
	p.enabled = true
	p.mu.Unlock()
}

func (p *Peripheral) Disable() {
	p.mu.Lock()
	p.enabled = false
	p.mu.Unlock()
}

func (p *Peripheral) Status() serial.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.polls++
	var st serial.Status
	if p.enabled && p.due() {
		st |= serial.StatusRXNE
	}
	if p.txeWait > 0 {
		p.txeWait--
	} else {
		st |= serial.StatusTXE
	}
	if p.tcWait > 0 {
		p.tcWait--
	} else {
		st |= serial.StatusTC
	}
	return st
}

func (p *Peripheral) due() bool {
	return len(p.rx) > 0 && int32(p.clock.Now()-p.rx[0].at) >= 0
}

// ReadData pops the oldest due byte. With nothing due it returns the stale
// register contents, like hardware does.
func (p *Peripheral) ReadData() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.due() {
		p.dr = p.rx[0].b
		p.rx = p.rx[1:]
	}
	return p.dr
}

func (p *Peripheral) WriteData(b byte) {
	p.mu.Lock()
	p.sent = append(p.sent, b)
	if p.TxPolls > 0 {
		p.txeWait = 1
		p.tcWait = p.TxPolls
	}
	loop := p.Loopback
	p.mu.Unlock()
	if loop {
		p.Inject(string([]byte{b}))
	}
}

func (p *Peripheral) EnableRxInterrupt(isr func()) {
	p.mu.Lock()
	p.rxIE = true
	p.isr = isr
	p.mu.Unlock()
}

func (p *Peripheral) DisableRxInterrupt() {
	p.mu.Lock()
	p.rxIE = false
	p.isr = nil
	p.mu.Unlock()
}

// Receive schedules data to arrive at clock time at. Arrivals must be
// scheduled in time order.
func (p *Peripheral) Receive(at uint32, data string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := 0; i < len(data); i++ {
		p.rx = append(p.rx, arrival{at: at, b: data[i]})
	}
}

// Inject makes data arrive now and, if the RXNE interrupt is enabled,
// raises it once.
func (p *Peripheral) Inject(data string) {
	p.Receive(p.clock.Now(), data)
	p.mu.Lock()
	isr := p.isr
	fire := p.rxIE && p.enabled
	p.mu.Unlock()
	if fire && isr != nil {
		isr()
	}
}

// Sent returns every byte written to the data register.
func (p *Peripheral) Sent() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return string(p.sent)
}

// Pending returns the number of scheduled bytes not yet read.
func (p *Peripheral) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.rx)
}

// Configs returns every line configuration written, oldest first.
func (p *Peripheral) Configs() []serial.LineConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]serial.LineConfig(nil), p.cfgs...)
}

// Enabled reports the peripheral enable bit.
func (p *Peripheral) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// RxInterruptEnabled reports whether the RXNE interrupt source is unmasked.
func (p *Peripheral) RxInterruptEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rxIE
}

// StatusPolls returns how many times Status has been read.
func (p *Peripheral) StatusPolls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.polls
}
