package serial

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	bugst "go.bug.st/serial"
)

func init() {
	RegisterBackend("bugst", func(cfg Config) (Peripheral, error) {
		return OpenPort(cfg.Device)
	})
}

// probeTimeout bounds the read used to test for a received byte.
const probeTimeout = time.Millisecond

// Port presents a go.bug.st/serial port as a UART register block. The
// port offers no non-destructive "data ready" query, so Status probes with
// a short read and latches any byte in a one-byte data register until
// ReadData takes it.
type Port struct {
	port bugst.Port
	name string
	log  zerolog.Logger

	dr      byte
	full    bool
	enabled bool
	irq     pollIRQ
}

// OpenPort opens the named OS serial port.
func OpenPort(name string) (*Port, error) {
	if name == "" {
		return nil, ErrNoDevice
	}
	p, err := bugst.Open(name, portMode(Line8N1(DefaultBaudRate)))
	if err != nil {
		return nil, fmt.Errorf("failed to open port %s: %w", name, err)
	}
	port, err := NewPort(p, name)
	if err != nil {
		p.Close()
		return nil, err
	}
	return port, nil
}

// NewPort wraps an already open port.
func NewPort(p bugst.Port, name string) (*Port, error) {
	if err := p.SetReadTimeout(probeTimeout); err != nil {
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}
	return &Port{port: p, name: name, log: zerolog.Nop()}, nil
}

// SetLogger sets the logger used for I/O errors.
func (p *Port) SetLogger(l zerolog.Logger) {
	p.log = l.With().Str("device", p.name).Logger()
}

func portMode(cfg LineConfig) *bugst.Mode {
	mode := &bugst.Mode{
		BaudRate: int(cfg.BaudRate),
		DataBits: int(cfg.DataBits),
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	}
	switch cfg.Parity {
	case ParityEven:
		mode.Parity = bugst.EvenParity
	case ParityOdd:
		mode.Parity = bugst.OddParity
	}
	if cfg.StopBits == 2 {
		mode.StopBits = bugst.TwoStopBits
	}
	return mode
}

func (p *Port) Configure(cfg LineConfig) error {
	if err := p.port.SetMode(portMode(cfg)); err != nil {
		return fmt.Errorf("set mode: %w", err)
	}
	if err := p.port.SetRTS(!cfg.FlowControl); err != nil {
		p.log.Debug().Err(err).Msg("rts not supported")
	}
	return nil
}

func (p *Port) Enable() { p.enabled = true }

// Disable stops the receiver; a byte already latched is discarded.
func (p *Port) Disable() {
	p.enabled = false
	p.full = false
}

func (p *Port) Status() Status {
	if p.enabled && !p.full {
		var b [1]byte
		n, err := p.port.Read(b[:])
		if err != nil {
			p.log.Debug().Err(err).Msg("rx probe failed")
		}
		if n == 1 {
			p.dr, p.full = b[0], true
		}
	}
	p.irq.observe(p.full)
	st := StatusTXE | StatusTC
	if p.full {
		st |= StatusRXNE
	}
	return st
}

func (p *Port) ReadData() byte {
	p.full = false
	p.irq.clear()
	return p.dr
}

// WriteData sends b and drains the OS output queue, so TC is already set
// when it returns.
func (p *Port) WriteData(b byte) {
	if _, err := p.port.Write([]byte{b}); err != nil {
		p.log.Warn().Err(err).Msg("write failed")
		return
	}
	if err := p.port.Drain(); err != nil {
		p.log.Debug().Err(err).Msg("drain failed")
	}
}

// EnableRxInterrupt raises isr from the status poll that latches a byte.
func (p *Port) EnableRxInterrupt(isr func()) { p.irq.enable(isr) }

func (p *Port) DisableRxInterrupt() { p.irq.disable() }

func (p *Port) Close() error {
	return p.port.Close()
}
