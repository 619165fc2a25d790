package serial

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout is the read timeout of a new SerialPort.
const DefaultTimeout = time.Second

// SerialPort drives one UART by polling its status flags.
//
// All blocking operations are busy-wait loops. A SerialPort is not safe for
// concurrent use, and the optional receive interrupt callback must not call
// back into the read API while main-line code is using it.
type SerialPort struct {
	periph   Peripheral
	id       PeripheralID
	tx, rx   Pin
	platform Platform
	board    *Board
	clock    Clock
	log      zerolog.Logger

	rxHandler     func()
	timeoutMillis uint32
}

// Option configures a SerialPort.
type Option func(*SerialPort)

// WithPlatform installs the clock/pin/interrupt collaborator used by Begin.
// Without one, Begin only touches the peripheral itself, which is what host
// backends want.
func WithPlatform(p Platform) Option {
	return func(s *SerialPort) { s.platform = p }
}

// WithBoard selects the capability table Begin resolves clocks and IRQs from.
// The default is CH32V30x.
func WithBoard(b *Board) Option {
	return func(s *SerialPort) { s.board = b }
}

// WithClock replaces the millisecond time source of the timeout layer.
func WithClock(c Clock) Option {
	return func(s *SerialPort) { s.clock = c }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *SerialPort) { s.log = l }
}

// New wraps the peripheral identified by id with TX and RX on the given pins.
// The identity is fixed for the life of the SerialPort.
func New(periph Peripheral, id PeripheralID, tx, rx Pin, opts ...Option) *SerialPort {
	s := &SerialPort{
		periph:        periph,
		id:            id,
		tx:            tx,
		rx:            rx,
		board:         CH32V30x,
		log:           zerolog.Nop(),
		timeoutMillis: uint32(DefaultTimeout / time.Millisecond),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = NewSystemClock()
	}
	s.log = s.log.With().Str("uart", string(id)).Logger()
	return s
}

// ID returns the peripheral identity the port was constructed with.
func (s *SerialPort) ID() PeripheralID { return s.id }

// Begin configures the port for 8N1 polling I/O at baud. A receive
// interrupt left unmasked by an earlier BeginWithInterrupt is masked again
// and its handler dropped.
func (s *SerialPort) Begin(baud uint32) error {
	return s.BeginWithInterrupt(baud, nil)
}

// BeginWithInterrupt is Begin plus, when handler is non-nil, enabling the
// RXNE interrupt so that handler runs from interrupt context whenever a byte
// arrives. The handler replaces any earlier one. It is a side channel: bytes
// stay in the data register for the polling API unless the handler reads them.
func (s *SerialPort) BeginWithInterrupt(baud uint32, handler func()) error {
	var caps UARTCaps
	if s.platform != nil {
		var err error
		if caps, err = s.enableClocks(); err != nil {
			return err
		}
		if err := s.platform.ConfigurePin(s.tx, PinAltPushPull); err != nil {
			return fmt.Errorf("configure tx pin: %w", err)
		}
		if err := s.platform.ConfigurePin(s.rx, PinInputFloating); err != nil {
			return fmt.Errorf("configure rx pin: %w", err)
		}
	}

	if err := s.periph.Configure(Line8N1(baud)); err != nil {
		return fmt.Errorf("configure %s: %w", s.id, err)
	}
	s.periph.Enable()

	if handler == nil {
		s.rxHandler = nil
		s.periph.DisableRxInterrupt()
		s.log.Debug().Uint32("baud", baud).Msg("uart started in polling mode")
		return nil
	}
	s.rxHandler = handler
	s.periph.EnableRxInterrupt(s.HandleInterrupt)
	if s.platform != nil {
		if err := s.platform.EnableIRQ(caps.IRQ); err != nil {
			return fmt.Errorf("enable irq %d: %w", caps.IRQ, err)
		}
	}
	s.log.Debug().Uint32("baud", baud).Uint16("irq", uint16(caps.IRQ)).Msg("uart started with rx interrupt")
	return nil
}

func (s *SerialPort) enableClocks() (UARTCaps, error) {
	caps, err := s.board.UART(s.id)
	if err != nil {
		return UARTCaps{}, err
	}
	txGate, err := s.board.BankClock(s.tx.Bank)
	if err != nil {
		return UARTCaps{}, err
	}
	rxGate, err := s.board.BankClock(s.rx.Bank)
	if err != nil {
		return UARTCaps{}, err
	}
	gates := []ClockGate{txGate}
	if rxGate != txGate {
		gates = append(gates, rxGate)
	}
	gates = append(gates, caps.Clock)
	for _, g := range gates {
		if err := s.platform.EnableClock(g); err != nil {
			return UARTCaps{}, fmt.Errorf("enable clock %s: %w", g, err)
		}
	}
	return caps, nil
}

// End clears the peripheral enable bit. Clocks and pins are left as they are.
func (s *SerialPort) End() {
	s.periph.Disable()
	s.log.Debug().Msg("uart disabled")
}

// Close ends the port and releases the peripheral if it holds OS resources.
func (s *SerialPort) Close() error {
	s.End()
	if c, ok := s.periph.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// HandleInterrupt is the RXNE interrupt vector. It calls the handler
// registered by BeginWithInterrupt, if any.
func (s *SerialPort) HandleInterrupt() {
	if h := s.rxHandler; h != nil {
		h()
	}
}

// Available reports whether a received byte is waiting. It never blocks.
func (s *SerialPort) Available() bool {
	return s.periph.Status().Has(StatusRXNE)
}

// IsRxComplete reports the raw RXNE flag. It is equivalent to Available.
func (s *SerialPort) IsRxComplete() bool {
	return s.periph.Status().Has(StatusRXNE)
}

// PeekByte always returns NoData: there is no receive FIFO to inspect
// without consuming the byte.
func (s *SerialPort) PeekByte() int {
	return NoData
}

// Read returns the received byte, or NoData if none is waiting.
func (s *SerialPort) Read() int {
	if !s.Available() {
		return NoData
	}
	return int(s.periph.ReadData())
}

// WriteByte transmits c and waits until it is completely shifted out.
// The error is always nil.
func (s *SerialPort) WriteByte(c byte) error {
	for !s.periph.Status().Has(StatusTXE) {
	}
	s.periph.WriteData(c)
	for !s.periph.Status().Has(StatusTC) {
	}
	return nil
}

// Write transmits p byte by byte. It always writes all of p.
func (s *SerialPort) Write(p []byte) (int, error) {
	n := 0
	for _, c := range p {
		s.WriteByte(c)
		n++
	}
	return n, nil
}

// WriteString is Write for a string.
func (s *SerialPort) WriteString(str string) (int, error) {
	for i := 0; i < len(str); i++ {
		s.WriteByte(str[i])
	}
	return len(str), nil
}

// Flush waits until the transmission in flight completes.
func (s *SerialPort) Flush() error {
	for !s.periph.Status().Has(StatusTC) {
	}
	return nil
}
