package serial

// Status mirrors the bits of a UART status register that the driver polls.
type Status uint32

const (
	// StatusRXNE is set while the receive data register holds an unread byte.
	StatusRXNE Status = 1 << iota
	// StatusTXE is set when the transmit data register can accept a byte.
	StatusTXE
	// StatusTC is set once the last written byte has left the shift register.
	StatusTC
)

// Has reports whether every bit in mask is set.
func (s Status) Has(mask Status) bool { return s&mask == mask }

// Parity selects the parity bit mode of a frame.
type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

// LineConfig is the frame and mode configuration written to the peripheral on Begin.
type LineConfig struct {
	BaudRate    uint32
	DataBits    uint8
	StopBits    uint8
	Parity      Parity
	FlowControl bool
	TxEnable    bool
	RxEnable    bool
}

// Line8N1 returns the 8 data bits, 1 stop bit, no parity, no flow control
// configuration with both directions enabled.
func Line8N1(baud uint32) LineConfig {
	return LineConfig{
		BaudRate: baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   ParityNone,
		TxEnable: true,
		RxEnable: true,
	}
}

// Peripheral is the register block of one UART instance.
//
// Status, ReadData and WriteData are expected to be plain register accesses:
// cheap, non-blocking and side-effect free except where a real UART has side
// effects (reading the data register clears RXNE, writing it clears TXE/TC).
type Peripheral interface {
	// Configure programs baud rate and frame format.
	Configure(cfg LineConfig) error
	// Enable sets the peripheral enable bit.
	Enable()
	// Disable clears the peripheral enable bit.
	Disable()
	// Status returns the current status flags.
	Status() Status
	// ReadData returns the receive data register.
	ReadData() byte
	// WriteData loads the transmit data register.
	WriteData(b byte)
	// EnableRxInterrupt enables the RXNE interrupt source; isr is the vector
	// the peripheral raises while RXNE is set.
	EnableRxInterrupt(isr func())
	// DisableRxInterrupt masks the RXNE interrupt source.
	DisableRxInterrupt()
}
