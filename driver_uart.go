package serial

import "tinygo.org/x/drivers"

// DriverUART presents a tinygo.org/x/drivers UART, such as TinyGo's
// machine.UART, as a UART register block. Bytes are taken from the
// driver's receive buffer one at a time.
type DriverUART struct {
	uart      drivers.UART
	configure func(LineConfig) error
	enabled   bool
	irq       pollIRQ
}

// NewDriverUART wraps uart. configure, if non-nil, is called by Configure
// to apply the line settings, e.g. by calling machine.UART.Configure.
func NewDriverUART(uart drivers.UART, configure func(LineConfig) error) *DriverUART {
	return &DriverUART{uart: uart, configure: configure}
}

func (d *DriverUART) Configure(cfg LineConfig) error {
	if d.configure == nil {
		return nil
	}
	return d.configure(cfg)
}

func (d *DriverUART) Enable()  { d.enabled = true }
func (d *DriverUART) Disable() { d.enabled = false }

func (d *DriverUART) Status() Status {
	rxne := d.enabled && d.uart.Buffered() > 0
	d.irq.observe(rxne)
	st := StatusTXE | StatusTC
	if rxne {
		st |= StatusRXNE
	}
	return st
}

func (d *DriverUART) ReadData() byte {
	d.irq.clear()
	var b [1]byte
	d.uart.Read(b[:])
	return b[0]
}

func (d *DriverUART) WriteData(b byte) {
	d.uart.Write([]byte{b})
}

// EnableRxInterrupt raises isr from the status poll that first sees data.
func (d *DriverUART) EnableRxInterrupt(isr func()) { d.irq.enable(isr) }

func (d *DriverUART) DisableRxInterrupt() { d.irq.disable() }
