package serial_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	serial "github.com/luhtfiimanal/go-serialport"
	"github.com/luhtfiimanal/go-serialport/serialtest"
)

// bufferUART is a drivers.UART backed by in-memory buffers.
type bufferUART struct {
	rx bytes.Buffer
	tx bytes.Buffer
}

func (u *bufferUART) Read(p []byte) (int, error)  { return u.rx.Read(p) }
func (u *bufferUART) Write(p []byte) (int, error) { return u.tx.Write(p) }
func (u *bufferUART) Buffered() int               { return u.rx.Len() }

func TestDriverUART(t *testing.T) {
	uart := &bufferUART{}
	var applied []serial.LineConfig
	periph := serial.NewDriverUART(uart, func(cfg serial.LineConfig) error {
		applied = append(applied, cfg)
		return nil
	})
	clock := serialtest.NewClock(0)
	s := serial.New(periph, "UART0", serial.Pin{}, serial.Pin{}, serial.WithClock(clock))

	calls := 0
	require.NoError(t, s.BeginWithInterrupt(57600, func() { calls++ }))
	require.Len(t, applied, 1)
	require.Equal(t, uint32(57600), applied[0].BaudRate)

	require.False(t, s.Available())
	uart.rx.WriteString("ping\n")
	require.Equal(t, "ping", s.ReadStringUntil('\n'))
	// One interrupt per received byte, terminator included.
	require.Equal(t, 5, calls)

	serial.PrintlnInteger(s, 42, serial.DEC)
	require.Equal(t, "42\r\n", uart.tx.String())

	s.End()
	uart.rx.WriteString("x")
	require.False(t, s.Available())
}

func TestDriverUART_NoConfigure(t *testing.T) {
	periph := serial.NewDriverUART(&bufferUART{}, nil)
	require.NoError(t, periph.Configure(serial.Line8N1(9600)))
}
