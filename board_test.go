package serial_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	serial "github.com/luhtfiimanal/go-serialport"
	"github.com/luhtfiimanal/go-serialport/serialtest"
)

const ch32v20xProfile = `
name: ch32v20x
uarts:
  USART1: {clock: APB2.USART1, irq: 53}
  USART2: {clock: APB1.USART2, irq: 54}
banks:
  GPIOA: APB2.GPIOA
  GPIOB: APB2.GPIOB
`

func TestBoard_Lookup(t *testing.T) {
	caps, err := serial.CH32V30x.UART("UART4")
	require.NoError(t, err)
	require.Equal(t, serial.UARTCaps{Clock: "APB1.UART4", IRQ: 68}, caps)

	gate, err := serial.CH32V30x.BankClock("GPIOE")
	require.NoError(t, err)
	require.Equal(t, serial.ClockGate("APB2.GPIOE"), gate)

	_, err = serial.CH32V30x.UART("LPUART1")
	require.ErrorIs(t, err, serial.ErrUnknownPeripheral)
	_, err = serial.CH32V30x.BankClock("GPIOK")
	require.ErrorIs(t, err, serial.ErrUnknownPinBank)
}

func TestLoadBoard(t *testing.T) {
	board, err := serial.LoadBoard(strings.NewReader(ch32v20xProfile))
	require.NoError(t, err)
	require.Equal(t, "ch32v20x", board.Name)
	require.Len(t, board.UARTs, 2)

	platform := &serialtest.Platform{}
	clock := serialtest.NewClock(0)
	s := serial.New(serialtest.NewPeripheral(clock), "USART2", pa2, pb11,
		serial.WithBoard(board), serial.WithPlatform(platform), serial.WithClock(clock))
	require.NoError(t, s.BeginWithInterrupt(115200, func() {}))
	require.Equal(t, []serial.ClockGate{"APB2.GPIOA", "APB2.GPIOB", "APB1.USART2"}, platform.Clocks())
	require.Equal(t, []serial.IRQ{54}, platform.IRQs())

	s = serial.New(serialtest.NewPeripheral(clock), "USART3", pa9, pa10,
		serial.WithBoard(board), serial.WithPlatform(platform))
	require.ErrorIs(t, s.Begin(115200), serial.ErrUnknownPeripheral)
}

func TestLoadBoard_Invalid(t *testing.T) {
	_, err := serial.LoadBoard(strings.NewReader("name: empty\n"))
	require.Error(t, err)

	_, err = serial.LoadBoard(strings.NewReader("uarts: [1, 2"))
	require.Error(t, err)
}

func TestPinMode_String(t *testing.T) {
	require.Equal(t, "alt-push-pull", serial.PinAltPushPull.String())
	require.Equal(t, "input-floating", serial.PinInputFloating.String())
	require.Equal(t, "PinMode(7)", serial.PinMode(7).String())
}
