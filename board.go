package serial

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// PeripheralID names a UART instance on a chip, e.g. "USART1".
type PeripheralID string

// PinBank names a GPIO port, e.g. "GPIOA".
type PinBank string

// ClockGate names a peripheral clock enable bit, e.g. "APB2.USART1".
type ClockGate string

// IRQ is an interrupt controller line number.
type IRQ uint16

// Pin identifies one GPIO pin by bank and pin mask.
type Pin struct {
	Bank PinBank `yaml:"bank"`
	Mask uint16  `yaml:"mask"`
}

// PinMode is the electrical mode a pin is configured to.
type PinMode uint8

const (
	// PinAltPushPull is an alternate-function push-pull output (TX).
	PinAltPushPull PinMode = iota
	// PinInputFloating is a floating input (RX).
	PinInputFloating
)

func (m PinMode) String() string {
	switch m {
	case PinAltPushPull:
		return "alt-push-pull"
	case PinInputFloating:
		return "input-floating"
	default:
		return fmt.Sprintf("PinMode(%d)", uint8(m))
	}
}

// Platform enables clocks, routes pins and unmasks interrupt lines.
type Platform interface {
	EnableClock(gate ClockGate) error
	ConfigurePin(pin Pin, mode PinMode) error
	EnableIRQ(irq IRQ) error
}

// UARTCaps are the chip resources belonging to one UART instance.
type UARTCaps struct {
	Clock ClockGate `yaml:"clock"`
	IRQ   IRQ       `yaml:"irq"`
}

// Board is a capability table for one chip family: which clock gate and
// interrupt line each UART uses, and which clock gate feeds each pin bank.
// Adding a chip variant means adding entries, not code.
type Board struct {
	Name  string                    `yaml:"name"`
	UARTs map[PeripheralID]UARTCaps `yaml:"uarts"`
	Banks map[PinBank]ClockGate     `yaml:"banks"`
}

// UART returns the resources of the named UART.
func (b *Board) UART(id PeripheralID) (UARTCaps, error) {
	caps, ok := b.UARTs[id]
	if !ok {
		return UARTCaps{}, fmt.Errorf("%w: %s on %s", ErrUnknownPeripheral, id, b.Name)
	}
	return caps, nil
}

// BankClock returns the clock gate feeding the named pin bank.
func (b *Board) BankClock(bank PinBank) (ClockGate, error) {
	gate, ok := b.Banks[bank]
	if !ok {
		return "", fmt.Errorf("%w: %s on %s", ErrUnknownPinBank, bank, b.Name)
	}
	return gate, nil
}

// LoadBoard decodes a YAML board profile.
//
//	name: ch32v20x
//	uarts:
//	  USART1: {clock: APB2.USART1, irq: 53}
//	banks:
//	  GPIOA: APB2.GPIOA
func LoadBoard(r io.Reader) (*Board, error) {
	var b Board
	if err := yaml.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode board: %w", err)
	}
	if len(b.UARTs) == 0 {
		return nil, fmt.Errorf("board %q: no uarts", b.Name)
	}
	return &b, nil
}

// CH32V30x is the WCH CH32V30x family: USART1 on APB2, the rest on APB1,
// GPIO ports A to E on APB2.
var CH32V30x = &Board{
	Name: "ch32v30x",
	UARTs: map[PeripheralID]UARTCaps{
		"USART1": {Clock: "APB2.USART1", IRQ: 53},
		"USART2": {Clock: "APB1.USART2", IRQ: 54},
		"USART3": {Clock: "APB1.USART3", IRQ: 55},
		"UART4":  {Clock: "APB1.UART4", IRQ: 68},
		"UART5":  {Clock: "APB1.UART5", IRQ: 69},
	},
	Banks: map[PinBank]ClockGate{
		"GPIOA": "APB2.GPIOA",
		"GPIOB": "APB2.GPIOB",
		"GPIOC": "APB2.GPIOC",
		"GPIOD": "APB2.GPIOD",
		"GPIOE": "APB2.GPIOE",
	},
}
