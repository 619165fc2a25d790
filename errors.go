package serial

import "errors"

// NoData is returned by the single-byte read operations when nothing was
// received, including on timeout. Callers cannot tell the two apart.
const NoData = -1

var (
	ErrUnknownPeripheral = errors.New("unknown uart peripheral")
	ErrUnknownPinBank    = errors.New("unknown pin bank")
	ErrUnknownBackend    = errors.New("unknown serial backend")
	ErrNoDevice          = errors.New("serial device path is required")
	ErrClosed            = errors.New("serial port closed")
)
