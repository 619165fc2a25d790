package serial

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

type loggerSetter interface {
	SetLogger(zerolog.Logger)
}

// Backend opens a host device as a Peripheral.
type Backend func(cfg Config) (Peripheral, error)

var (
	backendsMu sync.RWMutex
	backends   = map[string]Backend{}
)

// RegisterBackend makes a backend available to Open under name.
func RegisterBackend(name string, b Backend) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[name] = b
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens cfg.Device with the configured backend, wraps it in a
// SerialPort and begins it in polling mode at cfg.BaudRate with
// cfg.ReadTimeout. The device path doubles as the peripheral identity.
func Open(cfg Config, opts ...Option) (*SerialPort, error) {
	cfg = cfg.WithDefaults()
	if cfg.Device == "" {
		return nil, ErrNoDevice
	}
	backendsMu.RLock()
	open, ok := backends[cfg.Backend]
	backendsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}

	periph, err := open(cfg)
	if err != nil {
		return nil, err
	}
	s := New(periph, PeripheralID(cfg.Device), Pin{}, Pin{}, opts...)
	if l, ok := periph.(loggerSetter); ok {
		l.SetLogger(s.log)
	}
	if err := s.Begin(uint32(cfg.BaudRate)); err != nil {
		s.Close()
		return nil, err
	}
	s.SetTimeout(cfg.ReadTimeout)
	s.log.Debug().Str("backend", cfg.Backend).Int("baud", cfg.BaudRate).Msg("serial port opened")
	return s, nil
}
