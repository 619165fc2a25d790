package serial

import (
	"strings"
	"time"
)

// SetTimeout sets the deadline of the timed read operations, rounded down
// to whole milliseconds. It takes effect for reads started afterwards.
func (s *SerialPort) SetTimeout(d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.timeoutMillis = uint32(d / time.Millisecond)
}

// Timeout returns the current read timeout.
func (s *SerialPort) Timeout() time.Duration {
	return time.Duration(s.timeoutMillis) * time.Millisecond
}

// expired reports whether the timeout has elapsed since start. The
// subtraction is modular so a counter wrap between start and now is harmless.
func (s *SerialPort) expired(start uint32) bool {
	return s.clock.Millis()-start >= s.timeoutMillis
}

// TimedRead waits up to the timeout for a byte and returns it, or NoData.
func (s *SerialPort) TimedRead() int {
	start := s.clock.Millis()
	for !s.expired(start) {
		if s.Available() {
			return s.Read()
		}
	}
	return NoData
}

// TimedPeek waits like TimedRead but peeks instead of reading. PeekByte
// never has data, so TimedPeek returns NoData once a byte is waiting or the
// timeout elapses, whichever comes first.
func (s *SerialPort) TimedPeek() int {
	start := s.clock.Millis()
	for !s.expired(start) {
		if s.Available() {
			return s.PeekByte()
		}
	}
	return NoData
}

// ReadBytes fills buf with TimedRead until it is full or one TimedRead
// times out. It returns the number of bytes stored.
func (s *SerialPort) ReadBytes(buf []byte) int {
	n := 0
	for n < len(buf) {
		c := s.TimedRead()
		if c < 0 {
			break
		}
		buf[n] = byte(c)
		n++
	}
	return n
}

// ReadBytesUntil is ReadBytes that also stops at terminator. The terminator
// is consumed but not stored.
func (s *SerialPort) ReadBytesUntil(terminator byte, buf []byte) int {
	if len(buf) < 1 {
		return 0
	}
	n := 0
	for n < len(buf) {
		c := s.TimedRead()
		if c < 0 || byte(c) == terminator {
			break
		}
		buf[n] = byte(c)
		n++
	}
	return n
}

// ReadString collects bytes until the first TimedRead times out.
func (s *SerialPort) ReadString() string {
	var sb strings.Builder
	for c := s.TimedRead(); c >= 0; c = s.TimedRead() {
		sb.WriteByte(byte(c))
	}
	return sb.String()
}

// ReadStringUntil collects bytes until terminator, which is consumed but not
// returned. The deadline restarts with every byte received, so the call only
// gives up after a full timeout with the line idle.
func (s *SerialPort) ReadStringUntil(terminator byte) string {
	var sb strings.Builder
	start := s.clock.Millis()
	for !s.expired(start) {
		if !s.Available() {
			continue
		}
		c := byte(s.Read())
		if c == terminator {
			break
		}
		sb.WriteByte(c)
		start = s.clock.Millis()
	}
	return sb.String()
}

// ReadAll drains every byte that is already waiting and returns at once
// when the receive flag clears.
func (s *SerialPort) ReadAll() string {
	var sb strings.Builder
	for s.Available() {
		if c := s.Read(); c >= 0 {
			sb.WriteByte(byte(c))
		}
	}
	return sb.String()
}
