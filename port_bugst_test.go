package serial_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	bugst "go.bug.st/serial"

	serial "github.com/luhtfiimanal/go-serialport"
	"github.com/luhtfiimanal/go-serialport/serialtest"
)

// fakeBugstPort implements the parts of bugst.Port the backend uses.
type fakeBugstPort struct {
	bugst.Port

	rx      []byte
	tx      []byte
	mode    *bugst.Mode
	timeout time.Duration
	drains  int
	closed  bool
}

func (f *fakeBugstPort) Read(p []byte) (int, error) {
	n := copy(p, f.rx)
	f.rx = f.rx[n:]
	return n, nil
}

func (f *fakeBugstPort) Write(p []byte) (int, error) {
	f.tx = append(f.tx, p...)
	return len(p), nil
}

func (f *fakeBugstPort) SetMode(mode *bugst.Mode) error       { f.mode = mode; return nil }
func (f *fakeBugstPort) SetReadTimeout(t time.Duration) error { f.timeout = t; return nil }
func (f *fakeBugstPort) SetRTS(bool) error                    { return nil }
func (f *fakeBugstPort) Drain() error                         { f.drains++; return nil }
func (f *fakeBugstPort) Close() error                         { f.closed = true; return nil }

func newBugstPort(t *testing.T) (*serial.SerialPort, *fakeBugstPort) {
	t.Helper()
	fake := &fakeBugstPort{}
	periph, err := serial.NewPort(fake, "fake0")
	require.NoError(t, err)
	s := serial.New(periph, "fake0", serial.Pin{}, serial.Pin{}, serial.WithClock(serialtest.NewClock(0)))
	require.NoError(t, s.Begin(9600))
	return s, fake
}

func TestPort_BeginSetsMode(t *testing.T) {
	_, fake := newBugstPort(t)

	require.Equal(t, &bugst.Mode{
		BaudRate: 9600,
		DataBits: 8,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	}, fake.mode)
	require.Equal(t, time.Millisecond, fake.timeout)
}

func TestPort_ProbeKeepsByte(t *testing.T) {
	s, fake := newBugstPort(t)

	require.False(t, s.Available())
	fake.rx = []byte("ok")

	require.True(t, s.Available())
	require.True(t, s.Available(), "probing twice must not lose the latched byte")
	require.Equal(t, "ok", s.ReadAll())
	require.Equal(t, serial.NoData, s.Read())
}

func TestPort_WriteDrains(t *testing.T) {
	s, fake := newBugstPort(t)

	require.Equal(t, 4, s.Println("hi"))
	require.Equal(t, "hi\r\n", string(fake.tx))
	require.Equal(t, 4, fake.drains)
}

func TestPort_InterruptOnLatch(t *testing.T) {
	s, fake := newBugstPort(t)

	calls := 0
	require.NoError(t, s.BeginWithInterrupt(9600, func() { calls++ }))

	fake.rx = []byte("ab")
	require.True(t, s.Available())
	require.True(t, s.Available())
	require.Equal(t, 1, calls)

	require.Equal(t, int('a'), s.Read())
	require.True(t, s.Available())
	require.Equal(t, 2, calls)
}

func TestPort_EndDiscardsAndCloses(t *testing.T) {
	s, fake := newBugstPort(t)
	fake.rx = []byte("z")
	require.True(t, s.Available())

	require.NoError(t, s.Close())
	require.True(t, fake.closed)
	require.False(t, s.Available())
}
