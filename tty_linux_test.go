//go:build linux

package serial

import (
	"io"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// openPTY returns a SerialPort on the slave side of a fresh pty pair and
// the master, which plays the remote end of the line.
func openPTY(t *testing.T) (*SerialPort, io.ReadWriteCloser) {
	t.Helper()
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	port, err := Open(Config{
		Device:      slave.Name(),
		Backend:     "tty",
		BaudRate:    115200,
		ReadTimeout: 200 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { port.Close() })
	return port, master
}

func TestTTY_ReadStringUntil(t *testing.T) {
	port, master := openPTY(t)

	_, err := master.Write([]byte("hello\n"))
	require.NoError(t, err)

	require.Equal(t, "hello", port.ReadStringUntil('\n'))
}

func TestTTY_Println(t *testing.T) {
	port, master := openPTY(t)

	n := port.Println("pong")
	require.Equal(t, len("pong\r\n"), n)

	buf := make([]byte, n)
	_, err := io.ReadFull(master, buf)
	require.NoError(t, err)
	require.Equal(t, "pong\r\n", string(buf))
}

func TestTTY_LoopbackBytes(t *testing.T) {
	port, master := openPTY(t)

	for _, b := range []byte{0x00, 'A', '\n', 0x7f, 0xff} {
		require.NoError(t, port.WriteByte(b))

		var echo [1]byte
		_, err := io.ReadFull(master, echo[:])
		require.NoError(t, err)
		require.Equal(t, b, echo[0])

		_, err = master.Write(echo[:])
		require.NoError(t, err)

		require.Equal(t, int(b), port.TimedRead(), "byte %#x", b)
	}
}

func TestTTY_ReadAllDoesNotWait(t *testing.T) {
	port, _ := openPTY(t)

	start := time.Now()
	require.Equal(t, "", port.ReadAll())
	require.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestTTY_ReadStringStopsAtSilence(t *testing.T) {
	port, master := openPTY(t)

	_, err := master.Write([]byte("hi"))
	require.NoError(t, err)

	require.Equal(t, "hi", port.ReadString())
}

func TestTTY_RxInterrupt(t *testing.T) {
	port, master := openPTY(t)

	fired := make(chan struct{}, 1)
	require.NoError(t, port.BeginWithInterrupt(115200, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	}))

	_, err := master.Write([]byte("x"))
	require.NoError(t, err)

	select {
	case <-fired:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timeout waiting for rx interrupt")
	}
	require.Equal(t, int('x'), port.TimedRead())
}

func TestTTY_EndWithPendingInputIdles(t *testing.T) {
	port, master := openPTY(t)
	require.NoError(t, port.BeginWithInterrupt(115200, func() {}))

	_, err := master.Write([]byte("x"))
	require.NoError(t, err)
	require.Eventually(t, port.Available, time.Second, time.Millisecond)
	port.End()

	cpu := func() time.Duration {
		var ru unix.Rusage
		require.NoError(t, unix.Getrusage(unix.RUSAGE_SELF, &ru))
		return time.Duration(ru.Utime.Nano() + ru.Stime.Nano())
	}
	before := cpu()
	time.Sleep(300 * time.Millisecond)
	require.Less(t, cpu()-before, 150*time.Millisecond, "watcher must not spin on unread input")

	// The byte is still there once the port is started again.
	require.NoError(t, port.Begin(115200))
	require.Equal(t, int('x'), port.TimedRead())
}

func TestTTY_CloseStopsWatcher(t *testing.T) {
	port, _ := openPTY(t)
	require.NoError(t, port.BeginWithInterrupt(115200, func() {}))

	done := make(chan error, 1)
	go func() { done <- port.Close() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timeout waiting for Close")
	}

	// Should be a no-op due to closeOnce
	require.NoError(t, port.Close())
	require.ErrorIs(t, port.Begin(9600), ErrClosed)
}

func TestOpenTTY_MissingDevice(t *testing.T) {
	_, err := OpenTTY("/dev/does-not-exist")
	require.Error(t, err)

	_, err = OpenTTY("")
	require.ErrorIs(t, err, ErrNoDevice)
}
