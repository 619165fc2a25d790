//go:build linux

package serial

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

func init() {
	RegisterBackend("tty", func(cfg Config) (Peripheral, error) {
		return OpenTTY(cfg.Device)
	})
}

// TTY presents a Linux serial device as a UART register block. RXNE
// reflects the kernel input queue, TC the kernel output queue, and the
// RXNE interrupt is emulated by a poll loop that Close can always stop.
type TTY struct {
	fd        int
	file      *os.File
	device    string
	done      chan struct{}
	closeOnce sync.Once
	pipeR     int // self-pipe read fd
	pipeW     int // self-pipe write fd

	enabled   atomic.Bool
	rxIE      atomic.Bool
	isr       atomic.Pointer[func()]
	watchOnce sync.Once
	watchDone chan struct{}

	log zerolog.Logger
}

// OpenTTY opens device in raw mode. The line is configured by the
// SerialPort's Begin, not here.
func OpenTTY(device string) (*TTY, error) {
	if device == "" {
		return nil, ErrNoDevice
	}
	fd, err := syscall.Open(device, syscall.O_RDWR|syscall.O_NOCTTY|syscall.O_NONBLOCK, 0666)
	if err != nil {
		return nil, fmt.Errorf("open failed: %w", err)
	}

	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		syscall.Close(fd)
		return nil, fmt.Errorf("get termios: %w", err)
	}
	makeRaw(termios)
	// VMIN=1, VTIME=0: data reads are only issued once RXNE is set.
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		syscall.Close(fd)
		return nil, fmt.Errorf("set termios: %w", err)
	}

	// Turn back into blocking mode now that config is done
	if err := syscall.SetNonblock(fd, false); err != nil {
		syscall.Close(fd)
		return nil, fmt.Errorf("set blocking: %w", err)
	}

	// Create self-pipe for killability
	pipeFds := make([]int, 2)
	if err := unix.Pipe(pipeFds); err != nil {
		syscall.Close(fd)
		return nil, fmt.Errorf("pipe: %w", err)
	}

	return &TTY{
		fd:        fd,
		file:      os.NewFile(uintptr(fd), device),
		device:    device,
		done:      make(chan struct{}),
		pipeR:     pipeFds[0],
		pipeW:     pipeFds[1],
		watchDone: make(chan struct{}),
		log:       zerolog.Nop(),
	}, nil
}

// SetLogger sets the logger used for the interrupt watcher.
func (t *TTY) SetLogger(l zerolog.Logger) {
	t.log = l.With().Str("device", t.device).Logger()
}

func makeRaw(termios *unix.Termios) {
	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	termios.Oflag &^= unix.OPOST
	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	termios.Cflag &^= unix.CSIZE | unix.PARENB
	termios.Cflag |= unix.CS8 | unix.CLOCAL
}

// Configure applies baud rate and frame format.
func (t *TTY) Configure(cfg LineConfig) error {
	select {
	case <-t.done:
		return ErrClosed
	default:
	}
	termios, err := unix.IoctlGetTermios(t.fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("get termios: %w", err)
	}
	makeRaw(termios)

	termios.Cflag &^= unix.CSIZE
	switch cfg.DataBits {
	case 5:
		termios.Cflag |= unix.CS5
	case 6:
		termios.Cflag |= unix.CS6
	case 7:
		termios.Cflag |= unix.CS7
	default:
		termios.Cflag |= unix.CS8
	}

	termios.Cflag &^= unix.CSTOPB
	if cfg.StopBits == 2 {
		termios.Cflag |= unix.CSTOPB
	}

	termios.Cflag &^= unix.PARENB | unix.PARODD
	switch cfg.Parity {
	case ParityEven:
		termios.Cflag |= unix.PARENB
	case ParityOdd:
		termios.Cflag |= unix.PARENB | unix.PARODD
	}

	termios.Cflag &^= unix.CRTSCTS
	if cfg.FlowControl {
		termios.Cflag |= unix.CRTSCTS
	}

	termios.Cflag &^= unix.CREAD
	if cfg.RxEnable {
		termios.Cflag |= unix.CREAD
	}

	// Baud rate
	termios.Cflag &^= unix.CBAUD
	termios.Cflag |= baudToUnix(int(cfg.BaudRate))

	if err := unix.IoctlSetTermios(t.fd, unix.TCSETS, termios); err != nil {
		return fmt.Errorf("set termios: %w", err)
	}
	return nil
}

func (t *TTY) Enable()  { t.enabled.Store(true) }
func (t *TTY) Disable() { t.enabled.Store(false) }

// Status derives the flags from the kernel queues. If the device has gone
// away the transmitter reports idle so that writers do not spin forever.
func (t *TTY) Status() Status {
	st := StatusTXE
	if out, err := unix.IoctlGetInt(t.fd, unix.TIOCOUTQ); err != nil || out == 0 {
		st |= StatusTC
	}
	if t.enabled.Load() && t.inputPending() {
		st |= StatusRXNE
	}
	return st
}

// inputPending reports whether the kernel input queue holds any bytes,
// regardless of the enable bit.
func (t *TTY) inputPending() bool {
	in, err := unix.IoctlGetInt(t.fd, unix.TIOCINQ)
	return err == nil && in > 0
}

func (t *TTY) ReadData() byte {
	var b [1]byte
	unix.Read(t.fd, b[:])
	return b[0]
}

func (t *TTY) WriteData(b byte) {
	unix.Write(t.fd, []byte{b})
}

// EnableRxInterrupt calls isr from a watcher goroutine each time the input
// queue goes from empty to non-empty.
func (t *TTY) EnableRxInterrupt(isr func()) {
	t.isr.Store(&isr)
	t.rxIE.Store(true)
	t.watchOnce.Do(func() { go t.watch() })
}

func (t *TTY) DisableRxInterrupt() {
	t.rxIE.Store(false)
}

func (t *TTY) watch() {
	defer close(t.watchDone)
	for {
		// Use poll to wait for data or kill signal
		pfd := []unix.PollFd{
			{Fd: int32(t.fd), Events: unix.POLLIN},
			{Fd: int32(t.pipeR), Events: unix.POLLIN},
		}
		if _, err := unix.Poll(pfd, -1); err != nil {
			if err == unix.EINTR {
				continue
			}
			t.log.Warn().Err(err).Msg("rx interrupt watcher stopped")
			return
		}
		select {
		case <-t.done:
			return
		default:
		}
		if pfd[1].Revents&unix.POLLIN != 0 {
			return
		}
		if pfd[0].Revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
			t.log.Debug().Msg("rx interrupt watcher: line hung up")
			return
		}
		if pfd[0].Revents&unix.POLLIN == 0 {
			continue
		}
		if t.rxIE.Load() && t.enabled.Load() {
			if isr := t.isr.Load(); isr != nil {
				(*isr)()
			}
		}
		// The queue stays readable until the byte is consumed, even while the
		// port is disabled; wait for it to drain before polling again.
		for t.inputPending() {
			select {
			case <-t.done:
				return
			case <-time.After(time.Millisecond):
			}
		}
	}
}

// Close releases the device and stops the interrupt watcher.
// Safe to call multiple times; subsequent calls are no-ops.
func (t *TTY) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)
		// Wake up poll using self-pipe
		if t.pipeW > 0 {
			unix.Write(t.pipeW, []byte{1})
		}
		// Claims the once if the watcher never started.
		t.watchOnce.Do(func() { close(t.watchDone) })
		<-t.watchDone
		if t.file != nil {
			err = t.file.Close()
		}
		if t.pipeR > 0 {
			unix.Close(t.pipeR)
		}
		if t.pipeW > 0 {
			unix.Close(t.pipeW)
		}
	})
	return err
}

func baudToUnix(baud int) uint32 {
	switch baud {
	case 9600:
		return unix.B9600
	case 19200:
		return unix.B19200
	case 38400:
		return unix.B38400
	case 57600:
		return unix.B57600
	case 115200:
		return unix.B115200
	case 230400:
		return unix.B230400
	case 460800:
		return unix.B460800
	case 921600:
		return unix.B921600
	default:
		return unix.B115200 // fallback
	}
}
