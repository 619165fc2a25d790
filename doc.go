// Package serial provides an Arduino-style UART driver for microcontrollers
// and for host serial devices that stand in for them.
//
// A SerialPort wraps one UART register block (a Peripheral) and offers
// blocking byte I/O by polling status flags, a Print/Println formatting
// layer and timeout-bounded reads in the style of Arduino's Stream class.
//
// Features:
//   - Begin/End with clock, pin and interrupt setup resolved from a Board
//     capability table through an injected Platform
//   - Non-blocking Available/Read, blocking WriteByte/Write/Flush
//   - Print/Println for strings, characters, integers in base 10/16/8 and
//     floats with a fixed number of decimals
//   - TimedRead, ReadBytes, ReadBytesUntil, ReadString, ReadStringUntil and
//     ReadAll bounded by SetTimeout and an injectable millisecond Clock
//   - Host backends: Linux tty (TTY), go.bug.st/serial (Port) and any
//     tinygo.org/x/drivers UART (DriverUART)
//   - PTY-based tests for the Linux backend, fake peripherals in serialtest
//
// Single-byte reads report "nothing received" as NoData (-1); timed reads
// use the same value on timeout. PeekByte is unsupported and always
// returns NoData.
//
// Example usage on a host:
//
//	port, err := serial.Open(serial.Config{
//	    Device:      "/dev/ttyUSB0",
//	    BaudRate:    115200,
//	    ReadTimeout: 500 * time.Millisecond,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	port.Println("C,START")
//	line := port.ReadStringUntil('\n')
//
// Example usage on a chip, with the platform supplied by the target code:
//
//	uart := serial.New(usart1, "USART1",
//	    serial.Pin{Bank: "GPIOA", Mask: 1 << 9},
//	    serial.Pin{Bank: "GPIOA", Mask: 1 << 10},
//	    serial.WithPlatform(platform), serial.WithClock(sysTick))
//	uart.Begin(115200)
//	serial.PrintlnInteger(uart, 255, serial.HEX) // "ff\r\n"
package serial
