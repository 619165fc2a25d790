package serial

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// crlf terminates every Println.
const crlf = "\r\n"

// Char marks a byte to be printed as a character instead of a number.
type Char byte

// PrintString writes str and returns the number of bytes written.
func (s *SerialPort) PrintString(str string) int {
	n, _ := s.WriteString(str)
	return n
}

// PrintChar writes a single character.
func (s *SerialPort) PrintChar(c byte) int {
	s.WriteByte(c)
	return 1
}

// Print writes each value in turn with no separator and returns the total
// number of bytes written. Integers print in decimal and floats with
// DefaultDigits decimals; use PrintInteger and PrintFloat for other formats.
// A byte prints as a number; wrap it in Char to print it as a character.
// The same holds for a rune: Print('a') prints "97", Print(Char('a')) prints
// "a".
func (s *SerialPort) Print(v ...any) int {
	n := 0
	for _, x := range v {
		n += s.print1(x)
	}
	return n
}

// Println is Print followed by "\r\n". With no arguments it writes just the
// line terminator.
func (s *SerialPort) Println(v ...any) int {
	n := s.Print(v...)
	return n + s.PrintString(crlf)
}

// Printf formats according to a fmt format specifier and writes the result.
func (s *SerialPort) Printf(format string, args ...any) int {
	n, _ := fmt.Fprintf(s, format, args...)
	return n
}

func (s *SerialPort) print1(v any) int {
	switch x := v.(type) {
	case string:
		return s.PrintString(x)
	case []byte:
		n, _ := s.Write(x)
		return n
	case Char:
		return s.PrintChar(byte(x))
	case int:
		return PrintInteger(s, x, DEC)
	case int8:
		return PrintInteger(s, x, DEC)
	case int16:
		return PrintInteger(s, x, DEC)
	case int32:
		return PrintInteger(s, x, DEC)
	case int64:
		return PrintInteger(s, x, DEC)
	case uint:
		return PrintInteger(s, x, DEC)
	case uint8:
		return PrintInteger(s, x, DEC)
	case uint16:
		return PrintInteger(s, x, DEC)
	case uint32:
		return PrintInteger(s, x, DEC)
	case uint64:
		return PrintInteger(s, x, DEC)
	case uintptr:
		return PrintInteger(s, x, DEC)
	case float32:
		return PrintFloat(s, x, DefaultDigits)
	case float64:
		return PrintFloat(s, x, DefaultDigits)
	case error:
		return s.PrintString(x.Error())
	case fmt.Stringer:
		return s.PrintString(x.String())
	default:
		return s.PrintString(fmt.Sprint(x))
	}
}

// PrintInteger writes n in base (DEC, HEX or OCT; anything else prints in
// decimal) and returns the number of bytes written. Negative values in HEX
// or OCT print as two's complement at the width of T, so an untyped constant
// such as -5 is an int and prints 16 hex digits on 64-bit targets; pass
// int32(-5) for "fffffffb".
func PrintInteger[T constraints.Integer](s *SerialPort, n T, base int) int {
	return s.PrintString(FormatInteger(n, base))
}

// PrintlnInteger is PrintInteger followed by "\r\n".
func PrintlnInteger[T constraints.Integer](s *SerialPort, n T, base int) int {
	return PrintInteger(s, n, base) + s.PrintString(crlf)
}

// PrintFloat writes f with the given number of decimals.
func PrintFloat[T constraints.Float](s *SerialPort, f T, digits int) int {
	return s.PrintString(FormatFloat(f, digits))
}

// PrintlnFloat is PrintFloat followed by "\r\n".
func PrintlnFloat[T constraints.Float](s *SerialPort, f T, digits int) int {
	return PrintFloat(s, f, digits) + s.PrintString(crlf)
}
