package serial

import (
	"strconv"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// formatBufferSize is the scratch space for one number. Longer text is cut
// to formatBufferSize-1 characters.
const formatBufferSize = 32

// DefaultDigits is the number of decimals Print uses for floats.
const DefaultDigits = 2

// Supported integer bases. Any other base prints in decimal.
const (
	DEC = 10
	HEX = 16
	OCT = 8
)

// AppendInteger appends the text of n in base to dst.
//
// Base 16 and 8 print signed values as their two's complement at the width
// of T, so AppendInteger(nil, int8(-1), HEX) is "ff". Hex digits are lower
// case.
func AppendInteger[T constraints.Integer](dst []byte, n T, base int) []byte {
	var zero T
	signed := ^zero < 0
	switch base {
	case HEX, OCT:
		bits := uint(unsafe.Sizeof(n)) * 8
		v := uint64(n)
		if bits < 64 {
			v &= 1<<bits - 1
		}
		return strconv.AppendUint(dst, v, base)
	}
	if signed {
		return strconv.AppendInt(dst, int64(n), 10)
	}
	return strconv.AppendUint(dst, uint64(n), 10)
}

// AppendFloat appends f with a fixed number of decimals. Negative digits
// select six decimals.
func AppendFloat[T constraints.Float](dst []byte, f T, digits int) []byte {
	if digits < 0 {
		digits = 6
	}
	return strconv.AppendFloat(dst, float64(f), 'f', digits, 64)
}

// FormatInteger is AppendInteger into the fixed scratch buffer.
func FormatInteger[T constraints.Integer](n T, base int) string {
	var buf [formatBufferSize]byte
	return string(clip(AppendInteger(buf[:0], n, base)))
}

// FormatFloat is AppendFloat into the fixed scratch buffer.
func FormatFloat[T constraints.Float](f T, digits int) string {
	var buf [formatBufferSize]byte
	return string(clip(AppendFloat(buf[:0], f, digits)))
}

func clip(b []byte) []byte {
	if len(b) > formatBufferSize-1 {
		return b[:formatBufferSize-1]
	}
	return b
}
