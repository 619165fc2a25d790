package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	serial "github.com/luhtfiimanal/go-serialport"
	"github.com/luhtfiimanal/go-serialport/serialtest"
)

func TestNumberPrinter(t *testing.T) {
	tests := []struct {
		value string
		base  int
		float bool
		want  string
	}{
		{"255", serial.HEX, false, "ff\r\n"},
		{"-1", serial.DEC, false, "-1\r\n"},
		{"0x10", serial.OCT, false, "20\r\n"},
		{"18446744073709551615", serial.DEC, false, "18446744073709551615\r\n"},
		{"3.14159", serial.DEC, false, "3.14\r\n"},
		{"2", serial.DEC, true, "2.00\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			numberOpts.base = tt.base
			numberOpts.digits = serial.DefaultDigits

			send, err := numberPrinter(tt.value, tt.float)
			require.NoError(t, err)

			periph := serialtest.NewPeripheral(serialtest.NewClock(0))
			port := serial.New(periph, "USART1", serial.Pin{}, serial.Pin{})
			require.NoError(t, port.Begin(9600))

			require.Equal(t, len(tt.want), send(port))
			require.Equal(t, tt.want, periph.Sent())
		})
	}

	_, err := numberPrinter("ten", false)
	require.Error(t, err)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "port.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
device: /dev/ttyUSB0
backend: bugst
baud_rate: 9600
read_timeout: 250ms
`), 0o644))

	require.NoError(t, rootCmd.ParseFlags([]string{"--config", path, "--baud", "57600"}))

	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	require.Equal(t, "/dev/ttyUSB0", cfg.Device)
	require.Equal(t, "bugst", cfg.Backend)
	require.Equal(t, 57600, cfg.BaudRate)
	require.Equal(t, 250*time.Millisecond, cfg.ReadTimeout)
	require.Equal(t, "\r\n", cfg.Delimiter)
}

func TestReadLine(t *testing.T) {
	clock := serialtest.NewClock(0)
	periph := serialtest.NewPeripheral(clock)
	port := serial.New(periph, "USART1", serial.Pin{}, serial.Pin{}, serial.WithClock(clock))
	require.NoError(t, port.Begin(9600))
	port.SetTimeout(100 * time.Millisecond)

	periph.Receive(0, "one\n\npart")

	line, complete := readLine(port, '\n')
	require.True(t, complete)
	require.Equal(t, "one", line)

	line, complete = readLine(port, '\n')
	require.True(t, complete, "blank line is a line")
	require.Empty(t, line)

	line, complete = readLine(port, '\n')
	require.False(t, complete)
	require.Equal(t, "part", line)

	line, complete = readLine(port, '\n')
	require.False(t, complete)
	require.Empty(t, line)
}
