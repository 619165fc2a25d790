package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	serial "github.com/luhtfiimanal/go-serialport"
)

var (
	sendOpts = struct {
		noNewline bool
	}{}

	sendCmd = &cobra.Command{
		Use:   "send TEXT...",
		Short: "Send text followed by CRLF",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _, err := openPort(cmd)
			if err != nil {
				return err
			}
			defer port.Close()

			text := strings.Join(args, " ")
			var n int
			if sendOpts.noNewline {
				n = port.Print(text)
			} else {
				n = port.Println(text)
			}
			port.Flush()
			logger.Debug().Int("bytes", n).Msg("sent")
			return nil
		},
	}

	readlineOpts = struct {
		count int
	}{}

	readlineCmd = &cobra.Command{
		Use:   "readline",
		Short: "Print received lines until the line goes idle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			port, cfg, err := openPort(cmd)
			if err != nil {
				return err
			}
			defer port.Close()

			term := cfg.Delimiter[len(cfg.Delimiter)-1]
			trim := cfg.Delimiter[:len(cfg.Delimiter)-1]
			out := cmd.OutOrStdout()
			for i := 0; readlineOpts.count <= 0 || i < readlineOpts.count; i++ {
				line, complete := readLine(port, term)
				line = strings.TrimSuffix(line, trim)
				if !complete {
					if line != "" {
						logger.Warn().Str("partial", line).Msg("line cut off by timeout")
						fmt.Fprint(out, line)
					}
					logger.Debug().Msg("line idle")
					return nil
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	readCmd = &cobra.Command{
		Use:   "read N",
		Short: "Read up to N bytes, stopping at the first timeout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid byte count %q", args[0])
			}
			port, _, err := openPort(cmd)
			if err != nil {
				return err
			}
			defer port.Close()

			buf := make([]byte, n)
			got := port.ReadBytes(buf)
			if got < n {
				logger.Warn().Int("want", n).Int("got", got).Msg("short read")
			}
			_, err = cmd.OutOrStdout().Write(buf[:got])
			return err
		},
	}

	drainCmd = &cobra.Command{
		Use:   "drain",
		Short: "Print whatever has already been received and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _, err := openPort(cmd)
			if err != nil {
				return err
			}
			defer port.Close()

			_, err = fmt.Fprint(cmd.OutOrStdout(), port.ReadAll())
			return err
		},
	}

	numberOpts = struct {
		base   int
		digits int
	}{}

	numberCmd = &cobra.Command{
		Use:   "number VALUE",
		Short: "Send a number formatted in a base or with fixed decimals",
		Long:  "Send an integer in base 10, 16 or 8 (--base), or a float with --digits decimals.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			send, err := numberPrinter(args[0], cmd.Flags().Changed("digits"))
			if err != nil {
				return err
			}
			port, _, err := openPort(cmd)
			if err != nil {
				return err
			}
			defer port.Close()

			n := send(port)
			logger.Debug().Int("bytes", n).Msg("sent")
			return nil
		},
	}

	backendsCmd = &cobra.Command{
		Use:   "backends",
		Short: "List the available backends",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range serial.Backends() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
)

func init() {
	sendCmd.Flags().BoolVarP(&sendOpts.noNewline, "no-newline", "n", false, "do not append CRLF")
	readlineCmd.Flags().IntVarP(&readlineOpts.count, "count", "n", 0, "stop after this many lines (0 = until idle)")
	numberCmd.Flags().IntVar(&numberOpts.base, "base", serial.DEC, "integer base: 10, 16 or 8")
	numberCmd.Flags().IntVar(&numberOpts.digits, "digits", serial.DefaultDigits, "decimals for floats")
}

// numberPrinter parses value as an integer, or as a float when it has a
// fraction or float output was requested, and returns the matching Println.
func numberPrinter(value string, float bool) (func(*serial.SerialPort) int, error) {
	if !float {
		if i, err := strconv.ParseInt(value, 0, 64); err == nil {
			return func(s *serial.SerialPort) int { return serial.PrintlnInteger(s, i, numberOpts.base) }, nil
		}
		if u, err := strconv.ParseUint(value, 0, 64); err == nil {
			return func(s *serial.SerialPort) int { return serial.PrintlnInteger(s, u, numberOpts.base) }, nil
		}
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, errors.New("value is not a number: " + value)
	}
	return func(s *serial.SerialPort) int { return serial.PrintlnFloat(s, f, numberOpts.digits) }, nil
}

// readLine reads up to term, waiting at most one timeout for each byte. It
// reports whether term was seen, so an empty line differs from an idle one.
func readLine(port *serial.SerialPort, term byte) (string, bool) {
	var sb strings.Builder
	for {
		c := port.TimedRead()
		if c < 0 {
			return sb.String(), false
		}
		if byte(c) == term {
			return sb.String(), true
		}
		sb.WriteByte(byte(c))
	}
}
