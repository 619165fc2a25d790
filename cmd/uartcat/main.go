package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	serial "github.com/luhtfiimanal/go-serialport"
)

var (
	globalOpts = struct {
		config  string
		device  string
		backend string
		baud    int
		timeout time.Duration
		verbose bool
	}{}

	logger zerolog.Logger

	rootCmd = &cobra.Command{
		Use:          "uartcat",
		Short:        "Talk to a serial device line by line",
		Long:         "uartcat opens a serial device through go-serialport and sends, reads or drains data with Arduino-style timeouts.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if globalOpts.verbose {
				level = zerolog.DebugLevel
			}
			logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
				Level(level).With().Timestamp().Logger()
		},
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&globalOpts.config, "config", "c", "", "YAML config file")
	flags.StringVarP(&globalOpts.device, "device", "d", "", "serial device, e.g. /dev/ttyUSB0")
	flags.StringVarP(&globalOpts.backend, "backend", "B", "", "backend: tty or bugst")
	flags.IntVarP(&globalOpts.baud, "baud", "b", serial.DefaultBaudRate, "baud rate")
	flags.DurationVarP(&globalOpts.timeout, "timeout", "t", serial.DefaultTimeout, "read timeout")
	flags.BoolVarP(&globalOpts.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(sendCmd, readlineCmd, readCmd, drainCmd, numberCmd, backendsCmd)
}

// loadConfig merges the config file, if any, with flags set on the command line.
func loadConfig(cmd *cobra.Command) (serial.Config, error) {
	var cfg serial.Config
	if globalOpts.config != "" {
		var err error
		if cfg, err = serial.LoadConfig(globalOpts.config); err != nil {
			return serial.Config{}, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("device") || cfg.Device == "" {
		cfg.Device = globalOpts.device
	}
	if flags.Changed("backend") {
		cfg.Backend = globalOpts.backend
	}
	if flags.Changed("baud") || cfg.BaudRate == 0 {
		cfg.BaudRate = globalOpts.baud
	}
	if flags.Changed("timeout") || cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = globalOpts.timeout
	}
	return cfg.WithDefaults(), nil
}

func openPort(cmd *cobra.Command) (*serial.SerialPort, serial.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}
	port, err := serial.Open(cfg, serial.WithLogger(logger))
	if err != nil {
		return nil, cfg, err
	}
	return port, cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
