package serial

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds parameters for opening a host serial device as a SerialPort.
type Config struct {
	Device      string        `yaml:"device"`
	Backend     string        `yaml:"backend"` // "tty" (Linux only) or "bugst"
	BaudRate    int           `yaml:"baud_rate"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
	Delimiter   string        `yaml:"delimiter"` // default "\r\n"
}

// DefaultBaudRate is used when Config.BaudRate is zero.
const DefaultBaudRate = 115200

// WithDefaults returns cfg with every unset field filled in.
func (cfg Config) WithDefaults() Config {
	if cfg.Backend == "" {
		cfg.Backend = "bugst"
		if runtime.GOOS == "linux" {
			cfg.Backend = "tty"
		}
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultTimeout
	}
	if cfg.Delimiter == "" {
		cfg.Delimiter = crlf
	}
	return cfg
}

// LoadConfig reads a YAML config file and applies defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg.WithDefaults(), nil
}
