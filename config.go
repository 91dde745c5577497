package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"i4.energy/across/modemmgr/modem"
)

// Serial backends selectable with Config.Backend.
const (
	BackendBugst = "bugst"
	BackendTarm  = "tarm"
)

// Config holds the application configuration
type Config struct {
	// BindAddress is the address the server listens on (e.g. "0.0.0.0:8080")
	BindAddress string `yaml:"bind_address"`
	// SerialPort is the path to the modem's serial port (e.g. "/dev/ttyUSB0")
	SerialPort string `yaml:"serial_port"`
	// BaudRate is the baud rate for serial communication with the modem (e.g. 115200)
	BaudRate int `yaml:"baud_rate"`
	// ReadTimeout bounds each poll of the serial port (e.g. "100ms")
	ReadTimeout time.Duration `yaml:"read_timeout"`
	// Model selects the command dialect (e.g. "generic", "e3372")
	Model string `yaml:"model"`
	// Backend selects the serial library, "bugst" or "tarm"
	Backend string `yaml:"backend"`
	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string `yaml:"log_level"`
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.BindAddress = "0.0.0.0:8080"
		c.SerialPort = "/dev/ttyUSB0"
		c.BaudRate = modem.DefaultBaudRate
		c.ReadTimeout = modem.DefaultReadTimeout
		c.Model = "generic"
		c.Backend = BackendBugst
		c.LogLevel = "info"
		return nil
	}
}

// WithFile overlays the keys present in a YAML file. An empty path is a
// no-op.
func WithFile(path string) ConfigOption {
	return func(c *Config) error {
		if path == "" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
		return nil
	}
}

// WithEnv loads configuration from environment variables
func WithEnv() ConfigOption {
	return func(c *Config) error {
		if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
			c.BindAddress = addr
		}

		if serial := os.Getenv("SERIAL_PORT"); serial != "" {
			c.SerialPort = serial
		}

		if baud := os.Getenv("BAUD_RATE"); baud != "" {
			if b, err := strconv.Atoi(baud); err == nil {
				c.BaudRate = b
			}
		}

		if timeout := os.Getenv("READ_TIMEOUT"); timeout != "" {
			if d, err := time.ParseDuration(timeout); err == nil {
				c.ReadTimeout = d
			}
		}

		if model := os.Getenv("MODEM_MODEL"); model != "" {
			c.Model = model
		}

		if backend := os.Getenv("SERIAL_BACKEND"); backend != "" {
			c.Backend = backend
		}

		if level := os.Getenv("LOG_LEVEL"); level != "" {
			c.LogLevel = level
		}

		return nil
	}
}

// WithFlags loads configuration from command-line flags
func WithFlags(fSet *flag.FlagSet) ConfigOption {
	return func(c *Config) error {
		fSet.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "bind-address":
				c.BindAddress = f.Value.String()
			case "serial-port":
				c.SerialPort = f.Value.String()
			case "baud-rate":
				if b, err := strconv.Atoi(f.Value.String()); err == nil {
					c.BaudRate = b
				}
			case "read-timeout":
				if d, err := time.ParseDuration(f.Value.String()); err == nil {
					c.ReadTimeout = d
				}
			case "model":
				c.Model = f.Value.String()
			case "backend":
				c.Backend = f.Value.String()
			case "log-level":
				c.LogLevel = f.Value.String()
			}
		})
		return nil
	}
}

// Validate checks the values no option can fix up on its own.
func (c *Config) Validate() error {
	if c.SerialPort == "" {
		return errors.New("serial port is required")
	}
	if c.BaudRate <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.BaudRate)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout %s", c.ReadTimeout)
	}
	if _, err := modem.DialectByName(c.Model); err != nil {
		return err
	}
	if c.Backend != BackendBugst && c.Backend != BackendTarm {
		return fmt.Errorf("unknown serial backend %q (known: %s, %s)", c.Backend, BackendBugst, BackendTarm)
	}
	return nil
}

// Dialer returns the serial dialer of the configured backend.
func (c *Config) Dialer() modem.Dialer {
	if c.Backend == BackendTarm {
		return modem.TarmDialer{
			PortName:    c.SerialPort,
			BaudRate:    c.BaudRate,
			ReadTimeout: c.ReadTimeout,
		}
	}
	return modem.SerialDialer{
		PortName:    c.SerialPort,
		BaudRate:    c.BaudRate,
		ReadTimeout: c.ReadTimeout,
	}
}

// Level returns the slog level named by LogLevel, info when unrecognized.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
