package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"i4.energy/across/modemmgr/modem"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		config, err := LoadConfig(WithDefaults())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := Config{
			BindAddress: "0.0.0.0:8080",
			SerialPort:  "/dev/ttyUSB0",
			BaudRate:    115200,
			ReadTimeout: 100 * time.Millisecond,
			Model:       "generic",
			Backend:     BackendBugst,
			LogLevel:    "info",
		}
		if *config != expected {
			t.Errorf("expected %+v, got %+v", expected, *config)
		}
		if err := config.Validate(); err != nil {
			t.Errorf("defaults should validate, got %v", err)
		}
	})

	t.Run("File overlays only the keys it sets", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "modemmgr.yaml")
		data := "serial_port: /dev/ttyUSB2\nmodel: e3372\nread_timeout: 250ms\n"
		if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
			t.Fatal(err)
		}

		config, err := LoadConfig(WithDefaults(), WithFile(path))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.SerialPort != "/dev/ttyUSB2" || config.Model != "e3372" {
			t.Errorf("file values not applied: %+v", *config)
		}
		if config.ReadTimeout != 250*time.Millisecond {
			t.Errorf("expected 250ms read timeout, got %s", config.ReadTimeout)
		}
		if config.BaudRate != 115200 || config.Backend != BackendBugst {
			t.Errorf("defaults lost: %+v", *config)
		}
	})

	t.Run("Empty file path is ignored", func(t *testing.T) {
		if _, err := LoadConfig(WithDefaults(), WithFile("")); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := LoadConfig(WithFile(filepath.Join(t.TempDir(), "missing.yaml")))
		if err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("Malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("baud_rate: [fast\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(WithFile(path)); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("Environment overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "modemmgr.yaml")
		if err := os.WriteFile(path, []byte("model: ms2131\nbaud_rate: 9600\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		t.Setenv("MODEM_MODEL", "ms2372h")
		t.Setenv("SERIAL_BACKEND", BackendTarm)
		t.Setenv("READ_TIMEOUT", "1s")
		t.Setenv("BAUD_RATE", "not-a-number")

		config, err := LoadConfig(WithDefaults(), WithFile(path), WithEnv())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Model != "ms2372h" || config.Backend != BackendTarm || config.ReadTimeout != time.Second {
			t.Errorf("environment not applied: %+v", *config)
		}
		if config.BaudRate != 9600 {
			t.Errorf("invalid BAUD_RATE should be ignored, got %d", config.BaudRate)
		}
	})

	t.Run("Flags override environment", func(t *testing.T) {
		t.Setenv("SERIAL_PORT", "/dev/ttyUSB1")

		fSet := flag.NewFlagSet("test", flag.ContinueOnError)
		fSet.String("serial-port", "", "")
		fSet.String("model", "", "")
		fSet.Duration("read-timeout", 0, "")
		fSet.String("log-level", "", "")
		if err := fSet.Parse([]string{"-serial-port", "/dev/ttyACM0", "-read-timeout", "50ms"}); err != nil {
			t.Fatal(err)
		}

		config, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(fSet))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.SerialPort != "/dev/ttyACM0" || config.ReadTimeout != 50*time.Millisecond {
			t.Errorf("flags not applied: %+v", *config)
		}
		// unset flags keep earlier values
		if config.Model != "generic" || config.LogLevel != "info" {
			t.Errorf("unset flags overrode config: %+v", *config)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		c, _ := LoadConfig(WithDefaults())
		return c
	}

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "Empty serial port", modify: func(c *Config) { c.SerialPort = "" }},
		{name: "Zero baud rate", modify: func(c *Config) { c.BaudRate = 0 }},
		{name: "Zero read timeout", modify: func(c *Config) { c.ReadTimeout = 0 }},
		{name: "Unknown model", modify: func(c *Config) { c.Model = "sim800" }},
		{name: "Unknown backend", modify: func(c *Config) { c.Backend = "libusb" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.modify(c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigDialer(t *testing.T) {
	c, _ := LoadConfig(WithDefaults())

	d, ok := c.Dialer().(modem.SerialDialer)
	if !ok {
		t.Fatalf("expected SerialDialer, got %T", c.Dialer())
	}
	if d.PortName != c.SerialPort || d.BaudRate != c.BaudRate || d.ReadTimeout != c.ReadTimeout {
		t.Errorf("unexpected dialer: %+v", d)
	}

	c.Backend = BackendTarm
	if _, ok := c.Dialer().(modem.TarmDialer); !ok {
		t.Errorf("expected TarmDialer, got %T", c.Dialer())
	}
}

func TestConfigLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{level: "debug", expected: slog.LevelDebug},
		{level: "warn", expected: slog.LevelWarn},
		{level: "ERROR", expected: slog.LevelError},
		{level: "verbose", expected: slog.LevelInfo},
		{level: "", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		c := Config{LogLevel: tt.level}
		if got := c.Level(); got != tt.expected {
			t.Errorf("%q: expected %v, got %v", tt.level, tt.expected, got)
		}
	}
}
