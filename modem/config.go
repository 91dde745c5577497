package modem

import (
	"log/slog"
	"time"
)

func (c *Config) validate() error {
	if c.dialer == nil {
		return ErrNoDialer
	}
	return nil
}

// Config holds everything New needs to open a modem session. Use
// NewConfigBuilder to create one.
type Config struct {
	dialer  Dialer
	dialect Dialect
	logger  *slog.Logger
	// wait suspends the caller for a transaction's wait interval.
	wait func(time.Duration)
}

func (c *Config) setDefaults() {
	if c.dialect.Vendor == "" {
		c.dialect = Generic()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.wait == nil {
		c.wait = time.Sleep
	}
}

// ConfigBuilder assembles a Config.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder starts an empty Config.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

// WithDialer sets how the modem transport is opened. Required.
func (b *ConfigBuilder) WithDialer(d Dialer) *ConfigBuilder {
	b.config.dialer = d
	return b
}

// WithDialect selects the command dialect. Defaults to Generic.
func (b *ConfigBuilder) WithDialect(d Dialect) *ConfigBuilder {
	b.config.dialect = d
	return b
}

// WithLogger sets the sink for failed-operation events. Defaults to a
// logger that discards everything.
func (b *ConfigBuilder) WithLogger(l *slog.Logger) *ConfigBuilder {
	b.config.logger = l
	return b
}

// WithWaitFunc replaces time.Sleep for the per-command wait interval.
func (b *ConfigBuilder) WithWaitFunc(wait func(time.Duration)) *ConfigBuilder {
	b.config.wait = wait
	return b
}

// Build validates the Config and fills in defaults.
func (b *ConfigBuilder) Build() (Config, error) {
	c := b.config
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	c.setDefaults()
	return c, nil
}
