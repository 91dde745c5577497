package modem

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"i4.energy/across/modemmgr/at"
)

// Modem represents a GSM/3G/4G cellular modem that communicates via AT
// commands in the command dialect of its vendor and model.
//
// A Modem runs one command at a time: every operation writes its command,
// sleeps for the dialect's wait interval and then drains whatever the modem
// answered. It holds no lock; callers sharing a Modem between goroutines
// must serialize access themselves.
type Modem struct {
	// transport provides the physical connection to the modem
	transport Transport
	// dialect maps operations to commands, waits and reply layouts
	dialect Dialect
	// session describes the serial line, zero for non-serial dialers
	session Session
	// logger receives one event per failed operation
	logger *slog.Logger
	// wait suspends the caller for a command's wait interval
	wait func(time.Duration)
	// closed indicates if the modem has been shut down
	closed bool
}

// Result is the outcome of a modem operation.
//
// When OK is true, Value holds the operation's payload. When OK is false,
// Raw holds the response lines exactly as drained (or the transport error
// text) and Err describes the failure.
type Result[T any] struct {
	OK      bool     `json:"ok"`
	Command string   `json:"command"`
	Value   T        `json:"value,omitempty"`
	Raw     []string `json:"raw,omitempty"`
	Err     error    `json:"-"`
}

// New creates a new Modem instance with the given configuration.
// It opens the transport and turns command echo off. Dialects with a
// non-zero EchoOffAttempts must succeed within that many attempts,
// otherwise the transport is closed and New fails.
func New(ctx context.Context, config Config) (*Modem, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	config.setDefaults()

	transport, err := config.dialer.Dial(ctx)
	if err != nil {
		return nil, err
	}
	if transport == nil {
		return nil, ErrNotInitialized
	}

	m := &Modem{
		transport: transport,
		dialect:   config.dialect,
		logger:    config.logger,
		wait:      config.wait,
	}
	if d, ok := config.dialer.(sessionDialer); ok {
		m.session = d.Session()
	}

	if err := m.init(); err != nil {
		transport.Close()
		return nil, fmt.Errorf("initialize modem: %w", err)
	}

	return m, nil
}

func (m *Modem) init() error {
	if m.dialect.EchoOffAttempts == 0 {
		_, err := m.SetEcho(false)
		return err
	}

	for attempt := 1; attempt <= m.dialect.EchoOffAttempts; attempt++ {
		res, err := m.SetEcho(false)
		if err != nil {
			return err
		}
		if res.OK {
			return nil
		}
		m.logger.Warn("Echo still on", "attempt", attempt, "response", res.Raw)
	}
	return fmt.Errorf("%w after %d attempts", ErrEchoNotDisabled, m.dialect.EchoOffAttempts)
}

// Close releases the transport. It is terminal: every later call fails
// with ErrAlreadyClosed.
func (m *Modem) Close() error {
	if m.closed {
		return ErrAlreadyClosed
	}
	m.closed = true
	return m.transport.Close()
}

func (m *Modem) String() string {
	return m.dialect.String()
}

// Dialect returns the command dialect the modem was opened with.
func (m *Modem) Dialect() Dialect {
	return m.dialect
}

// Session returns the serial configuration of the modem.
func (m *Modem) Session() Session {
	return m.session
}

// send writes cmd, waits the full interval and drains every buffered
// response line. Lines are trimmed and empty ones dropped; content is not
// interpreted.
func (m *Modem) send(cmd string, wait time.Duration) ([]string, error) {
	if _, err := m.transport.Write([]byte(cmd + at.CRLF)); err != nil {
		return nil, fmt.Errorf("write command %q: %w", cmd, err)
	}

	m.wait(wait)

	var lines []string
	for {
		n, err := m.transport.Available()
		if err != nil {
			return lines, fmt.Errorf("poll response to %q: %w", cmd, err)
		}
		if n == 0 {
			return lines, nil
		}

		line, err := m.transport.ReadLine()
		if err != nil {
			return lines, fmt.Errorf("read response to %q: %w", cmd, err)
		}
		line = strings.TrimSpace(strings.NewReplacer("\r", "", "\n", "").Replace(line))
		if line != "" {
			lines = append(lines, line)
		}
	}
}

// transact runs one command and hands its response to parse. Transport and
// protocol failures are logged and reported through the Result; the error
// return is reserved for a closed modem.
func transact[T any](m *Modem, op, cmd string, wait time.Duration, parse func([]string) (T, error)) (Result[T], error) {
	if m.closed {
		return Result[T]{Command: cmd}, ErrAlreadyClosed
	}

	lines, err := m.send(cmd, wait)
	if err != nil {
		m.logger.Error("Transport failure", "operation", op, "command", cmd, "error", err)
		return Result[T]{Command: cmd, Raw: []string{err.Error()}, Err: err}, nil
	}

	value, err := parse(lines)
	if err != nil {
		m.logger.Error("Operation failed",
			"operation", op,
			"command", cmd,
			"response", lines,
			"final", at.FinalResult(lines),
			"error", err,
		)
		return Result[T]{Command: cmd, Raw: lines, Err: err}, nil
	}

	return Result[T]{OK: true, Command: cmd, Value: value}, nil
}
