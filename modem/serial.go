package modem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"

	"i4.energy/across/modemmgr/at"
)

const (
	// DefaultBaudRate is used when a dialer does not set one.
	DefaultBaudRate = 115200
	// DefaultReadTimeout bounds how long a poll for pending bytes may block.
	DefaultReadTimeout = 100 * time.Millisecond

	readChunkSize = 128
	maxLineLength = 4096
)

// SerialDialer opens a modem over a serial port using go.bug.st/serial.
type SerialDialer struct {
	PortName    string
	BaudRate    int
	ReadTimeout time.Duration
	// Mode overrides BaudRate and the 8N1 defaults when set.
	Mode *serial.Mode
}

var _ Dialer = SerialDialer{}

// Dial opens the port with DTR and RTS raised and a short read timeout so
// that polling for pending response bytes never blocks for long.
func (d SerialDialer) Dial(ctx context.Context) (Transport, error) {
	if ctx == nil {
		return nil, errors.New("modem: context is nil")
	}
	if d.PortName == "" {
		return nil, errors.New("modem: serial port name is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode := d.Mode
	if mode == nil {
		mode = &serial.Mode{
			BaudRate: d.Session().BaudRate,
			Parity:   serial.NoParity,
			DataBits: 8,
			StopBits: serial.OneStopBit,
			InitialStatusBits: &serial.ModemOutputBits{
				DTR: true,
				RTS: true,
			},
		}
	}

	port, err := serial.Open(d.PortName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", d.PortName, err)
	}
	if err := port.SetReadTimeout(d.Session().ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", d.PortName, err)
	}
	return newLineTransport(port), nil
}

// Session reports the serial parameters the dialer opens ports with.
func (d SerialDialer) Session() Session {
	s := Session{Device: d.PortName, BaudRate: d.BaudRate, ReadTimeout: d.ReadTimeout}
	if d.Mode != nil {
		s.BaudRate = d.Mode.BaudRate
	}
	return s.withDefaults()
}

func (s Session) withDefaults() Session {
	if s.BaudRate == 0 {
		s.BaudRate = DefaultBaudRate
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	return s
}

// lineTransport adapts a serial port with a read timeout to Transport.
// Neither serial library exposes the driver's input queue length, so
// Available performs one timed read and reports what it buffered.
type lineTransport struct {
	port    io.ReadWriteCloser
	pending []byte
	buf     []byte
}

func newLineTransport(port io.ReadWriteCloser) *lineTransport {
	return &lineTransport{
		port: port,
		buf:  make([]byte, readChunkSize),
	}
}

func (t *lineTransport) Write(p []byte) (int, error) {
	return t.port.Write(p)
}

func (t *lineTransport) Available() (int, error) {
	if len(t.pending) == 0 {
		if err := t.fill(); err != nil {
			return 0, err
		}
	}
	return len(t.pending), nil
}

// ReadLine returns the next line from the buffer. A line the port stopped
// delivering before its terminator is returned as is.
func (t *lineTransport) ReadLine() (string, error) {
	for {
		advance, token, _ := at.Splitter(t.pending, false)
		if advance > 0 {
			line := string(token)
			t.pending = t.pending[advance:]
			return line, nil
		}
		if len(t.pending) > maxLineLength {
			t.pending = nil
			return "", ErrLineTooLong
		}

		before := len(t.pending)
		if err := t.fill(); err != nil {
			return "", err
		}
		if len(t.pending) == before {
			_, token, _ = at.Splitter(t.pending, true)
			t.pending = nil
			return string(token), nil
		}
	}
}

func (t *lineTransport) Close() error {
	t.pending = nil
	return t.port.Close()
}

// fill performs a single timed read. go.bug.st/serial reports an elapsed
// timeout as (0, nil), tarm/serial as (0, io.EOF); both mean no data.
// A failed read discards everything buffered so far.
func (t *lineTransport) fill() error {
	n, err := t.port.Read(t.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		t.pending = nil
		return err
	}
	t.pending = append(t.pending, t.buf[:n]...)
	return nil
}
