package modem

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// TarmDialer opens a modem over a serial port using github.com/tarm/serial.
// It is an alternative to SerialDialer for hosts where go.bug.st/serial
// cannot configure the device.
type TarmDialer struct {
	PortName    string
	BaudRate    int
	ReadTimeout time.Duration
}

var _ Dialer = TarmDialer{}

func (d TarmDialer) Dial(ctx context.Context) (Transport, error) {
	if ctx == nil {
		return nil, errors.New("modem: context is nil")
	}
	if d.PortName == "" {
		return nil, errors.New("modem: serial port name is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := d.Session()
	port, err := serial.OpenPort(&serial.Config{
		Name:        s.Device,
		Baud:        s.BaudRate,
		ReadTimeout: s.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", d.PortName, err)
	}
	return newLineTransport(port), nil
}

// Session reports the serial parameters the dialer opens ports with.
func (d TarmDialer) Session() Session {
	return Session{Device: d.PortName, BaudRate: d.BaudRate, ReadTimeout: d.ReadTimeout}.withDefaults()
}
