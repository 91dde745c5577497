package modem

import (
	"context"
	"time"
)

//go:generate mockgen -source=transport.go -destination=mock_transport.go -package=modem

// Transport represents an established, line-oriented connection to a cellular
// modem.
//
// A Transport is assumed to be already connected and ready for use. It provides
// the low-level I/O primitives the transaction engine needs: writing a command,
// asking whether response bytes are waiting and reading them one line at a time.
// Typical implementations include serial ports or in-memory fakes used for
// testing.
//
// "No data" and a read failure are distinct outcomes: Available reports the
// former as zero with a nil error.
type Transport interface {
	// Write sends raw bytes to the modem.
	Write(p []byte) (int, error)
	// Available returns the number of response bytes ready to be read.
	Available() (int, error)
	// ReadLine returns the next buffered response line, including its
	// terminator when one was received.
	ReadLine() (string, error)
	// Close releases the underlying device.
	Close() error
}

// Dialer opens a Transport to a cellular modem.
//
// Dialer abstracts how the modem connection is created (for example, via a
// serial port or a test double) and is intended to be used during modem
// construction only. Once a Transport is obtained, the Dialer is no longer
// needed.
type Dialer interface {
	// Dial is responsible for creating and returning a connected Transport. It may
	// perform blocking operations and should respect cancellation and deadlines
	// provided by the context. Dial returns an error if the transport cannot be
	// established.
	Dial(ctx context.Context) (Transport, error)
}

// Session describes the serial line a modem was opened on.
type Session struct {
	Device      string        `json:"device"`
	BaudRate    int           `json:"baud_rate"`
	ReadTimeout time.Duration `json:"read_timeout"`
}

// sessionDialer is implemented by dialers that open a serial session.
type sessionDialer interface {
	Session() Session
}
