package modem

import "errors"

var (
	// ErrNoDialer is returned when a Modem is constructed without a Dialer.
	//
	// This indicates a configuration error. A Dialer is required in order to
	// establish a connection to the modem.
	ErrNoDialer = errors.New("no dialer configured")

	// ErrNotInitialized is returned when the Dialer succeeded but produced no
	// Transport.
	ErrNotInitialized = errors.New("modem not initialized")

	// ErrAlreadyClosed is returned when Close is called on a Modem that has
	// already been closed, and by every operation attempted after Close.
	ErrAlreadyClosed = errors.New("modem already closed")

	// ErrEchoNotDisabled is returned by New when a dialect that requires
	// command echo to be off could not disable it within its retry bound.
	ErrEchoNotDisabled = errors.New("command echo could not be disabled")

	// ErrInvalidArgument is returned before any command is sent when an
	// operation argument is outside the values the dialect accepts.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupported is returned when the modem's dialect has no command for
	// the requested operation.
	ErrUnsupported = errors.New("operation not supported by dialect")

	// ErrUnexpectedResponse marks a response whose shape does not match what
	// the operation expects. It is reported through Result.Err, never
	// returned directly.
	ErrUnexpectedResponse = errors.New("unexpected response")

	// ErrNoOperator marks an operator query answered without an operator.
	ErrNoOperator = errors.New("no operator selected")

	// ErrLineTooLong is returned when a modem response line exceeds the
	// maximum allowed length.
	//
	// This typically indicates malformed input, unexpected binary data,
	// or a protocol framing error.
	ErrLineTooLong = errors.New("response line too long")
)
