package modem

import (
	"context"
	"strings"
	"sync"

	"i4.energy/across/modemmgr/at"
)

// TestTransport is a test helper that plays back scripted modem responses.
// Each write of a command queues the next response scripted for it; commands
// without a script get no answer, like a modem that stayed silent.
// It also serves as its own Dialer.
type TestTransport struct {
	mu        sync.Mutex
	responses map[string][][]string
	pending   []string
	written   []string
	writeErr  error
	readErr   error
	closed    bool
}

// NewTestTransport creates a new test transport for testing.
// Exported for use in tests.
func NewTestTransport() *TestTransport {
	return &TestTransport{
		responses: make(map[string][][]string),
	}
}

// Respond scripts the lines answered to the next unanswered write of cmd.
// Lines are delivered with CRLF terminators.
func (t *TestTransport) Respond(cmd string, lines ...string) *TestTransport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.responses[cmd] = append(t.responses[cmd], lines)
	return t
}

// FailWrites makes every following Write return err.
func (t *TestTransport) FailWrites(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeErr = err
}

// FailReads makes every following ReadLine return err.
func (t *TestTransport) FailReads(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.readErr = err
}

// Commands returns the commands written so far, without terminators.
func (t *TestTransport) Commands() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.written...)
}

// Closed reports whether Close was called.
func (t *TestTransport) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *TestTransport) Dial(context.Context) (Transport, error) {
	return t, nil
}

func (t *TestTransport) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.writeErr != nil {
		return 0, t.writeErr
	}

	cmd := strings.TrimSuffix(string(p), at.CRLF)
	t.written = append(t.written, cmd)
	if queue := t.responses[cmd]; len(queue) > 0 {
		for _, line := range queue[0] {
			t.pending = append(t.pending, line+at.CRLF)
		}
		t.responses[cmd] = queue[1:]
	}
	return len(p), nil
}

func (t *TestTransport) Available() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, line := range t.pending {
		n += len(line)
	}
	return n, nil
}

func (t *TestTransport) ReadLine() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.readErr != nil {
		t.pending = nil
		return "", t.readErr
	}
	if len(t.pending) == 0 {
		return "", nil
	}
	line := t.pending[0]
	t.pending = t.pending[1:]
	return line, nil
}

func (t *TestTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.pending = nil
	return nil
}
