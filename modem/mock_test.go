package modem_test

import (
	"i4.energy/across/modemmgr/modem"
)

type MockSequenceBuilder struct {
	transport *modem.MockTransport
	calls     []any
}

func NewMockSequence(transport *modem.MockTransport) *MockSequenceBuilder {
	return &MockSequenceBuilder{
		transport: transport,
		calls:     []any{},
	}
}

// Command expects cmd to be written and answered with lines, each drained
// through one Available/ReadLine pair, followed by an empty poll.
func (b *MockSequenceBuilder) Command(cmd string, lines ...string) *MockSequenceBuilder {
	wire := []byte(cmd + "\r\n")
	b.calls = append(b.calls, b.transport.EXPECT().Write(wire).Return(len(wire), nil))
	for _, line := range lines {
		b.calls = append(b.calls,
			b.transport.EXPECT().Available().Return(len(line)+2, nil),
			b.transport.EXPECT().ReadLine().Return(line+"\r\n", nil),
		)
	}
	b.calls = append(b.calls, b.transport.EXPECT().Available().Return(0, nil))
	return b
}

func (b *MockSequenceBuilder) EchoOff() *MockSequenceBuilder {
	return b.Command("ATE0", "OK")
}

func (b *MockSequenceBuilder) EchoStillOn() *MockSequenceBuilder {
	return b.Command("ATE0", "ATE0", "OK")
}

func (b *MockSequenceBuilder) Close() *MockSequenceBuilder {
	b.calls = append(b.calls, b.transport.EXPECT().Close().Return(nil))
	return b
}

func (b *MockSequenceBuilder) Build() []any {
	return b.calls
}
