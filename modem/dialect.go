package modem

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"i4.energy/across/modemmgr/at"
)

// Timings holds the wait interval of every operation: how long the engine
// sleeps after writing a command before draining the response. They were
// tuned against real hardware; too short an interval reads a truncated
// response.
type Timings struct {
	Echo                time.Duration
	Identity            time.Duration
	SetOperator         time.Duration
	GetOperator         time.Duration
	Register            time.Duration
	ActivatePDP         time.Duration // split evenly between attach and activate
	DeactivatePDP       time.Duration
	PDPContext          time.Duration
	SignalQuality       time.Duration
	GetAPN              time.Duration
	SetAPN              time.Duration
	Reset               time.Duration
	Registration        time.Duration
	ICCID               time.Duration
	GetAccessTechnology time.Duration
	SetAccessTechnology time.Duration
	PeriodicMessages    time.Duration
}

// Anchor selects which response line must be "OK" for success.
type Anchor int

const (
	// AnchorFirst requires the first line to be "OK".
	AnchorFirst Anchor = iota
	// AnchorLast requires the last line to be "OK" and tolerates any lines
	// before it.
	AnchorLast
)

// FieldLayout locates the access technology fields in a system
// configuration query payload. Count is exact.
type FieldLayout struct {
	Count    int
	Acqorder int
	Roam     int
}

// AccessTechnologyDialect describes how a model queries and selects its
// radio access technology.
type AccessTechnologyDialect struct {
	QueryCommand string
	Layout       FieldLayout
	// Values lists the acquisition orders SetAccessTechnology accepts.
	Values []string
	// Command builds the set command for an accepted value.
	Command func(act string) string
	Success Anchor
}

func (a *AccessTechnologyDialect) accepts(act string) bool {
	for _, v := range a.Values {
		if v == act {
			return true
		}
	}
	return false
}

// Dialect is the command set of a modem family: which commands an
// operation sends, how long it waits, and how the reply is laid out.
// Refined dialects are built by copying a parent and overriding fields.
type Dialect struct {
	VendorID  uint16
	ProductID uint16
	Vendor    string
	Product   string

	Timings Timings

	RegistrationCommand string
	// ICCIDCommand is empty when the dialect cannot read the ICCID.
	ICCIDCommand string
	// PeriodicMessagesCommand is empty when the dialect has no way to stop
	// periodic status reports.
	PeriodicMessagesCommand string
	// AccessTechnology is nil when the dialect cannot select the radio
	// access technology.
	AccessTechnology *AccessTechnologyDialect

	// EchoOffAttempts is the number of ATE0 attempts New makes before
	// giving up. Zero sends ATE0 once and ignores the outcome.
	EchoOffAttempts int
}

func (d Dialect) String() string {
	return fmt.Sprintf("%s %s (%#x,%#x)", d.Vendor, d.Product, d.VendorID, d.ProductID)
}

// Generic is the ETSI TS 127 007 baseline every other dialect refines.
func Generic() Dialect {
	return Dialect{
		Vendor:  "GSM Modem",
		Product: "Generic",
		Timings: Timings{
			Echo:                10 * time.Second,
			Identity:            1 * time.Second,
			SetOperator:         2 * time.Second,
			GetOperator:         2 * time.Second,
			Register:            2 * time.Second,
			ActivatePDP:         10 * time.Second,
			DeactivatePDP:       2 * time.Second,
			PDPContext:          2 * time.Second,
			SignalQuality:       2 * time.Second,
			GetAPN:              1 * time.Second,
			SetAPN:              2 * time.Second,
			Reset:               1 * time.Second,
			Registration:        2 * time.Second,
			ICCID:               2 * time.Second,
			GetAccessTechnology: 2 * time.Second,
			SetAccessTechnology: 2 * time.Second,
			PeriodicMessages:    2 * time.Second,
		},
		RegistrationCommand: at.CmdNetReg,
	}
}

var dialects = map[string]func() Dialect{
	"generic": Generic,
	"huawei":  Huawei,
	"ms2131":  HuaweiMS2131,
	"ms2372h": HuaweiMS2372h,
	"e3372":   HuaweiE3372,
}

// DialectByName resolves a dialect from its configuration name, case
// insensitively.
func DialectByName(name string) (Dialect, error) {
	ctor, ok := dialects[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Dialect{}, fmt.Errorf("%w: unknown modem model %q (known: %s)",
			ErrInvalidArgument, name, strings.Join(DialectNames(), ", "))
	}
	return ctor(), nil
}

// DialectNames lists the names DialectByName accepts.
func DialectNames() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
