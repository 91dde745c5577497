package modem

import (
	"fmt"
	"strings"

	"i4.energy/across/modemmgr/at"
)

// Parsers receive the drained response lines of one command. Success shapes
// differ per operation: some accept noise before a trailing OK, others need
// an exact line count.

// RegistrationInfo holds the fields of a registration status query, keyed
// n, stat, lac and cid. Keys the modem did not report are absent.
type RegistrationInfo map[string]string

var registrationFields = []string{"n", "stat", "lac", "cid"}

// PDPContext is the packet domain attachment state.
type PDPContext struct {
	Attached bool `json:"pdp_attached"`
}

// AccessTechnology is the radio access configuration of a modem.
type AccessTechnology struct {
	Acqorder string `json:"acqorder"`
	Roam     string `json:"roam"`
}

func unexpected(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnexpectedResponse, fmt.Sprintf(format, args...))
}

func firstOK(lines []string) bool {
	return len(lines) > 0 && lines[0] == at.OK
}

func lastOK(lines []string) bool {
	return len(lines) > 0 && lines[len(lines)-1] == at.OK
}

// expectFirstOK accepts any response starting with OK.
func expectFirstOK(lines []string) (struct{}, error) {
	if !firstOK(lines) {
		return struct{}{}, unexpected("first line is not OK")
	}
	return struct{}{}, nil
}

// expectFirstOKOrNothing also accepts an empty response, which modems send
// when the request is already in effect.
func expectFirstOKOrNothing(lines []string) (struct{}, error) {
	if len(lines) == 0 {
		return struct{}{}, nil
	}
	return expectFirstOK(lines)
}

func parseRegister(lines []string) (string, error) {
	if len(lines) == 0 {
		return "", nil
	}
	if !firstOK(lines) {
		return "", unexpected("first line is not OK")
	}
	return lines[0], nil
}

// parseValue reads a single information line followed by OK.
func parseValue(lines []string) (string, error) {
	if len(lines) != 2 || lines[1] != at.OK {
		return "", unexpected("expected value and OK, got %d lines", len(lines))
	}
	return lines[0], nil
}

func parseOperator(lines []string) (string, error) {
	if len(lines) != 2 {
		return "", unexpected("expected 2 lines, got %d", len(lines))
	}
	// mode[,format,oper[,AcT]]
	fields, ok := at.Fields(lines[0])
	if !ok {
		return "", unexpected("no payload in %q", lines[0])
	}
	if len(fields) < 3 {
		return "", ErrNoOperator
	}
	return at.Unquote(fields[2]), nil
}

func parsePDPContext(lines []string) (PDPContext, error) {
	if len(lines) != 2 || !lastOK(lines) {
		return PDPContext{}, unexpected("expected state and OK, got %d lines", len(lines))
	}
	words := strings.Split(lines[0], " ")
	return PDPContext{Attached: words[len(words)-1] == "1"}, nil
}

// parseSignalQuality returns the "rssi,ber" pair of an AT+CSQ reply.
func parseSignalQuality(lines []string) (string, error) {
	if len(lines) < 2 || lines[1] != at.OK {
		return "", unexpected("expected signal quality and OK, got %d lines", len(lines))
	}
	payload, ok := at.Payload(lines[0])
	if !ok {
		return "", unexpected("no payload in %q", lines[0])
	}
	return strings.ReplaceAll(payload, " ", ""), nil
}

// parseTrailingOK tolerates serial noise before the final OK.
func parseTrailingOK(lines []string) ([]string, error) {
	if !lastOK(lines) {
		return nil, unexpected("last line is not OK")
	}
	return lines, nil
}

func parseAPN(lines []string) ([]string, error) {
	if !lastOK(lines) {
		return nil, unexpected("last line is not OK")
	}
	return lines[:len(lines)-1], nil
}

func parseSetAPN(lines []string) (string, error) {
	if len(lines) != 1 || lines[0] != at.OK {
		return "", unexpected("expected a single OK, got %d lines", len(lines))
	}
	return lines[0], nil
}

func parseLastLine(lines []string) (string, error) {
	if !lastOK(lines) {
		return "", unexpected("last line is not OK")
	}
	return lines[len(lines)-1], nil
}

func parseRegistrationInfo(lines []string) (RegistrationInfo, error) {
	if len(lines) != 2 || lines[1] != at.OK {
		return nil, unexpected("expected status and OK, got %d lines", len(lines))
	}
	fields, ok := at.Fields(lines[0])
	if !ok {
		return nil, unexpected("no payload in %q", lines[0])
	}
	info := make(RegistrationInfo, len(registrationFields))
	for i, name := range registrationFields {
		if i >= len(fields) {
			break
		}
		info[name] = at.Unquote(fields[i])
	}
	return info, nil
}

// parseICCID strips the "^ICCID: " prefix and the F padding.
func parseICCID(lines []string) (string, error) {
	if len(lines) != 2 || lines[1] != at.OK {
		return "", unexpected("expected ICCID and OK, got %d lines", len(lines))
	}
	_, iccid, ok := strings.Cut(lines[0], ": ")
	if !ok {
		return "", unexpected("no payload in %q", lines[0])
	}
	iccid, _, _ = strings.Cut(iccid, "F")
	return iccid, nil
}

func (l FieldLayout) parse(lines []string) (AccessTechnology, error) {
	if len(lines) != 2 || lines[1] != at.OK {
		return AccessTechnology{}, unexpected("expected configuration and OK, got %d lines", len(lines))
	}
	fields, ok := at.Fields(lines[0])
	if !ok {
		return AccessTechnology{}, unexpected("no payload in %q", lines[0])
	}
	if len(fields) != l.Count {
		return AccessTechnology{}, unexpected("expected %d fields, got %d", l.Count, len(fields))
	}
	return AccessTechnology{
		Acqorder: at.Unquote(fields[l.Acqorder]),
		Roam:     strings.TrimSpace(fields[l.Roam]),
	}, nil
}

func (a Anchor) parse(lines []string) ([]string, error) {
	if a == AnchorLast {
		return parseTrailingOK(lines)
	}
	if _, err := expectFirstOK(lines); err != nil {
		return nil, err
	}
	return nil, nil
}
