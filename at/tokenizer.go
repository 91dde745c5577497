package at

import (
	"bufio"
	"bytes"
	"strings"
)

// Splitter is used for tokenizing AT command modem responses. It uses
// the signature of bufio.SplitFunc so it can be directly used with bufio.Scanner.
//
// Lines are terminated by LF; a CR immediately before the LF is dropped so
// both CRLF and bare LF framing yield the same token.
//
// The atEOF parameter indicates whether any more data will be available.
// When true, any remaining data is returned as the final token.
func Splitter(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, bytes.TrimSuffix(data[0:i], []byte{'\r'}), nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

var _ bufio.SplitFunc = Splitter

// Classify identifies the nature of the modem output
func Classify(line string) ResponseType {
	switch line {
	case OK, ERROR, NoCarrier, NotSupport:
		return TypeFinal
	}

	switch {
	case strings.HasPrefix(line, CmeError), strings.HasPrefix(line, CmsError):
		return TypeFinal
	case strings.HasPrefix(line, UrcRSSI), strings.HasPrefix(line, UrcBoot),
		strings.HasPrefix(line, UrcMode), strings.HasPrefix(line, UrcSrvSt),
		strings.HasPrefix(line, UrcSimSt), strings.HasPrefix(line, UrcHCSQ):
		return TypeURC
	default:
		return TypeData
	}
}

// FinalResult returns the last final result code found in lines, or an
// empty string when the modem did not terminate the response.
func FinalResult(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if Classify(lines[i]) == TypeFinal {
			return lines[i]
		}
	}
	return ""
}

// Payload returns the text following the first colon of an information
// response such as "+CSQ: 15,99".
func Payload(line string) (string, bool) {
	_, payload, ok := strings.Cut(line, ":")
	return payload, ok
}

// Fields splits the payload of an information response on commas.
func Fields(line string) ([]string, bool) {
	payload, ok := Payload(line)
	if !ok {
		return nil, false
	}
	return strings.Split(payload, ","), true
}

// Unquote trims surrounding blanks and removes every double quote.
func Unquote(field string) string {
	return strings.TrimSpace(strings.ReplaceAll(field, `"`, ""))
}
