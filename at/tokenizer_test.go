package at_test

import (
	"bufio"
	"strings"
	"testing"

	"i4.energy/across/modemmgr/at"
)

func TestSplitter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Simple AT command response",
			input:    "+CSQ: 15,99\r\nOK\r\n",
			expected: []string{"+CSQ: 15,99", "OK"},
		},
		{
			name:     "AT command with error",
			input:    "+CME ERROR: 10\r\n",
			expected: []string{"+CME ERROR: 10"},
		},
		{
			name:     "Bare LF terminators",
			input:    "+CREG: 2,1,\"001A\",\"02BC\"\nOK\n",
			expected: []string{"+CREG: 2,1,\"001A\",\"02BC\"", "OK"},
		},
		{
			name:     "Echoed command",
			input:    "ATE0\r\r\nOK\r\n",
			expected: []string{"ATE0\r", "OK"},
		},
		{
			name:     "Empty lines handling",
			input:    "\r\n\r\nOK\r\n\r\n",
			expected: []string{"", "", "OK", ""},
		},
		{
			name:     "Periodic reports mixed with response",
			input:    "^RSSI:14\r\n+COPS: 0,2,\"21401\",2\r\nOK\r\n",
			expected: []string{"^RSSI:14", "+COPS: 0,2,\"21401\",2", "OK"},
		},
		{
			name:     "Incomplete line at EOF",
			input:    "+CSQ: 15,99\r\nOK",
			expected: []string{"+CSQ: 15,99", "OK"},
		},
		{
			name:     "Command without terminator at EOF",
			input:    "+CIMI",
			expected: []string{"+CIMI"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tokens []string
			scanner := bufio.NewScanner(strings.NewReader(tt.input))
			scanner.Split(at.Splitter)

			for scanner.Scan() {
				tokens = append(tokens, scanner.Text())
			}

			if err := scanner.Err(); err != nil {
				t.Fatalf("Scanner error: %v", err)
			}

			if len(tokens) != len(tt.expected) {
				t.Fatalf("Expected %d tokens, got %d.\nExpected: %q\nGot: %q",
					len(tt.expected), len(tokens), tt.expected, tokens)
			}

			for i, expected := range tt.expected {
				if tokens[i] != expected {
					t.Errorf("Token %d: expected %q, got %q", i, expected, tokens[i])
				}
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected at.ResponseType
	}{
		// Final responses
		{name: "OK response", input: "OK", expected: at.TypeFinal},
		{name: "ERROR response", input: "ERROR", expected: at.TypeFinal},
		{name: "CME Error", input: "+CME ERROR: 30", expected: at.TypeFinal},
		{name: "CMS Error", input: "+CMS ERROR: 500", expected: at.TypeFinal},
		{name: "Unsupported command", input: "COMMAND NOT SUPPORT", expected: at.TypeFinal},

		// URCs
		{name: "RSSI report", input: "^RSSI:14", expected: at.TypeURC},
		{name: "Boot report", input: "^BOOT:12345,0,0,0,0", expected: at.TypeURC},
		{name: "Mode report", input: "^MODE:5,4", expected: at.TypeURC},

		// Data responses
		{name: "Signal quality response", input: "+CSQ: 15,99", expected: at.TypeData},
		{name: "Network registration", input: "+CREG: 0,1", expected: at.TypeData},
		{name: "Device info", input: "huawei", expected: at.TypeData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := at.Classify(tt.input)
			if result != tt.expected {
				t.Errorf("Expected %v, got %v for input %q", tt.expected, result, tt.input)
			}
		})
	}
}

func TestFinalResult(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected string
	}{
		{name: "No lines", input: nil, expected: ""},
		{name: "Data only", input: []string{"+CSQ: 15,99"}, expected: ""},
		{name: "Trailing OK", input: []string{"+CSQ: 15,99", "OK"}, expected: "OK"},
		{name: "Error before report", input: []string{"+CME ERROR: 30", "^RSSI:14"}, expected: "+CME ERROR: 30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := at.FinalResult(tt.input); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFields(t *testing.T) {
	fields, ok := at.Fields(`+COPS: 0,2,"21401",2`)
	if !ok {
		t.Fatal("expected fields to be found")
	}
	expected := []string{" 0", "2", `"21401"`, "2"}
	if len(fields) != len(expected) {
		t.Fatalf("Expected %q, got %q", expected, fields)
	}
	for i := range expected {
		if fields[i] != expected[i] {
			t.Errorf("Field %d: expected %q, got %q", i, expected[i], fields[i])
		}
	}

	if _, ok := at.Fields("OK"); ok {
		t.Error("expected no fields for a line without colon")
	}

	if got := at.Unquote(` "02BC" `); got != "02BC" {
		t.Errorf("Unquote: expected %q, got %q", "02BC", got)
	}
}
