package modem_test

import (
	"errors"
	"fmt"
	"testing"

	"i4.energy/across/modemmgr/modem"
)

func TestSignalQualityToRSSI(t *testing.T) {
	for i := 0; i <= 31; i++ {
		r, err := modem.SignalQualityToRSSI(i)
		if err != nil {
			t.Fatalf("index %d: unexpected error: %v", i, err)
		}
		if r.DBm != -113+2*i {
			t.Errorf("index %d: expected %d dBm, got %d", i, -113+2*i, r.DBm)
		}
		if r.Label != modem.SignalQuality(r.DBm) {
			t.Errorf("index %d: label %q does not match SignalQuality", i, r.Label)
		}
		if r.Percent != i*100/32 {
			t.Errorf("index %d: expected %d%%, got %d%%", i, i*100/32, r.Percent)
		}
	}

	r, err := modem.SignalQualityToRSSI(modem.RSSIUnknown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := modem.RSSI{DBm: -114, Label: "not known or not detectable", Percent: 0}
	if r != expected {
		t.Errorf("expected %+v, got %+v", expected, r)
	}

	for _, index := range []int{-1, 32, 98, 100} {
		if _, err := modem.SignalQualityToRSSI(index); !errors.Is(err, modem.ErrInvalidArgument) {
			t.Errorf("index %d: expected ErrInvalidArgument, got %v", index, err)
		}
	}
}

func TestSignalQuality(t *testing.T) {
	tests := []struct {
		dbm      int
		expected string
	}{
		{dbm: -120, expected: "No Signal"},
		{dbm: -113, expected: "No Signal"},
		{dbm: -112, expected: "Not valid rssi_dBm"},
		{dbm: -111, expected: "Marginal, No Signal"},
		{dbm: -110, expected: "Not valid rssi_dBm"},
		{dbm: -109, expected: "Marginal"},
		{dbm: -95, expected: "Marginal"},
		{dbm: -93, expected: "OK"},
		{dbm: -85, expected: "OK"},
		{dbm: -83, expected: "Good"},
		{dbm: -75, expected: "Good"},
		{dbm: -73, expected: "Excellent"},
		{dbm: -51, expected: "Excellent"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d dBm", tt.dbm), func(t *testing.T) {
			if got := modem.SignalQuality(tt.dbm); got != tt.expected {
				t.Errorf("%d dBm: expected %q, got %q", tt.dbm, tt.expected, got)
			}
		})
	}
}

func TestSignalQualityIsMonotonic(t *testing.T) {
	rank := map[string]int{
		"No Signal":           0,
		"Marginal, No Signal": 1,
		"Marginal":            2,
		"OK":                  3,
		"Good":                4,
		"Excellent":           5,
	}

	last := -1
	for i := 0; i <= 31; i++ {
		r, _ := modem.SignalQualityToRSSI(i)
		current, ok := rank[r.Label]
		if !ok {
			t.Fatalf("index %d: unexpected label %q", i, r.Label)
		}
		if current < last {
			t.Errorf("index %d: %q ranks below the previous index", i, r.Label)
		}
		last = current
	}
}
