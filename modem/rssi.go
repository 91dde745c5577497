package modem

import "fmt"

// RSSI is the signal estimate for one AT+CSQ index.
type RSSI struct {
	DBm     int    `json:"dbm"`
	Label   string `json:"label"`
	Percent int    `json:"percent"`
}

// RSSIUnknown is the AT+CSQ index for "not known or not detectable".
const RSSIUnknown = 99

// rssiTable follows ETSI TS 127 007: index 0 is -113 dBm, each step adds
// 2 dBm up to index 31 (-51 dBm).
var rssiTable = func() map[int]RSSI {
	t := make(map[int]RSSI, 33)
	for i := 0; i <= 31; i++ {
		dbm := -113 + 2*i
		t[i] = RSSI{DBm: dbm, Label: SignalQuality(dbm), Percent: i * 100 / 32}
	}
	t[RSSIUnknown] = RSSI{DBm: -114, Label: "not known or not detectable", Percent: 0}
	return t
}()

// SignalQualityToRSSI maps an AT+CSQ rssi index to its dBm estimate.
func SignalQualityToRSSI(index int) (RSSI, error) {
	r, ok := rssiTable[index]
	if !ok {
		return RSSI{}, fmt.Errorf("%w: rssi index %d", ErrInvalidArgument, index)
	}
	return r, nil
}

// SignalQuality labels a dBm estimate.
// Breakpoints from http://m2msupport.net/m2msupport/atcsq-signal-quality/.
func SignalQuality(dbm int) string {
	switch {
	case dbm <= -113:
		return "No Signal"
	case dbm == -111:
		return "Marginal, No Signal"
	case dbm >= -109 && dbm < -93:
		return "Marginal"
	case dbm >= -93 && dbm < -83:
		return "OK"
	case dbm >= -83 && dbm < -73:
		return "Good"
	case dbm >= -73:
		return "Excellent"
	default:
		return "Not valid rssi_dBm"
	}
}
