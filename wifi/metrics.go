package wifi

import (
	"strconv"
	"strings"
)

// Quality labels.
const (
	QualityExcellent = "Excellent"
	QualityGood      = "Good"
	QualityFair      = "Fair"
	QualityWeak      = "Weak"
	QualityUnknown   = "Unknown"
)

// Band labels.
const (
	Band24GHz   = "2.4 GHz"
	Band5GHz    = "5 GHz"
	BandUnknown = "Unknown"
)

// DbmFloor is returned when the signal cannot be interpreted.
const DbmFloor = -100

const band5GHzStartMHz = 5000

func parsePercent(signal string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(signal))
	if err != nil {
		return 0, false
	}
	return n, true
}

// SignalDbm converts a 0-100 signal percentage into dBm using
// (percent / 2) - 100. Missing or non-numeric input yields DbmFloor.
func SignalDbm(signal string) int {
	pct, ok := parsePercent(signal)
	if !ok {
		return DbmFloor
	}
	pct = min(max(pct, 0), 100)
	return pct/2 - 100
}

// SignalQuality buckets a signal percentage into one of four labels.
func SignalQuality(signal string) string {
	pct, ok := parsePercent(signal)
	if !ok {
		return QualityUnknown
	}
	switch {
	case pct >= 75:
		return QualityExcellent
	case pct >= 50:
		return QualityGood
	case pct >= 25:
		return QualityFair
	default:
		return QualityWeak
	}
}

// DbmQuality grades a dBm value with the same labels as SignalQuality.
func DbmQuality(dbm int) string {
	switch {
	case dbm >= -50:
		return QualityExcellent
	case dbm >= -70:
		return QualityGood
	case dbm >= -80:
		return QualityFair
	default:
		return QualityWeak
	}
}

// SignalBar quantizes a signal percentage into 0-4 bars.
func SignalBar(signal string) int {
	pct, ok := parsePercent(signal)
	if !ok {
		return 0
	}
	switch {
	case pct >= 80:
		return 4
	case pct >= 60:
		return 3
	case pct >= 40:
		return 2
	case pct >= 20:
		return 1
	default:
		return 0
	}
}

// Band classifies a frequency such as "2437MHz" or "5180 MHz".
func Band(frequency string) string {
	mhz, ok := frequencyMHz(frequency)
	if !ok {
		return BandUnknown
	}
	if mhz > band5GHzStartMHz {
		return Band5GHz
	}
	return Band24GHz
}

// frequencyMHz parses the leading digits of a frequency, dropping the unit.
func frequencyMHz(frequency string) (int, bool) {
	s := strings.TrimSpace(frequency)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
