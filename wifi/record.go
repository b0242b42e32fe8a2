// Package wifi holds the scanned access point record, the parser for nmcli
// terse output and the metrics derived from a record.
package wifi

import (
	"strconv"
	"strings"
	"time"
)

// Display fallbacks.
const (
	HiddenSSID   = "<Hidden Network>"
	OpenSecurity = "Open"
)

// Record is one access point as reported by a single scan cycle.
// Signal and Channel keep the raw text reported by the scanner; numeric
// interpretation happens in the accessors below, each with its own fallback.
type Record struct {
	SSID       string    `json:"ssid"`
	BSSID      string    `json:"bssid"`
	Signal     string    `json:"signal"`
	Channel    string    `json:"channel"`
	Frequency  string    `json:"frequency"`
	Security   string    `json:"security"`
	SignalBar  int       `json:"signalBar"`
	ObservedAt time.Time `json:"observedAt"`
}

// NewRecord builds a record and quantizes the signal into a bar level.
func NewRecord(ssid, bssid, signal, channel, frequency, security string, observedAt time.Time) Record {
	return Record{
		SSID:       ssid,
		BSSID:      bssid,
		Signal:     signal,
		Channel:    channel,
		Frequency:  frequency,
		Security:   security,
		SignalBar:  SignalBar(signal),
		ObservedAt: observedAt,
	}
}

// SignalPercent returns the signal as an integer for ordering, 0 when the
// reported value is not a plain non-negative number.
func (r Record) SignalPercent() int {
	return digitsOrZero(r.Signal)
}

// ChannelNumber returns the channel as an integer for ordering, 0 when the
// reported value is not a plain non-negative number.
func (r Record) ChannelNumber() int {
	return digitsOrZero(r.Channel)
}

// SignalDbm returns the approximate signal strength in dBm.
func (r Record) SignalDbm() int { return SignalDbm(r.Signal) }

// Quality returns the signal quality label.
func (r Record) Quality() string { return SignalQuality(r.Signal) }

// Band returns the frequency band label.
func (r Record) Band() string { return Band(r.Frequency) }

// IsHidden reports whether the access point does not broadcast its SSID.
func (r Record) IsHidden() bool {
	return r.SSID == ""
}

// IsOpen reports whether the access point requires no authentication.
func (r Record) IsOpen() bool {
	sec := strings.TrimSpace(r.Security)
	return sec == "" || sec == "--"
}

func (r Record) DisplaySSID() string {
	if r.IsHidden() {
		return HiddenSSID
	}
	return r.SSID
}

func (r Record) DisplaySecurity() string {
	if r.IsOpen() {
		return OpenSecurity
	}
	return r.Security
}

// digitsOrZero mirrors a strict digits-only check: signs, spaces and
// decimals all fall back to 0.
func digitsOrZero(s string) int {
	if s == "" {
		return 0
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
