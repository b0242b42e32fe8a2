package wifi

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Terse output escaping used by nmcli -t.
const (
	fieldSeparator = ":"
	escapedColon   = `\:`
	placeholder    = "\x00"
)

// MinScanFields is the number of fields a scan line needs before the
// optional trailing SSID.
const MinScanFields = 5

var (
	ErrEmptyLine    = errors.New("empty line")
	ErrTooFewFields = errors.New("too few fields")
)

// SplitEscaped splits one line of nmcli terse output on unescaped colons.
// Escaped colons are restored only in the first field, which carries the
// BSSID.
func SplitEscaped(line string) []string {
	parts := strings.Split(strings.ReplaceAll(line, escapedColon, placeholder), fieldSeparator)
	parts[0] = strings.ReplaceAll(parts[0], placeholder, fieldSeparator)
	return parts
}

// SplitFields splits one line of nmcli terse output on unescaped colons and
// restores escaped colons in every field.
func SplitFields(line string) []string {
	parts := strings.Split(strings.ReplaceAll(line, escapedColon, placeholder), fieldSeparator)
	for i, part := range parts {
		parts[i] = strings.ReplaceAll(part, placeholder, fieldSeparator)
	}
	return parts
}

// ParseRecord decodes one BSSID,SIGNAL,CHAN,FREQ,SECURITY,SSID line.
// Any fields past the security field belong to the SSID, which may itself
// contain colons.
func ParseRecord(line string, observedAt time.Time) (Record, error) {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return Record{}, ErrEmptyLine
	}
	parts := SplitEscaped(line)
	if len(parts) < MinScanFields {
		return Record{}, fmt.Errorf("%w: got %d, need %d", ErrTooFewFields, len(parts), MinScanFields)
	}

	var ssid string
	if len(parts) > MinScanFields {
		ssid = strings.Join(parts[MinScanFields:], fieldSeparator)
	}
	return NewRecord(ssid, parts[0], parts[1], parts[2], parts[3], parts[4], observedAt), nil
}

// ParseScan parses a full scan listing. Lines that fail validation are
// dropped and counted in rejected; empty lines are skipped without counting.
func ParseScan(output string, observedAt time.Time) (records []Record, rejected int) {
	for _, line := range strings.Split(output, "\n") {
		rec, err := ParseRecord(line, observedAt)
		switch {
		case err == nil:
			records = append(records, rec)
		case errors.Is(err, ErrEmptyLine):
		default:
			rejected++
		}
	}
	return records, rejected
}
