// Package view projects the latest scan into the rows a presenter shows:
// band and text filtering over a list whose order is set by column sorts.
package view

import (
	"fmt"
	"sort"
	"strings"

	"wifiscan/wifi"
)

// Column identifies a sortable table column.
type Column int

const (
	ColumnBars Column = iota
	ColumnSSID
	ColumnBSSID
	ColumnSignal
	ColumnDbm
	ColumnChannel
	ColumnFrequency
	ColumnBand
	ColumnSecurity
)

// NoColumn means no user sort has been applied yet.
const NoColumn Column = -1

var columnNames = []string{"Bars", "SSID", "BSSID", "Signal", "dBm", "Channel", "Frequency", "Band", "Security"}

func (c Column) String() string {
	if c >= 0 && int(c) < len(columnNames) {
		return columnNames[c]
	}
	return fmt.Sprintf("Column(%d)", int(c))
}

// Columns lists every table column in display order.
func Columns() []Column {
	cols := make([]Column, len(columnNames))
	for i := range cols {
		cols[i] = Column(i)
	}
	return cols
}

// lessFuncs orders two records ascending by one column. The bars column
// has no entry and is not sortable.
var lessFuncs = map[Column]func(a, b wifi.Record) bool{
	ColumnSSID:      func(a, b wifi.Record) bool { return strings.ToLower(a.SSID) < strings.ToLower(b.SSID) },
	ColumnBSSID:     func(a, b wifi.Record) bool { return a.BSSID < b.BSSID },
	ColumnSignal:    func(a, b wifi.Record) bool { return a.SignalPercent() < b.SignalPercent() },
	ColumnDbm:       func(a, b wifi.Record) bool { return a.SignalDbm() < b.SignalDbm() },
	ColumnChannel:   func(a, b wifi.Record) bool { return a.ChannelNumber() < b.ChannelNumber() },
	ColumnFrequency: func(a, b wifi.Record) bool { return a.Frequency < b.Frequency },
	ColumnBand:      func(a, b wifi.Record) bool { return a.Band() < b.Band() },
	ColumnSecurity:  func(a, b wifi.Record) bool { return a.Security < b.Security },
}

// Sortable reports whether c has a sort key.
func Sortable(c Column) bool {
	_, ok := lessFuncs[c]
	return ok
}

// Filter selects which records are shown.
type Filter struct {
	Text   string
	Show24 bool
	Show5  bool
}

// DefaultFilter shows every band and has no text.
func DefaultFilter() Filter {
	return Filter{Show24: true, Show5: true}
}

// Match reports whether rec passes the band flags and the text filter.
// Records with an unknown band are never hidden by the band flags.
func (f Filter) Match(rec wifi.Record) bool {
	switch rec.Band() {
	case wifi.Band24GHz:
		if !f.Show24 {
			return false
		}
	case wifi.Band5GHz:
		if !f.Show5 {
			return false
		}
	}
	search := strings.ToLower(strings.TrimSpace(f.Text))
	if search == "" {
		return true
	}
	haystack := strings.ToLower(rec.SSID + " " + rec.BSSID + " " + rec.Security)
	return strings.Contains(haystack, search)
}

// Apply returns the records that pass f, keeping their order.
func Apply(records []wifi.Record, f Filter) []wifi.Record {
	out := make([]wifi.Record, 0, len(records))
	for _, rec := range records {
		if f.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// SortRecords orders records in place by col. Equal keys keep their
// relative order in both directions.
func SortRecords(records []wifi.Record, col Column, ascending bool) {
	less, ok := lessFuncs[col]
	if !ok {
		return
	}
	if ascending {
		sort.SliceStable(records, func(i, j int) bool { return less(records[i], records[j]) })
		return
	}
	sort.SliceStable(records, func(i, j int) bool { return less(records[j], records[i]) })
}

// SortBySignal orders records strongest first, as emitted by a scan.
func SortBySignal(records []wifi.Record) {
	SortRecords(records, ColumnSignal, false)
}
