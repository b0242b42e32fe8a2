package main

import (
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"wifiscan/view"
	"wifiscan/wifi"
)

func TestSignalBars(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{-1, "····"},
		{0, "····"},
		{1, "▂···"},
		{3, "▂▄▆·"},
		{4, "▂▄▆█"},
		{9, "▂▄▆█"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, signalBars(tt.level), "level %d", tt.level)
	}
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", sparkline(nil))
	assert.Equal(t, "▁▄█▁█", sparkline([]int{-100, -65, -30, -120, 0}))
}

func TestSeriesStats(t *testing.T) {
	lo, hi, avg := seriesStats([]int{-70, -60, -80})
	assert.Equal(t, -80, lo)
	assert.Equal(t, -60, hi)
	assert.Equal(t, -70, avg)

	lo, hi, avg = seriesStats(nil)
	assert.Zero(t, lo+hi+avg)
}

func TestTableRow(t *testing.T) {
	rec := wifi.NewRecord("Home", "AA:BB:CC:DD:EE:01", "72", "6", "2437 MHz", "", time.Now())

	row := tableRow(rec, "AA:BB:CC:DD:EE:01")
	assert.Equal(t, "▂▄▆·", row[view.ColumnBars])
	assert.Equal(t, connectedMark+"Home", row[view.ColumnSSID])
	assert.Equal(t, "72%", row[view.ColumnSignal])
	assert.Equal(t, "-64", row[view.ColumnDbm])
	assert.Equal(t, wifi.Band24GHz, row[view.ColumnBand])
	assert.Equal(t, wifi.OpenSecurity, row[view.ColumnSecurity])

	hidden := wifi.NewRecord("", "AA:BB:CC:DD:EE:02", "--", "", "", "WPA2", time.Now())
	row = tableRow(hidden, "AA:BB:CC:DD:EE:01")
	assert.Equal(t, "  "+wifi.HiddenSSID, row[view.ColumnSSID])
	assert.Equal(t, "--", row[view.ColumnSignal])
	assert.Equal(t, "-100", row[view.ColumnDbm])
}

func TestTableColumns_SortIndicator(t *testing.T) {
	cols := tableColumns(view.ColumnSignal, false)
	assert.Len(t, cols, len(view.Columns()))
	assert.Equal(t, "Signal"+sortDescending, cols[view.ColumnSignal].Title)
	assert.Equal(t, "SSID", cols[view.ColumnSSID].Title)

	cols = tableColumns(view.NoColumn, true)
	assert.Equal(t, "Signal", cols[view.ColumnSignal].Title)
}

func TestStatusLines(t *testing.T) {
	assert.Equal(t, "Showing 3 of 7 networks", showingLine(3, 7))
	assert.Equal(t, "Last scan: never", lastScanLine(time.Time{}))

	at := time.Date(2025, 1, 1, 14, 5, 9, 0, time.Local)
	assert.Equal(t, "Last scan: 14:05:09", lastScanLine(at))
}

func TestDbmStyle(t *testing.T) {
	tests := []struct {
		dbm  int
		want lipgloss.TerminalColor
	}{
		{-40, colorSuccess},
		{-70, colorSuccess},
		{-75, colorWarning},
		{-80, colorWarning},
		{-81, colorError},
		{wifi.DbmFloor, colorError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dbmStyle(tt.dbm).GetForeground(), "dbm %d", tt.dbm)
		assert.Equal(t, tt.want, rowStyles(tt.dbm).Selected.GetForeground(), "row dbm %d", tt.dbm)
	}
}
