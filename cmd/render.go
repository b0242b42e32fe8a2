package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"wifiscan/view"
	"wifiscan/wifi"
)

const (
	barGlyphs      = "▂▄▆█"
	barEmpty       = "·"
	sparkGlyphs    = "▁▂▃▄▅▆▇█"
	sparkMinDbm    = -100
	sparkMaxDbm    = -30
	connectedMark  = "● "
	sortAscending  = " ▲"
	sortDescending = " ▼"
	timeLayout     = "15:04:05"
)

var columnWidths = map[view.Column]int{
	view.ColumnBars:      5,
	view.ColumnSSID:      26,
	view.ColumnBSSID:     19,
	view.ColumnSignal:    8,
	view.ColumnDbm:       6,
	view.ColumnChannel:   9,
	view.ColumnFrequency: 11,
	view.ColumnBand:      9,
	view.ColumnSecurity:  14,
}

// signalBars renders a 0-4 bar level as a fixed-width glyph run.
func signalBars(level int) string {
	glyphs := []rune(barGlyphs)
	level = min(max(level, 0), len(glyphs))
	return string(glyphs[:level]) + strings.Repeat(barEmpty, len(glyphs)-level)
}

// sparkline maps dBm samples onto block glyphs, oldest first.
func sparkline(samples []int) string {
	if len(samples) == 0 {
		return ""
	}
	glyphs := []rune(sparkGlyphs)
	steps := len(glyphs) - 1
	var b strings.Builder
	for _, dbm := range samples {
		dbm = min(max(dbm, sparkMinDbm), sparkMaxDbm)
		idx := (dbm - sparkMinDbm) * steps / (sparkMaxDbm - sparkMinDbm)
		b.WriteRune(glyphs[idx])
	}
	return b.String()
}

func seriesStats(samples []int) (lo, hi, avg int) {
	if len(samples) == 0 {
		return 0, 0, 0
	}
	lo, hi = samples[0], samples[0]
	sum := 0
	for _, s := range samples {
		lo = min(lo, s)
		hi = max(hi, s)
		sum += s
	}
	return lo, hi, sum / len(samples)
}

func tableColumns(sortCol view.Column, ascending bool) []table.Column {
	cols := make([]table.Column, 0, len(view.Columns()))
	for _, c := range view.Columns() {
		title := c.String()
		if c == sortCol {
			if ascending {
				title += sortAscending
			} else {
				title += sortDescending
			}
		}
		cols = append(cols, table.Column{Title: title, Width: columnWidths[c]})
	}
	return cols
}

func tableRow(rec wifi.Record, activeBSSID string) table.Row {
	ssid := "  " + rec.DisplaySSID()
	if activeBSSID != "" && rec.BSSID == activeBSSID {
		ssid = connectedMark + rec.DisplaySSID()
	}
	signal := rec.Signal
	if _, err := strconv.Atoi(signal); err == nil {
		signal += "%"
	}
	return table.Row{
		signalBars(rec.SignalBar),
		ssid,
		rec.BSSID,
		signal,
		strconv.Itoa(rec.SignalDbm()),
		rec.Channel,
		rec.Frequency,
		rec.Band(),
		rec.DisplaySecurity(),
	}
}

func tableRows(records []wifi.Record, activeBSSID string) []table.Row {
	rows := make([]table.Row, len(records))
	for i, rec := range records {
		rows[i] = tableRow(rec, activeBSSID)
	}
	return rows
}

func showingLine(shown, total int) string {
	return fmt.Sprintf("Showing %d of %d networks", shown, total)
}

func lastScanLine(at time.Time) string {
	if at.IsZero() {
		return "Last scan: never"
	}
	return "Last scan: " + at.Local().Format(timeLayout)
}

func qualityStyle(quality string) lipgloss.Style {
	switch quality {
	case wifi.QualityExcellent, wifi.QualityGood:
		return signalExcellentStyle
	case wifi.QualityFair:
		return signalGoodStyle
	default:
		return signalWeakStyle
	}
}

func dbmStyle(dbm int) lipgloss.Style {
	return qualityStyle(wifi.DbmQuality(dbm))
}

func (m model) View() string {
	availableWidth := m.width - appStyle.GetHorizontalFrameSize()

	header := m.headerView(availableWidth)
	m.keys.currentState = m.state
	footer := m.footerView(availableWidth, m.help.View(m.keys))

	var content string
	switch m.state {
	case viewTable:
		content = m.renderTable()
	case viewDetails:
		content = m.renderDetails(availableWidth)
	}

	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Top, header, content, footer))
}

func (m model) headerView(width int) string {
	title := titleStyle.Render(appName)

	scanIndicator := ""
	if m.isScanning {
		scanIndicator = scanningStyle.Render(" " + m.spinner.View() + " Scanning...")
	}

	adapter := m.poller.Adapter()
	if adapter == "" {
		adapter = wifi.NoAdapters
	}
	var polling string
	if m.poller.Running() {
		polling = pollingOnStyle.Render(fmt.Sprintf("every %s", m.poller.Interval()))
	} else {
		polling = pollingOffStyle.Render("paused")
	}
	status := labelStyle.Render("Adapter: ") + adapter + labelStyle.Render(" │ Polling: ") + polling

	spacing := max(width-lipgloss.Width(title)-lipgloss.Width(scanIndicator)-lipgloss.Width(status), 1)
	return lipgloss.JoinHorizontal(lipgloss.Left, title, scanIndicator, strings.Repeat(" ", spacing), status)
}

func (m model) footerView(width int, helpText string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, helpGlobalStyle.Render(helpText))
}

func (m model) filterSummary() string {
	f := m.proj.Filter()
	var parts []string
	if !f.Show24 {
		parts = append(parts, "2.4 GHz hidden")
	}
	if !f.Show5 {
		parts = append(parts, "5 GHz hidden")
	}
	if q := strings.TrimSpace(f.Text); q != "" && !m.isFiltering {
		parts = append(parts, fmt.Sprintf("filter %q", q))
	}
	return strings.Join(parts, ", ")
}

func (m model) renderTable() string {
	summary := showingLine(len(m.rows), m.proj.Len()) + labelStyle.Render(" │ "+lastScanLine(m.lastScan))
	if fs := m.filterSummary(); fs != "" {
		summary += labelStyle.Render(" │ " + fs)
	}
	parts := []string{tableTitleStyle.Render(summary)}

	if len(m.rows) == 0 {
		parts = append(parts, noItemsStyle.Render("No networks. Press (r) to scan or (s) to start polling."))
	} else {
		parts = append(parts, m.table.View())
	}

	if m.isFiltering {
		parts = append(parts, filterInputStyle.Render(m.filterInput.View()))
	}
	if m.statusMsg != "" {
		parts = append(parts, m.statusMsg)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m model) renderDetails(width int) string {
	rec := m.selected
	line := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-11s", label)) + value
	}

	quality := rec.Quality()
	dbm := rec.SignalDbm()
	signal := qualityStyle(quality).Render(rec.Signal+"%") +
		" (" + dbmStyle(dbm).Render(fmt.Sprintf("%d dBm", dbm)) + ") " +
		qualityStyle(quality).Render(quality)
	lines := []string{
		titleStyle.Render(rec.DisplaySSID()),
		"",
		line("BSSID", rec.BSSID),
		line("Signal", signal),
		line("Bars", signalBars(rec.SignalBar)),
		line("Channel", rec.Channel),
		line("Frequency", rec.Frequency),
		line("Band", rec.Band()),
		line("Security", rec.DisplaySecurity()),
		line("Seen", rec.ObservedAt.Local().Format(time.DateTime)),
	}
	if m.activeBSSID != "" && rec.BSSID == m.activeBSSID {
		lines = append(lines, line("Status", successStyle.UnsetMarginTop().Render("connected")))
	}

	series := m.history.Series(rec.BSSID)
	lines = append(lines, "")
	if len(series) == 0 {
		lines = append(lines, line("History", labelStyle.Render("no samples yet")))
	} else {
		lo, hi, avg := seriesStats(series)
		lines = append(lines,
			line("History", sparkline(series)),
			line("", fmt.Sprintf("%d/%d samples, min %d, max %d, avg %d dBm",
				len(series), m.history.Capacity(), lo, hi, avg)),
		)
	}
	lines = append(lines, line("", labelStyle.Render(fmt.Sprintf("%d networks tracked", m.history.Len()))))

	boxWidth := max(width-detailsBoxStyle.GetHorizontalFrameSize(), 0)
	return detailsBoxStyle.Width(boxWidth).Render(strings.Join(lines, "\n"))
}
