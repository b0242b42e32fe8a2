package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifiscan/wifi"
)

var now = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func sampleRecords() []wifi.Record {
	return []wifi.Record{
		wifi.NewRecord("Home", "AA:00:00:00:00:01", "90", "6", "2437MHz", "WPA2", now),
		wifi.NewRecord("cafe", "AA:00:00:00:00:02", "40", "36", "5180MHz", "", now),
		wifi.NewRecord("Office:Floor2", "AA:00:00:00:00:03", "65", "11", "2462MHz", "WPA3", now),
		wifi.NewRecord("", "AA:00:00:00:00:04", "x", "149", "5745MHz", "WPA2", now),
		wifi.NewRecord("odd", "AA:00:00:00:00:05", "20", "?", "bogus", "WEP", now),
	}
}

func bssids(records []wifi.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.BSSID[len(r.BSSID)-2:]
	}
	return out
}

func TestFilter_BandExclusion(t *testing.T) {
	p := NewProjector()
	p.Replace(sampleRecords())

	p.SetFilter(Filter{Show24: true, Show5: false})
	rows := p.Rows()

	assert.Equal(t, []string{"01", "03", "05"}, bssids(rows))
	for _, r := range rows {
		assert.NotEqual(t, wifi.Band5GHz, r.Band())
	}
	assert.Equal(t, 5, p.Len())

	p.SetFilter(DefaultFilter())
	assert.Equal(t, bssids(sampleRecords()), bssids(p.Rows()))
}

func TestFilter_BothBandsOffKeepsUnknown(t *testing.T) {
	rows := Apply(sampleRecords(), Filter{})
	assert.Equal(t, []string{"05"}, bssids(rows))
}

func TestFilter_Text(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"", []string{"01", "02", "03", "04", "05"}},
		{"HOME", []string{"01"}},
		{"wpa", []string{"01", "03", "04"}},
		{"aa:00:00:00:00:02", []string{"02"}},
		{"floor2", []string{"03"}},
		{"  wep ", []string{"05"}},
		{"nothing", []string{}},
	}
	for _, tt := range tests {
		f := DefaultFilter()
		f.Text = tt.text
		assert.Equal(t, tt.want, bssids(Apply(sampleRecords(), f)), "text %q", tt.text)
	}
}

func TestSortBy_ToggleAndReset(t *testing.T) {
	p := NewProjector()
	p.Replace(sampleRecords())

	p.SortBy(ColumnSignal)
	col, asc := p.SortState()
	assert.Equal(t, ColumnSignal, col)
	assert.True(t, asc)
	assert.Equal(t, []string{"04", "05", "02", "03", "01"}, bssids(p.Rows()))

	p.SortBy(ColumnSignal)
	_, asc = p.SortState()
	assert.False(t, asc)
	assert.Equal(t, []string{"01", "03", "02", "05", "04"}, bssids(p.Rows()))

	p.SortBy(ColumnChannel)
	col, asc = p.SortState()
	assert.Equal(t, ColumnChannel, col)
	assert.True(t, asc, "new column resets to ascending")
	assert.Equal(t, []string{"05", "01", "03", "02", "04"}, bssids(p.Rows()))
}

func TestSortBy_NewColumnAfterDescendingStartsAscending(t *testing.T) {
	p := NewProjector()
	p.Replace(sampleRecords())

	p.SortBy(ColumnSSID)
	p.SortBy(ColumnSSID)
	_, asc := p.SortState()
	require.False(t, asc)

	p.SortBy(ColumnDbm)
	col, asc := p.SortState()
	assert.Equal(t, ColumnDbm, col)
	assert.True(t, asc)
}

func TestSortBy_SSIDCaseInsensitive(t *testing.T) {
	p := NewProjector()
	p.Replace(sampleRecords())

	p.SortBy(ColumnSSID)
	assert.Equal(t, []string{"04", "02", "01", "05", "03"}, bssids(p.Rows()))
}

func TestSortBy_BarsColumnIgnored(t *testing.T) {
	p := NewProjector()
	p.Replace(sampleRecords())

	p.SortBy(ColumnBars)
	col, _ := p.SortState()
	assert.Equal(t, NoColumn, col)
	assert.Equal(t, bssids(sampleRecords()), bssids(p.Rows()))
}

func TestSortPersistsAcrossFilterChanges(t *testing.T) {
	p := NewProjector()
	p.Replace(sampleRecords())
	p.SortBy(ColumnBSSID)
	p.SortBy(ColumnBSSID)

	p.SetFilter(Filter{Show24: true, Show5: false})
	assert.Equal(t, []string{"05", "03", "01"}, bssids(p.Rows()))

	p.SetFilter(DefaultFilter())
	assert.Equal(t, []string{"05", "04", "03", "02", "01"}, bssids(p.Rows()))
}

func TestReplace_DoesNotReapplySort(t *testing.T) {
	p := NewProjector()
	p.Replace(sampleRecords())
	p.SortBy(ColumnBSSID)
	p.SortBy(ColumnBSSID)

	fresh := sampleRecords()
	SortBySignal(fresh)
	p.Replace(fresh)

	assert.Equal(t, []string{"01", "03", "02", "05", "04"}, bssids(p.Rows()))
	col, asc := p.SortState()
	assert.Equal(t, ColumnBSSID, col)
	assert.False(t, asc)
}

func TestSortIndicator_ClearedByReplace(t *testing.T) {
	p := NewProjector()
	col, _ := p.SortIndicator()
	assert.Equal(t, NoColumn, col)

	p.Replace(sampleRecords())
	p.SortBy(ColumnBSSID)
	col, asc := p.SortIndicator()
	assert.Equal(t, ColumnBSSID, col)
	assert.True(t, asc)

	p.Replace(sampleRecords())
	col, _ = p.SortIndicator()
	assert.Equal(t, NoColumn, col, "rows are back in delivery order")

	// the remembered column still toggles
	p.SortBy(ColumnBSSID)
	col, asc = p.SortIndicator()
	assert.Equal(t, ColumnBSSID, col)
	assert.False(t, asc)
	assert.Equal(t, []string{"05", "04", "03", "02", "01"}, bssids(p.Rows()))
}

func TestReplace_CopiesInput(t *testing.T) {
	in := sampleRecords()
	p := NewProjector()
	p.Replace(in)
	p.SortBy(ColumnBSSID)
	p.SortBy(ColumnBSSID)

	assert.Equal(t, "AA:00:00:00:00:01", in[0].BSSID)
}

func TestSortRecords_StableDescending(t *testing.T) {
	recs := []wifi.Record{
		wifi.NewRecord("a", "1", "50", "1", "2412MHz", "", now),
		wifi.NewRecord("b", "2", "50", "1", "2412MHz", "", now),
		wifi.NewRecord("c", "3", "70", "1", "2412MHz", "", now),
	}
	SortRecords(recs, ColumnSignal, false)

	assert.Equal(t, "3", recs[0].BSSID)
	assert.Equal(t, "1", recs[1].BSSID)
	assert.Equal(t, "2", recs[2].BSSID)
}

func TestColumnString(t *testing.T) {
	assert.Equal(t, "dBm", ColumnDbm.String())
	assert.Equal(t, "Column(42)", Column(42).String())
	assert.Len(t, Columns(), 9)
}
