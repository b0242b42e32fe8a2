package wifi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalDbm(t *testing.T) {
	tests := []struct {
		signal string
		want   int
	}{
		{"72", -64},
		{"73", -64},
		{"100", -50},
		{"0", -100},
		{" 40 ", -80},
		{"150", -50},
		{"-20", -100},
		{"", DbmFloor},
		{"x", DbmFloor},
		{"--", DbmFloor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SignalDbm(tt.signal), "SignalDbm(%q)", tt.signal)
	}
}

func TestSignalQuality(t *testing.T) {
	tests := []struct {
		signal string
		want   string
	}{
		{"80", QualityExcellent},
		{"75", QualityExcellent},
		{"60", QualityGood},
		{"50", QualityGood},
		{"30", QualityFair},
		{"25", QualityFair},
		{"10", QualityWeak},
		{"0", QualityWeak},
		{"x", QualityUnknown},
		{"", QualityUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SignalQuality(tt.signal), "SignalQuality(%q)", tt.signal)
	}
}

func TestBand(t *testing.T) {
	tests := []struct {
		freq string
		want string
	}{
		{"2437MHz", Band24GHz},
		{"2437 MHz", Band24GHz},
		{"5180MHz", Band5GHz},
		{"5000MHz", Band24GHz},
		{"5955 MHz", Band5GHz},
		{"bogus", BandUnknown},
		{"", BandUnknown},
		{"MHz", BandUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Band(tt.freq), "Band(%q)", tt.freq)
	}
}

func TestSignalBar(t *testing.T) {
	tests := []struct {
		signal string
		want   int
	}{
		{"100", 4},
		{"80", 4},
		{"79", 3},
		{"60", 3},
		{"40", 2},
		{"20", 1},
		{"19", 0},
		{"nope", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SignalBar(tt.signal), "SignalBar(%q)", tt.signal)
	}
}

func TestDbmQuality(t *testing.T) {
	assert.Equal(t, QualityExcellent, DbmQuality(-50))
	assert.Equal(t, QualityGood, DbmQuality(-64))
	assert.Equal(t, QualityFair, DbmQuality(-80))
	assert.Equal(t, QualityWeak, DbmQuality(-81))
}

func TestRecord_DerivedMetricsAreRepeatable(t *testing.T) {
	rec := NewRecord("Home", "AA:BB:CC:DD:EE:FF", "72", "6", "2437MHz", "WPA2", observed)

	for range 3 {
		assert.Equal(t, -64, rec.SignalDbm())
		assert.Equal(t, QualityGood, rec.Quality())
		assert.Equal(t, Band24GHz, rec.Band())
		assert.Equal(t, 72, rec.SignalPercent())
		assert.Equal(t, 6, rec.ChannelNumber())
	}
}
