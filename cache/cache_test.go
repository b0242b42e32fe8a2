package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wifiscan/scanner"
	"wifiscan/wifi"
)

func TestSaveLoad(t *testing.T) {
	at := time.Date(2025, 1, 1, 8, 30, 0, 0, time.UTC)
	c := New(filepath.Join(t.TempDir(), "snap.json"), zap.NewNop())
	snap := scanner.Snapshot{
		Records: []wifi.Record{
			wifi.NewRecord("Office:Floor2", "AA:BB:CC:DD:EE:FF", "72", "6", "2437MHz", "WPA2", at),
		},
		ActiveBSSID: "AA:BB:CC:DD:EE:FF",
		Adapter:     "wlan0",
		ObservedAt:  at,
	}

	require.NoError(t, c.Save(snap))

	got, ok, err := c.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "wlan0", got.Adapter)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", got.ActiveBSSID)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "Office:Floor2", got.Records[0].SSID)
	assert.Equal(t, 3, got.Records[0].SignalBar)
	assert.True(t, at.Equal(got.ObservedAt))
}

func TestLoad_Missing(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "absent.json"), zap.NewNop())

	_, ok, err := c.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, ok, err := New(path, zap.NewNop()).Load()
	require.Error(t, err)
	assert.False(t, ok)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, DefaultPath(), New("", zap.NewNop()).Path())
}
