package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "config.yaml"))

	cfg, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 3*time.Second, cfg.Interval())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "scan_interval: 10\nadapter: wlan1\nauto_refresh: false\nassociation_source: NL80211\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := New(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.ScanInterval)
	assert.Equal(t, "wlan1", cfg.Adapter)
	assert.False(t, cfg.AutoRefresh)
	assert.Equal(t, AssociationNL80211, cfg.AssociationSource)
	assert.True(t, cfg.CacheEnabled)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("WIFISCAN_ADAPTER", "wlp3s0")
	t.Setenv("WIFISCAN_SCAN_INTERVAL", "7")

	cfg, err := New(filepath.Join(t.TempDir(), "config.yaml")).Load()
	require.NoError(t, err)
	assert.Equal(t, "wlp3s0", cfg.Adapter)
	assert.Equal(t, 7, cfg.ScanInterval)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("association_source: dbus\n"), 0o600))

	_, err := New(path).Load()
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan_interval: [\n"), 0o600))

	_, err := New(path).Load()
	require.Error(t, err)
}

func TestValidate_ClampsInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScanInterval = 0
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.ScanInterval)

	cfg.ScanInterval = -5
	assert.Equal(t, time.Second, cfg.Interval())
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.ScanInterval = 5
	cfg.Adapter = "wlan0"
	cfg.MetricsAddr = "127.0.0.1:9321"

	require.NoError(t, New(path).Save(cfg))

	got, err := New(path).Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestSave_LaterFileEditsWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	s := New(path)
	cfg := DefaultConfig()
	cfg.ScanInterval = 5
	require.NoError(t, s.Save(cfg))

	require.NoError(t, os.WriteFile(path, []byte("scan_interval: 8\n"), 0o600))
	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 8, got.ScanInterval)
}

func TestWatch_StartsAfterFirstSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	s := New(path)

	changes := make(chan *Config, 8)
	s.Watch(func(cfg *Config, err error) {
		if err == nil {
			changes <- cfg
		}
	})
	assert.False(t, s.watching, "nothing to watch before the file exists")

	require.NoError(t, s.Save(DefaultConfig()))
	require.True(t, s.watching)

	require.NoError(t, os.WriteFile(path, []byte("scan_interval: 7\n"), 0o600))
	require.Eventually(t, func() bool {
		select {
		case cfg := <-changes:
			return cfg.ScanInterval == 7
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatch_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan_interval: 4\n"), 0o600))
	s := New(path)
	_, err := s.Load()
	require.NoError(t, err)

	s.Watch(func(*Config, error) {})
	assert.True(t, s.watching)

	// a later Save does not start a second watcher
	require.NoError(t, s.Save(DefaultConfig()))
	assert.True(t, s.watching)
}

func TestNewLogger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogFile = ""
	l, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, l)

	cfg.LogFile = filepath.Join(t.TempDir(), "debug.log")
	cfg.Debug = true
	l, err = NewLogger(cfg)
	require.NoError(t, err)
	l.Debug("hello")
	_ = l.Sync()

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
