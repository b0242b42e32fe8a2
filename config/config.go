// Package config loads and saves the settings the scanner reads.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "WIFISCAN"
	appDirName     = "wifiscan"
	configFileName = "config.yaml"

	AssociationNmcli   = "nmcli"
	AssociationNL80211 = "nl80211"

	minScanInterval = 1
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the scanner settings.
type Config struct {
	ScanInterval      int    `mapstructure:"scan_interval"`
	Adapter           string `mapstructure:"adapter"`
	AutoRefresh       bool   `mapstructure:"auto_refresh"`
	AssociationSource string `mapstructure:"association_source"`
	CacheEnabled      bool   `mapstructure:"cache_enabled"`
	MetricsAddr       string `mapstructure:"metrics_addr"`
	LogFile           string `mapstructure:"log_file"`
	Debug             bool   `mapstructure:"debug"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() *Config {
	return &Config{
		ScanInterval:      3,
		AutoRefresh:       true,
		AssociationSource: AssociationNmcli,
		CacheEnabled:      true,
		LogFile:           "wifiscan-debug.log",
	}
}

// Interval returns the scan interval as a duration, at least one second.
func (c *Config) Interval() time.Duration {
	return time.Duration(max(c.ScanInterval, minScanInterval)) * time.Second
}

// Validate normalizes the interval and checks enumerated fields.
func (c *Config) Validate() error {
	if c.ScanInterval < minScanInterval {
		c.ScanInterval = minScanInterval
	}
	c.AssociationSource = strings.ToLower(strings.TrimSpace(c.AssociationSource))
	switch c.AssociationSource {
	case "":
		c.AssociationSource = AssociationNmcli
	case AssociationNmcli, AssociationNL80211:
	default:
		return fmt.Errorf("%w: association_source %q (want %q or %q)",
			ErrInvalidConfig, c.AssociationSource, AssociationNmcli, AssociationNL80211)
	}
	return nil
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, appDirName, configFileName)
}

// Store binds a Config to a file and to WIFISCAN_* environment variables.
type Store struct {
	mu       sync.Mutex
	v        *viper.Viper
	path     string
	onChange func(*Config, error)
	watching bool
}

func New(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfig())
	return &Store{v: v, path: path}
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("scan_interval", d.ScanInterval)
	v.SetDefault("adapter", d.Adapter)
	v.SetDefault("auto_refresh", d.AutoRefresh)
	v.SetDefault("association_source", d.AssociationSource)
	v.SetDefault("cache_enabled", d.CacheEnabled)
	v.SetDefault("metrics_addr", d.MetricsAddr)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("debug", d.Debug)
}

func (s *Store) Path() string { return s.path }

// Load reads the config file. A missing file yields the defaults.
func (s *Store) Load() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", s.path, err)
		}
	}
	return s.decode()
}

func (s *Store) decode() (*Config, error) {
	cfg := &Config{}
	if err := s.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to the config file, creating its directory.
func (s *Store) Save(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A separate instance keeps Set overrides out of the watched one, so
	// later edits to the file still take effect on reload.
	w := viper.New()
	w.Set("scan_interval", cfg.ScanInterval)
	w.Set("adapter", cfg.Adapter)
	w.Set("auto_refresh", cfg.AutoRefresh)
	w.Set("association_source", cfg.AssociationSource)
	w.Set("cache_enabled", cfg.CacheEnabled)
	w.Set("metrics_addr", cfg.MetricsAddr)
	w.Set("log_file", cfg.LogFile)
	w.Set("debug", cfg.Debug)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := w.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write config %s: %w", s.path, err)
	}
	s.startWatchLocked()
	return nil
}

// Watch calls fn with the reloaded config each time the file changes.
// When the file does not exist yet, watching starts after the first Save
// creates it.
func (s *Store) Watch(fn func(*Config, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onChange = fn
	if _, err := os.Stat(s.path); err != nil {
		return
	}
	s.startWatchLocked()
}

func (s *Store) startWatchLocked() {
	if s.watching || s.onChange == nil {
		return
	}
	s.watching = true
	fn := s.onChange
	s.v.OnConfigChange(func(fsnotify.Event) {
		s.mu.Lock()
		cfg, err := s.decode()
		s.mu.Unlock()
		fn(cfg, err)
	})
	s.v.WatchConfig()
}
