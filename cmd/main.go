// Package main implements a terminal Wi-Fi scanner. It polls nmcli for nearby
// access points, keeps a short signal history per BSSID, and renders a
// sortable, filterable table of the latest scan.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"wifiscan/cache"
	"wifiscan/config"
	"wifiscan/gonetworkmanager"
	"wifiscan/history"
	"wifiscan/nl80211"
	"wifiscan/scanner"
	"wifiscan/view"
)

const (
	appName           = "Wi-Fi Scanner"
	nmcliCheckTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Application crashed: %v\n", r)
			os.Exit(1)
		}
	}()

	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	store := config.New(configPath)
	cfg, err := store.Load()
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log file: %v\n", err)
		logger = zap.NewNop()
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting", zap.String("config", store.Path()),
		zap.Duration("interval", cfg.Interval()), zap.String("association", cfg.AssociationSource))

	nm := gonetworkmanager.New(logger.Named("nmcli"))
	ctx, cancel := context.WithTimeout(context.Background(), nmcliCheckTimeout)
	err = nm.CheckAvailable(ctx)
	cancel()
	if err != nil {
		return fmt.Errorf("%w\nThis application requires NetworkManager to function", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := scanner.NewMetrics(reg)

	var adapters adapterLister = nm
	var associator scanner.Associator = nm
	if cfg.AssociationSource == config.AssociationNL80211 {
		nl := nl80211.New(logger.Named("nl80211"))
		adapters, associator = nl, nl
	}

	hist := history.New()
	poller := scanner.New(nm, logger.Named("poller"),
		scanner.WithAssociator(associator),
		scanner.WithHistory(hist),
		scanner.WithMetrics(metrics),
		scanner.WithAdapter(cfg.Adapter),
		scanner.WithInterval(cfg.Interval()),
	)
	defer poller.Stop()

	var snapCache *cache.Cache
	if cfg.CacheEnabled {
		snapCache = cache.New("", logger.Named("cache"))
	}

	if cfg.MetricsAddr != "" {
		srv := newMetricsServer(cfg.MetricsAddr, reg, logger.Named("metrics"))
		go func() {
			if err := srv.Start(); err != nil {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("metrics server shutdown", zap.Error(err))
			}
		}()
	}

	m := newModel(deps{
		cfg:      cfg,
		store:    store,
		poller:   poller,
		adapters: adapters,
		history:  hist,
		proj:     view.NewProjector(),
		cache:    snapCache,
		logger:   logger,
	})

	program := tea.NewProgram(m, tea.WithAltScreen())
	store.Watch(func(cfg *config.Config, err error) {
		program.Send(configChangedMsg{cfg: cfg, err: err})
	})

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	logger.Info("stopping")
	return nil
}
