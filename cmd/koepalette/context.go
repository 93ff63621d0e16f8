package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmcdole/koepalette/internal/adapter"
	"github.com/mmcdole/koepalette/internal/adapter/source"
	"github.com/mmcdole/koepalette/internal/domain"
	"github.com/mmcdole/koepalette/internal/library"
	"github.com/mmcdole/koepalette/internal/store"
)

// commandContext builds the application lazily, so commands that only touch
// configuration never open the database
type commandContext struct {
	configFlag string

	config  *adapter.Config
	logger  *slog.Logger
	closers []io.Closer
	svc     *library.Service
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*adapter.Config, error) {
	if c.config != nil {
		return c.config, nil
	}

	var cfg *adapter.Config
	var err error
	if path := strings.TrimSpace(c.configFlag); path != "" {
		cfg, err = adapter.LoadConfigFile(path)
	} else {
		cfg, err = adapter.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		c.closers = append(c.closers, closer)
	}
	slog.SetDefault(logger)
	logger.Info("starting koepalette", "version", Version)

	c.config = cfg
	c.logger = logger
	return cfg, nil
}

// service builds the library service without loading the catalog
func (c *commandContext) service() (*library.Service, error) {
	if c.svc != nil {
		return c.svc, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	c.closers = append(c.closers, st)

	var cache domain.SnapshotCache
	if st.Persistent() {
		cache = st.SnapshotCache(source.Origin(&cfg.Source))
	}
	src, err := source.NewSourceFromConfig(cfg, cache, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog source: %w", err)
	}

	c.svc = library.NewService(src, st, c.logger)
	return c.svc, nil
}

// loadedService builds the library service and loads the catalog
func (c *commandContext) loadedService(ctx context.Context) (*library.Service, error) {
	svc, err := c.service()
	if err != nil {
		return nil, err
	}
	if svc.Loaded() {
		return svc, nil
	}
	if err := svc.Initialize(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// settings returns the stored settings, or the defaults when they cannot be read
func (c *commandContext) settings(svc *library.Service) domain.Settings {
	settings, err := svc.Settings()
	if err != nil {
		c.logger.Warn("failed to read settings, using defaults", "error", err)
		return domain.DefaultSettings()
	}
	return settings
}

func (c *commandContext) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		_ = c.closers[i].Close()
	}
	c.closers = nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
