// Package source builds the catalog source selected by configuration: the
// GitHub contents API, a local directory, or the embedded demo catalog.
package source

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mmcdole/koepalette/internal/adapter"
	"github.com/mmcdole/koepalette/internal/adapter/source/github"
	"github.com/mmcdole/koepalette/internal/domain"
)

// NewSource creates the configured CatalogSource. When cache is non-nil the
// source is wrapped so the last good snapshot is served if a fetch fails.
func NewSource(cfg *adapter.SourceConfig, cache domain.SnapshotCache, logger *slog.Logger) (domain.CatalogSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("source config is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	var src domain.CatalogSource
	switch resolveType(cfg) {
	case adapter.SourceTypeGitHub:
		if cfg.Owner == "" || cfg.Repo == "" {
			return nil, fmt.Errorf("github source requires owner and repo")
		}
		src = github.NewClient(github.Options{
			APIURL:   cfg.APIURL,
			Owner:    cfg.Owner,
			Repo:     cfg.Repo,
			Ref:      cfg.Ref,
			Token:    cfg.Token,
			Path:     cfg.Path,
			CacheTTL: cfg.CacheTTL,
		}, logger)

	case adapter.SourceTypeDir:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("dir source requires a directory")
		}
		src = NewDirSource(cfg.Dir, logger)

	case adapter.SourceTypeDemo:
		// The demo catalog cannot fail, so it is never wrapped
		logger.Info("no catalog repository configured, using demo catalog")
		return NewDemoSource(), nil

	default:
		return nil, fmt.Errorf("unknown source type: %s", cfg.Type)
	}

	if cache != nil {
		src = NewFallback(src, cache, logger)
	}
	return src, nil
}

// NewSourceFromConfig creates a CatalogSource from the application config
func NewSourceFromConfig(cfg *adapter.Config, cache domain.SnapshotCache, logger *slog.Logger) (domain.CatalogSource, error) {
	return NewSource(&cfg.Source, cache, logger)
}

// Origin identifies the catalog a configuration points at, for keying
// the persisted snapshot
func Origin(cfg *adapter.SourceConfig) string {
	switch resolveType(cfg) {
	case adapter.SourceTypeGitHub:
		api := cfg.APIURL
		if api == "" {
			api = github.DefaultAPIURL
		}
		return strings.Join([]string{api, cfg.Owner, cfg.Repo, cfg.Ref, cfg.Path}, "|")
	case adapter.SourceTypeDir:
		if abs, err := filepath.Abs(cfg.Dir); err == nil {
			return "dir:" + abs
		}
		return "dir:" + cfg.Dir
	default:
		return "demo"
	}
}

func resolveType(cfg *adapter.SourceConfig) adapter.SourceType {
	return (&adapter.Config{Source: *cfg}).ResolvedSourceType()
}
