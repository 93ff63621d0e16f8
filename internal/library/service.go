// Package library is the application core: it owns the loaded catalog index
// and answers catalog queries and annotation commands for the CLI and TUI.
package library

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mmcdole/koepalette/internal/catalog"
	"github.com/mmcdole/koepalette/internal/domain"
)

// Service orchestrates the catalog source, the in-memory index and the
// annotation store.
type Service struct {
	source      domain.CatalogSource
	annotations domain.AnnotationStore
	logger      *slog.Logger

	// loadMu serializes Initialize/ReloadData; readers only touch index
	loadMu sync.Mutex
	index  atomic.Pointer[catalog.Index]

	loadedAt atomic.Int64 // unix nanos of the last successful load
}

// NewService creates a new library service. Nothing is fetched until
// Initialize is called.
func NewService(source domain.CatalogSource, annotations domain.AnnotationStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, annotations: annotations, logger: logger}
}

// Initialize performs the first catalog load. Sources may answer from their
// own cache.
func (s *Service) Initialize(ctx context.Context) error {
	return s.load(ctx, false)
}

// ReloadData invalidates the source cache, fetches a fresh catalog and
// rebuilds the index. On failure the previously loaded catalog stays in place.
func (s *Service) ReloadData(ctx context.Context) error {
	return s.load(ctx, true)
}

func (s *Service) load(ctx context.Context, invalidate bool) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if invalidate {
		s.source.Invalidate()
	}

	start := time.Now()
	snap, err := s.source.Fetch(ctx)
	if err != nil {
		s.logger.Error("failed to load catalog", "error", err, "reload", invalidate)
		return fmt.Errorf("%w: %w", domain.ErrLoadFailed, err)
	}

	idx := catalog.Load(snap)
	s.index.Store(idx)
	s.loadedAt.Store(time.Now().UnixNano())

	livers, groups, series, products := idx.Stats()
	s.logger.Info("catalog loaded",
		"livers", livers,
		"groups", groups,
		"series", series,
		"products", products,
		"duration", time.Since(start),
		"reload", invalidate,
	)
	return nil
}

// Index returns the current catalog index, or ErrNotLoaded before the first
// successful load. The returned index never changes; a reload publishes a
// new one.
func (s *Service) Index() (*catalog.Index, error) {
	idx := s.index.Load()
	if idx == nil {
		return nil, domain.ErrNotLoaded
	}
	return idx, nil
}

// Loaded reports whether a catalog is available
func (s *Service) Loaded() bool {
	return s.index.Load() != nil
}

// LoadedAt returns when the current catalog was loaded
func (s *Service) LoadedAt() time.Time {
	n := s.loadedAt.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// Annotations exposes the annotation store for read-only views
func (s *Service) Annotations() domain.AnnotationStore {
	return s.annotations
}

// annotationErr attaches the annotation sentinel to a store failure
func annotationErr(action string, err error) error {
	return fmt.Errorf("%w: failed to %s: %w", domain.ErrAnnotationAccess, action, err)
}
