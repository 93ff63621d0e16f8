package source

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/koepalette/internal/domain"
)

// Fallback persists every successful fetch and serves the persisted snapshot
// when the wrapped source fails, so the catalog stays browsable offline.
type Fallback struct {
	inner  domain.CatalogSource
	cache  domain.SnapshotCache
	logger *slog.Logger
	now    func() time.Time
}

// NewFallback wraps inner with a persistent snapshot cache
func NewFallback(inner domain.CatalogSource, cache domain.SnapshotCache, logger *slog.Logger) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{inner: inner, cache: cache, logger: logger, now: time.Now}
}

func (f *Fallback) Fetch(ctx context.Context) (*domain.Snapshot, error) {
	snap, err := f.inner.Fetch(ctx)
	if err == nil {
		if saveErr := f.cache.SaveSnapshot(snap, f.now()); saveErr != nil {
			f.logger.Warn("failed to persist catalog snapshot", "error", saveErr)
		}
		return snap, nil
	}

	// Cancellation is the caller's decision, not an outage
	if ctx.Err() != nil {
		return nil, err
	}

	cached, fetchedAt, ok, cacheErr := f.cache.LoadSnapshot()
	if cacheErr != nil {
		f.logger.Warn("failed to read persisted catalog snapshot", "error", cacheErr)
	}
	if !ok {
		return nil, err
	}

	f.logger.Warn("catalog fetch failed, serving persisted snapshot",
		"error", err,
		"fetchedAt", fetchedAt,
		"series", len(cached.Series),
	)
	return cached, nil
}

// Invalidate forwards to the wrapped source. The persisted snapshot is kept
// as the offline copy.
func (f *Fallback) Invalidate() {
	f.inner.Invalidate()
}
