package store

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/mmcdole/koepalette/internal/domain"
)

// snapshotRecord is the on-disk form of a cached catalog
type snapshotRecord struct {
	FetchedAt time.Time        `json:"fetched_at"`
	Snapshot  *domain.Snapshot `json:"snapshot"`
}

// SnapshotCache is a domain.SnapshotCache view of the catalog bucket bound
// to one catalog origin, so switching repositories never serves another
// repository's data.
type SnapshotCache struct {
	store *Store
	key   string
}

var _ domain.SnapshotCache = (*SnapshotCache)(nil)

// SnapshotCache returns the snapshot cache for a catalog origin
// (a repository URL, a directory path, "demo").
func (s *Store) SnapshotCache(origin string) *SnapshotCache {
	return &SnapshotCache{store: s, key: "snapshot:" + hashOrigin(origin)}
}

func hashOrigin(origin string) string {
	normalized := strings.TrimRight(strings.ToLower(origin), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

// LoadSnapshot returns the stored snapshot and when it was fetched
func (c *SnapshotCache) LoadSnapshot() (*domain.Snapshot, time.Time, bool, error) {
	var rec snapshotRecord
	ok, err := c.store.get(bucketCatalog, c.key, &rec)
	if err != nil || !ok || rec.Snapshot == nil {
		return nil, time.Time{}, false, err
	}
	return rec.Snapshot, rec.FetchedAt, true, nil
}

func (c *SnapshotCache) SaveSnapshot(snap *domain.Snapshot, fetchedAt time.Time) error {
	return c.store.set(bucketCatalog, c.key, snapshotRecord{FetchedAt: fetchedAt, Snapshot: snap})
}

func (c *SnapshotCache) InvalidateSnapshot() error {
	return c.store.delete(bucketCatalog, c.key)
}
