package domain

import (
	"context"
	"time"
)

// CatalogSource delivers the four catalog collections in one bulk read.
// Implemented by the GitHub client, the directory reader and the demo catalog.
type CatalogSource interface {
	// Fetch returns a full snapshot. Sources may serve cached data within
	// their own staleness window.
	Fetch(ctx context.Context) (*Snapshot, error)

	// Invalidate forces the next Fetch to bypass any cache
	Invalidate()
}

// AnnotationStore persists user-owned annotations keyed by product ID.
// Every method reports storage failures; callers must not treat an error as
// "no data".
type AnnotationStore interface {
	// === Purchased flags ===
	AllPurchased() (PurchasedSet, error)
	IsPurchased(productID string) (bool, error)
	SetPurchased(productID string, purchased bool) error

	// === File links ===
	FileLink(productID string) (string, bool, error)
	AllFileLinks() (map[string]string, error)
	SetFileLink(productID, path string) error
	RemoveFileLink(productID string) error

	// === Tags (empty tag lists are removed) ===
	AllTags() (TagMap, error)
	Tags(productID string) ([]string, error)
	SetTags(productID string, tags []string) error

	// === Settings ===
	AllSettings() (map[string]string, error)
	Setting(key, defaultValue string) (string, error)
	SetSetting(key, value string) error

	// ClearAll wipes every annotation bucket
	ClearAll() error
}

// SnapshotCache keeps the last good catalog snapshot on disk
type SnapshotCache interface {
	LoadSnapshot() (*Snapshot, time.Time, bool, error)
	SaveSnapshot(snap *Snapshot, fetchedAt time.Time) error
	InvalidateSnapshot() error
}
