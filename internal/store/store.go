// Package store persists user annotations and the last good catalog snapshot
// in a bbolt database, with a write-through in-memory cache for hot reads.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketPurchased = []byte("purchased")
	bucketFileLinks = []byte("file_links")
	bucketTags      = []byte("tags")
	bucketSettings  = []byte("settings")
	bucketCatalog   = []byte("catalog")
)

// annotationBuckets are wiped by ClearAll; the catalog bucket is not user data
var annotationBuckets = [][]byte{bucketPurchased, bucketFileLinks, bucketTags, bucketSettings}

// Store implements domain.AnnotationStore using BoltDB.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// Write-through cache, promoted on read. In memory-only mode it is the
	// only copy of the data.
	cache map[string][]byte
}

// Open opens (creating if needed) the database at path. An empty path gives
// a memory-only store whose contents are lost on exit.
func Open(path string) (*Store, error) {
	if path == "" {
		return &Store{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range append(annotationBuckets, bucketCatalog) {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &Store{db: db, cache: make(map[string][]byte)}, nil
}

// Close releases the database file
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Persistent reports whether writes reach disk
func (s *Store) Persistent() bool { return s.db != nil }

// === Generic helpers ===

func cacheKey(bucket []byte, key string) string {
	return string(bucket) + ":" + key
}

func (s *Store) get(bucket []byte, key string, dest any) (bool, error) {
	ck := cacheKey(bucket, key)

	s.mu.RLock()
	data, ok := s.cache[ck]
	s.mu.RUnlock()

	if !ok {
		if s.db == nil {
			return false, nil
		}
		err := s.db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucket)
			if b == nil {
				return nil
			}
			if v := b.Get([]byte(key)); v != nil {
				data = make([]byte, len(v))
				copy(data, v)
			}
			return nil
		})
		if err != nil {
			return false, fmt.Errorf("failed to read %s: %w", ck, err)
		}
		if data == nil {
			return false, nil
		}

		// Promote to memory cache
		s.mu.Lock()
		s.cache[ck] = data
		s.mu.Unlock()
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", ck, err)
	}
	return true, nil
}

func (s *Store) set(bucket []byte, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", cacheKey(bucket, key), err)
	}

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucket).Put([]byte(key), data)
		})
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", cacheKey(bucket, key), err)
		}
	}

	s.mu.Lock()
	s.cache[cacheKey(bucket, key)] = data
	s.mu.Unlock()
	return nil
}

func (s *Store) delete(bucket []byte, key string) error {
	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucket).Delete([]byte(key))
		})
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", cacheKey(bucket, key), err)
		}
	}

	s.mu.Lock()
	delete(s.cache, cacheKey(bucket, key))
	s.mu.Unlock()
	return nil
}

// each calls fn for every key in the bucket. The database is authoritative
// when present; the cache only is consulted in memory-only mode.
func (s *Store) each(bucket []byte, fn func(key string, data []byte) error) error {
	if s.db == nil {
		prefix := string(bucket) + ":"
		s.mu.RLock()
		defer s.mu.RUnlock()
		for k, v := range s.cache {
			if key, ok := strings.CutPrefix(k, prefix); ok {
				if err := fn(key, v); err != nil {
					return err
				}
			}
		}
		return nil
	}

	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			return fn(string(k), v)
		})
	})
}

// clear empties the given buckets
func (s *Store) clear(buckets ...[]byte) error {
	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			for _, bucket := range buckets {
				if err := tx.DeleteBucket(bucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
					return err
				}
				if _, err := tx.CreateBucket(bucket); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to clear buckets: %w", err)
		}
	}

	s.mu.Lock()
	for _, bucket := range buckets {
		prefix := string(bucket) + ":"
		for k := range s.cache {
			if strings.HasPrefix(k, prefix) {
				delete(s.cache, k)
			}
		}
	}
	s.mu.Unlock()
	return nil
}
