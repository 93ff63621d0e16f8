package store

import (
	"encoding/json"
	"fmt"

	"github.com/mmcdole/koepalette/internal/domain"
)

var _ domain.AnnotationStore = (*Store)(nil)

// === Purchased flags (presence = purchased) ===

func (s *Store) AllPurchased() (domain.PurchasedSet, error) {
	set := make(domain.PurchasedSet)
	err := s.each(bucketPurchased, func(key string, _ []byte) error {
		set.Add(key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list purchased: %w", err)
	}
	return set, nil
}

func (s *Store) IsPurchased(productID string) (bool, error) {
	var flag bool
	ok, err := s.get(bucketPurchased, productID, &flag)
	if err != nil {
		return false, err
	}
	return ok && flag, nil
}

// SetPurchased records or clears the flag. Clearing removes the key so the
// relation stays sparse.
func (s *Store) SetPurchased(productID string, purchased bool) error {
	if !purchased {
		return s.delete(bucketPurchased, productID)
	}
	return s.set(bucketPurchased, productID, true)
}

// === File links ===

func (s *Store) FileLink(productID string) (string, bool, error) {
	var path string
	ok, err := s.get(bucketFileLinks, productID, &path)
	return path, ok, err
}

func (s *Store) AllFileLinks() (map[string]string, error) {
	links := make(map[string]string)
	err := s.each(bucketFileLinks, func(key string, data []byte) error {
		var path string
		if err := json.Unmarshal(data, &path); err != nil {
			return fmt.Errorf("failed to decode file link %s: %w", key, err)
		}
		links[key] = path
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list file links: %w", err)
	}
	return links, nil
}

func (s *Store) SetFileLink(productID, path string) error {
	return s.set(bucketFileLinks, productID, path)
}

func (s *Store) RemoveFileLink(productID string) error {
	return s.delete(bucketFileLinks, productID)
}

// === Tags ===

func (s *Store) AllTags() (domain.TagMap, error) {
	tags := make(domain.TagMap)
	err := s.each(bucketTags, func(key string, data []byte) error {
		var labels []string
		if err := json.Unmarshal(data, &labels); err != nil {
			return fmt.Errorf("failed to decode tags %s: %w", key, err)
		}
		if len(labels) > 0 {
			tags[key] = labels
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (s *Store) Tags(productID string) ([]string, error) {
	var labels []string
	if _, err := s.get(bucketTags, productID, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// SetTags replaces a product's labels. An empty list removes the entry.
func (s *Store) SetTags(productID string, tags []string) error {
	tags = domain.NormalizeTags(tags)
	if len(tags) == 0 {
		return s.delete(bucketTags, productID)
	}
	return s.set(bucketTags, productID, tags)
}

// === Settings ===

func (s *Store) AllSettings() (map[string]string, error) {
	settings := make(map[string]string)
	err := s.each(bucketSettings, func(key string, data []byte) error {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return fmt.Errorf("failed to decode setting %s: %w", key, err)
		}
		settings[key] = value
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

func (s *Store) Setting(key, defaultValue string) (string, error) {
	var value string
	ok, err := s.get(bucketSettings, key, &value)
	if err != nil {
		return "", err
	}
	if !ok {
		return defaultValue, nil
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	return s.set(bucketSettings, key, value)
}

// ClearAll wipes purchased flags, file links, tags and settings.
// The cached catalog snapshot is kept.
func (s *Store) ClearAll() error {
	return s.clear(annotationBuckets...)
}
