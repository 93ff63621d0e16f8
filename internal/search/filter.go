// Package search implements series filtering over a catalog index and
// fuzzy resolution of liver, group and series names typed by the user.
package search

import (
	"fmt"

	"github.com/mmcdole/koepalette/internal/catalog"
	"github.com/mmcdole/koepalette/internal/domain"
)

// predicate reports whether a series survives one criterion
type predicate func(s *domain.Series) bool

// FilterSeries returns the series satisfying every set field of c, in catalog
// order. Annotations are read at most once per call: the purchased set only
// when the status criterion is active, the tag map only when a query is set.
// A failed annotation read fails the whole call.
func FilterSeries(idx *catalog.Index, annotations domain.AnnotationStore, c domain.FilterCriteria) ([]*domain.Series, error) {
	if idx == nil {
		return nil, domain.ErrNotLoaded
	}

	preds, err := buildPredicates(idx, annotations, c)
	if err != nil {
		return nil, err
	}

	all := idx.Series()
	out := make([]*domain.Series, 0, len(all))
	for _, s := range all {
		if s == nil {
			continue
		}
		if matchesAll(s, preds) {
			out = append(out, s)
		}
	}
	return out, nil
}

func matchesAll(s *domain.Series, preds []predicate) bool {
	for _, p := range preds {
		if !p(s) {
			return false
		}
	}
	return true
}

func buildPredicates(idx *catalog.Index, annotations domain.AnnotationStore, c domain.FilterCriteria) ([]predicate, error) {
	var preds []predicate

	if c.Branch != "" {
		preds = append(preds, func(s *domain.Series) bool {
			for _, l := range idx.EffectiveLivers(s) {
				if l.Branch == c.Branch {
					return true
				}
			}
			return false
		})
	}

	if c.Year != 0 {
		preds = append(preds, func(s *domain.Series) bool {
			return s.Year() == c.Year
		})
	}

	if c.LiverID != "" {
		preds = append(preds, func(s *domain.Series) bool {
			for _, l := range idx.EffectiveLivers(s) {
				if l.ID == c.LiverID {
					return true
				}
			}
			return false
		})
	}

	// Direct assignment only; group membership is not expanded here
	if c.GroupID != "" {
		preds = append(preds, func(s *domain.Series) bool {
			return s.HasGroup(c.GroupID)
		})
	}

	if c.PurchasedStatus.Active() {
		purchased, err := readPurchased(annotations)
		if err != nil {
			return nil, err
		}
		want := c.PurchasedStatus == domain.PurchasedOnly
		preds = append(preds, func(s *domain.Series) bool {
			return anyPurchased(idx.SeriesProducts(s.ID), purchased) == want
		})
	}

	if c.Query != "" {
		tags, err := readTags(annotations)
		if err != nil {
			return nil, err
		}
		query := Fold(c.Query)
		preds = append(preds, func(s *domain.Series) bool {
			return seriesMatchesQuery(idx, s, query, tags)
		})
	}

	return preds, nil
}

func readPurchased(annotations domain.AnnotationStore) (domain.PurchasedSet, error) {
	if annotations == nil {
		return nil, fmt.Errorf("%w: no annotation store configured", domain.ErrAnnotationAccess)
	}
	purchased, err := annotations.AllPurchased()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read purchased flags: %w", domain.ErrAnnotationAccess, err)
	}
	return purchased, nil
}

func readTags(annotations domain.AnnotationStore) (domain.TagMap, error) {
	if annotations == nil {
		return nil, fmt.Errorf("%w: no annotation store configured", domain.ErrAnnotationAccess)
	}
	tags, err := annotations.AllTags()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read tags: %w", domain.ErrAnnotationAccess, err)
	}
	return tags, nil
}

func anyPurchased(products []*domain.Product, purchased domain.PurchasedSet) bool {
	for _, p := range products {
		if purchased.Has(p.ID) {
			return true
		}
	}
	return false
}

// seriesMatchesQuery tests the title, the effective livers' names, the
// directly referenced groups' names and every tag on the series' products
func seriesMatchesQuery(idx *catalog.Index, s *domain.Series, query string, tags domain.TagMap) bool {
	if ContainsFold(s.Title, query) {
		return true
	}
	for _, l := range idx.EffectiveLivers(s) {
		if ContainsFold(l.PrimaryName(), query) || ContainsFold(l.SecondaryName(), query) {
			return true
		}
	}
	for _, g := range idx.SeriesGroups(s) {
		if ContainsFold(g.Name, query) {
			return true
		}
	}
	for _, p := range idx.SeriesProducts(s.ID) {
		for _, tag := range tags[p.ID] {
			if ContainsFold(tag, query) {
				return true
			}
		}
	}
	return false
}
