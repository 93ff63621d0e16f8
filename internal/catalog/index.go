// Package catalog builds immutable lookup indexes over a catalog snapshot and
// resolves the relationships between series, livers, groups and products.
//
// An Index is constructed in one step by Load and never mutated afterwards;
// a catalog reload builds a new Index and the caller swaps the pointer.
package catalog

import (
	"sort"
	"strings"

	"github.com/mmcdole/koepalette/internal/domain"
)

// Index is a read-only view of one catalog snapshot
type Index struct {
	snapshot *domain.Snapshot

	livers   map[string]*domain.Liver
	groups   map[string]*domain.Group
	series   map[string]*domain.Series
	products map[string]*domain.Product

	// Derived relations, built in the same pass as the maps above
	effective      map[*domain.Series][]*domain.Liver // direct + via-group livers
	seriesProducts map[string][]*domain.Product       // catalog order
	liverProducts  map[string][]*domain.Product       // catalog order
	liverSeries    map[string][]*domain.Series        // catalog order
	byHash         map[string]*domain.Product         // lower-case hex, first wins
}

// Load builds an Index from a snapshot. Duplicate identifiers resolve
// last-write-wins; a nil snapshot yields an empty index.
func Load(snap *domain.Snapshot) *Index {
	if snap == nil {
		snap = &domain.Snapshot{}
	}

	idx := &Index{
		snapshot:       snap,
		livers:         make(map[string]*domain.Liver, len(snap.Livers)),
		groups:         make(map[string]*domain.Group, len(snap.Groups)),
		series:         make(map[string]*domain.Series, len(snap.Series)),
		products:       make(map[string]*domain.Product, len(snap.Products)),
		effective:      make(map[*domain.Series][]*domain.Liver, len(snap.Series)),
		seriesProducts: make(map[string][]*domain.Product),
		liverProducts:  make(map[string][]*domain.Product),
		liverSeries:    make(map[string][]*domain.Series),
		byHash:         make(map[string]*domain.Product),
	}

	for _, l := range snap.Livers {
		if l != nil {
			idx.livers[l.ID] = l
		}
	}
	for _, g := range snap.Groups {
		if g != nil {
			idx.groups[g.ID] = g
		}
	}
	for _, s := range snap.Series {
		if s != nil {
			idx.series[s.ID] = s
		}
	}
	for _, p := range snap.Products {
		if p == nil {
			continue
		}
		idx.products[p.ID] = p
		idx.seriesProducts[p.SeriesID] = append(idx.seriesProducts[p.SeriesID], p)
		idx.liverProducts[p.LiverID] = append(idx.liverProducts[p.LiverID], p)
		if p.FileHash != "" {
			key := strings.ToLower(p.FileHash)
			if _, exists := idx.byHash[key]; !exists {
				idx.byHash[key] = p
			}
		}
	}

	// Effective liver sets need the liver and group maps complete
	for _, s := range snap.Series {
		if s == nil {
			continue
		}
		livers := idx.resolveLivers(s)
		idx.effective[s] = livers
		for _, l := range livers {
			idx.liverSeries[l.ID] = append(idx.liverSeries[l.ID], s)
		}
	}

	return idx
}

// resolveLivers computes direct ∪ group-member livers, de-duplicated, with
// dangling identifiers dropped. Direct livers come first.
func (idx *Index) resolveLivers(s *domain.Series) []*domain.Liver {
	seen := make(map[string]bool, len(s.LiverIDs))
	var livers []*domain.Liver

	add := func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		if l, ok := idx.livers[id]; ok {
			livers = append(livers, l)
		}
	}

	for _, id := range s.LiverIDs {
		add(id)
	}
	for _, gid := range s.GroupIDs {
		g, ok := idx.groups[gid]
		if !ok {
			continue
		}
		for _, id := range g.LiverIDs {
			add(id)
		}
	}
	return livers
}

// Snapshot returns the raw collections the index was built from
func (idx *Index) Snapshot() *domain.Snapshot { return idx.snapshot }

// Livers returns all livers in catalog order
func (idx *Index) Livers() []*domain.Liver { return idx.snapshot.Livers }

// Groups returns all groups in catalog order
func (idx *Index) Groups() []*domain.Group { return idx.snapshot.Groups }

// Series returns all series in catalog order
func (idx *Index) Series() []*domain.Series { return idx.snapshot.Series }

// Products returns all products in catalog order
func (idx *Index) Products() []*domain.Product { return idx.snapshot.Products }

func (idx *Index) Liver(id string) (*domain.Liver, bool) {
	l, ok := idx.livers[id]
	return l, ok
}

func (idx *Index) Group(id string) (*domain.Group, bool) {
	g, ok := idx.groups[id]
	return g, ok
}

func (idx *Index) SeriesByID(id string) (*domain.Series, bool) {
	s, ok := idx.series[id]
	return s, ok
}

func (idx *Index) Product(id string) (*domain.Product, bool) {
	p, ok := idx.products[id]
	return p, ok
}

// ProductByHash looks up a product by its content digest (hex, any case)
func (idx *Index) ProductByHash(hash string) (*domain.Product, bool) {
	if hash == "" {
		return nil, false
	}
	p, ok := idx.byHash[strings.ToLower(hash)]
	return p, ok
}

// Years returns the distinct initial-release years, newest first.
// Series without a release date are skipped.
func (idx *Index) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, s := range idx.snapshot.Series {
		if s == nil {
			continue
		}
		y := s.Year()
		if y == 0 || seen[y] {
			continue
		}
		seen[y] = true
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// Branches returns the distinct liver branches in first-seen order
func (idx *Index) Branches() []domain.Branch {
	seen := make(map[domain.Branch]bool)
	var branches []domain.Branch
	for _, l := range idx.snapshot.Livers {
		if l == nil || l.Branch == "" || seen[l.Branch] {
			continue
		}
		seen[l.Branch] = true
		branches = append(branches, l.Branch)
	}
	return branches
}

// Stats reports collection sizes for logging
func (idx *Index) Stats() (livers, groups, series, products int) {
	return len(idx.snapshot.Livers), len(idx.snapshot.Groups), len(idx.snapshot.Series), len(idx.snapshot.Products)
}
