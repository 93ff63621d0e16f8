package catalog

import "github.com/mmcdole/koepalette/internal/domain"

// SeriesLivers returns the effective liver set of a series: its direct livers
// plus the members of every referenced group, de-duplicated. Unknown series
// and dangling references yield nothing.
func (idx *Index) SeriesLivers(seriesID string) []*domain.Liver {
	s, ok := idx.series[seriesID]
	if !ok {
		return nil
	}
	return idx.effective[s]
}

// EffectiveLivers is SeriesLivers for a series value taken from Series().
// It stays correct when two series share an identifier.
func (idx *Index) EffectiveLivers(s *domain.Series) []*domain.Liver {
	if livers, ok := idx.effective[s]; ok {
		return livers
	}
	return idx.resolveLivers(s)
}

// SeriesProducts returns the products owned by a series, in catalog order
func (idx *Index) SeriesProducts(seriesID string) []*domain.Product {
	return idx.seriesProducts[seriesID]
}

// LiverSeries returns every series whose effective liver set contains the
// liver, in catalog order. Unknown livers yield nothing.
func (idx *Index) LiverSeries(liverID string) []*domain.Series {
	return idx.liverSeries[liverID]
}

// LiverProducts returns the products owned by a liver, in catalog order
func (idx *Index) LiverProducts(liverID string) []*domain.Product {
	return idx.liverProducts[liverID]
}

// GroupSeries returns the series a group is directly assigned to
func (idx *Index) GroupSeries(groupID string) []*domain.Series {
	var out []*domain.Series
	for _, s := range idx.snapshot.Series {
		if s != nil && s.HasGroup(groupID) {
			out = append(out, s)
		}
	}
	return out
}

// GroupLivers returns the resolvable members of a group
func (idx *Index) GroupLivers(groupID string) []*domain.Liver {
	g, ok := idx.groups[groupID]
	if !ok {
		return nil
	}
	out := make([]*domain.Liver, 0, len(g.LiverIDs))
	for _, id := range g.LiverIDs {
		if l, ok := idx.livers[id]; ok {
			out = append(out, l)
		}
	}
	return out
}

// SeriesGroups returns the resolvable groups directly assigned to a series
func (idx *Index) SeriesGroups(s *domain.Series) []*domain.Group {
	out := make([]*domain.Group, 0, len(s.GroupIDs))
	for _, id := range s.GroupIDs {
		if g, ok := idx.groups[id]; ok {
			out = append(out, g)
		}
	}
	return out
}
