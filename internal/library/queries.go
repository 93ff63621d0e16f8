package library

import (
	"github.com/mmcdole/koepalette/internal/domain"
	"github.com/mmcdole/koepalette/internal/search"
)

// ProductState is a product together with the user's annotations on it
type ProductState struct {
	Product   *domain.Product
	Liver     *domain.Liver // nil when the owning liver is not in the catalog
	Purchased bool
	FileLink  string
	Tags      []string
}

// SeriesDetail is everything shown for one series
type SeriesDetail struct {
	Series   *domain.Series
	Livers   []*domain.Liver
	Groups   []*domain.Group
	Products []ProductState
}

// PurchasedCount reports how many of the series' products are owned
func (d SeriesDetail) PurchasedCount() int {
	n := 0
	for _, p := range d.Products {
		if p.Purchased {
			n++
		}
	}
	return n
}

// FilterSeries returns the series matching every set criterion, in catalog
// order. Annotation read failures fail the whole call.
func (s *Service) FilterSeries(c domain.FilterCriteria) ([]*domain.Series, error) {
	idx, err := s.Index()
	if err != nil {
		return nil, err
	}
	result, err := search.FilterSeries(idx, s.annotations, c)
	if err != nil {
		s.logger.Error("failed to filter series", "error", err)
		return nil, err
	}
	s.logger.Debug("filtered series", "criteria", c, "count", len(result))
	return result, nil
}

// SeriesLivers returns the effective livers of a series
func (s *Service) SeriesLivers(seriesID string) ([]*domain.Liver, error) {
	idx, err := s.Index()
	if err != nil {
		return nil, err
	}
	return idx.SeriesLivers(seriesID), nil
}

// SeriesProducts returns a series' products in catalog order
func (s *Service) SeriesProducts(seriesID string) ([]*domain.Product, error) {
	idx, err := s.Index()
	if err != nil {
		return nil, err
	}
	return idx.SeriesProducts(seriesID), nil
}

// LiverSeries returns every series the liver takes part in, directly or
// through a group
func (s *Service) LiverSeries(liverID string) ([]*domain.Series, error) {
	idx, err := s.Index()
	if err != nil {
		return nil, err
	}
	return idx.LiverSeries(liverID), nil
}

// GroupSeries returns the series a group is directly assigned to
func (s *Service) GroupSeries(groupID string) ([]*domain.Series, error) {
	idx, err := s.Index()
	if err != nil {
		return nil, err
	}
	return idx.GroupSeries(groupID), nil
}

// SeriesByYear groups series by initial release year. Undated series are
// left out.
func (s *Service) SeriesByYear() (map[int][]*domain.Series, error) {
	idx, err := s.Index()
	if err != nil {
		return nil, err
	}
	byYear := make(map[int][]*domain.Series)
	for _, series := range idx.Series() {
		if y := series.Year(); y != 0 {
			byYear[y] = append(byYear[y], series)
		}
	}
	return byYear, nil
}

// AllYears returns the release years present in the catalog, newest first
func (s *Service) AllYears() ([]int, error) {
	idx, err := s.Index()
	if err != nil {
		return nil, err
	}
	return idx.Years(), nil
}

// AllBranches returns the branches present in the catalog
func (s *Service) AllBranches() ([]domain.Branch, error) {
	idx, err := s.Index()
	if err != nil {
		return nil, err
	}
	return idx.Branches(), nil
}

// ResolveLiver finds a liver by ID or approximate name
func (s *Service) ResolveLiver(input string) (*domain.Liver, error) {
	idx, err := s.Index()
	if err != nil {
		return nil, err
	}
	return search.ResolveLiver(idx, input)
}

// ResolveGroup finds a group by ID or approximate name
func (s *Service) ResolveGroup(input string) (*domain.Group, error) {
	idx, err := s.Index()
	if err != nil {
		return nil, err
	}
	return search.ResolveGroup(idx, input)
}

// ResolveSeries finds a series by ID or approximate title
func (s *Service) ResolveSeries(input string) (*domain.Series, error) {
	idx, err := s.Index()
	if err != nil {
		return nil, err
	}
	return search.ResolveSeries(idx, input)
}

// SeriesDetail assembles a series with its livers, groups and annotated
// products
func (s *Service) SeriesDetail(seriesID string) (SeriesDetail, error) {
	idx, err := s.Index()
	if err != nil {
		return SeriesDetail{}, err
	}
	series, ok := idx.SeriesByID(seriesID)
	if !ok {
		return SeriesDetail{}, domain.ErrUnknownSeries
	}

	purchased, err := s.annotations.AllPurchased()
	if err != nil {
		return SeriesDetail{}, annotationErr("read purchased flags", err)
	}
	links, err := s.annotations.AllFileLinks()
	if err != nil {
		return SeriesDetail{}, annotationErr("read file links", err)
	}
	tags, err := s.annotations.AllTags()
	if err != nil {
		return SeriesDetail{}, annotationErr("read tags", err)
	}

	detail := SeriesDetail{
		Series: series,
		Livers: idx.EffectiveLivers(series),
		Groups: idx.SeriesGroups(series),
	}
	for _, p := range idx.SeriesProducts(series.ID) {
		liver, _ := idx.Liver(p.LiverID)
		detail.Products = append(detail.Products, ProductState{
			Product:   p,
			Liver:     liver,
			Purchased: purchased.Has(p.ID),
			FileLink:  links[p.ID],
			Tags:      tags[p.ID],
		})
	}
	return detail, nil
}

// ProductState returns one product with its annotations
func (s *Service) ProductState(productID string) (ProductState, error) {
	idx, err := s.Index()
	if err != nil {
		return ProductState{}, err
	}
	p, ok := idx.Product(productID)
	if !ok {
		return ProductState{}, domain.ErrUnknownProduct
	}

	purchased, err := s.annotations.IsPurchased(p.ID)
	if err != nil {
		return ProductState{}, annotationErr("read purchased flag", err)
	}
	link, _, err := s.annotations.FileLink(p.ID)
	if err != nil {
		return ProductState{}, annotationErr("read file link", err)
	}
	tags, err := s.annotations.Tags(p.ID)
	if err != nil {
		return ProductState{}, annotationErr("read tags", err)
	}

	liver, _ := idx.Liver(p.LiverID)
	return ProductState{Product: p, Liver: liver, Purchased: purchased, FileLink: link, Tags: tags}, nil
}

// Settings returns the typed settings with defaults applied
func (s *Service) Settings() (domain.Settings, error) {
	raw, err := s.annotations.AllSettings()
	if err != nil {
		return domain.Settings{}, annotationErr("read settings", err)
	}
	return domain.SettingsFromMap(raw), nil
}

// RawSettings returns every stored setting
func (s *Service) RawSettings() (map[string]string, error) {
	raw, err := s.annotations.AllSettings()
	if err != nil {
		return nil, annotationErr("read settings", err)
	}
	return raw, nil
}
