package search

import (
	"errors"
	"slices"
	"testing"

	"github.com/mmcdole/koepalette/internal/catalog"
	"github.com/mmcdole/koepalette/internal/catalog/catalogtest"
	"github.com/mmcdole/koepalette/internal/domain"
	"github.com/mmcdole/koepalette/internal/store"
)

// failingStore fails every bulk read the filter engine performs
type failingStore struct {
	domain.AnnotationStore
	err error
}

func (f failingStore) AllPurchased() (domain.PurchasedSet, error) { return nil, f.err }
func (f failingStore) AllTags() (domain.TagMap, error)            { return nil, f.err }

func newAnnotations(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open("")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return s
}

func filterIDs(t *testing.T, idx *catalog.Index, annotations domain.AnnotationStore, c domain.FilterCriteria) []string {
	t.Helper()
	got, err := FilterSeries(idx, annotations, c)
	if err != nil {
		t.Fatalf("FilterSeries(%+v): %v", c, err)
	}
	return catalogtest.SeriesIDs(got)
}

func TestFilterSeriesNoCriteriaReturnsAllInOrder(t *testing.T) {
	snap := catalogtest.Sample()
	idx := catalog.Load(snap)

	got := filterIDs(t, idx, newAnnotations(t), domain.FilterCriteria{})
	want := catalogtest.SeriesIDs(snap.Series)
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFilterSeriesScenario(t *testing.T) {
	idx := catalog.Load(catalogtest.Scenario())
	annotations := newAnnotations(t)

	if got := filterIDs(t, idx, annotations, domain.FilterCriteria{LiverID: "A"}); !slices.Equal(got, []string{"X", "Y"}) {
		t.Fatalf("liver filter: expected [X Y], got %v", got)
	}
	if got := filterIDs(t, idx, annotations, domain.FilterCriteria{GroupID: "G"}); !slices.Equal(got, []string{"X"}) {
		t.Fatalf("group filter: expected [X], got %v", got)
	}
}

func TestFilterSeriesCriteria(t *testing.T) {
	idx := catalog.Load(catalogtest.Sample())
	annotations := newAnnotations(t)
	annotations.SetPurchased("kenmochi_winter2024", true)
	annotations.SetTags("kr_debut_1", []string{"Morning Call"})

	tests := []struct {
		name     string
		criteria domain.FilterCriteria
		want     []string
	}{
		{
			name:     "single EN liver attached to one series",
			criteria: domain.FilterCriteria{Branch: domain.BranchEN},
			want:     []string{"seasonal_2025_spring"},
		},
		{
			name:     "branch through group membership",
			criteria: domain.FilterCriteria{Branch: domain.BranchJP},
			want:     []string{"rofmao_1st_anniv", "winter_2024"},
		},
		{
			name:     "year",
			criteria: domain.FilterCriteria{Year: 2024},
			want:     []string{"winter_2024", "kr_debut"},
		},
		{
			name:     "liver via group",
			criteria: domain.FilterCriteria{LiverID: "fuwa_minato"},
			want:     []string{"rofmao_1st_anniv", "winter_2024"},
		},
		{
			name:     "group is direct only",
			criteria: domain.FilterCriteria{GroupID: "rofmao"},
			want:     []string{"rofmao_1st_anniv"},
		},
		{
			name:     "purchased",
			criteria: domain.FilterCriteria{PurchasedStatus: domain.PurchasedOnly},
			want:     []string{"winter_2024"},
		},
		{
			name:     "not purchased",
			criteria: domain.FilterCriteria{PurchasedStatus: domain.PurchasedNotPurchased},
			want:     []string{"seasonal_2025_spring", "rofmao_1st_anniv", "kr_debut", "undated"},
		},
		{
			name:     "all is a no-op",
			criteria: domain.FilterCriteria{PurchasedStatus: domain.PurchasedAll},
			want:     []string{"seasonal_2025_spring", "rofmao_1st_anniv", "winter_2024", "kr_debut", "undated"},
		},
		{
			name:     "query on title is case-insensitive",
			criteria: domain.FilterCriteria{Query: "SPRING"},
			want:     []string{"seasonal_2025_spring"},
		},
		{
			name:     "query on japanese liver name",
			criteria: domain.FilterCriteria{Query: "剣持"},
			want:     []string{"rofmao_1st_anniv", "winter_2024"},
		},
		{
			name:     "query on english liver name",
			criteria: domain.FilterCriteria{Query: "uki viol"},
			want:     []string{"seasonal_2025_spring"},
		},
		{
			name:     "query on group name",
			criteria: domain.FilterCriteria{Query: "rof-mao"},
			want:     []string{"rofmao_1st_anniv"},
		},
		{
			name:     "query on product tag",
			criteria: domain.FilterCriteria{Query: "morning"},
			want:     []string{"kr_debut"},
		},
		{
			name:     "criteria combine with AND",
			criteria: domain.FilterCriteria{Branch: domain.BranchJP, Year: 2024, PurchasedStatus: domain.PurchasedOnly},
			want:     []string{"winter_2024"},
		},
		{
			name:     "contradictory criteria yield nothing",
			criteria: domain.FilterCriteria{Branch: domain.BranchEN, GroupID: "rofmao"},
			want:     []string{},
		},
		{
			name:     "query with no hit",
			criteria: domain.FilterCriteria{Query: "no such text"},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterIDs(t, idx, annotations, tt.criteria)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFilterSeriesIsIdempotent(t *testing.T) {
	idx := catalog.Load(catalogtest.Sample())
	annotations := newAnnotations(t)
	c := domain.FilterCriteria{Branch: domain.BranchJP, Query: "ボイス"}

	first := filterIDs(t, idx, annotations, c)
	second := filterIDs(t, idx, annotations, c)
	if !slices.Equal(first, second) {
		t.Fatalf("expected identical results, got %v then %v", first, second)
	}
}

func TestFilterSeriesAnnotationFailure(t *testing.T) {
	idx := catalog.Load(catalogtest.Sample())
	boom := errors.New("disk on fire")
	annotations := failingStore{err: boom}

	for _, c := range []domain.FilterCriteria{
		{PurchasedStatus: domain.PurchasedOnly},
		{Query: "spring"},
	} {
		_, err := FilterSeries(idx, annotations, c)
		if !errors.Is(err, domain.ErrAnnotationAccess) {
			t.Fatalf("%+v: expected ErrAnnotationAccess, got %v", c, err)
		}
		if !errors.Is(err, boom) {
			t.Fatalf("%+v: expected underlying error to be wrapped, got %v", c, err)
		}
	}
}

func TestFilterSeriesSkipsUnneededReads(t *testing.T) {
	idx := catalog.Load(catalogtest.Sample())
	annotations := failingStore{err: errors.New("should not be read")}

	got := filterIDs(t, idx, annotations, domain.FilterCriteria{Year: 2022, PurchasedStatus: domain.PurchasedAll})
	if !slices.Equal(got, []string{"rofmao_1st_anniv"}) {
		t.Fatalf("expected [rofmao_1st_anniv], got %v", got)
	}
}

func TestFilterSeriesNotLoaded(t *testing.T) {
	if _, err := FilterSeries(nil, nil, domain.FilterCriteria{}); !errors.Is(err, domain.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}
