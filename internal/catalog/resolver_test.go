package catalog

import (
	"slices"
	"sort"
	"testing"

	"github.com/mmcdole/koepalette/internal/catalog/catalogtest"
	"github.com/mmcdole/koepalette/internal/domain"
)

func TestScenarioRelationships(t *testing.T) {
	idx := Load(catalogtest.Scenario())

	if got := catalogtest.LiverIDs(idx.SeriesLivers("X")); !slices.Equal(got, []string{"A"}) {
		t.Fatalf("SeriesLivers(X): expected [A], got %v", got)
	}
	if got := catalogtest.SeriesIDs(idx.LiverSeries("A")); !slices.Equal(got, []string{"X", "Y"}) {
		t.Fatalf("LiverSeries(A): expected [X Y], got %v", got)
	}
	if got := catalogtest.SeriesIDs(idx.GroupSeries("G")); !slices.Equal(got, []string{"X"}) {
		t.Fatalf("GroupSeries(G): expected [X], got %v", got)
	}
}

func TestSeriesLivers(t *testing.T) {
	idx := Load(catalogtest.Sample())

	tests := []struct {
		name     string
		seriesID string
		want     []string
	}{
		{"direct only", "seasonal_2025_spring", []string{"uki_violeta"}},
		{"via group drops ghost member and missing group", "rofmao_1st_anniv", []string{"kagami_hayato", "kenmochi_toya", "fuwa_minato"}},
		{"duplicates collapse", "winter_2024", []string{"kenmochi_toya", "fuwa_minato"}},
		{"dangling direct id", "undated", nil},
		{"unknown series", "no_such_series", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := catalogtest.LiverIDs(idx.SeriesLivers(tt.seriesID))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !slices.Equal(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

// SeriesLivers must equal direct ∪ group members, minus dangling ids, de-duplicated.
func TestSeriesLiversMatchesNaiveUnion(t *testing.T) {
	snap := catalogtest.Sample()
	idx := Load(snap)

	known := make(map[string]bool)
	for _, l := range snap.Livers {
		known[l.ID] = true
	}
	groups := make(map[string]*domain.Group)
	for _, g := range snap.Groups {
		groups[g.ID] = g
	}

	for _, s := range snap.Series {
		want := make(map[string]bool)
		for _, id := range s.LiverIDs {
			if known[id] {
				want[id] = true
			}
		}
		for _, gid := range s.GroupIDs {
			if g, ok := groups[gid]; ok {
				for _, id := range g.LiverIDs {
					if known[id] {
						want[id] = true
					}
				}
			}
		}

		got := catalogtest.LiverIDs(idx.SeriesLivers(s.ID))
		if len(got) != len(want) {
			t.Fatalf("series %s: expected %d livers, got %v", s.ID, len(want), got)
		}
		for _, id := range got {
			if !want[id] {
				t.Fatalf("series %s: unexpected liver %s", s.ID, id)
			}
		}
	}
}

// LiverSeries must return exactly the series whose effective set contains the liver.
func TestLiverSeriesSoundAndComplete(t *testing.T) {
	snap := catalogtest.Sample()
	idx := Load(snap)

	for _, l := range snap.Livers {
		var want []string
		for _, s := range snap.Series {
			if slices.Contains(catalogtest.LiverIDs(idx.SeriesLivers(s.ID)), l.ID) {
				want = append(want, s.ID)
			}
		}
		got := catalogtest.SeriesIDs(idx.LiverSeries(l.ID))
		if !slices.Equal(got, want) {
			t.Fatalf("liver %s: expected %v, got %v", l.ID, want, got)
		}
	}
}

func TestLiverSeriesUnknownLiver(t *testing.T) {
	idx := Load(catalogtest.Sample())
	if got := idx.LiverSeries("nobody"); len(got) != 0 {
		t.Fatalf("expected no series for dangling liver id, got %v", catalogtest.SeriesIDs(got))
	}
}

func TestSeriesProductsCatalogOrder(t *testing.T) {
	idx := Load(catalogtest.Sample())
	want := []string{"kenmochi_winter2024", "fuwa_winter2024"}
	if got := catalogtest.ProductIDs(idx.SeriesProducts("winter_2024")); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := idx.SeriesProducts("no_such_series"); len(got) != 0 {
		t.Fatalf("expected no products, got %v", got)
	}
}

func TestGroupLiversDropsDanglingMembers(t *testing.T) {
	idx := Load(catalogtest.Sample())
	got := catalogtest.LiverIDs(idx.GroupLivers("rofmao"))
	sort.Strings(got)
	want := []string{"fuwa_minato", "kagami_hayato", "kenmochi_toya"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestEffectiveLiversHandlesDuplicateSeriesIDs(t *testing.T) {
	snap := catalogtest.Scenario()
	snap.Series = append(snap.Series, &domain.Series{ID: "X", Title: "Shadow X"})
	idx := Load(snap)

	first := snap.Series[0]
	if got := catalogtest.LiverIDs(idx.EffectiveLivers(first)); !slices.Equal(got, []string{"A"}) {
		t.Fatalf("expected first X to keep its livers, got %v", got)
	}
	shadow := snap.Series[2]
	if got := idx.EffectiveLivers(shadow); len(got) != 0 {
		t.Fatalf("expected shadow X to have no livers, got %v", catalogtest.LiverIDs(got))
	}
}
