package catalog

import (
	"slices"
	"strings"
	"testing"

	"github.com/mmcdole/koepalette/internal/catalog/catalogtest"
	"github.com/mmcdole/koepalette/internal/domain"
)

func TestLoadNilSnapshotYieldsEmptyIndex(t *testing.T) {
	idx := Load(nil)
	if got := idx.Series(); len(got) != 0 {
		t.Fatalf("expected no series, got %d", len(got))
	}
	if _, ok := idx.Liver("anything"); ok {
		t.Fatal("expected empty liver map")
	}
	if got := idx.Years(); len(got) != 0 {
		t.Fatalf("expected no years, got %v", got)
	}
	if got := idx.SeriesLivers("anything"); len(got) != 0 {
		t.Fatalf("expected no livers, got %v", got)
	}
}

func TestLoadDuplicateIdentifiersLastWriteWins(t *testing.T) {
	snap := &domain.Snapshot{
		Livers: []*domain.Liver{
			{ID: "a", Name: domain.LocalizedName{EN: "First"}},
			{ID: "a", Name: domain.LocalizedName{EN: "Second"}},
		},
		Products: []*domain.Product{
			{ID: "p", Title: "old"},
			{ID: "p", Title: "new"},
		},
	}
	idx := Load(snap)

	l, ok := idx.Liver("a")
	if !ok {
		t.Fatal("expected liver a to resolve")
	}
	if l.Name.EN != "Second" {
		t.Fatalf("expected last liver to win, got %q", l.Name.EN)
	}
	p, _ := idx.Product("p")
	if p.Title != "new" {
		t.Fatalf("expected last product to win, got %q", p.Title)
	}
	if len(idx.Livers()) != 2 {
		t.Fatalf("expected raw collection untouched, got %d livers", len(idx.Livers()))
	}
}

func TestLoadSkipsNilEntries(t *testing.T) {
	snap := catalogtest.Scenario()
	snap.Livers = append(snap.Livers, nil)
	snap.Series = append(snap.Series, nil)
	snap.Products = append(snap.Products, nil)

	idx := Load(snap)
	if got := catalogtest.SeriesIDs(idx.LiverSeries("A")); !slices.Equal(got, []string{"X", "Y"}) {
		t.Fatalf("expected [X Y], got %v", got)
	}
}

func TestYearsDescendingDistinctSkipsUndated(t *testing.T) {
	idx := Load(catalogtest.Sample())
	want := []int{2025, 2024, 2022}
	if got := idx.Years(); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestBranchesFirstSeenOrder(t *testing.T) {
	idx := Load(catalogtest.Sample())
	want := []domain.Branch{domain.BranchEN, domain.BranchJP, domain.BranchKR}
	if got := idx.Branches(); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestProductByHashIsCaseInsensitive(t *testing.T) {
	idx := Load(catalogtest.Sample())

	for _, hash := range []string{catalogtest.SpringHash, strings.ToLower(catalogtest.SpringHash)} {
		p, ok := idx.ProductByHash(hash)
		if !ok {
			t.Fatalf("expected hash %s to resolve", hash)
		}
		if p.ID != "uki_spring2025_en" {
			t.Fatalf("expected uki_spring2025_en, got %s", p.ID)
		}
	}
	if _, ok := idx.ProductByHash(""); ok {
		t.Fatal("empty hash must never match")
	}
}

func TestProductByHashFirstMatchWins(t *testing.T) {
	snap := &domain.Snapshot{
		Products: []*domain.Product{
			{ID: "first", FileHash: "abcd"},
			{ID: "second", FileHash: "ABCD"},
		},
	}
	p, ok := Load(snap).ProductByHash("abcd")
	if !ok || p.ID != "first" {
		t.Fatalf("expected first product, got %+v", p)
	}
}

func TestReloadLeavesNoStaleEntities(t *testing.T) {
	old := Load(catalogtest.Sample())
	if _, ok := old.SeriesByID("winter_2024"); !ok {
		t.Fatal("expected winter_2024 in old index")
	}

	fresh := Load(catalogtest.Scenario())
	if _, ok := fresh.SeriesByID("winter_2024"); ok {
		t.Fatal("stale series reachable after reload")
	}
	if got := fresh.LiverSeries("kenmochi_toya"); len(got) != 0 {
		t.Fatalf("stale liver series reachable after reload: %v", catalogtest.SeriesIDs(got))
	}
	if got := fresh.SeriesProducts("winter_2024"); len(got) != 0 {
		t.Fatalf("stale products reachable after reload: %v", catalogtest.ProductIDs(got))
	}
}
