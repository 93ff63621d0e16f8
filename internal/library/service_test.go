package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/mmcdole/koepalette/internal/catalog/catalogtest"
	"github.com/mmcdole/koepalette/internal/domain"
	"github.com/mmcdole/koepalette/internal/match"
	"github.com/mmcdole/koepalette/internal/store"
)

// stubSource serves snapshots in turn and records invalidations
type stubSource struct {
	snaps       []*domain.Snapshot
	err         error
	fetches     int
	invalidated int
}

func (s *stubSource) Fetch(context.Context) (*domain.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	snap := s.snaps[min(s.fetches, len(s.snaps)-1)]
	s.fetches++
	return snap, nil
}

func (s *stubSource) Invalidate() { s.invalidated++ }

// brokenStore fails every annotation call it overrides
type brokenStore struct {
	domain.AnnotationStore
}

var errDisk = errors.New("disk on fire")

func (brokenStore) AllPurchased() (domain.PurchasedSet, error) { return nil, errDisk }
func (brokenStore) IsPurchased(string) (bool, error)           { return false, errDisk }
func (brokenStore) SetPurchased(string, bool) error            { return errDisk }
func (brokenStore) SetTags(string, []string) error             { return errDisk }

func newService(t *testing.T, snaps ...*domain.Snapshot) (*Service, *stubSource, *store.Store) {
	t.Helper()
	annotations, err := store.Open("")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	src := &stubSource{snaps: snaps}
	return NewService(src, annotations, nil), src, annotations
}

func loaded(t *testing.T, snaps ...*domain.Snapshot) (*Service, *stubSource, *store.Store) {
	t.Helper()
	svc, src, annotations := newService(t, snaps...)
	if err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return svc, src, annotations
}

func TestQueriesBeforeLoad(t *testing.T) {
	svc, _, _ := newService(t, catalogtest.Scenario())

	if _, err := svc.FilterSeries(domain.FilterCriteria{}); !errors.Is(err, domain.ErrNotLoaded) {
		t.Fatalf("FilterSeries: expected ErrNotLoaded, got %v", err)
	}
	if _, err := svc.AllYears(); !errors.Is(err, domain.ErrNotLoaded) {
		t.Fatalf("AllYears: expected ErrNotLoaded, got %v", err)
	}
	if _, err := svc.MatchFilesByName(nil); !errors.Is(err, domain.ErrNotLoaded) {
		t.Fatalf("MatchFilesByName: expected ErrNotLoaded, got %v", err)
	}
	if err := svc.SetPurchased("x1", true); !errors.Is(err, domain.ErrNotLoaded) {
		t.Fatalf("SetPurchased: expected ErrNotLoaded, got %v", err)
	}
	if svc.Loaded() || !svc.LoadedAt().IsZero() {
		t.Fatal("service must not report a catalog before Initialize")
	}
}

func TestScenarioThroughService(t *testing.T) {
	svc, _, _ := loaded(t, catalogtest.Scenario())

	livers, err := svc.SeriesLivers("X")
	if err != nil {
		t.Fatalf("SeriesLivers: %v", err)
	}
	if got := catalogtest.LiverIDs(livers); !slices.Equal(got, []string{"A"}) {
		t.Fatalf("expected SeriesLivers(X) = [A], got %v", got)
	}

	series, _ := svc.LiverSeries("A")
	if got := catalogtest.SeriesIDs(series); !slices.Equal(got, []string{"X", "Y"}) {
		t.Fatalf("expected LiverSeries(A) = [X Y], got %v", got)
	}

	byLiver, _ := svc.FilterSeries(domain.FilterCriteria{LiverID: "A"})
	if got := catalogtest.SeriesIDs(byLiver); !slices.Equal(got, []string{"X", "Y"}) {
		t.Fatalf("expected liver filter [X Y], got %v", got)
	}
	byGroup, _ := svc.FilterSeries(domain.FilterCriteria{GroupID: "G"})
	if got := catalogtest.SeriesIDs(byGroup); !slices.Equal(got, []string{"X"}) {
		t.Fatalf("expected group filter [X], got %v", got)
	}

	years, _ := svc.AllYears()
	if !slices.Equal(years, []int{2024, 2023}) {
		t.Fatalf("expected years [2024 2023], got %v", years)
	}
	branches, _ := svc.AllBranches()
	if !slices.Equal(branches, []domain.Branch{domain.BranchJP}) {
		t.Fatalf("expected branches [JP], got %v", branches)
	}
}

func TestReloadReplacesCatalog(t *testing.T) {
	next := &domain.Snapshot{
		Livers:   []*domain.Liver{{ID: "B", Name: domain.LocalizedName{EN: "Beta"}, Branch: domain.BranchEN}},
		Series:   []*domain.Series{{ID: "Z", Title: "Series Z", LiverIDs: []string{"B"}}},
		Products: []*domain.Product{{ID: "z1", SeriesID: "Z", LiverID: "B"}},
	}
	svc, src, _ := loaded(t, catalogtest.Scenario(), next)
	before, _ := svc.Index()

	if err := svc.ReloadData(context.Background()); err != nil {
		t.Fatalf("ReloadData: %v", err)
	}
	if src.invalidated != 1 {
		t.Fatalf("expected one source invalidation, got %d", src.invalidated)
	}

	series, _ := svc.LiverSeries("A")
	if len(series) != 0 {
		t.Fatalf("expected no series for removed liver, got %v", catalogtest.SeriesIDs(series))
	}
	products, _ := svc.SeriesProducts("X")
	if len(products) != 0 {
		t.Fatalf("expected no products for removed series, got %v", catalogtest.ProductIDs(products))
	}
	livers, _ := svc.SeriesLivers("Z")
	if got := catalogtest.LiverIDs(livers); !slices.Equal(got, []string{"B"}) {
		t.Fatalf("expected SeriesLivers(Z) = [B], got %v", got)
	}

	// Indexes handed out earlier keep their own snapshot
	if _, ok := before.SeriesByID("X"); !ok {
		t.Fatal("previously obtained index must not change")
	}
}

func TestReloadFailureKeepsPreviousCatalog(t *testing.T) {
	svc, src, _ := loaded(t, catalogtest.Scenario())

	src.err = domain.ErrSourceUnavailable
	err := svc.ReloadData(context.Background())
	if !errors.Is(err, domain.ErrLoadFailed) || !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrLoadFailed wrapping ErrSourceUnavailable, got %v", err)
	}

	series, err := svc.FilterSeries(domain.FilterCriteria{})
	if err != nil {
		t.Fatalf("FilterSeries: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected previous catalog to remain, got %v", catalogtest.SeriesIDs(series))
	}
}

func TestInitializeFailure(t *testing.T) {
	svc, src, _ := newService(t, catalogtest.Scenario())
	src.err = domain.ErrUnauthorized

	if err := svc.Initialize(context.Background()); !errors.Is(err, domain.ErrLoadFailed) {
		t.Fatalf("expected ErrLoadFailed, got %v", err)
	}
	if svc.Loaded() {
		t.Fatal("failed initialize must not publish a catalog")
	}
}

func TestAnnotationsSurviveReload(t *testing.T) {
	svc, _, _ := loaded(t, catalogtest.Sample(), catalogtest.Sample())

	if err := svc.SetPurchased("kr_debut_1", true); err != nil {
		t.Fatalf("SetPurchased: %v", err)
	}
	if err := svc.ReloadData(context.Background()); err != nil {
		t.Fatalf("ReloadData: %v", err)
	}

	owned, err := svc.FilterSeries(domain.FilterCriteria{PurchasedStatus: domain.PurchasedOnly})
	if err != nil {
		t.Fatalf("FilterSeries: %v", err)
	}
	if got := catalogtest.SeriesIDs(owned); !slices.Equal(got, []string{"kr_debut"}) {
		t.Fatalf("expected [kr_debut], got %v", got)
	}
}

func TestTogglePurchased(t *testing.T) {
	svc, _, annotations := loaded(t, catalogtest.Sample())

	on, err := svc.TogglePurchased("fuwa_winter2024")
	if err != nil || !on {
		t.Fatalf("expected toggle on, got %v, %v", on, err)
	}
	off, err := svc.TogglePurchased("fuwa_winter2024")
	if err != nil || off {
		t.Fatalf("expected toggle off, got %v, %v", off, err)
	}

	set, _ := annotations.AllPurchased()
	if len(set) != 0 {
		t.Fatalf("expected empty purchased set, got %v", set)
	}

	if _, err := svc.TogglePurchased("no_such_product"); !errors.Is(err, domain.ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct, got %v", err)
	}
}

func TestAnnotationFailuresPropagate(t *testing.T) {
	svc := NewService(&stubSource{snaps: []*domain.Snapshot{catalogtest.Sample()}}, brokenStore{}, nil)
	if err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if err := svc.SetPurchased("kr_debut_1", true); !errors.Is(err, domain.ErrAnnotationAccess) || !errors.Is(err, errDisk) {
		t.Fatalf("SetPurchased: expected annotation error, got %v", err)
	}
	if _, err := svc.TogglePurchased("kr_debut_1"); !errors.Is(err, domain.ErrAnnotationAccess) {
		t.Fatalf("TogglePurchased: expected annotation error, got %v", err)
	}
	if err := svc.SetTags("kr_debut_1", []string{"x"}); !errors.Is(err, domain.ErrAnnotationAccess) {
		t.Fatalf("SetTags: expected annotation error, got %v", err)
	}
	if _, err := svc.FilterSeries(domain.FilterCriteria{PurchasedStatus: domain.PurchasedNotPurchased}); !errors.Is(err, domain.ErrAnnotationAccess) {
		t.Fatalf("FilterSeries: expected annotation error, got %v", err)
	}

	// Browsing without annotation predicates still works
	if series, err := svc.FilterSeries(domain.FilterCriteria{Branch: domain.BranchJP}); err != nil || len(series) != 2 {
		t.Fatalf("expected 2 JP series without touching annotations, got %d, %v", len(series), err)
	}
}

func TestFileLinksAndTags(t *testing.T) {
	svc, _, _ := loaded(t, catalogtest.Sample())

	if err := svc.SetFileLink("kr_debut_1", "/music/debut.mp3"); err != nil {
		t.Fatalf("SetFileLink: %v", err)
	}
	if err := svc.SetTags("kr_debut_1", []string{" favourite ", "", "favourite", "sleep"}); err != nil {
		t.Fatalf("SetTags: %v", err)
	}

	state, err := svc.ProductState("kr_debut_1")
	if err != nil {
		t.Fatalf("ProductState: %v", err)
	}
	if state.FileLink != "/music/debut.mp3" {
		t.Fatalf("expected file link, got %q", state.FileLink)
	}
	if !slices.Equal(state.Tags, []string{"favourite", "sleep"}) {
		t.Fatalf("expected normalized tags, got %v", state.Tags)
	}
	if state.Liver == nil || state.Liver.ID != "kr_liver" {
		t.Fatalf("expected owning liver, got %+v", state.Liver)
	}

	// Tags are searchable
	found, _ := svc.FilterSeries(domain.FilterCriteria{Query: "SLEEP"})
	if got := catalogtest.SeriesIDs(found); !slices.Equal(got, []string{"kr_debut"}) {
		t.Fatalf("expected tag search to find kr_debut, got %v", got)
	}

	if err := svc.SetFileLink("kr_debut_1", ""); err != nil {
		t.Fatalf("SetFileLink(empty): %v", err)
	}
	if _, ok, _ := svc.FileLink("kr_debut_1"); ok {
		t.Fatal("expected empty path to remove the link")
	}

	if err := svc.SetTags("kr_debut_1", nil); err != nil {
		t.Fatalf("SetTags(nil): %v", err)
	}
	all, _ := svc.Annotations().AllTags()
	if _, ok := all["kr_debut_1"]; ok {
		t.Fatal("expected empty tag list to remove the entry")
	}
}

func TestSeriesDetail(t *testing.T) {
	svc, _, _ := loaded(t, catalogtest.Sample())
	svc.SetPurchased("kenmochi_winter2024", true)

	detail, err := svc.SeriesDetail("winter_2024")
	if err != nil {
		t.Fatalf("SeriesDetail: %v", err)
	}
	if got := catalogtest.LiverIDs(detail.Livers); !slices.Equal(got, []string{"kenmochi_toya", "fuwa_minato"}) {
		t.Fatalf("unexpected livers %v", got)
	}
	if len(detail.Products) != 2 || detail.PurchasedCount() != 1 {
		t.Fatalf("expected 2 products with 1 purchased, got %d/%d", detail.PurchasedCount(), len(detail.Products))
	}

	anniv, _ := svc.SeriesDetail("rofmao_1st_anniv")
	if len(anniv.Groups) != 1 || anniv.Groups[0].ID != "rofmao" {
		t.Fatalf("expected dangling group dropped, got %+v", anniv.Groups)
	}

	if _, err := svc.SeriesDetail("nope"); !errors.Is(err, domain.ErrUnknownSeries) {
		t.Fatalf("expected ErrUnknownSeries, got %v", err)
	}
}

func TestSeriesByYearAndGroup(t *testing.T) {
	svc, _, _ := loaded(t, catalogtest.Sample())

	byYear, err := svc.SeriesByYear()
	if err != nil {
		t.Fatalf("SeriesByYear: %v", err)
	}
	if got := catalogtest.SeriesIDs(byYear[2024]); !slices.Equal(got, []string{"winter_2024", "kr_debut"}) {
		t.Fatalf("unexpected 2024 series %v", got)
	}
	if _, ok := byYear[0]; ok {
		t.Fatal("undated series must be left out")
	}

	group, _ := svc.GroupSeries("rofmao")
	if got := catalogtest.SeriesIDs(group); !slices.Equal(got, []string{"rofmao_1st_anniv"}) {
		t.Fatalf("unexpected group series %v", got)
	}
}

func TestSettings(t *testing.T) {
	svc, _, _ := loaded(t, catalogtest.Sample())

	settings, err := svc.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if settings != domain.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", settings)
	}

	if err := svc.UpdateSetting(domain.SettingTheme, "dark"); err != nil {
		t.Fatalf("UpdateSetting: %v", err)
	}
	var invalid *domain.InvalidSettingError
	if err := svc.UpdateSetting(domain.SettingTheme, "sepia"); !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidSettingError, got %v", err)
	}
	if err := svc.UpdateSetting(domain.SettingOshiLiverID, "ghost"); !errors.Is(err, domain.ErrUnknownLiver) {
		t.Fatalf("expected ErrUnknownLiver, got %v", err)
	}
	if err := svc.UpdateSetting(domain.SettingOshiLiverID, "uki_violeta"); err != nil {
		t.Fatalf("UpdateSetting: %v", err)
	}

	settings, _ = svc.Settings()
	if settings.Theme != "dark" || settings.OshiLiverID != "uki_violeta" || settings.Language != "jp" {
		t.Fatalf("unexpected settings %+v", settings)
	}

	if err := svc.ClearAll(); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	settings, _ = svc.Settings()
	if settings != domain.DefaultSettings() {
		t.Fatalf("expected defaults after ClearAll, got %+v", settings)
	}
}

func TestMatchFiles(t *testing.T) {
	svc, _, _ := loaded(t, catalogtest.Sample())

	dir := t.TempDir()
	spring := filepath.Join(dir, "track01.wav")
	other := filepath.Join(dir, "Kenmochi Toya - winter.mp3")
	os.WriteFile(spring, []byte("spring voice"), 0644)
	os.WriteFile(other, []byte("something else"), 0644)
	files := []match.File{match.LocalFile(spring), match.LocalFile(other)}

	byHash, err := svc.MatchFilesByHash(context.Background(), files)
	if err != nil {
		t.Fatalf("MatchFilesByHash: %v", err)
	}
	if len(byHash.Matches) != 1 || byHash.Matches[0].Product.ID != "uki_spring2025_en" {
		t.Fatalf("expected spring voice hash match, got %+v", byHash.Matches)
	}
	if len(byHash.Unmatched) != 1 {
		t.Fatalf("expected 1 unmatched file, got %d", len(byHash.Unmatched))
	}

	byName, err := svc.MatchFilesByName(files)
	if err != nil {
		t.Fatalf("MatchFilesByName: %v", err)
	}
	if len(byName.Matches) != 1 || byName.Matches[0].Confidence != domain.ConfidenceMedium {
		t.Fatalf("expected one medium name match, got %+v", byName.Matches)
	}
	if got := catalogtest.ProductIDs(byName.Matches[0].Suggestions); !slices.Equal(got, []string{"kenmochi_winter2024"}) {
		t.Fatalf("unexpected suggestions %v", got)
	}
}
