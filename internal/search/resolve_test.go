package search

import (
	"errors"
	"testing"

	"github.com/mmcdole/koepalette/internal/catalog"
	"github.com/mmcdole/koepalette/internal/catalog/catalogtest"
	"github.com/mmcdole/koepalette/internal/domain"
)

func TestResolveLiver(t *testing.T) {
	idx := catalog.Load(catalogtest.Sample())

	tests := []struct {
		input string
		want  string
	}{
		{"fuwa_minato", "fuwa_minato"},
		{"不破湊", "fuwa_minato"},
		{"KENMOCHI TOYA", "kenmochi_toya"},
		{"fuwa", "fuwa_minato"},
		{"seo", "kr_liver"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l, err := ResolveLiver(idx, tt.input)
			if err != nil {
				t.Fatalf("ResolveLiver(%q): %v", tt.input, err)
			}
			if l.ID != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, l.ID)
			}
		})
	}
}

func TestResolveLiverSuggestsOnTypo(t *testing.T) {
	idx := catalog.Load(catalogtest.Sample())

	_, err := ResolveLiver(idx, "kanmochi")
	if !errors.Is(err, domain.ErrUnknownLiver) {
		t.Fatalf("expected ErrUnknownLiver, got %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
	if len(nf.Suggestions) == 0 || nf.Suggestions[0] != "Kenmochi Toya" {
		t.Fatalf("expected Kenmochi Toya suggested first, got %v", nf.Suggestions)
	}
}

func TestResolveLiverRejectsAmbiguousFuzzyMatch(t *testing.T) {
	idx := catalog.Load(catalogtest.Sample())

	// "ki" is a subsequence of Uki, Kenmochi and Kagami
	l, err := ResolveLiver(idx, "ki")
	if !errors.Is(err, domain.ErrUnknownLiver) {
		t.Fatalf("expected ErrUnknownLiver, got %v (liver %v)", err, l)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || len(nf.Suggestions) < 2 {
		t.Fatalf("expected the candidates as suggestions, got %v", err)
	}

	// Both names of one liver matching is not ambiguous
	l, err = ResolveLiver(idx, "minato")
	if err != nil || l.ID != "fuwa_minato" {
		t.Fatalf("expected fuwa_minato, got %v (err %v)", l, err)
	}
}

func TestResolveGroupAndSeries(t *testing.T) {
	idx := catalog.Load(catalogtest.Sample())

	g, err := ResolveGroup(idx, "rof-mao")
	if err != nil || g.ID != "rofmao" {
		t.Fatalf("expected rofmao, got %v (err %v)", g, err)
	}

	s, err := ResolveSeries(idx, "winter_2024")
	if err != nil || s.ID != "winter_2024" {
		t.Fatalf("expected winter_2024, got %v (err %v)", s, err)
	}

	s, err = ResolveSeries(idx, "anniversary")
	if err != nil || s.ID != "rofmao_1st_anniv" {
		t.Fatalf("expected rofmao_1st_anniv, got %v (err %v)", s, err)
	}

	if _, err := ResolveGroup(idx, "zzz"); !errors.Is(err, domain.ErrUnknownGroup) || !IsNotFound(err) {
		t.Fatalf("expected group not found, got %v", err)
	}
	if _, err := ResolveSeries(idx, "   "); !errors.Is(err, domain.ErrUnknownSeries) {
		t.Fatalf("expected series not found for blank input, got %v", err)
	}
}
