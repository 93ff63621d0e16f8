// Package catalogtest provides fixture catalogs for tests.
package catalogtest

import (
	"time"

	"github.com/mmcdole/koepalette/internal/domain"
)

// SpringHash is the SHA-256 of the bytes "spring voice", stored upper-case
// the way some catalog entries are.
const SpringHash = "AC643BC1C7881D4706217F1128F33A2F092B778A7FDBCF9F3B022B5F636F68AD"

// Scenario is the minimal relationship scenario: liver A (JP) belongs to
// group G; series X references G only; series Y references A directly.
func Scenario() *domain.Snapshot {
	return &domain.Snapshot{
		Livers: []*domain.Liver{
			{ID: "A", Name: domain.LocalizedName{JP: "エー", EN: "Alpha"}, Branch: domain.BranchJP},
		},
		Groups: []*domain.Group{
			{ID: "G", Name: "Group G", LiverIDs: []string{"A"}},
		},
		Series: []*domain.Series{
			{ID: "X", Title: "Series X", GroupIDs: []string{"G"}, InitialRelease: domain.NewDate(2023, time.May, 1)},
			{ID: "Y", Title: "Series Y", LiverIDs: []string{"A"}, InitialRelease: domain.NewDate(2024, time.June, 1)},
		},
		Products: []*domain.Product{
			{ID: "x1", SeriesID: "X", LiverID: "A", Title: "X voice", Type: domain.ProductTypeRegular, Language: "JP"},
			{ID: "y1", SeriesID: "Y", LiverID: "A", Title: "Y voice", Type: domain.ProductTypeRegular, Language: "JP"},
		},
	}
}

// Sample is a richer catalog modelled on the demo data: three branches,
// a group, dangling references and products with and without hashes.
func Sample() *domain.Snapshot {
	return &domain.Snapshot{
		Livers: []*domain.Liver{
			{ID: "uki_violeta", Name: domain.LocalizedName{JP: "浮奇・ヴィオレタ", EN: "Uki Violeta"}, Branch: domain.BranchEN, OshiColor: "#B452FF"},
			{ID: "kenmochi_toya", Name: domain.LocalizedName{JP: "剣持刀也", EN: "Kenmochi Toya"}, Branch: domain.BranchJP, OshiColor: "#7243D1"},
			{ID: "kagami_hayato", Name: domain.LocalizedName{JP: "加賀美ハヤト", EN: "Kagami Hayato"}, Branch: domain.BranchJP, OshiColor: "#FF6B35"},
			{ID: "fuwa_minato", Name: domain.LocalizedName{JP: "不破湊", EN: "Fuwa Minato"}, Branch: domain.BranchJP, OshiColor: "#00A0E9"},
			{ID: "kr_liver", Name: domain.LocalizedName{JP: "", EN: "Seo Yuna"}, Branch: domain.BranchKR, OshiColor: "#FFFFFF"},
		},
		Groups: []*domain.Group{
			{ID: "rofmao", Name: "ROF-MAO", LiverIDs: []string{"kagami_hayato", "kenmochi_toya", "fuwa_minato", "ghost_member"}},
		},
		Series: []*domain.Series{
			{
				ID:             "seasonal_2025_spring",
				Title:          "にじさんじ季節ボイス2025 Spring",
				LiverIDs:       []string{"uki_violeta"},
				InitialRelease: domain.NewDate(2025, time.March, 1),
				Rereleases:     []domain.Date{domain.NewDate(2026, time.March, 1)},
			},
			{
				ID:             "rofmao_1st_anniv",
				Title:          "ROF-MAO 1st Anniversary Voice",
				GroupIDs:       []string{"rofmao", "missing_group"},
				InitialRelease: domain.NewDate(2022, time.October, 21),
			},
			{
				ID:             "winter_2024",
				Title:          "にじさんじ冬ボイス2024",
				LiverIDs:       []string{"kenmochi_toya", "fuwa_minato", "kenmochi_toya"},
				InitialRelease: domain.NewDate(2024, time.December, 1),
			},
			{
				ID:             "kr_debut",
				Title:          "Debut Voice",
				LiverIDs:       []string{"kr_liver"},
				InitialRelease: domain.NewDate(2024, time.January, 15),
			},
			{
				ID:       "undated",
				Title:    "Undated Voice",
				LiverIDs: []string{"nobody"},
			},
		},
		Products: []*domain.Product{
			{ID: "uki_spring2025_en", SeriesID: "seasonal_2025_spring", LiverID: "uki_violeta", Title: "English ver.", Type: domain.ProductTypeRegular, Language: "EN", FileHash: SpringHash},
			{ID: "uki_spring2025_ex_en", SeriesID: "seasonal_2025_spring", LiverID: "uki_violeta", Title: "EX voice English ver.", Type: domain.ProductTypeEX, Language: "EN"},
			{ID: "rofmao_anniv_group", SeriesID: "rofmao_1st_anniv", LiverID: "kagami_hayato", Title: "Group Anniversary Voice", Type: domain.ProductTypeRegular, Language: "JP"},
			{ID: "kenmochi_winter2024", SeriesID: "winter_2024", LiverID: "kenmochi_toya", Title: "冬の挨拶ボイス", Type: domain.ProductTypeRegular, Language: "JP"},
			{ID: "fuwa_winter2024", SeriesID: "winter_2024", LiverID: "fuwa_minato", Title: "冬の挨拶ボイス", Type: domain.ProductTypeRegular, Language: "JP"},
			{ID: "kr_debut_1", SeriesID: "kr_debut", LiverID: "kr_liver", Title: "Debut", Type: domain.ProductTypeRegular, Language: "KR"},
		},
	}
}

// SeriesIDs extracts identifiers for order-sensitive comparisons
func SeriesIDs(series []*domain.Series) []string {
	ids := make([]string, len(series))
	for i, s := range series {
		ids[i] = s.ID
	}
	return ids
}

// LiverIDs extracts identifiers for comparisons
func LiverIDs(livers []*domain.Liver) []string {
	ids := make([]string, len(livers))
	for i, l := range livers {
		ids[i] = l.ID
	}
	return ids
}

// ProductIDs extracts identifiers for comparisons
func ProductIDs(products []*domain.Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}
