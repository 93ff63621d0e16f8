package domain

import (
	"fmt"
	"strings"
)

// Branch identifies the regional branch a liver belongs to
type Branch string

const (
	BranchJP Branch = "JP"
	BranchEN Branch = "EN"
	BranchKR Branch = "KR"
	BranchID Branch = "ID"
)

// ParseBranch converts user input to a Branch, ignoring case
func ParseBranch(s string) (Branch, error) {
	b := Branch(strings.ToUpper(strings.TrimSpace(s)))
	switch b {
	case BranchJP, BranchEN, BranchKR, BranchID:
		return b, nil
	default:
		return "", fmt.Errorf("unknown branch %q (want JP, EN, KR or ID)", s)
	}
}

// ProductType distinguishes regular releases from bonus content
type ProductType string

const (
	ProductTypeRegular ProductType = "Regular"
	ProductTypeEX      ProductType = "EX"
)

// LocalizedName holds a liver's display names
type LocalizedName struct {
	JP string `json:"jp"`
	EN string `json:"en"`
}

// Liver is a performer that voices products
type Liver struct {
	ID        string        `json:"id"`
	Name      LocalizedName `json:"name"`
	Branch    Branch        `json:"branch"`
	OshiColor string        `json:"oshi_color_code"` // "#RRGGBB"
}

// PrimaryName returns the Japanese name, falling back to English
func (l *Liver) PrimaryName() string {
	if l.Name.JP != "" {
		return l.Name.JP
	}
	return l.Name.EN
}

// SecondaryName returns the English name
func (l *Liver) SecondaryName() string { return l.Name.EN }

// DisplayName returns the name to show for the given UI language ("jp" or "en")
func (l *Liver) DisplayName(language string) string {
	if language == "en" && l.Name.EN != "" {
		return l.Name.EN
	}
	return l.PrimaryName()
}

// Group is a named unit of livers
type Group struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	LiverIDs []string `json:"liver_ids"`
}

// Series is a release campaign made of one or more products.
// Livers are attached directly or through groups.
type Series struct {
	ID             string   `json:"series_id"`
	Title          string   `json:"title"`
	LiverIDs       []string `json:"liver_ids"`
	GroupIDs       []string `json:"group_ids"`
	InitialRelease Date     `json:"initial_release_date"`
	Rereleases     []Date   `json:"rerelease_dates"`
	CoverImageURL  string   `json:"cover_image_url"`
}

// Year returns the calendar year of the initial release (0 if unknown)
func (s *Series) Year() int {
	return s.InitialRelease.Year()
}

// HasGroup reports whether the group is directly assigned to the series
func (s *Series) HasGroup(groupID string) bool {
	for _, id := range s.GroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}

// Product is a single purchasable voice pack
type Product struct {
	ID       string      `json:"product_id"`
	SeriesID string      `json:"series_id"`
	LiverID  string      `json:"liver_id"`
	Title    string      `json:"title"`
	Type     ProductType `json:"type"`
	Language string      `json:"language"`
	FileHash string      `json:"file_hash_sha256,omitempty"` // hex SHA-256, empty when unknown
}

// Snapshot is one complete catalog load
type Snapshot struct {
	Livers   []*Liver   `json:"livers"`
	Groups   []*Group   `json:"groups"`
	Series   []*Series  `json:"voice_series"`
	Products []*Product `json:"voice_products"`
}

// Empty reports whether the snapshot holds no series
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Series) == 0
}
