package domain

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Catalog document file names, relative to the catalog data directory
const (
	DocLivers   = "livers.json"
	DocGroups   = "groups.json"
	DocSeries   = "voice_series.json"
	DocProducts = "voice_products.json"
)

// CatalogDocuments lists every document a full load needs, in load order
var CatalogDocuments = []string{DocLivers, DocGroups, DocSeries, DocProducts}

// AssembleSnapshot decodes the four catalog documents, each a JSON array.
// A missing document is an error; an empty array is not.
func AssembleSnapshot(docs map[string][]byte) (*Snapshot, error) {
	snap := &Snapshot{}
	targets := map[string]any{
		DocLivers:   &snap.Livers,
		DocGroups:   &snap.Groups,
		DocSeries:   &snap.Series,
		DocProducts: &snap.Products,
	}

	for _, name := range CatalogDocuments {
		data, ok := docs[name]
		if !ok {
			return nil, fmt.Errorf("missing catalog document %s", name)
		}
		if err := json.Unmarshal(data, targets[name]); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	}

	for _, s := range snap.Series {
		if s != nil {
			s.Rereleases = slices.DeleteFunc(s.Rereleases, Date.IsZero)
		}
	}
	return snap, nil
}
