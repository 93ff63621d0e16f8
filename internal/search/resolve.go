package search

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sfuzzy "github.com/sahilm/fuzzy"

	"github.com/mmcdole/koepalette/internal/catalog"
	"github.com/mmcdole/koepalette/internal/domain"
)

// maxSuggestions caps "did you mean" output
const maxSuggestions = 3

// NotFoundError reports user input that resolved to nothing, with the closest
// known names by edit distance.
type NotFoundError struct {
	Kind        string // "liver", "group" or "series"
	Input       string
	Suggestions []string
	err         error
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s %q not found", e.Kind, e.Input)
	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(e.Suggestions, ", ") + "?)"
	}
	return msg
}

func (e *NotFoundError) Unwrap() error { return e.err }

// nameIndex implements sahilm/fuzzy.Source over pre-folded names. One entity
// contributes one entry per name variant.
type nameIndex struct {
	ids    []string
	labels []string // original text, for suggestions
	folded []string
}

func (n *nameIndex) String(i int) string { return n.folded[i] }
func (n *nameIndex) Len() int            { return len(n.folded) }

func (n *nameIndex) add(id, label string) {
	if strings.TrimSpace(label) == "" {
		return
	}
	n.ids = append(n.ids, id)
	n.labels = append(n.labels, label)
	n.folded = append(n.folded, Fold(label))
}

// ResolveLiver finds a liver by ID, then by exact name, then by a fuzzy name
// match over both localized names that points at a single liver.
func ResolveLiver(idx *catalog.Index, input string) (*domain.Liver, error) {
	if l, ok := idx.Liver(input); ok {
		return l, nil
	}
	names := &nameIndex{}
	for _, l := range idx.Livers() {
		if l == nil {
			continue
		}
		names.add(l.ID, l.Name.JP)
		names.add(l.ID, l.Name.EN)
	}
	id, err := resolveName("liver", input, names, domain.ErrUnknownLiver)
	if err != nil {
		return nil, err
	}
	l, _ := idx.Liver(id)
	return l, nil
}

// ResolveGroup finds a group by ID, then by exact name, then by an
// unambiguous fuzzy name
func ResolveGroup(idx *catalog.Index, input string) (*domain.Group, error) {
	if g, ok := idx.Group(input); ok {
		return g, nil
	}
	names := &nameIndex{}
	for _, g := range idx.Groups() {
		if g != nil {
			names.add(g.ID, g.Name)
		}
	}
	id, err := resolveName("group", input, names, domain.ErrUnknownGroup)
	if err != nil {
		return nil, err
	}
	g, _ := idx.Group(id)
	return g, nil
}

// ResolveSeries finds a series by ID, then by exact title, then by fuzzy title
func ResolveSeries(idx *catalog.Index, input string) (*domain.Series, error) {
	if s, ok := idx.SeriesByID(input); ok {
		return s, nil
	}
	names := &nameIndex{}
	for _, s := range idx.Series() {
		if s != nil {
			names.add(s.ID, s.Title)
		}
	}
	id, err := resolveName("series", input, names, domain.ErrUnknownSeries)
	if err != nil {
		return nil, err
	}
	s, _ := idx.SeriesByID(id)
	return s, nil
}

func resolveName(kind, input string, names *nameIndex, sentinel error) (string, error) {
	query := Fold(strings.TrimSpace(input))
	if query == "" {
		return "", &NotFoundError{Kind: kind, Input: input, err: sentinel}
	}

	for i, name := range names.folded {
		if name == query {
			return names.ids[i], nil
		}
	}

	// A fuzzy hit counts only when every match names the same entity;
	// otherwise the candidates become suggestions.
	if matches := sfuzzy.FindFrom(query, names); len(matches) > 0 {
		id := names.ids[matches[0].Index]
		var labels []string
		ambiguous := false
		for _, m := range matches {
			if names.ids[m.Index] != id {
				ambiguous = true
			}
			if len(labels) < maxSuggestions && !slices.Contains(labels, names.labels[m.Index]) {
				labels = append(labels, names.labels[m.Index])
			}
		}
		if !ambiguous {
			return id, nil
		}
		return "", &NotFoundError{Kind: kind, Input: input, Suggestions: labels, err: sentinel}
	}

	return "", &NotFoundError{
		Kind:        kind,
		Input:       input,
		Suggestions: suggest(query, names),
		err:         sentinel,
	}
}

// suggest ranks names by Levenshtein distance, keeping only plausible typos
func suggest(query string, names *nameIndex) []string {
	type scored struct {
		label string
		dist  int
	}
	limit := max(2, len([]rune(query))/3)

	seen := make(map[string]bool)
	var candidates []scored
	for i, name := range names.folded {
		d := distance(query, name)
		if d > limit || seen[names.labels[i]] {
			continue
		}
		seen[names.labels[i]] = true
		candidates = append(candidates, scored{label: names.labels[i], dist: d})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})

	var out []string
	for i := 0; i < len(candidates) && i < maxSuggestions; i++ {
		out = append(out, candidates[i].label)
	}
	return out
}

// distance is the edit distance to the whole name or its closest word,
// so "kanmochi" still suggests "Kenmochi Toya"
func distance(query, name string) int {
	best := fuzzy.LevenshteinDistance(query, name)
	for _, word := range strings.Fields(name) {
		best = min(best, fuzzy.LevenshteinDistance(query, word))
	}
	return best
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
