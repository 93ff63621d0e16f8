package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/koepalette/internal/domain"
	"github.com/mmcdole/koepalette/internal/tui/styles"
)

// Facet identifies one cyclable filter
type Facet int

const (
	FacetBranch Facet = iota
	FacetYear
	FacetLiver
	FacetGroup
	FacetStatus
)

// option is one selectable facet value; the empty value means "any"
type option struct {
	value string
	label string
}

// FilterBar holds the search input and the facet selections that make up
// the current filter criteria
type FilterBar struct {
	input  textinput.Model
	facets map[Facet][]option
	chosen map[Facet]int
	width  int
}

// NewFilterBar creates a filter bar with no facet values
func NewFilterBar() FilterBar {
	ti := textinput.New()
	ti.Placeholder = "title, liver, group or tag"
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	f := FilterBar{
		input:  ti,
		facets: make(map[Facet][]option),
		chosen: make(map[Facet]int),
	}
	f.facets[FacetStatus] = []option{
		{value: string(domain.PurchasedAll), label: "all"},
		{value: string(domain.PurchasedOnly), label: "purchased"},
		{value: string(domain.PurchasedNotPurchased), label: "not purchased"},
	}
	return f
}

// SetCatalog rebuilds the facet options from the loaded catalog. Selections
// that no longer exist fall back to "any".
func (f *FilterBar) SetCatalog(branches []domain.Branch, years []int, livers []*domain.Liver, groups []*domain.Group, language string) {
	branchOpts := []option{{label: "any"}}
	for _, b := range branches {
		branchOpts = append(branchOpts, option{value: string(b), label: string(b)})
	}
	yearOpts := []option{{label: "any"}}
	for _, y := range years {
		s := strconv.Itoa(y)
		yearOpts = append(yearOpts, option{value: s, label: s})
	}
	liverOpts := []option{{label: "any"}}
	for _, l := range livers {
		liverOpts = append(liverOpts, option{value: l.ID, label: l.DisplayName(language)})
	}
	groupOpts := []option{{label: "any"}}
	for _, g := range groups {
		groupOpts = append(groupOpts, option{value: g.ID, label: g.Name})
	}

	f.replace(FacetBranch, branchOpts)
	f.replace(FacetYear, yearOpts)
	f.replace(FacetLiver, liverOpts)
	f.replace(FacetGroup, groupOpts)
}

func (f *FilterBar) replace(facet Facet, opts []option) {
	prev := f.value(facet)
	f.facets[facet] = opts
	f.chosen[facet] = 0
	for i, o := range opts {
		if o.value == prev {
			f.chosen[facet] = i
			return
		}
	}
}

func (f FilterBar) value(facet Facet) string {
	opts := f.facets[facet]
	i := f.chosen[facet]
	if i < 0 || i >= len(opts) {
		return ""
	}
	return opts[i].value
}

func (f FilterBar) label(facet Facet) string {
	opts := f.facets[facet]
	i := f.chosen[facet]
	if i < 0 || i >= len(opts) {
		return "any"
	}
	return opts[i].label
}

// Cycle advances a facet to its next value, wrapping to "any"
func (f *FilterBar) Cycle(facet Facet) {
	n := len(f.facets[facet])
	if n == 0 {
		return
	}
	f.chosen[facet] = (f.chosen[facet] + 1) % n
}

// Select sets a facet to a specific value if it is offered
func (f *FilterBar) Select(facet Facet, value string) {
	for i, o := range f.facets[facet] {
		if o.value == value {
			f.chosen[facet] = i
			return
		}
	}
}

// Reset clears the query and every facet
func (f *FilterBar) Reset() {
	f.input.SetValue("")
	for facet := range f.chosen {
		f.chosen[facet] = 0
	}
}

// Criteria returns the filter criteria for the current selections
func (f FilterBar) Criteria() domain.FilterCriteria {
	year, _ := strconv.Atoi(f.value(FacetYear))
	return domain.FilterCriteria{
		Branch:          domain.Branch(f.value(FacetBranch)),
		Year:            year,
		LiverID:         f.value(FacetLiver),
		GroupID:         f.value(FacetGroup),
		PurchasedStatus: domain.PurchasedStatus(f.value(FacetStatus)),
		Query:           f.input.Value(),
	}
}

// Query returns the current search text
func (f FilterBar) Query() string { return f.input.Value() }

// Focus moves keyboard input to the search field
func (f *FilterBar) Focus() tea.Cmd { return f.input.Focus() }

// Blur releases keyboard input
func (f *FilterBar) Blur() { f.input.Blur() }

// Focused reports whether the search field has input
func (f FilterBar) Focused() bool { return f.input.Focused() }

// SetWidth updates the component width
func (f *FilterBar) SetWidth(width int) {
	f.width = width
	f.input.Width = max(width/3, 10)
}

// Update forwards input to the search field. It reports whether the query
// changed.
func (f FilterBar) Update(msg tea.Msg) (FilterBar, tea.Cmd, bool) {
	prev := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd, f.input.Value() != prev
}

// View renders the search field and the facet summary on one line
func (f FilterBar) View() string {
	facet := func(k, name string, facet Facet) string {
		v := f.label(facet)
		style := styles.DimBadgeStyle
		if f.chosen[facet] != 0 {
			style = styles.BadgeStyle
		}
		return styles.HelpKeyStyle.Render(k) + " " + style.Render(name+": "+v)
	}

	parts := []string{
		f.input.View(),
		facet("b", "branch", FacetBranch),
		facet("y", "year", FacetYear),
		facet("v", "liver", FacetLiver),
		facet("t", "group", FacetGroup),
		facet("o", "owned", FacetStatus),
	}
	return lipgloss.NewStyle().MaxWidth(max(f.width, 1)).Render(strings.Join(parts, "  "))
}
