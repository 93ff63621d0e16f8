package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/koepalette/internal/domain"
	"github.com/mmcdole/koepalette/internal/tui/styles"
)

// SeriesRow is one series with the ownership counts shown beside it
type SeriesRow struct {
	Series   *domain.Series
	Livers   []*domain.Liver
	Owned    int
	Products int
}

// SeriesList is the scrollable list of filtered series
type SeriesList struct {
	rows    []SeriesRow
	query   string // highlighted in titles
	cursor  int
	offset  int
	width   int
	height  int
	focused bool
	keys    ListKeyMap
}

// NewSeriesList creates an empty series list
func NewSeriesList() SeriesList {
	return SeriesList{keys: DefaultListKeyMap(), focused: true}
}

// SetRows replaces the rows, keeping the selection on the same series when
// it is still present
func (l *SeriesList) SetRows(rows []SeriesRow, query string) {
	var selectedID string
	if sel, ok := l.Selected(); ok {
		selectedID = sel.Series.ID
	}

	l.rows = rows
	l.query = query
	l.cursor = 0
	l.offset = 0
	for i, r := range rows {
		if r.Series.ID == selectedID {
			l.cursor = i
			break
		}
	}
	l.clampOffset()
}

// UpdateOwnership refreshes the counts of one series after a toggle
func (l *SeriesList) UpdateOwnership(seriesID string, owned int) {
	for i := range l.rows {
		if l.rows[i].Series.ID == seriesID {
			l.rows[i].Owned = owned
			return
		}
	}
}

// Selected returns the row under the cursor
func (l SeriesList) Selected() (SeriesRow, bool) {
	if l.cursor < 0 || l.cursor >= len(l.rows) {
		return SeriesRow{}, false
	}
	return l.rows[l.cursor], true
}

// Len returns the number of rows
func (l SeriesList) Len() int { return len(l.rows) }

// SetSize updates the component dimensions
func (l *SeriesList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.clampOffset()
}

// SetFocused toggles the active border
func (l *SeriesList) SetFocused(focused bool) { l.focused = focused }

// visibleRows is the number of rows that fit inside the border and title
func (l SeriesList) visibleRows() int {
	n := l.height - 4
	if n < 1 {
		n = 1
	}
	return n
}

func (l *SeriesList) clampOffset() {
	visible := l.visibleRows()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+visible {
		l.offset = l.cursor - visible + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

// Update handles navigation keys. It reports whether the cursor moved.
func (l SeriesList) Update(msg tea.Msg) (SeriesList, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(l.rows) == 0 {
		return l, false
	}

	prev := l.cursor
	half := l.visibleRows() / 2
	switch {
	case key.Matches(keyMsg, l.keys.Up):
		l.cursor--
	case key.Matches(keyMsg, l.keys.Down):
		l.cursor++
	case key.Matches(keyMsg, l.keys.HalfUp):
		l.cursor -= half
	case key.Matches(keyMsg, l.keys.HalfDown):
		l.cursor += half
	case key.Matches(keyMsg, l.keys.Home):
		l.cursor = 0
	case key.Matches(keyMsg, l.keys.End):
		l.cursor = len(l.rows) - 1
	}
	l.cursor = max(0, min(l.cursor, len(l.rows)-1))
	l.clampOffset()
	return l, l.cursor != prev
}

// View renders the component
func (l SeriesList) View() string {
	border := styles.InactiveBorder
	if l.focused {
		border = styles.ActiveBorder
	}
	contentWidth := max(l.width-2, 10)

	title := styles.AccentStyle.Render(fmt.Sprintf("Series (%d)", len(l.rows)))
	lines := []string{title}

	if len(l.rows) == 0 {
		lines = append(lines, styles.DimStyle.Render("No series match"))
	}

	end := min(l.offset+l.visibleRows(), len(l.rows))
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.renderRow(l.rows[i], i == l.cursor, contentWidth))
	}

	return border.
		Width(contentWidth).
		Height(max(l.height-2, 1)).
		Render(strings.Join(lines, "\n"))
}

func (l SeriesList) renderRow(r SeriesRow, selected bool, width int) string {
	year := "----"
	if y := r.Series.Year(); y != 0 {
		year = fmt.Sprint(y)
	}
	owned := fmt.Sprintf("%d/%d", r.Owned, r.Products)

	// indicator + year + counts + spacing
	titleWidth := max(width-lipgloss.Width(owned)-12, 4)
	title := styles.Truncate(r.Series.Title, titleWidth)

	parts := []styles.RowPart{
		{Text: styles.RenderOwnership(r.Owned, r.Products) + " "},
		{Text: year + " ", Foreground: &styles.DimGray},
	}
	parts = append(parts, highlightParts(title, l.query, selected)...)
	if gap := titleWidth - lipgloss.Width(title); gap > 0 {
		parts = append(parts, styles.RowPart{Text: strings.Repeat(" ", gap)})
	}
	parts = append(parts, styles.RowPart{Text: " " + owned, Foreground: &styles.DimGray})

	return styles.RenderListRow(parts, selected, width)
}

// highlightParts splits text into row parts with the characters matched by
// query emphasized
func highlightParts(text, query string, selected bool) []styles.RowPart {
	if query == "" {
		return []styles.RowPart{{Text: text}}
	}

	lowerText := strings.ToLower(text)
	if len(lowerText) != len(text) {
		// Byte offsets would not line up
		return []styles.RowPart{{Text: text}}
	}
	matches := fuzzy.Find(strings.ToLower(query), []string{lowerText})
	if len(matches) == 0 {
		return []styles.RowPart{{Text: text}}
	}

	matched := make(map[int]bool, len(matches[0].MatchedIndexes))
	for _, i := range matches[0].MatchedIndexes {
		matched[i] = true
	}

	highlight := styles.MatchHighlightStyle
	if selected {
		highlight = styles.MatchHighlightSelectedStyle
	}

	var parts []styles.RowPart
	var run strings.Builder
	runMatched := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		part := styles.RowPart{Text: run.String()}
		if runMatched {
			part.Foreground = &styles.Lavender
			part.Style = highlight.UnsetForeground().UnsetBackground()
		}
		parts = append(parts, part)
		run.Reset()
	}
	for i, r := range text {
		if matched[i] != runMatched {
			flush()
			runMatched = matched[i]
		}
		run.WriteRune(r)
	}
	flush()
	return parts
}
