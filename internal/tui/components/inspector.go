package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/koepalette/internal/library"
	"github.com/mmcdole/koepalette/internal/tui/styles"
)

// Inspector displays the selected series and its products. When focused the
// cursor moves over products.
type Inspector struct {
	detail   *library.SeriesDetail
	language string
	cursor   int
	width    int
	height   int
	focused  bool
	keys     ListKeyMap
}

// NewInspector creates a new inspector component
func NewInspector() Inspector {
	return Inspector{keys: DefaultListKeyMap(), language: "jp"}
}

// SetDetail sets the series to display. The product cursor is kept when the
// same series is shown again.
func (i *Inspector) SetDetail(detail *library.SeriesDetail) {
	if detail == nil || i.detail == nil || detail.Series.ID != i.detail.Series.ID {
		i.cursor = 0
	}
	i.detail = detail
	if i.detail != nil && i.cursor >= len(i.detail.Products) {
		i.cursor = max(len(i.detail.Products)-1, 0)
	}
}

// Detail returns the displayed series detail
func (i Inspector) Detail() *library.SeriesDetail { return i.detail }

// SetLanguage chooses which liver name is shown first
func (i *Inspector) SetLanguage(language string) { i.language = language }

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
}

// SetFocused toggles product selection
func (i *Inspector) SetFocused(focused bool) { i.focused = focused }

// SelectedProduct returns the product under the cursor
func (i Inspector) SelectedProduct() (library.ProductState, bool) {
	if i.detail == nil || i.cursor < 0 || i.cursor >= len(i.detail.Products) {
		return library.ProductState{}, false
	}
	return i.detail.Products[i.cursor], true
}

// Update handles product navigation while focused
func (i Inspector) Update(msg tea.Msg) (Inspector, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !i.focused || i.detail == nil {
		return i, nil
	}
	switch {
	case key.Matches(keyMsg, i.keys.Up):
		i.cursor--
	case key.Matches(keyMsg, i.keys.Down):
		i.cursor++
	case key.Matches(keyMsg, i.keys.Home):
		i.cursor = 0
	case key.Matches(keyMsg, i.keys.End):
		i.cursor = len(i.detail.Products) - 1
	}
	i.cursor = max(0, min(i.cursor, len(i.detail.Products)-1))
	return i, nil
}

// View renders the component
func (i Inspector) View() string {
	border := styles.InactiveBorder
	if i.focused {
		border = styles.ActiveBorder
	}
	contentWidth := max(i.width-2, 10)
	contentHeight := max(i.height-2, 1)

	var lines []string
	if i.detail == nil {
		lines = []string{styles.AccentStyle.Render("Info"), "", styles.DimStyle.Render("Nothing selected")}
	} else {
		lines = i.render(contentWidth)
	}
	if len(lines) > contentHeight {
		lines = append(lines[:contentHeight-1], styles.DimStyle.Render("↓ more"))
	}

	return border.
		Width(contentWidth).
		Height(contentHeight).
		Render(strings.Join(lines, "\n"))
}

func (i Inspector) render(width int) []string {
	d := i.detail
	s := d.Series

	lines := []string{
		styles.TitleStyle.Render(styles.Truncate(s.Title, width)),
		styles.DimStyle.Render(s.ID),
		"",
	}

	released := "unknown"
	if !s.InitialRelease.IsZero() {
		released = s.InitialRelease.String()
	}
	lines = append(lines, label("Released")+released)
	if len(s.Rereleases) > 0 {
		dates := make([]string, 0, len(s.Rereleases))
		for _, r := range s.Rereleases {
			dates = append(dates, r.String())
		}
		lines = append(lines, label("Rereleased")+strings.Join(dates, ", "))
	}

	if len(d.Groups) > 0 {
		names := make([]string, len(d.Groups))
		for n, g := range d.Groups {
			names[n] = g.Name
		}
		lines = append(lines, label("Groups")+strings.Join(names, ", "))
	}

	if len(d.Livers) > 0 {
		names := make([]string, len(d.Livers))
		for n, l := range d.Livers {
			names[n] = lipgloss.NewStyle().Foreground(styles.LiverColor(l.OshiColor)).Render(l.DisplayName(i.language))
		}
		lines = append(lines, label("Livers")+strings.Join(names, ", "))
	}

	lines = append(lines, "", styles.AccentStyle.Render(fmt.Sprintf("Products  %d/%d owned", d.PurchasedCount(), len(d.Products))))
	for n, p := range d.Products {
		lines = append(lines, i.renderProduct(p, i.focused && n == i.cursor, width))
		if len(p.Tags) > 0 {
			lines = append(lines, "    "+styles.DimStyle.Render(styles.Truncate("#"+strings.Join(p.Tags, " #"), width-4)))
		}
	}
	return lines
}

func label(name string) string {
	return styles.SubtitleStyle.Render(fmt.Sprintf("%-11s", name))
}

func (i Inspector) renderProduct(p library.ProductState, selected bool, width int) string {
	mark := styles.NotOwnedStyle.Render(styles.NotOwnedChar)
	if p.Purchased {
		mark = styles.OwnedStyle.Render(styles.OwnedChar)
	}
	linked := " "
	if p.FileLink != "" {
		linked = styles.AccentStyle.Render(styles.LinkedChar)
	}

	owner := ""
	var ownerColor *lipgloss.Color
	if p.Liver != nil {
		owner = p.Liver.DisplayName(i.language)
		c := styles.LiverColor(p.Liver.OshiColor)
		ownerColor = &c
	}

	meta := fmt.Sprintf(" %s %s", p.Product.Type, p.Product.Language)
	titleWidth := max(width-lipgloss.Width(owner)-lipgloss.Width(meta)-8, 4)

	return styles.RenderListRow([]styles.RowPart{
		{Text: mark + linked + " "},
		{Text: styles.Pad(p.Product.Title, titleWidth)},
		{Text: " " + owner, Foreground: ownerColor},
		{Text: meta, Foreground: &styles.DimGray},
	}, selected, width)
}
