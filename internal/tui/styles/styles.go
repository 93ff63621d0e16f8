package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	Lavender   = lipgloss.Color("#B452FF")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Blue       = lipgloss.Color("#3B82F6")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Lavender)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Lavender)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Raw ownership characters (unstyled)
const (
	OwnedChar    = "✓"
	PartialChar  = "◐"
	NotOwnedChar = "·"
	LinkedChar   = "♪"
)

// Ownership indicator styles
var (
	OwnedStyle    = lipgloss.NewStyle().Foreground(Green)
	PartialStyle  = lipgloss.NewStyle().Foreground(Lavender)
	NotOwnedStyle = lipgloss.NewStyle().Foreground(DimGray)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Lavender)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Badge styles
var (
	BadgeStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Lavender).
			Padding(0, 1)

	DimBadgeStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(SlateLight).
			Padding(0, 1)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
		Foreground(Lavender)
)

// Filter styles
var (
	FilterPromptStyle = lipgloss.NewStyle().
		Foreground(Lavender).
		Bold(true)
)

// Match highlight styles for search results
var (
	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(Lavender).
				Bold(true)

	MatchHighlightSelectedStyle = lipgloss.NewStyle().
					Foreground(White).
					Background(SlateLight).
					Bold(true).
					Underline(true)
)

// LiverColor returns the liver's oshi color, or the default text color when
// the catalog has none
func LiverColor(hex string) lipgloss.Color {
	if len(hex) == 7 && hex[0] == '#' {
		return lipgloss.Color(hex)
	}
	return LightGray
}

// RenderOwnership renders the ownership indicator for owned of total products
func RenderOwnership(owned, total int) string {
	switch {
	case total > 0 && owned == total:
		return OwnedStyle.Render(OwnedChar)
	case owned > 0:
		return PartialStyle.Render(PartialChar)
	default:
		return NotOwnedStyle.Render(NotOwnedChar)
	}
}

// Truncate shortens s to the given display width with an ellipsis.
// Width is measured in terminal cells so wide CJK runes count double.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 1 {
		return cut(s, width)
	}
	return cut(s, width-1) + "…"
}

// cut returns the longest prefix of s that fits in width cells
func cut(s string, width int) string {
	var b strings.Builder
	used := 0
	for _, r := range s {
		w := lipgloss.Width(string(r))
		if used+w > width {
			break
		}
		b.WriteRune(r)
		used += w
	}
	return b.String()
}

// Pad pads s with spaces to the given display width
func Pad(s string, width int) string {
	s = Truncate(s, width)
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// RenderListRow renders a complete list row with uniform background when selected.
// Each part is styled explicitly to avoid ANSI reset codes breaking the
// background. Use nil for the default foreground.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	bg := SlateLight
	defaultFg := LightGray
	selectedFg := White

	var result strings.Builder
	visibleLen := 0

	for _, part := range parts {
		style := part.Style
		if part.Foreground != nil {
			style = style.Foreground(*part.Foreground)
		} else if selected {
			style = style.Foreground(selectedFg)
		} else {
			style = style.Foreground(defaultFg)
		}
		if selected {
			style = style.Background(bg)
		}
		result.WriteString(style.Render(part.Text))
		visibleLen += lipgloss.Width(part.Text)
	}

	// Fill width, leaving one cell of margin each side
	paddingNeeded := width - visibleLen - 2
	marginStyle := lipgloss.NewStyle()
	if selected {
		marginStyle = marginStyle.Background(bg)
	}
	if paddingNeeded > 0 {
		result.WriteString(marginStyle.Render(strings.Repeat(" ", paddingNeeded)))
	}
	margin := marginStyle.Render(" ")

	return margin + result.String() + margin
}

// RowPart represents a part of a row with optional foreground color
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
	Style      lipgloss.Style // extra attributes such as Bold
}
