package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/koepalette/internal/tui/styles"
)

// InputPurpose records what a submitted value is for
type InputPurpose int

const (
	InputNone InputPurpose = iota
	InputTags
	InputFileLink
)

// InputModal is a single-line text input modal used to edit tags and file
// links of a product
type InputModal struct {
	visible   bool
	title     string
	hint      string
	purpose   InputPurpose
	productID string
	input     textinput.Model
}

// NewInputModal creates a new input modal
func NewInputModal() InputModal {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 50
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return InputModal{
		input: ti,
	}
}

// Show displays the modal prefilled with value
func (m *InputModal) Show(purpose InputPurpose, productID, title, hint, value string) {
	m.visible = true
	m.purpose = purpose
	m.productID = productID
	m.title = title
	m.hint = hint
	m.input.Placeholder = hint
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

// Hide dismisses the modal
func (m *InputModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m InputModal) IsVisible() bool {
	return m.visible
}

// Value returns the current input value
func (m InputModal) Value() string {
	return m.input.Value()
}

// Purpose returns what the modal is editing
func (m InputModal) Purpose() InputPurpose { return m.purpose }

// ProductID returns the product being edited
func (m InputModal) ProductID() string { return m.productID }

// Update handles input events, returns (modal, cmd, submitted)
func (m InputModal) Update(msg tea.Msg) (InputModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return m, nil, true
		case "esc":
			m.Hide()
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd, false
}

// View renders the input modal
func (m InputModal) View() string {
	if !m.visible {
		return ""
	}

	const modalWidth = 54

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.White).
		Bold(true).
		Width(modalWidth).
		Background(styles.SlateDark)

	inputStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Background(styles.SlateDark)

	hintStyle := styles.DimStyle.
		Width(modalWidth).
		Background(styles.SlateDark)

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(styles.Truncate(m.title, modalWidth)),
		hintStyle.Render("enter save · esc cancel"),
		inputStyle.Render(m.input.View()),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Lavender).
		Background(styles.SlateDark).
		Padding(1, 2).
		Render(content)
}
