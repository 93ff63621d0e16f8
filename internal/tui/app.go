// Package tui implements the interactive catalog browser.
package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/koepalette/internal/domain"
	"github.com/mmcdole/koepalette/internal/library"
	"github.com/mmcdole/koepalette/internal/tui/components"
	"github.com/mmcdole/koepalette/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateLoading ApplicationState = iota
	StateBrowsing
	StateSearching
	StateHelp
	StateLoadFailed
)

// Pane identifies which pane has keyboard focus
type Pane int

const (
	PaneSeries Pane = iota
	PaneProducts
)

// Layout proportions
const (
	SeriesColumnPercent = 45
	MinColumnWidth      = 20

	// filter bar + footer
	ChromeHeight = 2

	statusTimeout = 4 * time.Second
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool
	Focus Pane

	// Services
	Library *library.Service
	Player  Player
	logger  *slog.Logger
	keys    KeyMap

	// UI Components
	FilterBar  components.FilterBar
	SeriesList components.SeriesList
	Inspector  components.Inspector
	InputModal components.InputModal

	// Dimensions
	Width  int
	Height int

	// UI state
	Settings      domain.Settings
	StatusMsg     string
	StatusIsErr   bool
	Loading       bool
	SpinnerFrame  int
	LoadErr       error
	ShowInspector bool
}

// NewModel creates a new application model
func NewModel(lib *library.Service, player Player, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	return Model{
		State:      StateLoading,
		Library:    lib,
		Player:     player,
		logger:     logger,
		keys:       DefaultKeyMap(),
		FilterBar:  components.NewFilterBar(),
		SeriesList: components.NewSeriesList(),
		Inspector:  components.NewInspector(),
		InputModal: components.NewInputModal(),
		Settings:   domain.DefaultSettings(),
		Loading:    true,

		ShowInspector: true,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadCatalogCmd(m.Library, false),
		TickCmd(100*time.Millisecond),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		if m.Loading {
			return m, TickCmd(100 * time.Millisecond)
		}
		return m, nil

	case CatalogLoadedMsg:
		return m.handleCatalogLoaded(msg)

	case CatalogLoadFailedMsg:
		m.Loading = false
		m.logger.Error("catalog load failed", "error", msg.Err, "reload", msg.Reload)
		if !msg.Reload || !m.Library.Loaded() {
			m.State = StateLoadFailed
			m.LoadErr = msg.Err
			return m, nil
		}
		// Keep browsing the previous catalog
		cmd := m.setStatus("Reload failed: "+describeError(msg.Err), true)
		return m, cmd

	case SeriesFilteredMsg:
		if msg.Criteria != m.FilterBar.Criteria() {
			// Superseded by a newer filter
			return m, nil
		}
		m.SeriesList.SetRows(msg.Rows, msg.Criteria.Query)
		cmd := m.loadSelectedDetail()
		return m, cmd

	case DetailLoadedMsg:
		if sel, ok := m.SeriesList.Selected(); ok && sel.Series.ID == msg.Detail.Series.ID {
			detail := msg.Detail
			m.Inspector.SetDetail(&detail)
			m.SeriesList.UpdateOwnership(detail.Series.ID, detail.PurchasedCount())
		}
		return m, nil

	case PurchasedToggledMsg:
		verb := "Unmarked"
		if msg.Purchased {
			verb = "Marked"
		}
		status := m.setStatus(fmt.Sprintf("%s %s as purchased", verb, msg.ProductID), false)
		if m.FilterBar.Criteria().PurchasedStatus.Active() {
			// Membership in the result may have changed
			return m, tea.Batch(status, m.refilter())
		}
		return m, tea.Batch(status, LoadDetailCmd(m.Library, msg.SeriesID))

	case AnnotationSavedMsg:
		cmd := tea.Batch(m.setStatus(msg.Status, false), LoadDetailCmd(m.Library, msg.SeriesID))
		return m, cmd

	case PlaybackStartedMsg:
		cmd := m.setStatus("Playing "+msg.Path, false)
		return m, cmd

	case ErrMsg:
		m.logger.Error("operation failed", "context", msg.Context, "error", msg.Err)
		cmd := m.setStatus(msg.Context+": "+describeError(msg.Err), true)
		return m, cmd

	case StatusMsg:
		cmd := m.setStatus(msg.Message, msg.IsError)
		return m, cmd

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

func (m Model) handleCatalogLoaded(msg CatalogLoadedMsg) (tea.Model, tea.Cmd) {
	m.Loading = false
	m.LoadErr = nil
	m.State = StateBrowsing
	m.Settings = msg.Settings
	m.Inspector.SetLanguage(msg.Settings.Language)

	idx, err := m.Library.Index()
	if err != nil {
		m.State = StateLoadFailed
		m.LoadErr = err
		return m, nil
	}
	m.FilterBar.SetCatalog(idx.Branches(), idx.Years(), idx.Livers(), idx.Groups(), msg.Settings.Language)

	var cmds []tea.Cmd
	if msg.Reload {
		livers, _, series, _ := idx.Stats()
		cmds = append(cmds, m.setStatus(fmt.Sprintf("Reloaded %d series, %d livers", series, livers), false))
	} else if msg.Settings.OshiLiverID != "" {
		m.FilterBar.Select(components.FacetLiver, msg.Settings.OshiLiverID)
	}
	cmds = append(cmds, m.refilter())
	return m, tea.Batch(cmds...)
}

// refilter runs the current criteria against the catalog
func (m Model) refilter() tea.Cmd {
	return FilterCmd(m.Library, m.FilterBar.Criteria())
}

// loadSelectedDetail fetches the inspector content for the cursor row
func (m *Model) loadSelectedDetail() tea.Cmd {
	sel, ok := m.SeriesList.Selected()
	if !ok {
		m.Inspector.SetDetail(nil)
		return nil
	}
	return LoadDetailCmd(m.Library, sel.Series.ID)
}

// setStatus shows a message in the footer and schedules its removal
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(statusTimeout)
}

// setFocus moves keyboard focus between panes
func (m *Model) setFocus(p Pane) {
	m.Focus = p
	m.SeriesList.SetFocused(p == PaneSeries)
	m.Inspector.SetFocused(p == PaneProducts)
}

// describeError turns sentinel errors into short user-facing text
func describeError(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "the catalog repository rejected the token"
	case errors.Is(err, domain.ErrSourceUnavailable):
		return "the catalog source is unreachable"
	case errors.Is(err, domain.ErrAnnotationAccess):
		return "could not access local data"
	case errors.Is(err, domain.ErrUnknownProduct):
		return "product not found in catalog"
	}
	return err.Error()
}

// View renders the UI
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	switch m.State {
	case StateLoading:
		return m.renderCentered(styles.SpinnerStyle.Render(spinnerFrames[m.SpinnerFrame%len(spinnerFrames)]) + " Loading catalog...")
	case StateLoadFailed:
		return m.renderLoadFailed()
	case StateHelp:
		return m.renderHelp()
	}

	if m.InputModal.IsVisible() {
		return m.renderCentered(m.InputModal.View())
	}

	content := m.SeriesList.View()
	if m.ShowInspector {
		content = lipgloss.JoinHorizontal(
			lipgloss.Top,
			content,
			m.Inspector.View(),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.FilterBar.View(),
		content,
		m.renderFooter(),
	)
}

func (m Model) renderCentered(s string) string {
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, s)
}

func (m Model) renderLoadFailed() string {
	msg := "unknown error"
	if m.LoadErr != nil {
		msg = describeError(m.LoadErr)
	}
	body := lipgloss.JoinVertical(lipgloss.Center,
		styles.ErrorStyle.Bold(true).Render("Could not load the catalog"),
		"",
		styles.SubtitleStyle.Render(msg),
		"",
		styles.HelpKeyStyle.Render("r")+styles.HelpDescStyle.Render(" retry  ")+
			styles.HelpKeyStyle.Render("q")+styles.HelpDescStyle.Render(" quit"),
	)
	if m.Loading {
		body = styles.SpinnerStyle.Render(spinnerFrames[m.SpinnerFrame%len(spinnerFrames)]) + " Retrying..."
	}
	return m.renderCentered(body)
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Keys"))
	b.WriteString("\n\n")
	for _, binding := range m.keys.HelpBindings() {
		h := binding.Help()
		b.WriteString(styles.HelpKeyStyle.Render(fmt.Sprintf("%-10s", h.Key)))
		b.WriteString(styles.HelpDescStyle.Render(h.Desc))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("press any key to close"))
	return m.renderCentered(styles.InactiveBorder.Padding(1, 2).Render(b.String()))
}

func (m Model) renderFooter() string {
	var left string
	switch {
	case m.Loading:
		left = styles.SpinnerStyle.Render(spinnerFrames[m.SpinnerFrame%len(spinnerFrames)]) + " Reloading..."
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.SuccessStyle.Render(m.StatusMsg)
	default:
		hints := []string{"/ search", "tab pane", "p purchased", "r reload", "? help"}
		left = styles.DimStyle.Render(strings.Join(hints, "  "))
	}

	right := ""
	if at := m.Library.LoadedAt(); !at.IsZero() {
		right = styles.DimStyle.Render("loaded " + at.Format("15:04"))
	}
	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}
