package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/koepalette/internal/library"
	"github.com/mmcdole/koepalette/internal/tui/components"
)

// handleKeyMsg routes key presses by application state
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c always quits, even while typing
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.State {
	case StateLoading:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil

	case StateLoadFailed:
		return m.handleLoadFailedKeys(msg)

	case StateHelp:
		m.State = StateBrowsing
		return m, nil

	case StateSearching:
		return m.handleSearchKeys(msg)
	}

	if m.InputModal.IsVisible() {
		return m.handleInputModalKeys(msg)
	}

	return m.handleBrowseKeys(msg)
}

func (m Model) handleLoadFailedKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Reload) && !m.Loading:
		m.Loading = true
		// A catalog that never loaded is retried from scratch
		return m, tea.Batch(LoadCatalogCmd(m.Library, m.Library.Loaded()), TickCmd(100*time.Millisecond))
	}
	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.State = StateBrowsing
		m.FilterBar.Blur()
		return m, nil
	case tea.KeyEsc:
		m.State = StateBrowsing
		m.FilterBar.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	var changed bool
	m.FilterBar, cmd, changed = m.FilterBar.Update(msg)
	if changed {
		return m, tea.Batch(cmd, m.refilter())
	}
	return m, cmd
}

func (m Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.State = StateSearching
		m.setFocus(PaneSeries)
		cmd := m.FilterBar.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Reload):
		if m.Loading {
			return m, nil
		}
		m.Loading = true
		return m, tea.Batch(LoadCatalogCmd(m.Library, true), TickCmd(100*time.Millisecond))

	case key.Matches(msg, m.keys.Branch):
		return m.cycleFacet(components.FacetBranch)
	case key.Matches(msg, m.keys.Year):
		return m.cycleFacet(components.FacetYear)
	case key.Matches(msg, m.keys.Liver):
		return m.cycleFacet(components.FacetLiver)
	case key.Matches(msg, m.keys.Group):
		return m.cycleFacet(components.FacetGroup)
	case key.Matches(msg, m.keys.Status):
		return m.cycleFacet(components.FacetStatus)

	case key.Matches(msg, m.keys.ClearFilters):
		m.FilterBar.Reset()
		return m, m.refilter()

	case key.Matches(msg, m.keys.NextPane):
		if m.Focus == PaneSeries {
			m.setFocus(PaneProducts)
		} else {
			m.setFocus(PaneSeries)
		}
		return m, nil

	case key.Matches(msg, m.keys.TogglePurchased):
		return m.togglePurchased()

	case key.Matches(msg, m.keys.EditTags):
		return m.openInput(components.InputTags)

	case key.Matches(msg, m.keys.EditLink):
		return m.openInput(components.InputFileLink)

	case key.Matches(msg, m.keys.ToggleInspector):
		m.ShowInspector = !m.ShowInspector
		if !m.ShowInspector {
			m.setFocus(PaneSeries)
		}
		m.updateLayout()
		return m, nil

	case key.Matches(msg, m.keys.Play):
		state, _, ok := m.selectedProduct()
		if !ok {
			return m, nil
		}
		return m, PlayCmd(m.Player, state)
	}

	if m.Focus == PaneProducts {
		if key.Matches(msg, m.keys.Back) {
			m.setFocus(PaneSeries)
			return m, nil
		}
		var cmd tea.Cmd
		m.Inspector, cmd = m.Inspector.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, m.keys.Enter) && m.Inspector.Detail() != nil {
		m.setFocus(PaneProducts)
		return m, nil
	}

	var moved bool
	m.SeriesList, moved = m.SeriesList.Update(msg)
	if moved {
		cmd := m.loadSelectedDetail()
		return m, cmd
	}
	return m, nil
}

func (m Model) cycleFacet(facet components.Facet) (tea.Model, tea.Cmd) {
	m.FilterBar.Cycle(facet)
	return m, m.refilter()
}

// togglePurchased flips the selected product's purchased flag
func (m Model) togglePurchased() (tea.Model, tea.Cmd) {
	state, seriesID, ok := m.selectedProduct()
	if !ok {
		return m, nil
	}
	return m, TogglePurchasedCmd(m.Library, state.Product.ID, seriesID)
}

// selectedProduct is the product actions apply to: the cursor product when
// the products pane has focus, otherwise the first product of the series
func (m Model) selectedProduct() (library.ProductState, string, bool) {
	detail := m.Inspector.Detail()
	if detail == nil || len(detail.Products) == 0 {
		return library.ProductState{}, "", false
	}
	if m.Focus == PaneProducts {
		state, ok := m.Inspector.SelectedProduct()
		return state, detail.Series.ID, ok
	}
	return detail.Products[0], detail.Series.ID, true
}

func (m Model) openInput(purpose components.InputPurpose) (tea.Model, tea.Cmd) {
	state, _, ok := m.selectedProduct()
	if !ok {
		return m, nil
	}
	title := state.Product.Title
	switch purpose {
	case components.InputTags:
		m.InputModal.Show(purpose, state.Product.ID, "Tags: "+title, "comma separated, empty to clear", strings.Join(state.Tags, ", "))
	case components.InputFileLink:
		m.InputModal.Show(purpose, state.Product.ID, "File: "+title, "path to audio file, empty to unlink", state.FileLink)
	}
	return m, nil
}

func (m Model) handleInputModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var submitted bool
	m.InputModal, cmd, submitted = m.InputModal.Update(msg)
	if !submitted {
		return m, cmd
	}

	productID := m.InputModal.ProductID()
	value := m.InputModal.Value()
	purpose := m.InputModal.Purpose()
	m.InputModal.Hide()

	seriesID := ""
	if detail := m.Inspector.Detail(); detail != nil {
		seriesID = detail.Series.ID
	}
	switch purpose {
	case components.InputTags:
		return m, SaveTagsCmd(m.Library, productID, seriesID, value)
	case components.InputFileLink:
		return m, SaveFileLinkCmd(m.Library, productID, seriesID, value)
	}
	return m, nil
}
