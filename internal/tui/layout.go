package tui

// columnLayout holds calculated column widths for the View
type columnLayout struct {
	seriesWidth    int
	inspectorWidth int // 0 if not shown
}

// calculateColumnLayout computes column widths based on inspector visibility
func (m Model) calculateColumnLayout(availableWidth int) columnLayout {
	if !m.ShowInspector {
		return columnLayout{seriesWidth: availableWidth}
	}

	layout := columnLayout{
		seriesWidth: max(availableWidth*SeriesColumnPercent/100, MinColumnWidth),
	}
	layout.inspectorWidth = max(availableWidth-layout.seriesWidth, MinColumnWidth)
	return layout
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	contentHeight := max(m.Height-ChromeHeight, 3)
	layout := m.calculateColumnLayout(m.Width)

	m.FilterBar.SetWidth(m.Width)
	m.SeriesList.SetSize(layout.seriesWidth, contentHeight)
	if layout.inspectorWidth > 0 {
		m.Inspector.SetSize(layout.inspectorWidth, contentHeight)
	}
}
