package tui

import (
	"github.com/mmcdole/koepalette/internal/domain"
	"github.com/mmcdole/koepalette/internal/library"
	"github.com/mmcdole/koepalette/internal/tui/components"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// CatalogLoadedMsg signals that the catalog was loaded or reloaded
type CatalogLoadedMsg struct {
	Reload   bool
	Settings domain.Settings
}

// CatalogLoadFailedMsg signals that a load or reload failed
type CatalogLoadFailedMsg struct {
	Err    error
	Reload bool
}

// SeriesFilteredMsg carries the rows for a filter pass
type SeriesFilteredMsg struct {
	Criteria domain.FilterCriteria
	Rows     []components.SeriesRow
}

// DetailLoadedMsg carries the detail for the selected series
type DetailLoadedMsg struct {
	Detail library.SeriesDetail
}

// PurchasedToggledMsg signals a product's purchased flag changed
type PurchasedToggledMsg struct {
	ProductID string
	SeriesID  string
	Purchased bool
}

// AnnotationSavedMsg signals that tags or a file link were saved
type AnnotationSavedMsg struct {
	SeriesID string
	Status   string
}

// PlaybackStartedMsg signals that the player was launched
type PlaybackStartedMsg struct {
	Path string
}

// TickMsg is a general tick message for the spinner
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
