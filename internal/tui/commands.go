package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/koepalette/internal/domain"
	"github.com/mmcdole/koepalette/internal/library"
	"github.com/mmcdole/koepalette/internal/tui/components"
)

// Player opens a linked file in an external application
type Player interface {
	Launch(path string) error
}

const loadTimeout = 60 * time.Second

// Command factories for async operations

// LoadCatalogCmd performs the first load, or a forced reload
func LoadCatalogCmd(svc *library.Service, reload bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		var err error
		if reload {
			err = svc.ReloadData(ctx)
		} else {
			err = svc.Initialize(ctx)
		}
		if err != nil {
			return CatalogLoadFailedMsg{Err: err, Reload: reload}
		}

		settings, err := svc.Settings()
		if err != nil {
			// Browsing still works on defaults
			settings = domain.DefaultSettings()
		}
		return CatalogLoadedMsg{Reload: reload, Settings: settings}
	}
}

// FilterCmd runs one filter pass and gathers the ownership counts for each
// row
func FilterCmd(svc *library.Service, criteria domain.FilterCriteria) tea.Cmd {
	return func() tea.Msg {
		series, err := svc.FilterSeries(criteria)
		if err != nil {
			return ErrMsg{Err: err, Context: "filtering series"}
		}
		idx, err := svc.Index()
		if err != nil {
			return ErrMsg{Err: err, Context: "filtering series"}
		}
		purchased, err := svc.Annotations().AllPurchased()
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("%w: %w", domain.ErrAnnotationAccess, err), Context: "reading purchased flags"}
		}

		rows := make([]components.SeriesRow, len(series))
		for i, s := range series {
			products := idx.SeriesProducts(s.ID)
			owned := 0
			for _, p := range products {
				if purchased.Has(p.ID) {
					owned++
				}
			}
			rows[i] = components.SeriesRow{
				Series:   s,
				Livers:   idx.EffectiveLivers(s),
				Owned:    owned,
				Products: len(products),
			}
		}
		return SeriesFilteredMsg{Criteria: criteria, Rows: rows}
	}
}

// LoadDetailCmd loads the inspector content for a series
func LoadDetailCmd(svc *library.Service, seriesID string) tea.Cmd {
	return func() tea.Msg {
		detail, err := svc.SeriesDetail(seriesID)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading series"}
		}
		return DetailLoadedMsg{Detail: detail}
	}
}

// TogglePurchasedCmd flips a product's purchased flag
func TogglePurchasedCmd(svc *library.Service, productID, seriesID string) tea.Cmd {
	return func() tea.Msg {
		purchased, err := svc.TogglePurchased(productID)
		if err != nil {
			return ErrMsg{Err: err, Context: "updating purchase"}
		}
		return PurchasedToggledMsg{ProductID: productID, SeriesID: seriesID, Purchased: purchased}
	}
}

// SaveTagsCmd replaces a product's tags from comma-separated input
func SaveTagsCmd(svc *library.Service, productID, seriesID, input string) tea.Cmd {
	return func() tea.Msg {
		tags := domain.NormalizeTags(strings.Split(input, ","))
		if err := svc.SetTags(productID, tags); err != nil {
			return ErrMsg{Err: err, Context: "saving tags"}
		}
		status := "Cleared tags of " + productID
		if len(tags) > 0 {
			status = fmt.Sprintf("Tagged %s: %s", productID, strings.Join(tags, ", "))
		}
		return AnnotationSavedMsg{SeriesID: seriesID, Status: status}
	}
}

// SaveFileLinkCmd links a file to a product; empty input removes the link
func SaveFileLinkCmd(svc *library.Service, productID, seriesID, path string) tea.Cmd {
	return func() tea.Msg {
		path = strings.TrimSpace(path)
		if err := svc.SetFileLink(productID, path); err != nil {
			return ErrMsg{Err: err, Context: "saving file link"}
		}
		status := "Removed file link of " + productID
		if path != "" {
			status = "Linked " + productID
		}
		return AnnotationSavedMsg{SeriesID: seriesID, Status: status}
	}
}

// PlayCmd opens a product's linked file
func PlayCmd(player Player, state library.ProductState) tea.Cmd {
	return func() tea.Msg {
		if player == nil {
			return ErrMsg{Err: errors.New("no player configured"), Context: "playing"}
		}
		if state.FileLink == "" {
			return StatusMsg{Message: "No file linked to " + state.Product.Title, IsError: true}
		}
		if err := player.Launch(state.FileLink); err != nil {
			return ErrMsg{Err: err, Context: "playing"}
		}
		return PlaybackStartedMsg{Path: state.FileLink}
	}
}

// TickCmd returns a command that sends a tick after the given duration
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd clears the status message after a delay
func ClearStatusCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
