package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/koepalette/internal/adapter"
	"github.com/mmcdole/koepalette/internal/tui"
)

var errNotTerminal = errors.New("browse needs an interactive terminal; use `koepalette series` for plain output")

func newBrowseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive catalog browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, ctx)
		},
	}
}

func runBrowse(cmd *cobra.Command, ctx *commandContext) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	// The TUI loads the catalog itself so it can show progress
	svc, err := ctx.service()
	if err != nil {
		return err
	}
	launcher := adapter.NewLauncher(cfg.Player.Command, cfg.Player.Args, ctx.logger)

	model := tui.NewModel(svc, launcher, ctx.logger)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)

	ctx.logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		ctx.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	ctx.logger.Info("shutting down")
	return nil
}
