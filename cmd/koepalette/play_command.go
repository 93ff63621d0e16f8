package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmcdole/koepalette/internal/adapter"
)

func newPlayCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "play PRODUCT",
		Short: "Open the file linked to a product in an audio player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.loadedService(cmd.Context())
			if err != nil {
				return err
			}
			state, err := svc.ProductState(args[0])
			if err != nil {
				return err
			}
			if state.FileLink == "" {
				return fmt.Errorf("no file linked to %s; link one with `koepalette link %s PATH`", state.Product.ID, state.Product.ID)
			}

			cfg, _ := ctx.ensureConfig()
			launcher := adapter.NewLauncher(cfg.Player.Command, cfg.Player.Args, ctx.logger)
			if err := launcher.Launch(state.FileLink); err != nil {
				return fmt.Errorf("failed to launch player: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Playing %s\n", state.Product.Title)
			return nil
		},
	}
}
