package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmcdole/koepalette/internal/domain"
)

func newAnnotationCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newPurchaseCommand(ctx),
		newLinkCommand(ctx),
		newTagCommand(ctx),
		newSettingsCommand(ctx),
		newClearCommand(ctx),
	}
}

func newPurchaseCommand(ctx *commandContext) *cobra.Command {
	var unset, toggle bool

	cmd := &cobra.Command{
		Use:   "purchase PRODUCT...",
		Short: "Mark products as purchased",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if unset && toggle {
				return fmt.Errorf("--unset and --toggle cannot be combined")
			}
			svc, err := ctx.loadedService(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, id := range args {
				purchased := !unset
				if toggle {
					purchased, err = svc.TogglePurchased(id)
				} else {
					err = svc.SetPurchased(id, purchased)
				}
				if err != nil {
					return fmt.Errorf("%s: %w", id, err)
				}
				if purchased {
					fmt.Fprintf(out, "%s: purchased\n", id)
				} else {
					fmt.Fprintf(out, "%s: not purchased\n", id)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unset, "unset", false, "Mark as not purchased")
	cmd.Flags().BoolVar(&toggle, "toggle", false, "Flip the current flag")
	return cmd
}

func newLinkCommand(ctx *commandContext) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "link PRODUCT [PATH]",
		Short: "Show, set or remove the local file linked to a product",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.loadedService(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			productID := args[0]

			switch {
			case remove:
				if len(args) == 2 {
					return fmt.Errorf("--remove takes no path")
				}
				if err := svc.RemoveFileLink(productID); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: link removed\n", productID)

			case len(args) == 2:
				path, err := filepath.Abs(args[1])
				if err != nil {
					return fmt.Errorf("failed to resolve path: %w", err)
				}
				if _, err := os.Stat(path); err != nil {
					// Linking ahead of a download is allowed
					ctx.logger.Warn("linked file does not exist yet", "path", path)
				}
				if err := svc.SetFileLink(productID, path); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s -> %s\n", productID, path)

			default:
				state, err := svc.ProductState(productID)
				if err != nil {
					return err
				}
				if state.FileLink == "" {
					fmt.Fprintf(out, "%s: no file linked\n", productID)
				} else {
					fmt.Fprintln(out, state.FileLink)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the link")
	return cmd
}

func newTagCommand(ctx *commandContext) *cobra.Command {
	var clearTags, add bool

	cmd := &cobra.Command{
		Use:   "tag PRODUCT [TAG...]",
		Short: "Show or replace the tags of a product",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.loadedService(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			productID, tags := args[0], args[1:]

			if !clearTags && len(tags) == 0 {
				state, err := svc.ProductState(productID)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, strings.Join(state.Tags, ", "))
				return nil
			}
			if clearTags && len(tags) > 0 {
				return fmt.Errorf("--clear takes no tags")
			}
			if add {
				current, err := svc.Tags(productID)
				if err != nil {
					return err
				}
				tags = append(slices.Clone(current), tags...)
			}

			tags = domain.NormalizeTags(tags)
			if err := svc.SetTags(productID, tags); err != nil {
				return err
			}
			if len(tags) == 0 {
				fmt.Fprintf(out, "%s: tags cleared\n", productID)
			} else {
				fmt.Fprintf(out, "%s: %s\n", productID, strings.Join(tags, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearTags, "clear", false, "Remove every tag")
	cmd.Flags().BoolVar(&add, "add", false, "Add to the existing tags instead of replacing them")
	return cmd
}

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "settings [KEY [VALUE]]",
		Short: "Show or change a setting (theme, language, oshi_liver_id)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.loadedService(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch len(args) {
			case 0:
				settings, err := svc.Settings()
				if err != nil {
					return err
				}
				raw, err := svc.RawSettings()
				if err != nil {
					return err
				}
				rows := [][]string{
					{domain.SettingTheme, settings.Theme},
					{domain.SettingLanguage, settings.Language},
					{domain.SettingOshiLiverID, settings.OshiLiverID},
				}
				var extra []string
				for k := range raw {
					if k != domain.SettingTheme && k != domain.SettingLanguage && k != domain.SettingOshiLiverID {
						extra = append(extra, k)
					}
				}
				slices.Sort(extra)
				for _, k := range extra {
					rows = append(rows, []string{k, raw[k]})
				}
				fmt.Fprintln(out, renderTable([]string{"Key", "Value"}, rows, nil))

			case 1:
				raw, err := svc.RawSettings()
				if err != nil {
					return err
				}
				value, ok := raw[args[0]]
				if !ok {
					value = settingDefault(args[0])
				}
				fmt.Fprintln(out, value)

			default:
				key, value := args[0], args[1]
				if key == domain.SettingOshiLiverID && value != "" {
					// Accept a liver name as well as an ID
					liver, err := svc.ResolveLiver(value)
					if err != nil {
						return err
					}
					value = liver.ID
				}
				if err := svc.UpdateSetting(key, value); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s = %s\n", key, value)
			}
			return nil
		},
	}
}

func settingDefault(key string) string {
	defaults := domain.DefaultSettings()
	switch key {
	case domain.SettingTheme:
		return defaults.Theme
	case domain.SettingLanguage:
		return defaults.Language
	case domain.SettingOshiLiverID:
		return defaults.OshiLiverID
	}
	return ""
}

func newClearCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all local annotations and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear local data without --yes")
			}
			svc, err := ctx.service()
			if err != nil {
				return err
			}
			if err := svc.ClearAll(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared all local data")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deleting all local data")
	return cmd
}
