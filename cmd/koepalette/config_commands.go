package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmcdole/koepalette/internal/adapter"
	"github.com/mmcdole/koepalette/internal/adapter/source"
	"github.com/mmcdole/koepalette/internal/adapter/source/github"
)

const verifyTimeout = 15 * time.Second

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigPathCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand(ctx))

	return configCmd
}

func (c *commandContext) configPath() string {
	if path := strings.TrimSpace(c.configFlag); path != "" {
		return path
	}
	return adapter.ConfigFile()
}

func newConfigPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the configuration file path",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), ctx.configPath())
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			token := ""
			if cfg.Source.Token != "" {
				token = "(set)"
			}
			rows := [][]string{
				{"source.type", string(cfg.ResolvedSourceType())},
				{"source.owner", cfg.Source.Owner},
				{"source.repo", cfg.Source.Repo},
				{"source.ref", cfg.Source.Ref},
				{"source.token", token},
				{"source.path", cfg.Source.Path},
				{"source.dir", cfg.Source.Dir},
				{"source.cache_ttl", cfg.Source.CacheTTL.String()},
				{"source.api_url", cfg.Source.APIURL},
				{"storage.path", cfg.Storage.Path},
				{"player.command", cfg.Player.Command},
				{"player.args", strings.Join(cfg.Player.Args, " ")},
				{"logging.file", cfg.Logging.File},
				{"logging.level", cfg.Logging.Level},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Key", "Value"}, rows, nil))
			return nil
		},
	}
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	var owner, repo, ref, token, docPath, dir, player string
	var playerArgs []string
	var skipVerify bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file for a catalog source",
		Long: "Write a configuration file. Pass --owner and --repo for a GitHub catalog,\n" +
			"--dir for a local directory, or neither for the built-in demo catalog.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir != "" && (owner != "" || repo != "") {
				return fmt.Errorf("--dir cannot be combined with --owner/--repo")
			}

			cfg := adapter.DefaultConfig()
			switch {
			case owner != "" || repo != "":
				cfg.Source.Type = adapter.SourceTypeGitHub
				cfg.Source.Owner = owner
				cfg.Source.Repo = repo
				cfg.Source.Ref = ref
				cfg.Source.Token = token
				if docPath != "" {
					cfg.Source.Path = docPath
				}
			case dir != "":
				cfg.Source.Type = adapter.SourceTypeDir
				cfg.Source.Dir = dir
			default:
				cfg.Source.Type = adapter.SourceTypeDemo
			}
			cfg.Player.Command = player
			if len(playerArgs) > 0 {
				cfg.Player.Args = playerArgs
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cfg.ResolvedSourceType() == adapter.SourceTypeGitHub && !skipVerify {
				if err := verifyRepository(cmd, cfg); err != nil {
					return err
				}
			}

			path := ctx.configPath()
			if err := adapter.SaveConfigFile(cfg, path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintf(out, "✓ Configuration saved to %s\n", path)
			fmt.Fprintf(out, "  Catalog source: %s\n", source.Origin(&cfg.Source))
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "GitHub owner of the catalog repository")
	cmd.Flags().StringVar(&repo, "repo", "", "GitHub catalog repository")
	cmd.Flags().StringVar(&ref, "ref", "", "Branch, tag or commit (default branch when empty)")
	cmd.Flags().StringVar(&token, "token", "", "GitHub token for private repositories")
	cmd.Flags().StringVar(&docPath, "path", "", "Directory holding the catalog documents inside the repository")
	cmd.Flags().StringVar(&dir, "dir", "", "Local directory holding the catalog documents")
	cmd.Flags().StringVar(&player, "player", "", "Audio player command (auto-detected when empty)")
	cmd.Flags().StringArrayVar(&playerArgs, "player-arg", nil, "Extra argument for the audio player, repeatable")
	cmd.Flags().BoolVar(&skipVerify, "no-verify", false, "Skip checking that the repository is reachable")
	return cmd
}

// verifyRepository checks the configured repository answers with the token
func verifyRepository(cmd *cobra.Command, cfg *adapter.Config) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), verifyTimeout)
	defer cancel()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Checking %s/%s...\n", cfg.Source.Owner, cfg.Source.Repo)

	client := github.NewClient(github.Options{
		APIURL: cfg.Source.APIURL,
		Owner:  cfg.Source.Owner,
		Repo:   cfg.Source.Repo,
		Ref:    cfg.Source.Ref,
		Token:  cfg.Source.Token,
		Path:   cfg.Source.Path,
	}, nil)
	repo, err := client.VerifyAccess(ctx)
	if err != nil {
		return fmt.Errorf("could not reach the catalog repository (use --no-verify to save anyway): %w", err)
	}

	visibility := "public"
	if repo.Private {
		visibility = "private"
	}
	fmt.Fprintf(out, "✓ Found %s (%s, default branch %s)\n", repo.FullName, visibility, repo.DefaultBranch)
	return nil
}
