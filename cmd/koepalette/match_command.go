package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmcdole/koepalette/internal/match"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var by string
	var link bool

	cmd := &cobra.Command{
		Use:   "match FILE|DIR...",
		Short: "Match local audio files to catalog products",
		Long: "Match local audio files to catalog products, by SHA-256 digest (hash)\n" +
			"or by liver names found in the file name (name). Directories are walked.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.loadedService(cmd.Context())
			if err != nil {
				return err
			}
			files, err := collectFiles(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch strings.ToLower(by) {
			case "hash":
				result, err := svc.MatchFilesByHash(cmd.Context(), files)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(result.Matches))
				for _, m := range result.Matches {
					rows = append(rows, []string{m.File.Name(), m.Product.ID, m.Product.Title, string(m.Confidence)})
					if lf, ok := m.File.(match.LocalFile); ok && link {
						if err := svc.SetFileLink(m.Product.ID, lf.Path()); err != nil {
							return err
						}
					}
				}
				if len(rows) > 0 {
					fmt.Fprintln(out, renderTable([]string{"File", "Product", "Title", "Confidence"}, rows, nil))
				}
				if link {
					fmt.Fprintf(out, "Linked %d files\n", len(result.Matches))
				}
				printUnmatched(cmd, result.Unmatched)

			case "name":
				if link {
					return fmt.Errorf("--link needs --by hash; name matches are only suggestions")
				}
				result, err := svc.MatchFilesByName(files)
				if err != nil {
					return err
				}
				var rows [][]string
				for _, m := range result.Matches {
					for i, p := range m.Suggestions {
						name := ""
						if i == 0 {
							name = m.File.Name()
						}
						rows = append(rows, []string{name, p.ID, p.Title, string(m.Confidence)})
					}
				}
				if len(rows) > 0 {
					fmt.Fprintln(out, renderTable([]string{"File", "Suggested product", "Title", "Confidence"}, rows, nil))
				}
				printUnmatched(cmd, result.Unmatched)

			default:
				return fmt.Errorf("unknown match mode %q (want hash or name)", by)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&by, "by", "hash", "Match by content hash or by file name: hash, name")
	cmd.Flags().BoolVar(&link, "link", false, "Link every hash match to its product")
	return cmd
}

// collectFiles expands directories into the regular files beneath them
func collectFiles(args []string) ([]match.File, error) {
	var files []match.File
	for _, arg := range args {
		err := filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() {
				abs, err := filepath.Abs(path)
				if err != nil {
					return err
				}
				files = append(files, match.LocalFile(abs))
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", arg, err)
		}
	}
	return files, nil
}

func printUnmatched(cmd *cobra.Command, files []match.File) {
	if len(files) == 0 {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d unmatched:\n", len(files))
	for _, f := range files {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", f.Name())
	}
}
