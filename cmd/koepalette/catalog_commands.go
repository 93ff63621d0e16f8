package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmcdole/koepalette/internal/domain"
	"github.com/mmcdole/koepalette/internal/library"
)

func newCatalogCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newSeriesCommand(ctx),
		newShowCommand(ctx),
		newLiversCommand(ctx),
		newGroupsCommand(ctx),
		newYearsCommand(ctx),
		newBranchesCommand(ctx),
		newReloadCommand(ctx),
	}
}

func newSeriesCommand(ctx *commandContext) *cobra.Command {
	var branch, liver, group, status, query string
	var year int

	cmd := &cobra.Command{
		Use:   "series",
		Short: "List series matching the given filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.loadedService(cmd.Context())
			if err != nil {
				return err
			}

			criteria := domain.FilterCriteria{Year: year, Query: query}
			if branch != "" {
				if criteria.Branch, err = domain.ParseBranch(branch); err != nil {
					return err
				}
			}
			if criteria.PurchasedStatus, err = domain.ParsePurchasedStatus(status); err != nil {
				return err
			}
			if liver != "" {
				l, err := svc.ResolveLiver(liver)
				if err != nil {
					return err
				}
				criteria.LiverID = l.ID
			}
			if group != "" {
				g, err := svc.ResolveGroup(group)
				if err != nil {
					return err
				}
				criteria.GroupID = g.ID
			}

			series, err := svc.FilterSeries(criteria)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(series) == 0 {
				fmt.Fprintln(out, "No series match")
				return nil
			}
			language := ctx.settings(svc).Language
			rows := make([][]string, 0, len(series))
			for _, s := range series {
				detail, err := svc.SeriesDetail(s.ID)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					s.ID,
					s.Title,
					liverNames(detail.Livers, language),
					s.InitialRelease.String(),
					fmt.Sprintf("%d/%d", detail.PurchasedCount(), len(detail.Products)),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Livers", "Released", "Owned"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			fmt.Fprintf(out, "%d series\n", len(series))
			return nil
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Only series with a liver from this branch (JP, EN, KR, ID)")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Only series first released in this year")
	cmd.Flags().StringVarP(&liver, "liver", "l", "", "Only series featuring this liver (ID or name)")
	cmd.Flags().StringVarP(&group, "group", "g", "", "Only series assigned to this group (ID or name)")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Ownership: all, purchased or not_purchased")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Case-insensitive text search over titles and names")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show SERIES",
		Short: "Show a series with its products and annotations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.loadedService(cmd.Context())
			if err != nil {
				return err
			}
			series, err := svc.ResolveSeries(args[0])
			if err != nil {
				return err
			}
			detail, err := svc.SeriesDetail(series.ID)
			if err != nil {
				return err
			}
			printSeriesDetail(cmd, detail, ctx.settings(svc).Language)
			return nil
		},
	}
}

func printSeriesDetail(cmd *cobra.Command, detail library.SeriesDetail, language string) {
	out := cmd.OutOrStdout()
	s := detail.Series

	fmt.Fprintf(out, "%s (%s)\n", s.Title, s.ID)
	fmt.Fprintf(out, "  Released:   %s\n", s.InitialRelease.String())
	if len(s.Rereleases) > 0 {
		dates := make([]string, len(s.Rereleases))
		for i, d := range s.Rereleases {
			dates[i] = d.String()
		}
		fmt.Fprintf(out, "  Rereleases: %s\n", strings.Join(dates, ", "))
	}
	if len(detail.Groups) > 0 {
		names := make([]string, len(detail.Groups))
		for i, g := range detail.Groups {
			names[i] = g.Name
		}
		fmt.Fprintf(out, "  Groups:     %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(out, "  Livers:     %s\n", liverNames(detail.Livers, language))
	fmt.Fprintf(out, "  Owned:      %d/%d\n", detail.PurchasedCount(), len(detail.Products))

	if len(detail.Products) == 0 {
		return
	}
	rows := make([][]string, 0, len(detail.Products))
	for _, p := range detail.Products {
		liver := p.Product.LiverID
		if p.Liver != nil {
			liver = p.Liver.DisplayName(language)
		}
		rows = append(rows, []string{
			p.Product.ID,
			p.Product.Title,
			liver,
			string(p.Product.Type),
			yesNo(p.Purchased),
			strings.Join(p.Tags, ", "),
			p.FileLink,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Product", "Title", "Liver", "Type", "Owned", "Tags", "File"},
		rows,
		nil,
	))
}

func newLiversCommand(ctx *commandContext) *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "livers [LIVER]",
		Short: "List livers, or the series of one liver",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.loadedService(cmd.Context())
			if err != nil {
				return err
			}
			language := ctx.settings(svc).Language

			if len(args) == 1 {
				liver, err := svc.ResolveLiver(args[0])
				if err != nil {
					return err
				}
				series, err := svc.LiverSeries(liver.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s / %s (%s, %s)\n", liver.PrimaryName(), liver.SecondaryName(), liver.ID, liver.Branch)
				printSeriesList(cmd, series)
				return nil
			}

			var filter domain.Branch
			if branch != "" {
				if filter, err = domain.ParseBranch(branch); err != nil {
					return err
				}
			}
			idx, err := svc.Index()
			if err != nil {
				return err
			}
			var rows [][]string
			for _, l := range idx.Livers() {
				if l == nil || (filter != "" && l.Branch != filter) {
					continue
				}
				rows = append(rows, []string{
					l.ID,
					l.DisplayName(language),
					l.SecondaryName(),
					string(l.Branch),
					strconv.Itoa(len(idx.LiverSeries(l.ID))),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "English", "Branch", "Series"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Only livers from this branch")
	return cmd
}

func newGroupsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "groups [GROUP]",
		Short: "List groups, or the series assigned to one group",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.loadedService(cmd.Context())
			if err != nil {
				return err
			}
			idx, err := svc.Index()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				group, err := svc.ResolveGroup(args[0])
				if err != nil {
					return err
				}
				series, err := svc.GroupSeries(group.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %s\n", group.Name, group.ID,
					liverNames(idx.GroupLivers(group.ID), ctx.settings(svc).Language))
				printSeriesList(cmd, series)
				return nil
			}

			var rows [][]string
			for _, g := range idx.Groups() {
				if g == nil {
					continue
				}
				rows = append(rows, []string{
					g.ID,
					g.Name,
					strconv.Itoa(len(g.LiverIDs)),
					strconv.Itoa(len(idx.GroupSeries(g.ID))),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Livers", "Series"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}
}

func newYearsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "Count series by initial release year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.loadedService(cmd.Context())
			if err != nil {
				return err
			}
			byYear, err := svc.SeriesByYear()
			if err != nil {
				return err
			}
			years, err := svc.AllYears()
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(years))
			for _, y := range years {
				rows = append(rows, []string{strconv.Itoa(y), strconv.Itoa(len(byYear[y]))})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Year", "Series"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}

func newBranchesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "branches",
		Short: "List the branches present in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.loadedService(cmd.Context())
			if err != nil {
				return err
			}
			branches, err := svc.AllBranches()
			if err != nil {
				return err
			}
			for _, b := range branches {
				fmt.Fprintln(cmd.OutOrStdout(), b)
			}
			return nil
		},
	}
}

func newReloadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Fetch the catalog again, bypassing every cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service()
			if err != nil {
				return err
			}
			if err := svc.ReloadData(cmd.Context()); err != nil {
				return err
			}
			idx, err := svc.Index()
			if err != nil {
				return err
			}
			livers, groups, series, products := idx.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d livers, %d groups, %d series, %d products\n",
				livers, groups, series, products)
			return nil
		},
	}
}

func printSeriesList(cmd *cobra.Command, series []*domain.Series) {
	if len(series) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No series")
		return
	}
	rows := make([][]string, 0, len(series))
	for _, s := range series {
		rows = append(rows, []string{s.ID, s.Title, s.InitialRelease.String()})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Title", "Released"}, rows, nil))
}

func liverNames(livers []*domain.Liver, language string) string {
	names := make([]string, 0, len(livers))
	for _, l := range livers {
		if l != nil {
			names = append(names, l.DisplayName(language))
		}
	}
	return strings.Join(names, ", ")
}
