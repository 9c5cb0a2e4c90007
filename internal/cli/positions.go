package cli

import (
	"context"
	"fmt"
	"io"

	"insales/catsync/internal/container"
	"insales/catsync/internal/domain"
	"insales/catsync/internal/service"

	"github.com/spf13/cobra"
)

var check domain.PositionCheck

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Track search rankings of category pages",
}

var positionsRecordCmd = &cobra.Command{
	Use:   "record <category-id>",
	Short: "Store a ranking check and show the change since the previous one",
	Long: `Store the Yandex and Google positions of a category page for a query.
A position of 0 means the page was not found.

Example:
  catsync positions record 9071017 --query "зимние сапоги" --yandex 7 --google 12`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		categoryID, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withContainer(cmd, func(ctx context.Context, app *container.Container) error {
			c := check
			c.CategoryID = categoryID
			if c.Title == "" {
				if category, err := app.Client.GetCategory(ctx, categoryID); err == nil {
					c.Title = category.Title
				}
			}

			saved, err := app.Service.RecordPositionCheck(ctx, c)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), saved)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: Yandex %d, Google %d (%s)\n", saved.Query, saved.Yandex, saved.Google, saved.Change)
			return nil
		})
	},
}

var positionsReportCmd = &cobra.Command{
	Use:   "report <category-id>",
	Short: "Show recent ranking checks and the trend of a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		categoryID, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withContainer(cmd, func(ctx context.Context, app *container.Container) error {
			report, err := app.Service.PositionReport(ctx, categoryID)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), report)
			}
			printPositionReport(cmd.OutOrStdout(), report)
			return nil
		})
	},
}

func printPositionReport(w io.Writer, r *service.PositionReport) {
	if r.Checks == 0 {
		fmt.Fprintln(w, "No position checks for this category")
		return
	}

	fmt.Fprintf(w, "Checks: %d\n\n", r.Checks)
	for i, c := range r.Recent {
		fmt.Fprintf(w, "%d. %s  %q\n", i+1, c.CheckedAt.Format("02.01.2006"), c.Query)
		fmt.Fprintf(w, "   Yandex: %d | Google: %d | %s\n", c.Yandex, c.Google, c.Change)
	}
	fmt.Fprintf(w, "\nYandex: %s\nGoogle: %s\n", r.Yandex, r.Google)

	if len(r.Changes) > 0 {
		fmt.Fprintln(w, "\nPage changes:")
		for _, ch := range r.Changes {
			fmt.Fprintf(w, "  %s  %v  %s\n", ch.ChangedAt.Format("02.01.2006 15:04"), ch.Fields, ch.Comment)
		}
	}
}

func init() {
	f := positionsRecordCmd.Flags()
	f.StringVar(&check.Query, "query", "", "Search query (required)")
	f.IntVar(&check.Yandex, "yandex", 0, "Yandex position, 0 if not found")
	f.IntVar(&check.Google, "google", 0, "Google position, 0 if not found")
	f.StringVar(&check.Title, "title", "", "Category title (default: fetched from the shop)")
	f.StringVar(&check.URL, "url", "", "Page URL that ranked")
	f.StringVar(&check.Comment, "comment", "", "Free text note")
	_ = positionsRecordCmd.MarkFlagRequired("query")

	positionsCmd.AddCommand(positionsRecordCmd)
	positionsCmd.AddCommand(positionsReportCmd)
	rootCmd.AddCommand(positionsCmd)
}
