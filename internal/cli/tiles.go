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

var (
	tilesCategory     string
	tilesOut          string
	tilesFromKeywords bool
)

var tilesCmd = &cobra.Command{
	Use:   "tiles",
	Short: "Manage the tag tile blocks of a category",
}

var tilesPublishCmd = &cobra.Command{
	Use:   "publish <sheet.csv>",
	Short: "Merge the tag tables of a sheet and send both blocks to the category",
	Long: `Read the upper and lower tag tables of a category sheet, keep the published
tags that are still checked, append the new tags and send the resulting HTML
blocks to the category's link fields. The sheet is written back with the new
blocks in place.

With --keywords the new tags are taken from the checked rows of the keyword
table instead of the right half of the tile tables.

Examples:
  catsync tiles publish sheet.csv --category 9071017
  catsync tiles publish sheet.csv --category 9071017 --keywords
  catsync tiles publish sheet.csv --category 9071017 --out merged.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		categoryID, err := parseID(tilesCategory)
		if err != nil {
			return err
		}
		return withContainer(cmd, func(ctx context.Context, app *container.Container) error {
			opts := service.PublishOptions{FromKeywords: tilesFromKeywords}
			report, err := app.Service.PublishTiles(ctx, sheetAt(args[0], tilesOut), categoryID, opts)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(w, report)
			}
			printTags(w, "Upper", report.Upper.Tags)
			printTags(w, "Lower", report.Lower.Tags)
			anomalies := append(report.Upper.Anomalies, report.Lower.Anomalies...)
			printAnomalies(w, append(anomalies, report.Skipped...))
			return nil
		})
	},
}

var tilesShowCmd = &cobra.Command{
	Use:   "show <category-id>",
	Short: "Show the tag blocks currently published on a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		categoryID, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withContainer(cmd, func(ctx context.Context, app *container.Container) error {
			upper, lower, err := app.Service.PublishedTiles(ctx, categoryID)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(w, map[string][]domain.AnchorTag{"upper": upper, "lower": lower})
			}
			printTags(w, "Upper", upper)
			printTags(w, "Lower", lower)
			return nil
		})
	},
}

func printTags(w io.Writer, title string, tags []domain.AnchorTag) {
	fmt.Fprintf(w, "%s (%d):\n", title, len(tags))
	for _, tag := range tags {
		fmt.Fprintf(w, "  %-40s %s\n", tag.Text, tag.URL)
	}
}

func init() {
	tilesPublishCmd.Flags().StringVar(&tilesCategory, "category", "", "Category id (required)")
	tilesPublishCmd.Flags().StringVar(&tilesOut, "out", "", "Where to write the updated sheet (default: overwrite input)")
	tilesPublishCmd.Flags().BoolVar(&tilesFromKeywords, "keywords", false, "Take the new tags from the keyword table")
	_ = tilesPublishCmd.MarkFlagRequired("category")

	tilesCmd.AddCommand(tilesPublishCmd)
	tilesCmd.AddCommand(tilesShowCmd)
	rootCmd.AddCommand(tilesCmd)
}
