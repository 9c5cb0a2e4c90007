package cli

import (
	"context"
	"fmt"
	"io"

	"insales/catsync/internal/container"
	"insales/catsync/internal/service"

	"github.com/spf13/cobra"
)

var (
	keywordsCategory string
	keywordsOut      string
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Check the keyword table of a sheet and create categories for it",
}

var keywordsCheckCmd = &cobra.Command{
	Use:   "check <sheet.csv>",
	Short: "Check the category of every keyword row and write its status",
	Long: `Check the category cell of every row of the keyword table. Ids are looked up
in the catalog, links are accepted as they are and empty cells are marked for
creation. The status column of the sheet is updated.

Examples:
  catsync keywords check sheet.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, app *container.Container) error {
			report, err := app.Service.ValidateKeywords(ctx, sheetAt(args[0], keywordsOut))
			if err != nil {
				return err
			}
			return printKeywords(cmd.OutOrStdout(), report)
		})
	},
}

var keywordsCreateCmd = &cobra.Command{
	Use:   "create <sheet.csv>",
	Short: "Create categories for keyword rows that have none",
	Long: `Create a visible category for every keyword row without a category or marked
for creation. The category is titled by the anchor text, or the keyword, and
placed under the row's parent id or the sheet's category.

Examples:
  catsync keywords create sheet.csv --category 9071017`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent, err := parseID(keywordsCategory)
		if err != nil {
			return err
		}

		return withContainer(cmd, func(ctx context.Context, app *container.Container) error {
			report, err := app.Service.CreateKeywordCategories(ctx, sheetAt(args[0], keywordsOut), parent)
			if err != nil {
				return err
			}
			return printKeywords(cmd.OutOrStdout(), report)
		})
	},
}

func printKeywords(w io.Writer, r *service.KeywordReport) error {
	if jsonOutput {
		return printJSON(w, r)
	}
	fmt.Fprintf(w, "Keywords: %d, existing: %d, to create: %d, created: %d, failed: %d\n",
		r.Checked, r.Existing, r.ToCreate, r.Created, r.Failed)
	for _, row := range r.Rows {
		fmt.Fprintf(w, "  %3d  %-30s %-10s %-20s %s\n", row.Row, row.Keyword, row.TileType, row.Category, row.Status)
	}
	return nil
}

func init() {
	keywordsCmd.PersistentFlags().StringVar(&keywordsOut, "out", "", "Where to write the updated sheet (default: overwrite input)")
	keywordsCreateCmd.Flags().StringVar(&keywordsCategory, "category", "", "Category of the sheet, parent of the new categories (required)")
	_ = keywordsCreateCmd.MarkFlagRequired("category")

	keywordsCmd.AddCommand(keywordsCheckCmd)
	keywordsCmd.AddCommand(keywordsCreateCmd)
	rootCmd.AddCommand(keywordsCmd)
}
