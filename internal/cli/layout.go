package cli

import (
	"context"
	"path/filepath"
	"strings"

	"insales/catsync/internal/container"
	"insales/catsync/internal/layout"

	"github.com/spf13/cobra"
)

var (
	sheetName    string
	productCount int
)

var layoutCmd = &cobra.Command{
	Use:   "layout <sheet.csv>",
	Short: "Locate the sections of an exported category sheet",
	Long: `Find the start row of every section of a category detail sheet exported
as CSV: keywords, upper and lower tag tiles, statistics and products.

Sections found by their header text are reported as scanned, the others are
placed at their usual distance from the section above.

Examples:
  catsync layout sheet.csv
  catsync layout sheet.csv --products 40 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, app *container.Container) error {
			sections, err := app.Service.Layout(ctx, sheetAt(args[0], ""))
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), sections)
			}
			printSections(cmd.OutOrStdout(), sections, productCount)
			return nil
		})
	},
}

// sheetFor names the lease of a sheet file: the --sheet flag or the file name.
func sheetFor(path string) string {
	if sheetName != "" {
		return sheetName
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// sheetAt opens a sheet file, saved back to out or to path itself.
func sheetAt(path, out string) layout.Sheet {
	return layout.NewFileSheet(sheetFor(path), path, out)
}

func init() {
	layoutCmd.Flags().IntVar(&productCount, "products", 0, "Number of product rows, to locate the extra fields block")
	rootCmd.PersistentFlags().StringVar(&sheetName, "sheet", "", "Sheet name used for the layout lease (default: file name)")
	rootCmd.AddCommand(layoutCmd)
}
