package cli

import (
	"context"
	"fmt"

	"insales/catsync/internal/container"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rebuild the flattened category hierarchy with product counts",
	Long: `Load every category and product, rebuild the category tree, count the
products of each category and store the flattened rows.

Records with a missing parent, a self reference or a parent cycle are placed
at the top level and listed as anomalies.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, app *container.Container) error {
			report, err := app.Service.SyncHierarchy(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(w, report)
			}

			for _, row := range report.Rows {
				fmt.Fprintf(w, "%-8d %-50s %5d %5d\n", row.ID, row.IndentedTitle(), row.ProductsCount, row.InStockCount)
			}
			fmt.Fprintf(w, "\n%d categories, %d top level, %d products\n", report.Categories, report.Roots, report.Items)
			printAnomalies(w, report.Anomalies)
			return nil
		})
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sync the hierarchy and keep processing queued updates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, app *container.Container) error {
			return app.Run(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(runCmd)
}
