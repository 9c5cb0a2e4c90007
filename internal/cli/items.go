package cli

import (
	"context"
	"fmt"

	"insales/catsync/internal/container"
	"insales/catsync/internal/service"

	"github.com/spf13/cobra"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Add products to a category or remove them",
}

func membershipCommand(use, short string, run func(s *service.Service, ctx context.Context, categoryID int64, itemIDs []int64) *service.MembershipResult) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <category-id> <item-id>...",
		Short: short,
		Long: short + `.

Item ids may be given as separate arguments or comma separated.

Example:
  catsync items ` + use + ` 9071017 101,102 103`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			categoryID, err := parseID(args[0])
			if err != nil {
				return err
			}
			itemIDs, err := parseIDs(args[1:])
			if err != nil {
				return err
			}

			return withContainer(cmd, func(ctx context.Context, app *container.Container) error {
				result := run(app.Service, ctx, categoryID, itemIDs)
				w := cmd.OutOrStdout()
				if jsonOutput {
					return printJSON(w, result)
				}
				printBatch(w, result.BatchResult)
				fmt.Fprintf(w, "Unchanged: %d\n", result.Unchanged)
				return nil
			})
		},
	}
}

func init() {
	itemsCmd.AddCommand(membershipCommand("add", "Add products to a category", (*service.Service).AddItems))
	itemsCmd.AddCommand(membershipCommand("remove", "Remove products from a category", (*service.Service).RemoveItems))
	rootCmd.AddCommand(itemsCmd)
}
