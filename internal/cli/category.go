package cli

import (
	"context"
	"fmt"
	"strings"

	"insales/catsync/internal/container"
	"insales/catsync/internal/hierarchy"

	"github.com/spf13/cobra"
)

var parentID string

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Create categories and inspect their place in the tree",
}

var categoryCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a visible category",
	Long: `Create a visible category with a transliterated handle.

Examples:
  catsync category create "Зимние сапоги" --parent 9071017`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var parent *int64
		if parentID != "" {
			id, err := parseID(parentID)
			if err != nil {
				return err
			}
			parent = &id
		}

		return withContainer(cmd, func(ctx context.Context, app *container.Container) error {
			category, err := app.Service.CreateCategory(ctx, args[0], parent)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), category)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t/collection/%s\n", category.ID, category.URL)
			return nil
		})
	},
}

var categoryPathCmd = &cobra.Command{
	Use:   "path <category-id>",
	Short: "Print the path from the top level down to a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withContainer(cmd, func(ctx context.Context, app *container.Container) error {
			path, err := app.Service.CategoryPath(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(path, hierarchy.PathSeparator))
			return nil
		})
	},
}

func init() {
	categoryCreateCmd.Flags().StringVar(&parentID, "parent", "", "Parent category id (default: top level)")

	categoryCmd.AddCommand(categoryCreateCmd)
	categoryCmd.AddCommand(categoryPathCmd)
	rootCmd.AddCommand(categoryCmd)
}
