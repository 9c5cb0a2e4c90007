package cli

import (
	"context"
	"fmt"

	"insales/catsync/internal/container"

	"github.com/spf13/cobra"
)

var (
	describeInstructions string
	describeApply        bool
)

var describeCmd = &cobra.Command{
	Use:   "describe <category-id>",
	Short: "Generate a category description",
	Long: `Generate an HTML description for a category with the configured assistant,
or with a plain completion when no assistant id is set.

With --apply the description is sent to the category.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		categoryID, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withContainer(cmd, func(ctx context.Context, app *container.Container) error {
			text, err := app.Service.GenerateDescription(ctx, categoryID, describeInstructions, describeApply)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		})
	},
}

func init() {
	describeCmd.Flags().StringVar(&describeInstructions, "instructions", "", "Extra instructions appended to the request")
	describeCmd.Flags().BoolVar(&describeApply, "apply", false, "Send the description to the category")
	rootCmd.AddCommand(describeCmd)
}
