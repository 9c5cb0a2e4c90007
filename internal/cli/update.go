package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"insales/catsync/internal/container"
	"insales/catsync/internal/domain"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var (
	updateQueue bool
	workerCount int
)

var updateCmd = &cobra.Command{
	Use:   "update <updates.json>",
	Short: "Send partial category updates",
	Long: `Send a JSON array of partial category updates. Only the fields present in an
update are changed. A failed update never stops the batch; failures are listed
at the end.

With --queue the updates are put on the update stream and sent by the workers.

Example file:
  [{"category_id": 42, "html_title": "Зимние сапоги", "meta_description": "..."}]`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		updates, err := readUpdates(args[0])
		if err != nil {
			return err
		}

		return withContainer(cmd, func(ctx context.Context, app *container.Container) error {
			w := cmd.OutOrStdout()
			if updateQueue {
				n, err := app.Service.EnqueueUpdates(ctx, updates, "cli")
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Queued %d of %d updates\n", n, len(updates))
				return nil
			}

			result := app.Service.BulkUpdate(ctx, updates)
			if jsonOutput {
				return printJSON(w, result)
			}
			printBatch(w, result)
			return nil
		})
	},
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Process queued category updates until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, app *container.Container) error {
			n := workerCount
			if n <= 0 {
				n = cfg.Redis.Workers
			}
			return app.Service.RunUpdateWorkers(ctx, n)
		})
	},
}

func readUpdates(path string) ([]domain.CategoryUpdate, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return decodeUpdates(r)
}

func decodeUpdates(r io.Reader) ([]domain.CategoryUpdate, error) {
	var updates []domain.CategoryUpdate
	if err := json.NewDecoder(r).Decode(&updates); err != nil {
		return nil, fmt.Errorf("failed to decode updates: %w", err)
	}
	for i, u := range updates {
		if u.CategoryID <= 0 {
			return nil, fmt.Errorf("update #%d has no category_id", i+1)
		}
	}
	return updates, nil
}

func init() {
	updateCmd.Flags().BoolVar(&updateQueue, "queue", false, "Queue the updates for the workers instead of sending them now")
	workerCmd.Flags().IntVar(&workerCount, "workers", 0, "Number of workers (default: redis.workers)")

	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(workerCmd)
}
