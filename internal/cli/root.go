// Package cli wires the service operations to cobra commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"insales/catsync/internal/config"
	"insales/catsync/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Global flags
var (
	configFile string
	logLevel   string
	jsonOutput bool
)

// cfg is loaded once before any command runs
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "catsync",
	Short: "InSales category hierarchy sync and sheet layout tool",
	Long: `catsync keeps the InSales category tree, the category detail sheets and the
tag tile blocks of every category in sync.

Environment Variables:
  INSALES_API_KEY, INSALES_PASSWORD   admin API credentials
  OPENAI_API_KEY                      text generation key
  DATABASE_HOST, REDIS_HOST, ...      any config key with "." replaced by "_"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded

		level := cfg.Log.Level
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		log.SetLevel(parsed)
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
		return nil
	},
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
}

// withContainer builds the dependencies for one command and closes them afterwards.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, app *container.Container) error) error {
	ctx := cmd.Context()
	app, err := container.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer app.Close()

	return fn(ctx, app)
}
