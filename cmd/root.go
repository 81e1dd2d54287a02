// ABOUTME: Root cobra command for the compliance-archiver CLI
// ABOUTME: Handles global flags, structured logging setup and config loading

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
	logger  *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "compliance-archiver",
	Short: "Incremental conversation backup for the compliance export API",
	Long: `compliance-archiver incrementally fetches conversation records from the
compliance export API, partitions them by user and date, and persists them
as JSON artifacts to object storage or the local filesystem.

Each run resumes from the watermark left by the previous run, so scheduled
invocations only fetch conversations updated since the last success.

Example usage:
  compliance-archiver run                          # incremental run with env config
  compliance-archiver run --config .env            # load settings from an env file
  compliance-archiver run --since-timestamp 1751414400
  compliance-archiver run --users user-123,user-456
  compliance-archiver run --backend minio`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "env file to load configuration from")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Version = version
}

func setupLogging() {
	level := slog.LevelInfo
	switch {
	case debug:
		level = slog.LevelDebug
	case os.Getenv("LOG_LEVEL") == "debug":
		level = slog.LevelDebug
	case os.Getenv("LOG_LEVEL") == "warn":
		level = slog.LevelWarn
	case os.Getenv("LOG_LEVEL") == "error":
		level = slog.LevelError
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
