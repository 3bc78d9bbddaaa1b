package cmd

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cchalm/pr-commenter/internal/logging"
)

var logger *slog.Logger

var rootCmd = &cobra.Command{
	Use:   "pr-commenter",
	Short: "GitHub Action that greets new pull requests",
	Long: `PR Commenter is a GitHub Action that posts a greeting comment when a
pull request event triggers a workflow, and reports the created comment's id
as the step output 'comment-id'.`,
	SilenceUsage:     true,
	PersistentPreRun: setup,
}

func Execute() error {
	return rootCmd.Execute()
}

func setup(_ *cobra.Command, _ []string) {
	// Load .env file for local runs; the real runner provides everything via
	// the environment
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	level := logging.ParseLevel(os.Getenv("LOG_LEVEL"))
	if os.Getenv("RUNNER_DEBUG") == "1" {
		level = slog.LevelDebug
	}
	logger = logging.New(os.Stderr, level)
}
