package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/cchalm/pr-commenter/internal/actions"
	"github.com/cchalm/pr-commenter/internal/ghclient"
	"github.com/cchalm/pr-commenter/internal/runner"
	"github.com/cchalm/pr-commenter/internal/telemetry"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Post the greeting comment for the triggering event",
	Long: `Reads the GitHub Actions environment, posts a greeting comment to the
pull request that triggered the workflow, and reports the created comment's id
as the 'comment-id' step output. On non-PR events the step is marked failed
with a fixed message.`,
	RunE: runAction,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// errStepFailed signals a failure already reported through the Actions
// failure channel; the caller only needs the non-zero exit code
var errStepFailed = fmt.Errorf("step failed")

func runAction(_ *cobra.Command, _ []string) error {
	ctx := setupContext()

	environ, err := actions.LoadEnvironment()
	if err != nil {
		return err
	}
	core := actions.NewCore(environ, logger)

	telem, err := telemetry.NewProvider(ctx, version)
	if err != nil {
		// Tracing is best-effort; a misconfigured exporter must not block the
		// comment
		logger.Warn("failed to set up telemetry, continuing without it", "error", err)
		telem = nil
	}
	defer func() {
		if telem == nil {
			return
		}
		if err := telem.Shutdown(context.Background()); err != nil {
			logger.Warn("failed to shut down telemetry", "error", err)
		}
	}()

	actx, err := actions.LoadContext(environ)
	if err != nil {
		logger.Error("action failed", "error", err)
		core.SetFailed(err.Error())
		return errStepFailed
	}

	runLogger := logger
	if telem != nil {
		runLogger = logger.With("run_id", telem.RunID())
		var span trace.Span
		ctx, span = telem.StartRun(ctx, actx.Owner, actx.Repo, actx.EventName)
		defer span.End()
	}

	r := runner.New(core, ghclient.NewCommentService(runLogger), runLogger)
	r.Run(ctx, actx)

	if core.Failed() {
		return errStepFailed
	}
	return nil
}

func setupContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	// Setup graceful shutdown
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		logger.Info("interrupt signal detected, shutting down gracefully...")
		cancel()
		<-interrupt
		logger.Error("forcing shutdown")
		os.Exit(1)
	}()

	return ctx
}
