// Package runner contains the action's dispatch procedure: inspect the
// triggering event, post the greeting comment, report the result.
package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v72/github"

	"github.com/cchalm/pr-commenter/internal/actions"
	"github.com/cchalm/pr-commenter/internal/comment"
	"github.com/cchalm/pr-commenter/internal/ghclient"
)

const notPullRequestMessage = "This action only runs on pull requests"

// Runner executes a single action invocation. Its collaborators are injected
// so it can run against stubs in tests and against the real Actions
// environment in production
type Runner struct {
	core      actions.Core
	newClient ghclient.Factory
	logger    *slog.Logger
}

// New creates a Runner
func New(core actions.Core, newClient ghclient.Factory, logger *slog.Logger) *Runner {
	return &Runner{
		core:      core,
		newClient: newClient,
		logger:    logger,
	}
}

// Run performs one invocation. It never returns an error and never panics:
// every failure is contained here and reported through the Core's failure
// channel, so the caller always observes normal completion
func (r *Runner) Run(ctx context.Context, actx actions.Context) {
	defer func() {
		if v := recover(); v != nil {
			msg := normalizeRecovered(v)
			r.logger.Error("action failed", "error", msg)
			r.core.SetFailed(msg)
		}
	}()

	if err := r.run(ctx, actx); err != nil {
		r.logger.Error("action failed", "error", err)
		r.core.SetFailed(err.Error())
	}
}

func (r *Runner) run(ctx context.Context, actx actions.Context) error {
	token, err := r.core.GetInput("github-token")
	if err != nil {
		return err
	}

	pr := actx.Payload.PullRequest
	if pr == nil {
		// Expected for non-PR triggers. Mark the step failed and complete
		// normally; nothing further to do
		r.logger.Info("event has no pull request record, skipping", "event", actx.EventName)
		r.core.SetFailed(notPullRequestMessage)
		return nil
	}

	r.core.Debug("formatting comment for PR #%d by @%s", pr.Number, pr.User.Login)
	body := comment.Build(pr.Number, pr.User.Login, pr.Title)

	client := r.newClient(ctx, token)
	created, _, err := client.CreateComment(ctx, actx.Owner, actx.Repo, pr.Number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	id := created.GetID()
	r.logger.Info("created comment",
		"comment_id", id,
		"pr", pr.Number,
		"repo", actx.Owner+"/"+actx.Repo)

	return r.core.SetOutput("comment-id", id)
}

// normalizeRecovered turns an arbitrary recovered value into a message
// string: errors contribute their message, strings pass through verbatim,
// anything else gets default formatting
func normalizeRecovered(v any) string {
	switch v := v.(type) {
	case error:
		return v.Error()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
