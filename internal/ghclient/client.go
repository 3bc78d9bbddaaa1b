// Package ghclient constructs authenticated GitHub API clients.
package ghclient

import (
	"context"
	"log/slog"

	"github.com/google/go-github/v72/github"
	"golang.org/x/oauth2"

	"github.com/cchalm/pr-commenter/internal/transport"
)

// CommentService is the slice of the GitHub API this action calls. PR
// comments are issue comments in the GitHub data model, so the issue comment
// endpoint is the right one for a top-level PR comment.
// Satisfied by *github.IssuesService.
type CommentService interface {
	CreateComment(ctx context.Context, owner string, repo string, number int, comment *github.IssueComment) (*github.IssueComment, *github.Response, error)
}

// Factory builds a CommentService from an access token. The token is passed
// through unvalidated; an empty or bad token fails at call time, surfaced by
// the API
type Factory func(ctx context.Context, token string) CommentService

// New creates a GitHub client authenticated with the given token
func New(ctx context.Context, token string, logger *slog.Logger) *github.Client {
	tokenSource := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	httpClient := oauth2.NewClient(ctx, tokenSource)
	httpClient.Transport = transport.WithRetryAfter(httpClient.Transport, logger)
	return github.NewClient(httpClient)
}

// NewCommentService returns a Factory bound to the given logger
func NewCommentService(logger *slog.Logger) Factory {
	return func(ctx context.Context, token string) CommentService {
		return New(ctx, token, logger).Issues
	}
}
