package actions

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Environment holds the GITHUB_* variables the runner provisions for every
// step
type Environment struct {
	// Repository is the qualified repo name in the format 'owner/repo'
	Repository string `env:"GITHUB_REPOSITORY"`
	// EventName is the name of the triggering event, e.g. 'pull_request'
	EventName string `env:"GITHUB_EVENT_NAME"`
	// EventPath is the path of the JSON file holding the event payload
	EventPath string `env:"GITHUB_EVENT_PATH"`
	// OutputPath is the path of the file step outputs are appended to
	OutputPath string `env:"GITHUB_OUTPUT"`
	// RunnerDebug is "1" when the workflow runs with debug logging enabled
	RunnerDebug string `env:"RUNNER_DEBUG"`
}

// LoadEnvironment reads the Actions runtime environment
func LoadEnvironment() (Environment, error) {
	var environ Environment
	if err := env.Parse(&environ); err != nil {
		return Environment{}, fmt.Errorf("failed to parse runner environment: %w", err)
	}
	return environ, nil
}

// User identifies the account that opened a pull request
type User struct {
	Login string `json:"login"`
}

// PullRequest is the slice of the pull_request payload record this action
// reads
type PullRequest struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	User   User   `json:"user"`
}

// Payload is the triggering event payload. PullRequest is nil when the
// triggering event is not a pull request event; that is a valid state, not an
// error
type Payload struct {
	PullRequest *PullRequest `json:"pull_request"`
}

// Context carries the repository coordinates and event payload of the
// triggering workflow run. It is read-only after construction
type Context struct {
	Owner     string
	Repo      string
	EventName string
	Payload   Payload
}

// LoadContext builds a Context from the runner environment, parsing the
// qualified repository name and the event payload file
func LoadContext(environ Environment) (Context, error) {
	parts := strings.Split(environ.Repository, "/")
	if len(parts) != 2 {
		return Context{}, fmt.Errorf("failed to parse owner and repo from qualified repo name '%s'", environ.Repository)
	}

	actx := Context{
		Owner:     parts[0],
		Repo:      parts[1],
		EventName: environ.EventName,
	}

	// Some triggers (e.g. manual dispatch of a bare workflow) have no payload
	// file; treat that the same as a payload with no pull_request record
	if environ.EventPath == "" {
		return actx, nil
	}

	raw, err := os.ReadFile(environ.EventPath)
	if err != nil {
		return Context{}, fmt.Errorf("failed to read event payload: %w", err)
	}
	if err := json.Unmarshal(raw, &actx.Payload); err != nil {
		return Context{}, fmt.Errorf("failed to parse event payload: %w", err)
	}

	return actx, nil
}
