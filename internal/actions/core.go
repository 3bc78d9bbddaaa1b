// Package actions implements the GitHub Actions runtime surface: action
// inputs, step outputs, workflow commands, and the triggering event context.
package actions

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Core is the interface between action logic and the workflow runner. It
// covers reading inputs and reporting outputs, failures, and diagnostics.
// Implementations must not terminate the process; failure is a latched signal
// that the caller maps to an exit code.
type Core interface {
	GetInput(name string) (string, error)
	SetOutput(name string, value any) error
	SetFailed(message string)
	Debug(format string, args ...any)
}

// EnvCore implements Core against the real Actions environment: inputs come
// from INPUT_* environment variables and outputs are appended to the file
// named by GITHUB_OUTPUT.
type EnvCore struct {
	outputPath string
	stdout     io.Writer
	logger     *slog.Logger
	failed     bool
}

// NewCore creates a Core backed by the Actions environment described by env
func NewCore(environ Environment, logger *slog.Logger) *EnvCore {
	return &EnvCore{
		outputPath: environ.OutputPath,
		stdout:     os.Stdout,
		logger:     logger,
	}
}

// GetInput reads an action input. The runner exposes the input named
// "github-token" as the environment variable INPUT_GITHUB_TOKEN; an input
// that is not present at all is a misconfiguration and returns an error. A
// present-but-empty value is returned as-is; validating input contents is the
// consumer's concern, not this layer's.
func (c *EnvCore) GetInput(name string) (string, error) {
	key := "INPUT_" + strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(name))
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", fmt.Errorf("input required and not supplied: %s", name)
	}
	return value, nil
}

// SetOutput reports a named step output by appending to the GITHUB_OUTPUT
// file. Multiline values use the runner's heredoc syntax with a random
// delimiter
func (c *EnvCore) SetOutput(name string, value any) error {
	if c.outputPath == "" {
		return fmt.Errorf("cannot set output '%s': GITHUB_OUTPUT is not set", name)
	}

	f, err := os.OpenFile(c.outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	str := fmt.Sprintf("%v", value)
	if strings.ContainsAny(str, "\r\n") {
		delimiter := "ghadelimiter_" + uuid.NewString()
		_, err = fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", name, delimiter, str, delimiter)
	} else {
		_, err = fmt.Fprintf(f, "%s=%s\n", name, str)
	}
	if err != nil {
		return fmt.Errorf("failed to write output '%s': %w", name, err)
	}
	return nil
}

// SetFailed marks the step as failed with the given message. It emits an
// error workflow command and latches the failure; it does not exit
func (c *EnvCore) SetFailed(message string) {
	fmt.Fprintf(c.stdout, "::error::%s\n", escapeData(message))
	c.failed = true
}

// Debug emits a debug workflow command, visible when the workflow runs with
// debug logging enabled
func (c *EnvCore) Debug(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(c.stdout, "::debug::%s\n", escapeData(msg))
	c.logger.Debug(msg)
}

// Failed reports whether SetFailed has been called during this invocation
func (c *EnvCore) Failed() bool {
	return c.failed
}

// escapeData escapes a workflow command payload per the runner's command
// protocol. Unescaped CR/LF would let a message smuggle in extra commands
func escapeData(s string) string {
	r := strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	return r.Replace(s)
}
