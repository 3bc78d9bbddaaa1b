package actions

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCore(t *testing.T, outputPath string) (*EnvCore, *bytes.Buffer) {
	t.Helper()
	core := NewCore(Environment{OutputPath: outputPath}, discardLogger())
	buf := &bytes.Buffer{}
	core.stdout = buf
	return core, buf
}

func TestGetInput_MapsNameToEnvVar(t *testing.T) {
	t.Setenv("INPUT_GITHUB_TOKEN", "tok-123")

	core, _ := newTestCore(t, "")
	value, err := core.GetInput("github-token")
	require.NoError(t, err)
	require.Equal(t, "tok-123", value)
}

func TestGetInput_EmptyValueIsNotAnError(t *testing.T) {
	t.Setenv("INPUT_GITHUB_TOKEN", "")

	core, _ := newTestCore(t, "")
	value, err := core.GetInput("github-token")
	require.NoError(t, err)
	require.Equal(t, "", value)
}

func TestGetInput_MissingInputFails(t *testing.T) {
	core, _ := newTestCore(t, "")
	_, err := core.GetInput("definitely-not-provided")
	require.Error(t, err)
	require.Contains(t, err.Error(), "definitely-not-provided")
}

func TestSetOutput_AppendsNameValueLine(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "output")

	core, _ := newTestCore(t, outputPath)
	require.NoError(t, core.SetOutput("comment-id", int64(123)))

	contents, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	require.Equal(t, "comment-id=123\n", string(contents))
}

func TestSetOutput_MultilineValueUsesHeredoc(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "output")

	core, _ := newTestCore(t, outputPath)
	require.NoError(t, core.SetOutput("body", "line one\nline two"))

	contents, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	require.Contains(t, string(contents), "body<<ghadelimiter_")
	require.Contains(t, string(contents), "line one\nline two\n")
}

func TestSetOutput_FailsWithoutOutputFile(t *testing.T) {
	core, _ := newTestCore(t, "")
	err := core.SetOutput("comment-id", 123)
	require.Error(t, err)
	require.Contains(t, err.Error(), "GITHUB_OUTPUT")
}

func TestSetFailed_EmitsErrorCommandAndLatches(t *testing.T) {
	core, buf := newTestCore(t, "")
	require.False(t, core.Failed())

	core.SetFailed("something broke")
	require.Equal(t, "::error::something broke\n", buf.String())
	require.True(t, core.Failed())
}

func TestSetFailed_EscapesCommandPayload(t *testing.T) {
	core, buf := newTestCore(t, "")

	core.SetFailed("bad\nthings %happened%\r")
	require.Equal(t, "::error::bad%0Athings %25happened%25%0D\n", buf.String())
}

func TestDebug_EmitsDebugCommand(t *testing.T) {
	core, buf := newTestCore(t, "")

	core.Debug("formatting comment for PR #%d", 42)
	require.Equal(t, "::debug::formatting comment for PR #42\n", buf.String())
}
