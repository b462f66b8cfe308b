package pipeline

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecRunner_CapturesStderrOnFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	err := ExecRunner{}.Run("/bin/sh", "-c", "echo syntax error >&2; exit 1")

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 1, exitErr.Code)
	require.Equal(t, "syntax error\n", exitErr.Stderr)
}

func TestExecRunner_Success(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	require.NoError(t, ExecRunner{}.Run("/bin/sh", "-c", "echo ok; exit 0"))
}

func TestExecRunner_MissingBinary(t *testing.T) {
	err := ExecRunner{}.Run("/nonexistent/bin/asc")
	require.Error(t, err)

	var exitErr *ExitError
	require.NotErrorAs(t, err, &exitErr, "spawn failures are not exit errors")
}
