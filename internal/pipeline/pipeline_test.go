package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cankit/cankit/internal/toolchain"
)

// fakeRunner records every invocation and fails the configured stages.
type fakeRunner struct {
	calls  []string
	failOn map[string]string // substring of the command line -> stderr
}

func (f *fakeRunner) Run(bin string, args ...string) error {
	line := strings.Join(append([]string{filepath.Base(bin)}, args...), " ")
	f.calls = append(f.calls, line)
	for match, stderr := range f.failOn {
		if strings.Contains(line, match) {
			return &ExitError{Code: 1, Stderr: stderr}
		}
	}
	return nil
}

func newTestPipeline(t *testing.T, runner Runner) (*Pipeline, string) {
	t.Helper()
	cache := t.TempDir()
	dir := filepath.Join(cache, "0.5.0")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, bin := range toolchain.KnownBinaries {
		require.NoError(t, os.WriteFile(filepath.Join(dir, bin), []byte("#!/bin/sh\n"), 0o755))
	}
	resolver := toolchain.NewResolver(cache)
	return New(resolver, "0.5.0").WithRunner(runner), t.TempDir()
}

func TestRun_InvokesThreeCommandsInOrder(t *testing.T) {
	runner := &fakeRunner{}
	p, out := newTestPipeline(t, runner)
	stem := filepath.Join(out, "build", "main")

	require.NoError(t, p.Run("main.src", stem))

	require.Equal(t, []string{
		"asc main.src -o " + stem + ".wasm",
		"asc --idl main.src -o " + stem + ".did",
		"didc --js " + stem + ".did -o " + stem + ".js",
	}, runner.calls)
}

func TestRun_SecondStepFailureSkipsThird(t *testing.T) {
	runner := &fakeRunner{failOn: map[string]string{"--idl": "type error"}}
	p, out := newTestPipeline(t, runner)

	err := p.Run("main.src", filepath.Join(out, "main"))

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, StageInterface, stepErr.Stage)
	require.Equal(t, "type error", stepErr.Stderr)
	require.Len(t, runner.calls, 2, "bindings step must not run after interface failure")
}

func TestRun_FirstStepFailureSkipsRest(t *testing.T) {
	runner := &fakeRunner{failOn: map[string]string{"main.src": "syntax error"}}
	p, out := newTestPipeline(t, runner)

	err := p.Run("main.src", filepath.Join(out, "main"))

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, StageCompile, stepErr.Stage)
	require.Equal(t, "syntax error", stepErr.Stderr)
	require.Len(t, runner.calls, 1)
}

func TestRun_OutputDirCreationIdempotent(t *testing.T) {
	runner := &fakeRunner{}
	p, out := newTestPipeline(t, runner)
	stem := filepath.Join(out, "build", "nested", "main")

	require.NoError(t, p.Run("main.src", stem))
	require.NoError(t, p.Run("main.src", stem))
	require.Len(t, runner.calls, 6, "every run re-executes all three steps")
}

func TestRun_PreconditionFailureBeforeAnySpawn(t *testing.T) {
	runner := &fakeRunner{}
	p, out := newTestPipeline(t, runner)

	// A file where the output directory should be forces MkdirAll to fail.
	blocker := filepath.Join(out, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := p.Run("main.src", filepath.Join(blocker, "main"))

	var precond *PreconditionError
	require.ErrorAs(t, err, &precond)
	require.Empty(t, runner.calls, "no compiler may run when the output dir cannot be created")
}

func TestRun_UnresolvedToolchainPropagates(t *testing.T) {
	resolver := toolchain.NewResolver(t.TempDir())
	runner := &fakeRunner{}
	p := New(resolver, "9.9.9").WithRunner(runner)

	err := p.Run("main.src", filepath.Join(t.TempDir(), "main"))

	var notInstalled *toolchain.NotInstalledError
	require.ErrorAs(t, err, &notInstalled)
	require.Empty(t, runner.calls)
}

func TestArtifactsFor(t *testing.T) {
	a := ArtifactsFor("build/main")
	require.Equal(t, "build/main.wasm", a.Binary)
	require.Equal(t, "build/main.did", a.Interface)
	require.Equal(t, "build/main.js", a.Bindings)
}

func TestCommandArgs(t *testing.T) {
	c := NewCompilerCommand("asc").Input("in.src").Output("out.wasm")
	require.Equal(t, []string{"in.src", "-o", "out.wasm"}, c.Args())

	c = NewCompilerCommand("asc").IDL().Input("in.src").Output("out.did")
	require.Equal(t, []string{"--idl", "in.src", "-o", "out.did"}, c.Args())

	b := NewBindgenCommand("didc").JS().Input("out.did").Output("out.js")
	require.Equal(t, []string{"--js", "out.did", "-o", "out.js"}, b.Args())
}
