// Package pipeline composes the three external compiler invocations that
// turn one canister source file into a wasm binary, an interface
// description, and JavaScript bindings.
package pipeline

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cankit/cankit/internal/metrics"
	"github.com/cankit/cankit/internal/toolchain"
)

// Pipeline builds one source file per Run call. It is read-only after
// construction and safe to share across watch workers.
type Pipeline struct {
	resolver *toolchain.Resolver
	version  toolchain.Version
	runner   Runner
	recorder metrics.Recorder
}

// New creates a pipeline resolving binaries for the given toolchain version.
func New(resolver *toolchain.Resolver, v toolchain.Version) *Pipeline {
	return &Pipeline{
		resolver: resolver,
		version:  v,
		runner:   ExecRunner{},
		recorder: metrics.NoopRecorder{},
	}
}

// WithRunner substitutes the process runner (tests).
func (p *Pipeline) WithRunner(r Runner) *Pipeline {
	p.runner = r
	return p
}

// WithRecorder enables metrics collection.
func (p *Pipeline) WithRecorder(rec metrics.Recorder) *Pipeline {
	p.recorder = rec
	return p
}

// Run builds inputPath, deriving the three artifact paths from outputStem.
// The steps execute strictly in order; the first failure aborts the rest.
// Every call re-executes all steps unconditionally.
func (p *Pipeline) Run(inputPath, outputStem string) error {
	buildStart := time.Now()
	err := p.run(inputPath, outputStem)
	p.recorder.ObserveBuildDuration(time.Since(buildStart))
	if err != nil {
		p.recorder.IncBuildOutcome("failed")
		return err
	}
	p.recorder.IncBuildOutcome("success")
	return nil
}

func (p *Pipeline) run(inputPath, outputStem string) error {
	outDir := filepath.Dir(outputStem)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return &PreconditionError{Dir: outDir, Err: err}
	}

	compilerBin, err := p.resolver.Resolve(p.version, toolchain.BinCompiler)
	if err != nil {
		return err
	}
	bindgenBin, err := p.resolver.Resolve(p.version, toolchain.BinBindgen)
	if err != nil {
		return err
	}

	out := ArtifactsFor(outputStem)
	steps := []struct {
		stage Stage
		exec  func() error
	}{
		{StageCompile, func() error {
			return NewCompilerCommand(compilerBin).Input(inputPath).Output(out.Binary).Exec(p.runner)
		}},
		{StageInterface, func() error {
			return NewCompilerCommand(compilerBin).IDL().Input(inputPath).Output(out.Interface).Exec(p.runner)
		}},
		{StageBindings, func() error {
			return NewBindgenCommand(bindgenBin).JS().Input(out.Interface).Output(out.Bindings).Exec(p.runner)
		}},
	}

	for _, step := range steps {
		if err := p.runStep(step.stage, step.exec); err != nil {
			return err
		}
	}

	slog.Debug("build completed", "input", inputPath, "output", outputStem)
	return nil
}

func (p *Pipeline) runStep(stage Stage, exec func() error) error {
	start := time.Now()
	err := exec()
	p.recorder.ObserveStageDuration(string(stage), time.Since(start))
	if err != nil {
		p.recorder.IncStageResult(string(stage), metrics.ResultFailed)
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return &StepError{Stage: stage, Stderr: exitErr.Stderr}
		}
		return err
	}
	p.recorder.IncStageResult(string(stage), metrics.ResultSuccess)
	return nil
}
