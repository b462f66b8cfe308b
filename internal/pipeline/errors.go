package pipeline

import "fmt"

// PreconditionError reports a failure to prepare the build output
// directory. It is raised before any compiler process is spawned.
type PreconditionError struct {
	Dir string
	Err error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot create output directory %s: %v", e.Dir, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// StepError reports a single external compiler invocation that exited
// non-zero. Stderr carries the tool's diagnostic output verbatim.
type StepError struct {
	Stage  Stage
	Stderr string
}

func (e *StepError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("stage %s failed", e.Stage)
	}
	return fmt.Sprintf("stage %s failed: %s", e.Stage, e.Stderr)
}

// ExitError reports a child process that exited non-zero, carrying its
// captured standard error. Runner implementations return it so the
// pipeline can attribute the diagnostic to a stage.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d: %s", e.Code, e.Stderr)
}
