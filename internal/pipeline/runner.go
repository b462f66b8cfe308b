package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
)

// Runner executes one external binary invocation synchronously. Tests
// substitute a fake to assert on the exact command sequence.
type Runner interface {
	Run(bin string, args ...string) error
}

// ExecRunner runs commands via os/exec, capturing standard error in full.
// Standard output is not inspected; exit status alone decides success.
type ExecRunner struct{}

func (ExecRunner) Run(bin string, args ...string) error {
	cmd := exec.Command(bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Code: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return fmt.Errorf("start %s: %w", bin, err)
	}
	return nil
}
