package main

import (
	"errors"
	"fmt"

	"github.com/cankit/cankit/internal/pipeline"
)

// consoleNotifier prints watch-mode build progress for one canister.
// Each watch worker gets its own instance; fmt's stdout writes are safe to
// interleave across workers.
type consoleNotifier struct {
	canister string
}

func (c *consoleNotifier) OnStart(path string) {
	fmt.Printf("Rebuilding %s (%s)...\n", c.canister, path)
}

func (c *consoleNotifier) OnDone(outputStem string) {
	fmt.Printf("Done: %s\n", outputStem)
}

func (c *consoleNotifier) OnError(err error) {
	var stepErr *pipeline.StepError
	if errors.As(err, &stepErr) {
		fmt.Printf("Error in %s (stage %s):\n%s\n", c.canister, stepErr.Stage, stepErr.Stderr)
		return
	}
	fmt.Printf("Error in %s: %v\n", c.canister, err)
}
