package history

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/cankit/cankit/internal/pipeline"
)

// Recorder writes build lifecycle events to a Store. It satisfies the
// watch notifier contract so it can be fanned out alongside the console
// notifier. Builds for one watched file are strictly sequential, so each
// worker gets its own Recorder; the mutex only guards against the one-shot
// path sharing an instance.
type Recorder struct {
	store   Store
	trigger string

	mu        sync.Mutex
	currentID string
}

// NewRecorder creates a recorder tagging events with the given trigger
// ("oneshot" or "watch").
func NewRecorder(store Store, trigger string) *Recorder {
	return &Recorder{store: store, trigger: trigger}
}

// OnStart records the start of a build under a fresh build ID.
func (r *Recorder) OnStart(path string) {
	r.mu.Lock()
	r.currentID = uuid.NewString()
	id := r.currentID
	r.mu.Unlock()

	payload, err := json.Marshal(StartedPayload{Input: path, Trigger: r.trigger})
	if err != nil {
		slog.Warn("history: marshal started payload", "error", err)
		return
	}
	r.append(id, EventBuildStarted, payload)
}

// OnDone records a successful build outcome.
func (r *Recorder) OnDone(outputStem string) {
	payload, err := json.Marshal(map[string]string{"output_stem": outputStem})
	if err != nil {
		slog.Warn("history: marshal succeeded payload", "error", err)
		return
	}
	r.append(r.buildID(), EventBuildSucceeded, payload)
}

// OnError records a failed build outcome with its stage when known.
func (r *Recorder) OnError(buildErr error) {
	p := FailedPayload{Diagnostic: buildErr.Error()}
	var stepErr *pipeline.StepError
	if errors.As(buildErr, &stepErr) {
		p.Stage = string(stepErr.Stage)
		p.Diagnostic = stepErr.Stderr
	}
	payload, err := json.Marshal(p)
	if err != nil {
		slog.Warn("history: marshal failed payload", "error", err)
		return
	}
	r.append(r.buildID(), EventBuildFailed, payload)
}

func (r *Recorder) buildID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.currentID == "" {
		r.currentID = uuid.NewString()
	}
	return r.currentID
}

func (r *Recorder) append(buildID, eventType string, payload []byte) {
	if err := r.store.Append(context.Background(), buildID, eventType, payload, map[string]string{"trigger": r.trigger}); err != nil {
		slog.Warn("history: append event", "type", eventType, "error", err)
	}
}
