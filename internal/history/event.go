package history

import "time"

// Event types recorded for every build lifecycle.
const (
	EventBuildStarted   = "BuildStarted"
	EventBuildSucceeded = "BuildSucceeded"
	EventBuildFailed    = "BuildFailed"
)

// Event is one recorded build lifecycle event.
type Event struct {
	ID        int64
	BuildID   string
	Type      string
	Timestamp time.Time
	Payload   []byte
	Metadata  map[string]string
}

// StartedPayload is the JSON payload of a BuildStarted event.
type StartedPayload struct {
	Input      string `json:"input"`
	OutputStem string `json:"output_stem,omitempty"`
	Trigger    string `json:"trigger"` // "oneshot" or "watch"
}

// FailedPayload is the JSON payload of a BuildFailed event.
type FailedPayload struct {
	Stage      string `json:"stage,omitempty"`
	Diagnostic string `json:"diagnostic"`
}
