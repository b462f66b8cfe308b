package history

import (
	"bytes"
	"testing"
	"time"
)

func TestStoreAppendAndRetrieve(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := t.Context()
	buildID := "build-123"
	payload := []byte(`{"input": "main.src"}`)
	metadata := map[string]string{"trigger": "watch"}

	err = store.Append(ctx, buildID, EventBuildStarted, payload, metadata)
	if err != nil {
		t.Fatalf("failed to append event: %v", err)
	}

	events, err := store.GetByBuildID(ctx, buildID)
	if err != nil {
		t.Fatalf("failed to get events: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.BuildID != buildID {
		t.Errorf("expected build_id %s, got %s", buildID, event.BuildID)
	}
	if event.Type != EventBuildStarted {
		t.Errorf("expected event_type %s, got %s", EventBuildStarted, event.Type)
	}
	if !bytes.Equal(event.Payload, payload) {
		t.Errorf("expected payload %s, got %s", payload, event.Payload)
	}
	if event.Metadata["trigger"] != "watch" {
		t.Errorf("expected metadata trigger=watch, got %v", event.Metadata)
	}
}

func TestStoreGetRange(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := t.Context()
	now := time.Now()

	for range 3 {
		if appendErr := store.Append(ctx, "build-1", EventBuildStarted, []byte("{}"), nil); appendErr != nil {
			t.Fatalf("failed to append event: %v", appendErr)
		}
	}

	events, err := store.GetRange(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("failed to get range: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	// A window in the past must exclude them.
	events, err = store.GetRange(ctx, now.Add(-2*time.Hour), now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("failed to get range: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected 0 events, got %d", len(events))
	}
}
