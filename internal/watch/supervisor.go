// Package watch rebuilds canister source files whenever they change. Each
// watched file gets its own worker goroutine owning a filesystem watch and
// a debounce timer; bursts of change events coalesce into a single rebuild.
package watch

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cankit/cankit/internal/metrics"
)

// ErrAlreadyWatched is returned when a second concurrent watch is requested
// for the same input file. fsnotify delivers directory events to every
// registered watcher, so duplicate watches would double-build for no gain.
var ErrAlreadyWatched = errors.New("file is already being watched")

// Options holds the watch loop timing knobs, explicit so tests can inject
// short windows.
type Options struct {
	// QuietWindow is how long the event channel must stay quiet after a
	// change before a rebuild is triggered (coalesces editor save bursts).
	QuietWindow time.Duration
	// PollInterval bounds the timed wait of the loop so cancellation is
	// observed promptly even with no filesystem activity.
	PollInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.QuietWindow <= 0 {
		o.QuietWindow = 300 * time.Millisecond
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 50 * time.Millisecond
	}
	return o
}

// Builder runs one build of a source file. *pipeline.Pipeline satisfies it.
type Builder interface {
	Run(inputPath, outputStem string) error
}

// Supervisor spawns and tracks per-file watch workers. Workers share no
// mutable state beyond the (read-only) builder and the recorder.
type Supervisor struct {
	builder  Builder
	opts     Options
	recorder metrics.Recorder

	mu      sync.Mutex
	watched map[string]struct{}
}

// NewSupervisor creates a supervisor running builds through builder.
func NewSupervisor(builder Builder, opts Options) *Supervisor {
	return &Supervisor{
		builder:  builder,
		opts:     opts.withDefaults(),
		recorder: metrics.NoopRecorder{},
		watched:  make(map[string]struct{}),
	}
}

// WithRecorder enables metrics collection.
func (s *Supervisor) WithRecorder(rec metrics.Recorder) *Supervisor {
	s.recorder = rec
	return s
}

// Watch registers a non-recursive filesystem watch for inputPath and starts
// a worker that builds it immediately and then on every coalesced change.
// Registration failures propagate; build failures afterwards are reported
// only through the notifier and never stop the loop.
func (s *Supervisor) Watch(inputPath, outputStem string, n Notifier) (*Handle, error) {
	if n == nil {
		n = LogNotifier{}
	}

	absInput, err := filepath.Abs(inputPath)
	if err != nil {
		return nil, fmt.Errorf("resolve input path: %w", err)
	}

	if err := s.register(absInput); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.forget(absInput)
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	// Watching the containing directory is more reliable than watching the
	// file directly; events are filtered to the file below.
	if err := watcher.Add(filepath.Dir(absInput)); err != nil {
		s.forget(absInput)
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", absInput, err)
	}

	handle := newHandle()
	go s.loop(watcher, handle, absInput, outputStem, n)
	return handle, nil
}

func (s *Supervisor) register(absInput string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.watched[absInput]; dup {
		return ErrAlreadyWatched
	}
	s.watched[absInput] = struct{}{}
	return nil
}

func (s *Supervisor) forget(absInput string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watched, absInput)
}

// loop is the per-file worker. Rebuilds of one file are strictly
// sequential; cancellation is polled between builds, never preemptively.
func (s *Supervisor) loop(watcher *fsnotify.Watcher, h *Handle, absInput, outputStem string, n Notifier) {
	defer close(h.done)
	defer s.forget(absInput)
	defer func() {
		if err := watcher.Close(); err != nil {
			n.OnError(fmt.Errorf("release watch on %s: %w", absInput, err))
		}
	}()

	// One unconditional build before any filesystem event is observed.
	s.buildAndNotify(absInput, outputStem, n)

	poll := time.NewTimer(s.opts.PollInterval)
	defer poll.Stop()

	for {
		poll.Reset(s.opts.PollInterval)
		select {
		case <-h.cancel:
			return
		case <-poll.C:
			// Wake to re-check cancellation.
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !s.relevant(event, absInput) {
				continue
			}
			extra, canceled := s.coalesce(watcher, h, absInput)
			s.recorder.IncCoalescedEvents(1 + extra)
			if canceled {
				return
			}
			s.buildAndNotify(absInput, outputStem, n)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", "path", absInput, "error", err)
		}
	}
}

// coalesce waits for the event channel to stay quiet for the configured
// window, counting the additional events collapsed into the next rebuild.
func (s *Supervisor) coalesce(watcher *fsnotify.Watcher, h *Handle, absInput string) (extra int, canceled bool) {
	quiet := time.NewTimer(s.opts.QuietWindow)
	defer quiet.Stop()

	for {
		select {
		case <-h.cancel:
			return extra, true
		case <-quiet.C:
			return extra, false
		case event, ok := <-watcher.Events:
			if !ok {
				return extra, false
			}
			if !s.relevant(event, absInput) {
				continue
			}
			extra++
			quiet.Reset(s.opts.QuietWindow)
		case err, ok := <-watcher.Errors:
			if !ok {
				return extra, false
			}
			slog.Warn("watcher error", "path", absInput, "error", err)
		}
	}
}

// relevant filters directory events down to mutations of the watched file.
func (s *Supervisor) relevant(event fsnotify.Event, absInput string) bool {
	if filepath.Base(event.Name) != filepath.Base(absInput) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (s *Supervisor) buildAndNotify(absInput, outputStem string, n Notifier) {
	n.OnStart(absInput)
	if err := s.builder.Run(absInput, outputStem); err != nil {
		n.OnError(err)
		return
	}
	n.OnDone(outputStem)
}
