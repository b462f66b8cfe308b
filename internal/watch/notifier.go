package watch

import "log/slog"

// Notifier receives build lifecycle callbacks. All methods are invoked
// synchronously on the worker goroutine of the watched file; a slow
// implementation stalls that file's rebuild loop. Implementations sharing
// state across watched files must synchronize it themselves.
type Notifier interface {
	OnStart(path string)
	OnDone(outputStem string)
	OnError(err error)
}

// LogNotifier reports build lifecycle events through slog. It is the
// default when a caller passes a nil Notifier.
type LogNotifier struct{}

func (LogNotifier) OnStart(path string) {
	slog.Info("rebuilding", "path", path)
}

func (LogNotifier) OnDone(outputStem string) {
	slog.Info("build done", "output", outputStem)
}

func (LogNotifier) OnError(err error) {
	slog.Error("build failed", "error", err)
}

// MultiNotifier fans callbacks out to several notifiers in order.
type MultiNotifier []Notifier

func (m MultiNotifier) OnStart(path string) {
	for _, n := range m {
		n.OnStart(path)
	}
}

func (m MultiNotifier) OnDone(outputStem string) {
	for _, n := range m {
		n.OnDone(outputStem)
	}
}

func (m MultiNotifier) OnError(err error) {
	for _, n := range m {
		n.OnError(err)
	}
}
