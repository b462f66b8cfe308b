package watch

import "sync"

// Handle is the single-use cancellation token for one watched file.
// Cancellation is cooperative: an in-flight rebuild always runs to
// completion, after which the worker releases its filesystem watch and
// exits without starting another rebuild.
type Handle struct {
	cancel chan struct{}
	done   chan struct{}
	once   sync.Once
}

func newHandle() *Handle {
	return &Handle{
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Cancel requests a graceful stop. It is safe to call more than once.
func (h *Handle) Cancel() {
	h.once.Do(func() { close(h.cancel) })
}

// Done is closed once the worker has released its watch and exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}
