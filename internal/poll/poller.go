// Package poll provides a cancellable fixed-interval polling task. It exists
// so status polls cannot leak a live ticker after the consumer walks away:
// the ticker stops on a terminal check result, on context cancel, and on an
// explicit Stop, whichever comes first.
package poll

import (
	"context"
	"sync"
	"time"
)

// CheckFunc is invoked once per tick. Returning done=true ends the poll;
// returning an error also ends it and surfaces through Handle.Err.
type CheckFunc func(ctx context.Context) (done bool, err error)

type Poller struct {
	Interval time.Duration
}

func New(interval time.Duration) *Poller {
	return &Poller{Interval: interval}
}

// Handle controls one running poll.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}

	once sync.Once

	mu  sync.Mutex
	err error
}

// Start begins polling and returns immediately. The first check runs after
// one interval, not at once.
func (p *Poller) Start(ctx context.Context, check CheckFunc) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		defer cancel()

		ticker := time.NewTicker(p.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				h.setErr(ctx.Err())
				return
			case <-ticker.C:
				done, err := check(ctx)
				if err != nil {
					h.setErr(err)
					return
				}
				if done {
					return
				}
			}
		}
	}()
	return h
}

func (h *Handle) setErr(err error) {
	h.mu.Lock()
	h.err = err
	h.mu.Unlock()
}

// Stop cancels the poll. Safe to call more than once and after completion.
func (h *Handle) Stop() {
	h.once.Do(h.cancel)
}

// Wait blocks until the poll has fully ended.
func (h *Handle) Wait() {
	<-h.done
}

// Done is closed when the poll has ended for any reason.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err reports why the poll ended: nil on a terminal check result, the check
// error, or the context error on cancellation.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}
