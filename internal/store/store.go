// Package store holds one state container per domain. Each store wraps the
// API client, keeps a local cache of server state, and exposes actions that
// never propagate transport errors: every action records a readable message
// and returns a tagged result instead.
package store

import "sync"

// Result is what every store action resolves to. Error is a human-readable
// message, set only when Success is false.
type Result struct {
	Success bool
	Error   string
}

func ok() Result {
	return Result{Success: true}
}

func fail(msg string) Result {
	return Result{Success: false, Error: msg}
}

// state is the loading/error bookkeeping embedded in every store.
type state struct {
	mu      sync.Mutex
	loading bool
	lastErr string
}

func (s *state) begin() {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *state) finish(errMsg string) {
	s.mu.Lock()
	s.loading = false
	s.lastErr = errMsg
	s.mu.Unlock()
}

func (s *state) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *state) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
