package tui

import (
	"context"
	"sync"
)

// RequestState tracks cancel functions of in-flight insertions. Requests
// are independent; finishing one never cancels another.
type RequestState struct {
	mu      sync.Mutex
	cancels map[uint64]context.CancelFunc
}

// NewRequestState creates an empty tracker
func NewRequestState() *RequestState {
	return &RequestState{cancels: make(map[uint64]context.CancelFunc)}
}

// Start records the cancel function of request seq
func (r *RequestState) Start(seq uint64, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancels[seq] = cancel
}

// Done releases the context of a finished request
func (r *RequestState) Done(seq uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cancel, ok := r.cancels[seq]; ok {
		cancel()
		delete(r.cancels, seq)
	}
}

// Pending returns how many requests have not finished
func (r *RequestState) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cancels)
}

// CancelAll aborts every in-flight request
func (r *RequestState) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for seq, cancel := range r.cancels {
		cancel()
		delete(r.cancels, seq)
	}
}
