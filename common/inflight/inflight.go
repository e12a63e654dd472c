// Package inflight guards against duplicate in-flight actions (double
// submits from fast repeated clicks or keypresses). A key identifies an
// action; while it runs, further attempts with the same key fail fast.
package inflight

import (
	"errors"
	"sync"
)

// ErrInFlight is returned when the same action key is already running
var ErrInFlight = errors.New("action already in progress")

// Guard tracks running action keys
type Guard struct {
	mu      sync.Mutex
	running map[string]struct{}
}

// NewGuard creates an empty guard
func NewGuard() *Guard {
	return &Guard{running: make(map[string]struct{})}
}

// Do runs fn unless key is already in flight. The key is released when fn
// returns, whatever its outcome.
func (g *Guard) Do(key string, fn func() error) error {
	g.mu.Lock()
	if _, busy := g.running[key]; busy {
		g.mu.Unlock()
		return ErrInFlight
	}
	g.running[key] = struct{}{}
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.running, key)
		g.mu.Unlock()
	}()

	return fn()
}

// Busy reports whether key is currently in flight
func (g *Guard) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.running[key]
	return busy
}
