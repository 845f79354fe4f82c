package screen

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Scope ties background tasks to the lifetime of a screen. Closing the scope
// cancels every task's context and waits for them to return.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	// not errgroup.WithContext: its context ends at the first Wait, and a
	// screen keeps accepting tasks after every Wait
	group errgroup.Group

	// guards the closed check against Close so no task starts after it
	mu sync.Mutex
}

// NewScope creates a scope derived from parent
func NewScope(parent context.Context) *Scope {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Context returns the scope context
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Go runs fn in a new task. It is a no-op once the scope is closed.
// Tasks may start further tasks.
func (s *Scope) Go(fn func(ctx context.Context)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return false
	}
	s.group.Go(func() error {
		fn(s.ctx)
		return nil
	})
	return true
}

// Wait blocks until every started task has returned
func (s *Scope) Wait() {
	_ = s.group.Wait()
}

// Close cancels outstanding tasks and waits for them
func (s *Scope) Close() {
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()
	s.Wait()
}
