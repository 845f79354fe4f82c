// Package screen holds the machinery shared by the per-screen controllers:
// the state cell, the task scope and the rule that folds a NetworkResult
// into a view state. Each screen lives in its own subpackage.
package screen

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/pagao/pagao/connectivity"
	"github.com/pagao/pagao/result"
)

// MsgNoConnection is shown when the device is offline
const MsgNoConnection = "No internet connection"

// Status is the part every view state shares. Embed it in the state struct.
type Status struct {
	Error     string
	IsLoading bool
}

func (s *Status) statusRef() *Status { return s }

// Stateful is implemented by pointers to view states embedding Status
type Stateful[S any] interface {
	*S
	statusRef() *Status
}

// Deps are the collaborators every controller needs
type Deps struct {
	// Context is the parent of the screen scope, Background when nil
	Context context.Context
	// Online defaults to always online
	Online connectivity.Checker
	Logger *log.Logger
}

// Base implements the parts of a controller that do not depend on the screen
type Base[S any, P Stateful[S]] struct {
	name   string
	store  *Store[S]
	scope  *Scope
	online connectivity.Checker
	logger *log.Logger
}

// NewBase builds the shared controller state for screen name
func NewBase[S any, P Stateful[S]](name string, initial S, deps Deps) Base[S, P] {
	online := deps.Online
	if online == nil {
		online = connectivity.Static(true)
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return Base[S, P]{
		name:   name,
		store:  NewStore(initial),
		scope:  NewScope(deps.Context),
		online: online,
		logger: logger.With("screen", name),
	}
}

// State returns the current view state
func (b *Base[S, P]) State() S {
	return b.store.Get()
}

// Subscribe streams view states, see Store.Subscribe
func (b *Base[S, P]) Subscribe() (<-chan S, func()) {
	return b.store.Subscribe()
}

// Wait blocks until every task started by the controller has finished
func (b *Base[S, P]) Wait() {
	b.scope.Wait()
}

// Done is closed once the screen is closed
func (b *Base[S, P]) Done() <-chan struct{} {
	return b.scope.Context().Done()
}

// Close tears the screen down: running calls are cancelled and subscribers
// are released.
func (b *Base[S, P]) Close() {
	b.scope.Close()
	b.store.Close()
}

// Logger returns the screen logger
func (b *Base[S, P]) Logger() *log.Logger {
	return b.logger
}

// Update replaces the state with fn applied to it
func (b *Base[S, P]) Update(fn func(S) S) S {
	return b.store.Update(fn)
}

// ClearError acknowledges the displayed error
func (b *Base[S, P]) ClearError() {
	b.store.Update(func(s S) S {
		return withStatus[S, P](s, func(st *Status) { st.Error = "" })
	})
}

// Fail records a locally detected error without touching the loading flag
func (b *Base[S, P]) Fail(message string) {
	b.logger.Debug("Validation failed", "error", message)
	b.store.Update(func(s S) S {
		return withStatus[S, P](s, func(st *Status) { st.Error = message })
	})
}

// Launch runs fn as a task of the screen scope
func (b *Base[S, P]) Launch(task string, fn func(ctx context.Context)) {
	if !b.scope.Go(fn) {
		b.logger.Debug("Screen closed, task dropped", "task", task)
	}
}

func withStatus[S any, P Stateful[S]](s S, fn func(*Status)) S {
	fn(P(&s).statusRef())
	return s
}

// apply folds one emission into the state. The connectivity check comes first
// and wins: offline, the emission is not looked at. It reports whether the
// emission was interpreted.
func apply[S any, P Stateful[S], T any](ctx context.Context, b *Base[S, P], r result.NetworkResult[T], merge func(S, T) S) bool {
	if ctx.Err() != nil {
		return false
	}
	if !b.online.Online(ctx) {
		b.store.Update(func(s S) S {
			return withStatus[S, P](s, func(st *Status) {
				st.IsLoading = false
				st.Error = MsgNoConnection
			})
		})
		return false
	}

	b.store.Update(func(s S) S {
		return result.Fold(r, result.Handlers[T, S]{
			Loading: func() S {
				return withStatus[S, P](s, func(st *Status) { st.IsLoading = true })
			},
			Success: func(data T) S {
				if merge != nil {
					s = merge(s, data)
				}
				return withStatus[S, P](s, func(st *Status) { st.IsLoading = false })
			},
			SuccessNoData: func() S {
				return withStatus[S, P](s, func(st *Status) { st.IsLoading = false })
			},
			Error: func(message string) S {
				return withStatus[S, P](s, func(st *Status) {
					st.IsLoading = false
					st.Error = message
				})
			},
		})
	})
	return true
}

// Fetch runs one remote operation through the folding rule: Loading first,
// then the operation's result. merge receives the payload of a Success.
// The returned Result is nil when the operation never ran.
func Fetch[S any, P Stateful[S], T any](ctx context.Context, b *Base[S, P], op func(context.Context) result.NetworkResult[T], merge func(S, T) S) result.NetworkResult[T] {
	if !apply(ctx, b, result.NewLoading[T](), merge) {
		return nil
	}
	r := op(ctx)
	if msg, ok := result.ErrorMessage(r); ok {
		b.logger.Debug("Remote call failed", "error", msg)
	}
	if !apply(ctx, b, r, merge) {
		return nil
	}
	return r
}

// Data returns the payload of a Success result
func Data[T any](r result.NetworkResult[T]) (T, bool) {
	if s, ok := r.(result.Success[T]); ok {
		return s.Data, true
	}
	var zero T
	return zero, false
}
