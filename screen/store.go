package screen

import "sync"

// Store is the single state cell of a screen. Snapshots are replaced, never
// mutated: Update runs a reducer on the current value and publishes the result.
type Store[S any] struct {
	mu     sync.Mutex
	state  S
	subs   map[chan S]struct{}
	closed bool
}

// NewStore creates a store holding initial
func NewStore[S any](initial S) *Store[S] {
	return &Store[S]{
		state: initial,
		subs:  make(map[chan S]struct{}),
	}
}

// Get returns the current snapshot
func (s *Store[S]) Get() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update applies fn to the current snapshot, stores and publishes the result.
// Reducers run one at a time, so each one sees every earlier write.
func (s *Store[S]) Update(fn func(S) S) S {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = fn(s.state)
	if !s.closed {
		for ch := range s.subs {
			offerLatest(ch, s.state)
		}
	}
	return s.state
}

// Subscribe returns a channel that always holds the newest snapshot, starting
// with the current one. Slow readers skip intermediate snapshots. The returned
// func unsubscribes and closes the channel.
func (s *Store[S]) Subscribe() (<-chan S, func()) {
	ch := make(chan S, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	ch <- s.state
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
		})
	}
}

// Close closes every subscriber channel. The state stays readable.
func (s *Store[S]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
}

// offerLatest replaces a pending snapshot instead of blocking the writer.
// Only writers holding the store lock send, so the second send has room.
func offerLatest[S any](ch chan S, v S) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
