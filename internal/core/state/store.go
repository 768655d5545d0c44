// Package state holds the client's centralized store: one slice per domain
// concern, each following the same pending→succeeded|failed request
// lifecycle, plus the popup coordinator.
//
// The store is built once at startup and passed explicitly to every
// consumer. There is no package-level instance.
package state

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/librisys/library-client/internal/core/ports"
)

// Store aggregates the domain slices. All mutation goes through slice
// intents; all reads go through slice snapshots. Subscribers registered with
// Subscribe are invoked after every applied mutation.
type Store struct {
	Auth   *AuthSlice
	Books  *BooksSlice
	Users  *UsersSlice
	Borrow *BorrowSlice
	Popups *PopupCoordinator

	subMu sync.Mutex
	subs  []func()
}

// New wires a store against the given backend.
func New(backend ports.Backend, log zerolog.Logger) *Store {
	s := &Store{}
	v := validator.New()
	s.Auth = &AuthSlice{backend: backend, validate: v, log: log.With().Str("slice", "auth").Logger(), notify: s.changed}
	s.Books = &BooksSlice{backend: backend, validate: v, log: log.With().Str("slice", "books").Logger(), notify: s.changed}
	s.Users = &UsersSlice{backend: backend, validate: v, log: log.With().Str("slice", "users").Logger(), notify: s.changed}
	s.Borrow = &BorrowSlice{backend: backend, log: log.With().Str("slice", "borrow").Logger(), notify: s.changed}
	s.Popups = &PopupCoordinator{notify: s.changed}
	return s
}

// Subscribe registers fn to run after every applied mutation. Subscribers
// must not dispatch intents synchronously from the callback.
func (s *Store) Subscribe(fn func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) changed() {
	s.subMu.Lock()
	subs := append([]func(){}, s.subs...)
	s.subMu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// RecordBorrow lends a book and resynchronizes the catalog and the borrow
// ledger in one step, so callers never observe the stale quantity the
// write-only intent would leave behind. The returned message is the write's
// backend message, captured before the resync fetches clear it.
func (s *Store) RecordBorrow(ctx context.Context, bookID, email string) (string, error) {
	if err := s.Borrow.Record(ctx, bookID, email); err != nil {
		return "", err
	}
	msg := s.Borrow.Snapshot().Status.Message
	return msg, s.resync(ctx)
}

// ReturnBorrow closes a borrow and resynchronizes, like RecordBorrow.
func (s *Store) ReturnBorrow(ctx context.Context, bookID, email string) (string, error) {
	if err := s.Borrow.Return(ctx, bookID, email); err != nil {
		return "", err
	}
	msg := s.Borrow.Snapshot().Status.Message
	return msg, s.resync(ctx)
}

// resync refetches the collections a borrow write invalidates. The write
// has already succeeded, so fetch failures are joined rather than aborting
// at the first one.
func (s *Store) resync(ctx context.Context) error {
	return errors.Join(
		s.Books.FetchAll(ctx),
		s.Borrow.FetchAll(ctx),
	)
}
