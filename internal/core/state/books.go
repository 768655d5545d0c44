package state

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/librisys/library-client/internal/api/metrics"
	"github.com/librisys/library-client/internal/core/domain"
	"github.com/librisys/library-client/internal/core/ports"
)

// BooksView is the read-only snapshot of the catalog slice.
type BooksView struct {
	Books  []domain.Book
	Status RequestStatus
}

// BooksSlice owns the catalog cache. Fetch replaces wholesale, Add appends
// in arrival order, Delete filters by id.
type BooksSlice struct {
	lifecycle
	backend  ports.Backend
	validate *validator.Validate
	log      zerolog.Logger
	notify   func()

	books []domain.Book
}

// FetchAll replaces the cached catalog with the backend's current list.
func (s *BooksSlice) FetchAll(ctx context.Context) error {
	gen := s.begin()
	books, err := s.backend.ListBooks(ctx)
	if err != nil {
		s.settleErr(gen, "fetch books", err)
		return err
	}
	if s.succeed(gen, "", func() {
		s.books = books
	}) {
		s.notify()
	}
	return nil
}

// Add creates a catalog entry and appends the created book.
func (s *BooksSlice) Add(ctx context.Context, in ports.BookInput) error {
	if err := checkInput(s.validate, in); err != nil {
		s.reject(err.Error())
		s.notify()
		return err
	}
	gen := s.begin()
	book, err := s.backend.AddBook(ctx, in)
	if err != nil {
		s.settleErr(gen, "add book", err)
		return err
	}
	if s.succeed(gen, "Book added successfully", func() {
		s.books = append(s.books, book)
	}) {
		s.notify()
	}
	return nil
}

// Delete removes the book with the given id from the backend and from the
// cache. Filtering an id that is not cached is a silent no-op.
func (s *BooksSlice) Delete(ctx context.Context, id string) error {
	gen := s.begin()
	msg, err := s.backend.DeleteBook(ctx, id)
	if err != nil {
		s.settleErr(gen, "delete book", err)
		return err
	}
	if msg == "" {
		msg = "Book deleted successfully"
	}
	if s.succeed(gen, msg, func() {
		kept := s.books[:0]
		for _, b := range s.books {
			if b.ID != id {
				kept = append(kept, b)
			}
		}
		s.books = kept
	}) {
		s.notify()
	}
	return nil
}

// Reset clears error and message.
func (s *BooksSlice) Reset() {
	s.reset()
	s.notify()
}

// Snapshot returns a consistent copy of the catalog state.
func (s *BooksSlice) Snapshot() BooksView {
	var v BooksView
	s.view(func() {
		v.Books = append([]domain.Book(nil), s.books...)
		v.Status = s.status
	})
	return v
}

func (s *BooksSlice) settleErr(gen uint64, intent string, err error) {
	if s.fail(gen, err.Error()) {
		s.log.Debug().Err(err).Str("intent", intent).Msg("book intent failed")
		s.notify()
	} else {
		metrics.StaleCompletionsTotal.WithLabelValues("books").Inc()
		s.log.Debug().Str("intent", intent).Msg("stale book completion discarded")
	}
}
