package state

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/librisys/library-client/internal/api/metrics"
	"github.com/librisys/library-client/internal/core/domain"
	"github.com/librisys/library-client/internal/core/ports"
)

// BorrowView is the read-only snapshot of the borrow slice.
type BorrowView struct {
	Mine   []domain.BorrowRecord
	All    []domain.BorrowRecord
	Status RequestStatus
}

// BorrowSlice caches borrow records: the session user's own, and (for
// admins) everyone's. Record and Return deliberately do not touch the
// collections: the backend owns quantity and record mutations, and the
// caller resyncs with a follow-up fetch. Store.RecordBorrow/ReturnBorrow
// bundle both steps.
type BorrowSlice struct {
	lifecycle
	backend ports.Backend
	log     zerolog.Logger
	notify  func()

	mine []domain.BorrowRecord
	all  []domain.BorrowRecord
}

// FetchMine replaces the session user's borrow records.
func (s *BorrowSlice) FetchMine(ctx context.Context) error {
	gen := s.begin()
	records, err := s.backend.MyBorrowedBooks(ctx)
	if err != nil {
		s.settleErr(gen, "fetch my borrows", err)
		return err
	}
	if s.succeed(gen, "", func() {
		s.mine = records
	}) {
		s.notify()
	}
	return nil
}

// FetchAll replaces the full borrow ledger (admin view).
func (s *BorrowSlice) FetchAll(ctx context.Context) error {
	gen := s.begin()
	records, err := s.backend.AllBorrowedBooks(ctx)
	if err != nil {
		s.settleErr(gen, "fetch all borrows", err)
		return err
	}
	if s.succeed(gen, "", func() {
		s.all = records
	}) {
		s.notify()
	}
	return nil
}

// Record lends the book to the borrower identified by email. Success stores
// the backend's message only; see the type comment for the resync contract.
func (s *BorrowSlice) Record(ctx context.Context, bookID, email string) error {
	if bookID == "" || email == "" {
		err := errors.New("book id and borrower email are required")
		s.reject(err.Error())
		s.notify()
		return err
	}
	gen := s.begin()
	msg, err := s.backend.RecordBorrow(ctx, bookID, email)
	if err != nil {
		s.settleErr(gen, "record borrow", err)
		return err
	}
	if s.succeed(gen, msg, nil) {
		s.notify()
	}
	return nil
}

// Return closes the active borrow of the book for the given borrower.
// Message-only, like Record.
func (s *BorrowSlice) Return(ctx context.Context, bookID, email string) error {
	if bookID == "" || email == "" {
		err := errors.New("book id and borrower email are required")
		s.reject(err.Error())
		s.notify()
		return err
	}
	gen := s.begin()
	msg, err := s.backend.ReturnBorrow(ctx, bookID, email)
	if err != nil {
		s.settleErr(gen, "return borrow", err)
		return err
	}
	if s.succeed(gen, msg, nil) {
		s.notify()
	}
	return nil
}

// Reset clears error and message.
func (s *BorrowSlice) Reset() {
	s.reset()
	s.notify()
}

// Snapshot returns a consistent copy of the borrow state.
func (s *BorrowSlice) Snapshot() BorrowView {
	var v BorrowView
	s.view(func() {
		v.Mine = append([]domain.BorrowRecord(nil), s.mine...)
		v.All = append([]domain.BorrowRecord(nil), s.all...)
		v.Status = s.status
	})
	return v
}

func (s *BorrowSlice) settleErr(gen uint64, intent string, err error) {
	if s.fail(gen, err.Error()) {
		s.log.Debug().Err(err).Str("intent", intent).Msg("borrow intent failed")
		s.notify()
	} else {
		metrics.StaleCompletionsTotal.WithLabelValues("borrow").Inc()
		s.log.Debug().Str("intent", intent).Msg("stale borrow completion discarded")
	}
}
