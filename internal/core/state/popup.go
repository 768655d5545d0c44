package state

import (
	"sync"

	"github.com/librisys/library-client/internal/core/domain"
)

// PopupKind identifies which modal is visible.
type PopupKind int

const (
	PopupNone PopupKind = iota
	PopupReadBook
	PopupRecordBorrow
	PopupReturnBorrow
	PopupAddBook
	PopupAddAdmin
	PopupSettings
)

func (k PopupKind) String() string {
	switch k {
	case PopupNone:
		return "none"
	case PopupReadBook:
		return "read-book"
	case PopupRecordBorrow:
		return "record-borrow"
	case PopupReturnBorrow:
		return "return-borrow"
	case PopupAddBook:
		return "add-book"
	case PopupAddAdmin:
		return "add-admin"
	case PopupSettings:
		return "settings"
	}
	return "unknown"
}

// PopupCoordinator is the single source of truth for modal visibility.
// Visibility is one exclusive tagged state, not a set of flags: showing any
// popup implicitly closes whichever was open, so at most one is ever
// visible. Book-targeted popups carry the target entity; the others clear it.
type PopupCoordinator struct {
	mu     sync.Mutex
	kind   PopupKind
	target *domain.Book
	notify func()
}

// ShowReadBook opens the reader modal for the given book.
func (p *PopupCoordinator) ShowReadBook(b domain.Book) { p.show(PopupReadBook, &b) }

// ShowRecordBorrow opens the record-borrow modal for the given book.
func (p *PopupCoordinator) ShowRecordBorrow(b domain.Book) { p.show(PopupRecordBorrow, &b) }

// ShowReturnBorrow opens the return modal for the given book.
func (p *PopupCoordinator) ShowReturnBorrow(b domain.Book) { p.show(PopupReturnBorrow, &b) }

// ShowAddBook opens the add-book form.
func (p *PopupCoordinator) ShowAddBook() { p.show(PopupAddBook, nil) }

// ShowAddAdmin opens the add-admin form.
func (p *PopupCoordinator) ShowAddAdmin() { p.show(PopupAddAdmin, nil) }

// ShowSettings opens the settings modal.
func (p *PopupCoordinator) ShowSettings() { p.show(PopupSettings, nil) }

// Close dismisses whatever is open and clears the target.
func (p *PopupCoordinator) Close() { p.show(PopupNone, nil) }

// Visible returns the open popup and its target book, if any.
func (p *PopupCoordinator) Visible() (PopupKind, *domain.Book) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.target == nil {
		return p.kind, nil
	}
	b := *p.target
	return p.kind, &b
}

func (p *PopupCoordinator) show(kind PopupKind, target *domain.Book) {
	p.mu.Lock()
	p.kind = kind
	p.target = target
	p.mu.Unlock()
	if p.notify != nil {
		p.notify()
	}
}
