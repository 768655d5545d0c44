package domain

import "time"

// BorrowRecord tracks one lending of one book to one borrower.
// A record is active while ReturnDate is nil.
type BorrowRecord struct {
	ID         string     `json:"id"`
	BookID     string     `json:"book"`
	BookTitle  string     `json:"bookTitle,omitempty"`
	Borrower   string     `json:"borrower"`
	BorrowedAt time.Time  `json:"createdAt,omitzero"`
	DueDate    time.Time  `json:"dueDate,omitzero"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
}

// Active reports whether the book is still out.
func (r BorrowRecord) Active() bool {
	return r.ReturnDate == nil
}

// Overdue reports whether the record is active and past its due date at now.
// Records without a due date are never overdue.
func (r BorrowRecord) Overdue(now time.Time) bool {
	return r.Active() && !r.DueDate.IsZero() && r.DueDate.Before(now)
}
