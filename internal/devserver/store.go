package devserver

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/librisys/library-client/internal/core/domain"
)

const (
	borrowPeriod   = 7 * 24 * time.Hour
	otpTTL         = 15 * time.Minute
	finePerDay     = 0.50
	defaultAvatars = "uploads/avatars/"
)

// Store keeps the dev server's world in process: accounts, pending
// registrations, the catalog, and the borrow ledger. Insertion order is
// tracked so listings come back stable.
type Store struct {
	mu        sync.RWMutex
	users     map[string]*account // by id
	emails    map[string]string   // lower-cased email -> id
	userOrder []string
	books     map[string]domain.Book
	bookOrder []string
	records   []domain.BorrowRecord
	pending   map[string]pendingRegistration // by lower-cased email
}

type account struct {
	domain.User
	PasswordHash string
}

type pendingRegistration struct {
	Name         string
	Email        string
	PasswordHash string
	OTP          string
	ExpiresAt    time.Time
}

// NewStore initializes an empty store.
func NewStore() *Store {
	return &Store{
		users:   make(map[string]*account),
		emails:  make(map[string]string),
		books:   make(map[string]domain.Book),
		pending: make(map[string]pendingRegistration),
	}
}

// ── accounts ─────────────────────────────────────────────────────────────────

// StagePending parks a registration until its OTP is verified. An address
// that already belongs to a verified account is rejected.
func (s *Store) StagePending(name, email, passwordHash, otp string, now time.Time) error {
	key := strings.ToLower(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.emails[key]; taken {
		return domain.ErrUserExists
	}
	s.pending[key] = pendingRegistration{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		OTP:          otp,
		ExpiresAt:    now.Add(otpTTL),
	}
	return nil
}

// RedeemOTP turns a pending registration into a member account.
func (s *Store) RedeemOTP(email, otp string, now time.Time) (domain.User, error) {
	key := strings.ToLower(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.pending[key]
	if !ok || reg.OTP != otp || now.After(reg.ExpiresAt) {
		return domain.User{}, domain.ErrInvalidOTP
	}
	delete(s.pending, key)
	return s.insertAccount(reg.Name, reg.Email, reg.PasswordHash, domain.RoleMember, "", now)
}

// CreateAdmin inserts a verified admin account directly (add-new-admin flow).
func (s *Store) CreateAdmin(name, email, passwordHash, avatarRef string, now time.Time) (domain.User, error) {
	key := strings.ToLower(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.emails[key]; taken {
		return domain.User{}, domain.ErrUserExists
	}
	return s.insertAccount(name, email, passwordHash, domain.RoleAdmin, avatarRef, now)
}

// insertAccount must be called with the lock held.
func (s *Store) insertAccount(name, email, passwordHash, role, avatarRef string, now time.Time) (domain.User, error) {
	key := strings.ToLower(email)
	if _, taken := s.emails[key]; taken {
		return domain.User{}, domain.ErrUserExists
	}
	u := domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		AvatarRef: avatarRef,
		CreatedAt: now,
	}
	s.users[u.ID] = &account{User: u, PasswordHash: passwordHash}
	s.emails[key] = u.ID
	s.userOrder = append(s.userOrder, u.ID)
	return u, nil
}

// Authenticate looks an account up by email; the caller compares the hash.
func (s *Store) Authenticate(email string) (domain.User, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	acc := s.users[id]
	return acc.User, acc.PasswordHash, nil
}

// GetUser returns the account's public view by id.
func (s *Store) GetUser(id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return acc.User, nil
}

// GetUserByEmail returns the account's public view by email.
func (s *Store) GetUserByEmail(email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return s.users[id].User, nil
}

// ListUsers returns accounts in insertion order.
func (s *Store) ListUsers() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		out = append(out, s.users[id].User)
	}
	return out
}

// SetPassword replaces the account's password hash.
func (s *Store) SetPassword(id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	acc.PasswordHash = passwordHash
	return nil
}

// PasswordHash returns the account's current hash.
func (s *Store) PasswordHash(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.users[id]
	if !ok {
		return "", domain.ErrUserNotFound
	}
	return acc.PasswordHash, nil
}

// UpdateCredentials renames the account and/or moves it to a new email.
func (s *Store) UpdateCredentials(id, name, email string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	newKey := strings.ToLower(email)
	oldKey := strings.ToLower(acc.Email)
	if newKey != oldKey {
		if _, taken := s.emails[newKey]; taken {
			return domain.User{}, domain.ErrUserExists
		}
		delete(s.emails, oldKey)
		s.emails[newKey] = id
	}
	acc.Name = name
	acc.Email = email
	return acc.User, nil
}

// ── catalog ──────────────────────────────────────────────────────────────────

// AddBook inserts a catalog entry and returns it with its generated id.
func (s *Store) AddBook(b domain.Book) domain.Book {
	b.ID = uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[b.ID] = b
	s.bookOrder = append(s.bookOrder, b.ID)
	return b
}

// GetBook returns a catalog entry by id.
func (s *Store) GetBook(id string) (domain.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.books[id]
	if !ok {
		return domain.Book{}, domain.ErrBookNotFound
	}
	return b, nil
}

// ListBooks returns the catalog in insertion order.
func (s *Store) ListBooks() []domain.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Book, 0, len(s.bookOrder))
	for _, id := range s.bookOrder {
		out = append(out, s.books[id])
	}
	return out
}

// DeleteBook removes a catalog entry.
func (s *Store) DeleteBook(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[id]; !ok {
		return domain.ErrBookNotFound
	}
	delete(s.books, id)
	kept := s.bookOrder[:0]
	for _, existing := range s.bookOrder {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	s.bookOrder = kept
	return nil
}

// ── borrowing ────────────────────────────────────────────────────────────────

// RecordBorrow lends the book to the borrower: quantity down by one, a new
// active record appended. One active record per book+borrower pair.
func (s *Store) RecordBorrow(bookID, borrowerEmail string, now time.Time) (domain.BorrowRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	book, ok := s.books[bookID]
	if !ok {
		return domain.BorrowRecord{}, domain.ErrBookNotFound
	}
	if book.Quantity <= 0 {
		return domain.BorrowRecord{}, domain.ErrBookUnavailable
	}
	if _, ok := s.emails[strings.ToLower(borrowerEmail)]; !ok {
		return domain.BorrowRecord{}, domain.ErrUserNotFound
	}
	for _, r := range s.records {
		if r.BookID == bookID && strings.EqualFold(r.Borrower, borrowerEmail) && r.ReturnDate == nil {
			return domain.BorrowRecord{}, domain.ErrAlreadyBorrowed
		}
	}

	book.Quantity--
	s.books[bookID] = book

	rec := domain.BorrowRecord{
		ID:         uuid.NewString(),
		BookID:     bookID,
		BookTitle:  book.Title,
		Borrower:   borrowerEmail,
		BorrowedAt: now,
		DueDate:    now.Add(borrowPeriod),
	}
	s.records = append(s.records, rec)
	return rec, nil
}

// ReturnBorrow closes the active record for book+borrower: quantity back up,
// return date stamped, and an overdue fine charged to the borrower at
// finePerDay per started day late. The fine charged is returned.
func (s *Store) ReturnBorrow(bookID, borrowerEmail string, now time.Time) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		r := &s.records[i]
		if r.BookID != bookID || !strings.EqualFold(r.Borrower, borrowerEmail) || r.ReturnDate != nil {
			continue
		}
		returned := now
		r.ReturnDate = &returned

		if book, ok := s.books[bookID]; ok {
			book.Quantity++
			s.books[bookID] = book
		}

		var fine float64
		if !r.DueDate.IsZero() && now.After(r.DueDate) {
			daysLate := math.Ceil(now.Sub(r.DueDate).Hours() / 24)
			fine = daysLate * finePerDay
			if id, ok := s.emails[strings.ToLower(borrowerEmail)]; ok {
				s.users[id].FinesDue += fine
			}
		}
		return fine, nil
	}
	return 0, domain.ErrRecordNotFound
}

// RecordsByBorrower returns the borrower's records, oldest first.
func (s *Store) RecordsByBorrower(email string) []domain.BorrowRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.BorrowRecord
	for _, r := range s.records {
		if strings.EqualFold(r.Borrower, email) {
			out = append(out, r)
		}
	}
	return out
}

// AllRecords returns the full ledger, oldest first.
func (s *Store) AllRecords() []domain.BorrowRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.BorrowRecord(nil), s.records...)
}
