package state

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/librisys/library-client/internal/core/domain"
	"github.com/librisys/library-client/internal/core/ports"
)

// stubBackend lets each test wire just the calls it expects. Unwired calls
// fail loudly.
type stubBackend struct {
	registerFn        func(ctx context.Context, in ports.RegisterInput) (ports.AuthResult, error)
	verifyOTPFn       func(ctx context.Context, email, otp string) (ports.AuthResult, error)
	loginFn           func(ctx context.Context, email, password string) (ports.AuthResult, error)
	logoutFn          func(ctx context.Context) (string, error)
	meFn              func(ctx context.Context) (domain.User, error)
	forgotPasswordFn  func(ctx context.Context, email string) (string, error)
	resetPasswordFn   func(ctx context.Context, token string, in ports.ResetPasswordInput) (ports.AuthResult, error)
	updatePasswordFn  func(ctx context.Context, in ports.UpdatePasswordInput) (string, error)
	updateCredsFn     func(ctx context.Context, in ports.UpdateCredentialsInput) (ports.AuthResult, error)
	listBooksFn       func(ctx context.Context) ([]domain.Book, error)
	addBookFn         func(ctx context.Context, in ports.BookInput) (domain.Book, error)
	deleteBookFn      func(ctx context.Context, id string) (string, error)
	listUsersFn       func(ctx context.Context) ([]domain.User, error)
	addAdminFn        func(ctx context.Context, in ports.AdminInput) (domain.User, string, error)
	myBorrowedFn      func(ctx context.Context) ([]domain.BorrowRecord, error)
	allBorrowedFn     func(ctx context.Context) ([]domain.BorrowRecord, error)
	recordBorrowFn    func(ctx context.Context, bookID, email string) (string, error)
	returnBorrowFn    func(ctx context.Context, bookID, email string) (string, error)
}

var errUnexpectedCall = errors.New("unexpected backend call")

func (s *stubBackend) Register(ctx context.Context, in ports.RegisterInput) (ports.AuthResult, error) {
	if s.registerFn == nil {
		return ports.AuthResult{}, errUnexpectedCall
	}
	return s.registerFn(ctx, in)
}

func (s *stubBackend) VerifyOTP(ctx context.Context, email, otp string) (ports.AuthResult, error) {
	if s.verifyOTPFn == nil {
		return ports.AuthResult{}, errUnexpectedCall
	}
	return s.verifyOTPFn(ctx, email, otp)
}

func (s *stubBackend) Login(ctx context.Context, email, password string) (ports.AuthResult, error) {
	if s.loginFn == nil {
		return ports.AuthResult{}, errUnexpectedCall
	}
	return s.loginFn(ctx, email, password)
}

func (s *stubBackend) Logout(ctx context.Context) (string, error) {
	if s.logoutFn == nil {
		return "", errUnexpectedCall
	}
	return s.logoutFn(ctx)
}

func (s *stubBackend) Me(ctx context.Context) (domain.User, error) {
	if s.meFn == nil {
		return domain.User{}, errUnexpectedCall
	}
	return s.meFn(ctx)
}

func (s *stubBackend) ForgotPassword(ctx context.Context, email string) (string, error) {
	if s.forgotPasswordFn == nil {
		return "", errUnexpectedCall
	}
	return s.forgotPasswordFn(ctx, email)
}

func (s *stubBackend) ResetPassword(ctx context.Context, token string, in ports.ResetPasswordInput) (ports.AuthResult, error) {
	if s.resetPasswordFn == nil {
		return ports.AuthResult{}, errUnexpectedCall
	}
	return s.resetPasswordFn(ctx, token, in)
}

func (s *stubBackend) UpdatePassword(ctx context.Context, in ports.UpdatePasswordInput) (string, error) {
	if s.updatePasswordFn == nil {
		return "", errUnexpectedCall
	}
	return s.updatePasswordFn(ctx, in)
}

func (s *stubBackend) UpdateCredentials(ctx context.Context, in ports.UpdateCredentialsInput) (ports.AuthResult, error) {
	if s.updateCredsFn == nil {
		return ports.AuthResult{}, errUnexpectedCall
	}
	return s.updateCredsFn(ctx, in)
}

func (s *stubBackend) ListBooks(ctx context.Context) ([]domain.Book, error) {
	if s.listBooksFn == nil {
		return nil, errUnexpectedCall
	}
	return s.listBooksFn(ctx)
}

func (s *stubBackend) AddBook(ctx context.Context, in ports.BookInput) (domain.Book, error) {
	if s.addBookFn == nil {
		return domain.Book{}, errUnexpectedCall
	}
	return s.addBookFn(ctx, in)
}

func (s *stubBackend) DeleteBook(ctx context.Context, id string) (string, error) {
	if s.deleteBookFn == nil {
		return "", errUnexpectedCall
	}
	return s.deleteBookFn(ctx, id)
}

func (s *stubBackend) ListUsers(ctx context.Context) ([]domain.User, error) {
	if s.listUsersFn == nil {
		return nil, errUnexpectedCall
	}
	return s.listUsersFn(ctx)
}

func (s *stubBackend) AddAdmin(ctx context.Context, in ports.AdminInput) (domain.User, string, error) {
	if s.addAdminFn == nil {
		return domain.User{}, "", errUnexpectedCall
	}
	return s.addAdminFn(ctx, in)
}

func (s *stubBackend) MyBorrowedBooks(ctx context.Context) ([]domain.BorrowRecord, error) {
	if s.myBorrowedFn == nil {
		return nil, errUnexpectedCall
	}
	return s.myBorrowedFn(ctx)
}

func (s *stubBackend) AllBorrowedBooks(ctx context.Context) ([]domain.BorrowRecord, error) {
	if s.allBorrowedFn == nil {
		return nil, errUnexpectedCall
	}
	return s.allBorrowedFn(ctx)
}

func (s *stubBackend) RecordBorrow(ctx context.Context, bookID, email string) (string, error) {
	if s.recordBorrowFn == nil {
		return "", errUnexpectedCall
	}
	return s.recordBorrowFn(ctx, bookID, email)
}

func (s *stubBackend) ReturnBorrow(ctx context.Context, bookID, email string) (string, error) {
	if s.returnBorrowFn == nil {
		return "", errUnexpectedCall
	}
	return s.returnBorrowFn(ctx, bookID, email)
}

func newTestStore(backend ports.Backend) *Store {
	return New(backend, zerolog.Nop())
}

func TestBooksFetchAll_ReplacesCatalog(t *testing.T) {
	books := []domain.Book{
		{ID: "1", Title: "First"},
		{ID: "2", Title: "Second"},
	}
	store := newTestStore(&stubBackend{
		listBooksFn: func(ctx context.Context) ([]domain.Book, error) {
			return books, nil
		},
	})

	if err := store.Books.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	view := store.Books.Snapshot()
	if view.Status.Pending || view.Status.Error != "" {
		t.Fatalf("unexpected status after success: %+v", view.Status)
	}
	if len(view.Books) != 2 || view.Books[0].ID != "1" || view.Books[1].ID != "2" {
		t.Fatalf("catalog = %+v", view.Books)
	}
}

func TestBooksFetchAll_FailureKeepsCache(t *testing.T) {
	fail := false
	store := newTestStore(&stubBackend{
		listBooksFn: func(ctx context.Context) ([]domain.Book, error) {
			if fail {
				return nil, errors.New("backend down")
			}
			return []domain.Book{{ID: "1"}}, nil
		},
	})

	if err := store.Books.FetchAll(context.Background()); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	fail = true
	if err := store.Books.FetchAll(context.Background()); err == nil {
		t.Fatal("second fetch should fail")
	}
	view := store.Books.Snapshot()
	if view.Status.Error != "backend down" {
		t.Fatalf("error = %q, want backend down", view.Status.Error)
	}
	if len(view.Books) != 1 {
		t.Fatalf("cache should survive a failed fetch, got %+v", view.Books)
	}
}

func TestBooksDelete_FiltersByID(t *testing.T) {
	store := newTestStore(&stubBackend{
		listBooksFn: func(ctx context.Context) ([]domain.Book, error) {
			return []domain.Book{{ID: "41"}, {ID: "42"}, {ID: "43"}}, nil
		},
		deleteBookFn: func(ctx context.Context, id string) (string, error) {
			if id != "42" {
				t.Fatalf("delete id = %q, want 42", id)
			}
			return "Book deleted successfully", nil
		},
	})

	ctx := context.Background()
	if err := store.Books.FetchAll(ctx); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if err := store.Books.Delete(ctx, "42"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	view := store.Books.Snapshot()
	if len(view.Books) != 2 {
		t.Fatalf("len = %d, want 2", len(view.Books))
	}
	for _, b := range view.Books {
		if b.ID == "42" {
			t.Fatalf("book 42 still cached: %+v", view.Books)
		}
	}
	if view.Status.Message != "Book deleted successfully" {
		t.Fatalf("message = %q", view.Status.Message)
	}
}

func TestBooksAdd_ValidationRejectsWithoutRequest(t *testing.T) {
	called := false
	store := newTestStore(&stubBackend{
		addBookFn: func(ctx context.Context, in ports.BookInput) (domain.Book, error) {
			called = true
			return domain.Book{}, nil
		},
	})

	err := store.Books.Add(context.Background(), ports.BookInput{Author: "someone"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if called {
		t.Fatal("backend must not be reached on invalid input")
	}
	view := store.Books.Snapshot()
	if view.Status.Pending {
		t.Fatal("rejection must not leave the slice pending")
	}
	if !strings.Contains(view.Status.Error, "title") {
		t.Fatalf("error = %q, want mention of title", view.Status.Error)
	}
}

func TestStaleCompletionIsDiscarded(t *testing.T) {
	// The first fetch re-enters the slice before returning, so a second,
	// newer fetch completes first. The first completion is then stale and
	// must not overwrite the newer catalog.
	var store *Store
	first := true
	stub := &stubBackend{}
	stub.listBooksFn = func(ctx context.Context) ([]domain.Book, error) {
		if first {
			first = false
			if err := store.Books.FetchAll(ctx); err != nil {
				t.Fatalf("inner fetch: %v", err)
			}
			return []domain.Book{{ID: "stale"}}, nil
		}
		return []domain.Book{{ID: "fresh"}}, nil
	}
	store = newTestStore(stub)

	if err := store.Books.FetchAll(context.Background()); err != nil {
		t.Fatalf("outer fetch: %v", err)
	}
	view := store.Books.Snapshot()
	if len(view.Books) != 1 || view.Books[0].ID != "fresh" {
		t.Fatalf("stale completion overwrote newer state: %+v", view.Books)
	}
}

func TestResetClearsStatus(t *testing.T) {
	store := newTestStore(&stubBackend{
		listBooksFn: func(ctx context.Context) ([]domain.Book, error) {
			return nil, errors.New("boom")
		},
	})
	_ = store.Books.FetchAll(context.Background())
	if store.Books.Snapshot().Status.Error == "" {
		t.Fatal("expected error before reset")
	}
	store.Books.Reset()
	status := store.Books.Snapshot().Status
	if status.Error != "" || status.Message != "" || status.Pending {
		t.Fatalf("status after reset = %+v", status)
	}
}

func TestAuthLogin_EstablishesSession(t *testing.T) {
	user := domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleAdmin}
	store := newTestStore(&stubBackend{
		loginFn: func(ctx context.Context, email, password string) (ports.AuthResult, error) {
			if email != "alice@example.com" || password != "secret-password" {
				t.Fatalf("credentials not forwarded: %s/%s", email, password)
			}
			return ports.AuthResult{User: &user, Message: "Logged in successfully."}, nil
		},
	})

	if err := store.Auth.Login(context.Background(), "alice@example.com", "secret-password"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	view := store.Auth.Snapshot()
	if !view.Authenticated || view.User == nil || view.User.ID != "u1" {
		t.Fatalf("session not established: %+v", view)
	}
	if view.Status.Message != "Logged in successfully." {
		t.Fatalf("message = %q", view.Status.Message)
	}
}

func TestAuthLogin_EmptyInputRejectedLocally(t *testing.T) {
	store := newTestStore(&stubBackend{})
	if err := store.Auth.Login(context.Background(), "", ""); err == nil {
		t.Fatal("expected rejection")
	}
	view := store.Auth.Snapshot()
	if view.Authenticated {
		t.Fatal("rejection must not authenticate")
	}
	if view.Status.Error == "" {
		t.Fatal("rejection must surface an error")
	}
}

func TestAuthFetchCurrentUser_FailureClearsSession(t *testing.T) {
	user := domain.User{ID: "u1", Name: "Alice"}
	sessionValid := true
	store := newTestStore(&stubBackend{
		loginFn: func(ctx context.Context, email, password string) (ports.AuthResult, error) {
			return ports.AuthResult{User: &user}, nil
		},
		meFn: func(ctx context.Context) (domain.User, error) {
			if !sessionValid {
				return domain.User{}, errors.New("Please log in to continue.")
			}
			return user, nil
		},
	})

	ctx := context.Background()
	if err := store.Auth.Login(ctx, "a@b.c", "password-123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	sessionValid = false
	if err := store.Auth.FetchCurrentUser(ctx); err == nil {
		t.Fatal("expected Me to fail")
	}
	view := store.Auth.Snapshot()
	if view.Authenticated || view.User != nil {
		t.Fatalf("expired session must be cleared: %+v", view)
	}
}

func TestAuthLogout_ClearsSession(t *testing.T) {
	user := domain.User{ID: "u1"}
	store := newTestStore(&stubBackend{
		loginFn: func(ctx context.Context, email, password string) (ports.AuthResult, error) {
			return ports.AuthResult{User: &user}, nil
		},
		logoutFn: func(ctx context.Context) (string, error) {
			return "Logged out successfully.", nil
		},
	})

	ctx := context.Background()
	if err := store.Auth.Login(ctx, "a@b.c", "password-123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := store.Auth.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	view := store.Auth.Snapshot()
	if view.Authenticated || view.User != nil {
		t.Fatalf("session survived logout: %+v", view)
	}
}

func TestUpdatePassword_MismatchRejected(t *testing.T) {
	store := newTestStore(&stubBackend{})
	err := store.Auth.UpdatePassword(context.Background(), ports.UpdatePasswordInput{
		CurrentPassword: "old-password",
		NewPassword:     "new-password-1",
		ConfirmPassword: "new-password-2",
	})
	if err == nil {
		t.Fatal("expected mismatch rejection")
	}
	if store.Auth.Snapshot().Status.Error == "" {
		t.Fatal("rejection must surface an error")
	}
}

func TestStoreRecordBorrow_ResyncsAndKeepsMessage(t *testing.T) {
	quantity := 1
	var records []domain.BorrowRecord
	store := newTestStore(&stubBackend{
		recordBorrowFn: func(ctx context.Context, bookID, email string) (string, error) {
			if bookID != "b1" || email != "bob@example.com" {
				t.Fatalf("borrow args: %s/%s", bookID, email)
			}
			quantity--
			records = append(records, domain.BorrowRecord{ID: "r1", BookID: bookID, Borrower: email})
			return "Borrowed book recorded successfully.", nil
		},
		listBooksFn: func(ctx context.Context) ([]domain.Book, error) {
			return []domain.Book{{ID: "b1", Quantity: quantity}}, nil
		},
		allBorrowedFn: func(ctx context.Context) ([]domain.BorrowRecord, error) {
			return records, nil
		},
	})

	msg, err := store.RecordBorrow(context.Background(), "b1", "bob@example.com")
	if err != nil {
		t.Fatalf("RecordBorrow: %v", err)
	}
	if msg != "Borrowed book recorded successfully." {
		t.Fatalf("message = %q", msg)
	}
	books := store.Books.Snapshot().Books
	if len(books) != 1 || books[0].Quantity != 0 {
		t.Fatalf("catalog not resynced: %+v", books)
	}
	all := store.Borrow.Snapshot().All
	if len(all) != 1 || all[0].ID != "r1" {
		t.Fatalf("ledger not resynced: %+v", all)
	}
}

func TestStoreRecordBorrow_WriteFailureSkipsResync(t *testing.T) {
	fetched := false
	store := newTestStore(&stubBackend{
		recordBorrowFn: func(ctx context.Context, bookID, email string) (string, error) {
			return "", errors.New("Book not available")
		},
		listBooksFn: func(ctx context.Context) ([]domain.Book, error) {
			fetched = true
			return nil, nil
		},
	})

	if _, err := store.RecordBorrow(context.Background(), "b1", "bob@example.com"); err == nil {
		t.Fatal("expected write failure")
	}
	if fetched {
		t.Fatal("resync must not run after a failed write")
	}
	if store.Borrow.Snapshot().Status.Error != "Book not available" {
		t.Fatalf("status = %+v", store.Borrow.Snapshot().Status)
	}
}

func TestSubscribersNotifiedOnMutation(t *testing.T) {
	store := newTestStore(&stubBackend{
		listBooksFn: func(ctx context.Context) ([]domain.Book, error) {
			return []domain.Book{{ID: "1"}}, nil
		},
	})
	notified := 0
	store.Subscribe(func() { notified++ })

	if err := store.Books.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if notified == 0 {
		t.Fatal("subscriber not invoked")
	}
}
