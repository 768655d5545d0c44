// Package ports declares the interfaces between the client core and the
// outside world. Slices depend on Backend; the HTTP adapter in
// internal/infrastructure/backend implements it.
package ports

import (
	"context"
	"io"

	"github.com/librisys/library-client/internal/core/domain"
)

// RegisterInput is the payload for account registration.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// ResetPasswordInput carries the new password for a reset-token flow.
type ResetPasswordInput struct {
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// UpdatePasswordInput changes the password of the logged-in user.
type UpdatePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmNewPassword" validate:"required,eqfield=NewPassword"`
}

// UpdateCredentialsInput changes name and/or email of the logged-in user.
type UpdateCredentialsInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// BookInput is the payload for adding a catalog entry.
type BookInput struct {
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
}

// AdminInput is the multipart payload for creating an admin account.
// Avatar may be nil; when set it is streamed as the "avatar" file part.
type AdminInput struct {
	Name       string `validate:"required"`
	Email      string `validate:"required,email"`
	Password   string `validate:"required,min=8"`
	AvatarName string
	Avatar     io.Reader
}

// AuthResult is what auth endpoints hand back: the session user (when the
// flow establishes one) and the backend's human-readable message.
type AuthResult struct {
	User    *domain.User
	Message string
}

// Backend is the REST surface the slices consume. Every method issues one
// request with the stored session credentials attached and returns either
// parsed data or an error whose Error() string is fit to show a user.
type Backend interface {
	// auth
	Register(ctx context.Context, in RegisterInput) (AuthResult, error)
	VerifyOTP(ctx context.Context, email, otp string) (AuthResult, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
	Logout(ctx context.Context) (string, error)
	Me(ctx context.Context) (domain.User, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token string, in ResetPasswordInput) (AuthResult, error)
	UpdatePassword(ctx context.Context, in UpdatePasswordInput) (string, error)
	UpdateCredentials(ctx context.Context, in UpdateCredentialsInput) (AuthResult, error)

	// catalog
	ListBooks(ctx context.Context) ([]domain.Book, error)
	AddBook(ctx context.Context, in BookInput) (domain.Book, error)
	DeleteBook(ctx context.Context, id string) (string, error)

	// users
	ListUsers(ctx context.Context) ([]domain.User, error)
	AddAdmin(ctx context.Context, in AdminInput) (domain.User, string, error)

	// borrowing
	MyBorrowedBooks(ctx context.Context) ([]domain.BorrowRecord, error)
	AllBorrowedBooks(ctx context.Context) ([]domain.BorrowRecord, error)
	RecordBorrow(ctx context.Context, bookID, email string) (string, error)
	ReturnBorrow(ctx context.Context, bookID, email string) (string, error)
}
