package domain

import "errors"

var ErrNotAuthenticated = errors.New("not authenticated")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidOTP = errors.New("invalid or expired otp")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrBookNotFound = errors.New("book not found")
var ErrBookUnavailable = errors.New("book not available")
var ErrRecordNotFound = errors.New("borrow record not found")
var ErrAlreadyBorrowed = errors.New("book already borrowed by this user")
var ErrForbidden = errors.New("access forbidden")
