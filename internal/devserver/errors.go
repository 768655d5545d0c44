package devserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/librisys/library-client/internal/core/domain"
)

// messageResponse is the canonical error envelope: the client adapter reads
// the "message" field verbatim.
type messageResponse struct {
	Message string `json:"message"`
}

// newHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"message": "<text>"}.
func newHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, messageResponse{Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, "Please log in to continue."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password."
	case errors.Is(err, domain.ErrInvalidOTP):
		return http.StatusBadRequest, "Invalid or expired verification code."
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Admins only."
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found."
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "An account with this email already exists."
	case errors.Is(err, domain.ErrBookNotFound):
		return http.StatusNotFound, "Book not found."
	case errors.Is(err, domain.ErrBookUnavailable):
		return http.StatusConflict, "No copies of this book are available."
	case errors.Is(err, domain.ErrAlreadyBorrowed):
		return http.StatusConflict, "This user already has this book."
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, "No active borrow record for this book and user."
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Internal server error."
}
