// Package devserver is a self-contained stand-in for the library backend.
// It implements the full REST surface the client consumes (auth with OTP
// registration and cookie sessions, the book catalog, the user directory,
// and the borrow ledger) against an in-memory store, so the client and its
// tests can run without the real deployment. Server-authoritative behavior
// the client must observe (quantity changes on borrow/return, overdue
// fines) lives here.
package devserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Server bundles the stores and settings behind the routes.
type Server struct {
	store    *Store
	sessions SessionStore
	secret   string
	otpFixed string
	log      zerolog.Logger

	// now is the server clock; tests override it to age borrows.
	now func() time.Time
}

// Options configures a Server.
type Options struct {
	// Sessions defaults to NewMemorySessions().
	Sessions SessionStore
	// Secret signs password-reset tokens.
	Secret string
	// OTPFixed pins every registration OTP when non-empty.
	OTPFixed string
	// Now overrides the server clock (tests).
	Now func() time.Time
}

// New builds a Server with an empty store.
func New(opts Options, log zerolog.Logger) *Server {
	sessions := opts.Sessions
	if sessions == nil {
		sessions = NewMemorySessions()
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	secret := opts.Secret
	if secret == "" {
		secret = "dev-only-secret"
	}
	return &Server{
		store:    NewStore(),
		sessions: sessions,
		secret:   secret,
		otpFixed: opts.OTPFixed,
		log:      log,
		now:      now,
	}
}

// Store exposes the backing store so local tooling can seed fixtures.
func (s *Server) Store() *Store { return s.store }

// Router builds the Echo instance with all routes registered.
func (s *Server) Router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = newHTTPErrorHandler(s.log)
	e.Validator = newValidator()

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("librisys_devserver"))

	api := e.Group("/api/v1")

	// auth
	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/verify-otp", s.handleVerifyOTP)
	api.POST("/auth/login", s.handleLogin)
	api.GET("/auth/logout", s.handleLogout, s.requireSession)
	api.GET("/auth/me", s.handleMe, s.requireSession)
	api.POST("/auth/forgot-password", s.handleForgotPassword)
	api.POST("/auth/reset-password/:token", s.handleResetPassword)
	api.PUT("/auth/update-password", s.handleUpdatePassword, s.requireSession)
	api.PUT("/auth/update-credentials", s.handleUpdateCredentials, s.requireSession)

	// catalog
	api.GET("/book/all", s.handleListBooks, s.requireSession)
	api.POST("/book/admin/add", s.handleAddBook, s.requireSession, s.requireAdmin)
	api.DELETE("/book/delete/:id", s.handleDeleteBook, s.requireSession, s.requireAdmin)

	// users
	api.GET("/user/all", s.handleListUsers, s.requireSession, s.requireAdmin)
	api.POST("/user/add/new-admin", s.handleAddAdmin, s.requireSession, s.requireAdmin)

	// borrowing
	api.GET("/borrow/my-borrowed-books", s.handleMyBorrows, s.requireSession)
	api.GET("/borrow/borrowed-books-by-users", s.handleAllBorrows, s.requireSession, s.requireAdmin)
	api.POST("/borrow/record-borrow-book/:bookId", s.handleRecordBorrow, s.requireSession, s.requireAdmin)
	api.PUT("/borrow/return-borrowed-books/:bookId", s.handleReturnBorrow, s.requireSession, s.requireAdmin)

	// probes
	e.GET("/health", s.handleHealth)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
