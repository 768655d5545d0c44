package state

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/librisys/library-client/internal/api/metrics"
	"github.com/librisys/library-client/internal/core/domain"
	"github.com/librisys/library-client/internal/core/ports"
)

// SessionView is the read-only snapshot of the auth slice.
// Authenticated is true exactly when User is non-nil.
type SessionView struct {
	User          *domain.User
	Authenticated bool
	Status        RequestStatus
}

// AuthSlice owns the session: who is logged in, and the lifecycle of every
// auth flow (register, OTP, login, logout, password reset and updates).
type AuthSlice struct {
	lifecycle
	backend  ports.Backend
	validate *validator.Validate
	log      zerolog.Logger
	notify   func()

	user          *domain.User
	authenticated bool
}

// Register submits a new account. Success only yields a message; the session
// is established later by VerifyOTP.
func (s *AuthSlice) Register(ctx context.Context, in ports.RegisterInput) error {
	if err := checkInput(s.validate, in); err != nil {
		s.reject(err.Error())
		s.notify()
		return err
	}
	gen := s.begin()
	res, err := s.backend.Register(ctx, in)
	if err != nil {
		s.settleErr(gen, "register", err)
		return err
	}
	if s.succeed(gen, res.Message, nil) {
		s.notify()
	}
	return nil
}

// VerifyOTP confirms the registration code and establishes the session.
func (s *AuthSlice) VerifyOTP(ctx context.Context, email, otp string) error {
	if email == "" || otp == "" {
		err := errors.New("email and otp are required")
		s.reject(err.Error())
		s.notify()
		return err
	}
	gen := s.begin()
	res, err := s.backend.VerifyOTP(ctx, email, otp)
	if err != nil {
		s.settleErr(gen, "verify otp", err)
		return err
	}
	s.succeedSession(gen, res)
	return nil
}

// Login authenticates with email and password.
func (s *AuthSlice) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		err := errors.New("email and password are required")
		s.reject(err.Error())
		s.notify()
		return err
	}
	gen := s.begin()
	res, err := s.backend.Login(ctx, email, password)
	if err != nil {
		s.settleErr(gen, "login", err)
		return err
	}
	s.succeedSession(gen, res)
	return nil
}

// Logout tears the session down. On failure the session is kept as-is so
// the caller may retry.
func (s *AuthSlice) Logout(ctx context.Context) error {
	gen := s.begin()
	msg, err := s.backend.Logout(ctx)
	if err != nil {
		s.settleErr(gen, "logout", err)
		return err
	}
	if s.succeed(gen, msg, func() {
		s.user = nil
		s.authenticated = false
	}) {
		s.notify()
	}
	return nil
}

// FetchCurrentUser refreshes the session user from the backend. A failure
// clears the session: the cookie is gone or expired.
func (s *AuthSlice) FetchCurrentUser(ctx context.Context) error {
	gen := s.begin()
	user, err := s.backend.Me(ctx)
	if err != nil {
		if s.fail(gen, err.Error()) {
			s.view(func() {
				s.user = nil
				s.authenticated = false
			})
			s.notify()
		}
		return err
	}
	if s.succeed(gen, "", func() {
		s.user = &user
		s.authenticated = true
	}) {
		s.notify()
	}
	return nil
}

// ForgotPassword requests a reset mail for the given address.
func (s *AuthSlice) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		err := errors.New("email is required")
		s.reject(err.Error())
		s.notify()
		return err
	}
	gen := s.begin()
	msg, err := s.backend.ForgotPassword(ctx, email)
	if err != nil {
		s.settleErr(gen, "forgot password", err)
		return err
	}
	if s.succeed(gen, msg, nil) {
		s.notify()
	}
	return nil
}

// ResetPassword redeems a reset token. Success logs the user in.
func (s *AuthSlice) ResetPassword(ctx context.Context, token string, in ports.ResetPasswordInput) error {
	if err := checkInput(s.validate, in); err != nil {
		s.reject(err.Error())
		s.notify()
		return err
	}
	gen := s.begin()
	res, err := s.backend.ResetPassword(ctx, token, in)
	if err != nil {
		s.settleErr(gen, "reset password", err)
		return err
	}
	s.succeedSession(gen, res)
	return nil
}

// UpdatePassword changes the password of the logged-in user.
func (s *AuthSlice) UpdatePassword(ctx context.Context, in ports.UpdatePasswordInput) error {
	if err := checkInput(s.validate, in); err != nil {
		s.reject(err.Error())
		s.notify()
		return err
	}
	gen := s.begin()
	msg, err := s.backend.UpdatePassword(ctx, in)
	if err != nil {
		s.settleErr(gen, "update password", err)
		return err
	}
	if s.succeed(gen, msg, nil) {
		s.notify()
	}
	return nil
}

// UpdateCredentials changes name/email and refreshes the cached user.
func (s *AuthSlice) UpdateCredentials(ctx context.Context, in ports.UpdateCredentialsInput) error {
	if err := checkInput(s.validate, in); err != nil {
		s.reject(err.Error())
		s.notify()
		return err
	}
	gen := s.begin()
	res, err := s.backend.UpdateCredentials(ctx, in)
	if err != nil {
		s.settleErr(gen, "update credentials", err)
		return err
	}
	if s.succeed(gen, res.Message, func() {
		if res.User != nil {
			s.user = res.User
		}
	}) {
		s.notify()
	}
	return nil
}

// Reset clears error and message. Views call this after consuming either.
func (s *AuthSlice) Reset() {
	s.reset()
	s.notify()
}

// Snapshot returns a consistent copy of the session state.
func (s *AuthSlice) Snapshot() SessionView {
	var v SessionView
	s.view(func() {
		if s.user != nil {
			u := *s.user
			v.User = &u
		}
		v.Authenticated = s.authenticated
		v.Status = s.status
	})
	return v
}

// succeedSession applies an auth result that establishes a session.
func (s *AuthSlice) succeedSession(gen uint64, res ports.AuthResult) {
	if s.succeed(gen, res.Message, func() {
		s.user = res.User
		s.authenticated = res.User != nil
	}) {
		s.notify()
	}
}

func (s *AuthSlice) settleErr(gen uint64, intent string, err error) {
	if s.fail(gen, err.Error()) {
		s.log.Debug().Err(err).Str("intent", intent).Msg("auth intent failed")
		s.notify()
	} else {
		metrics.StaleCompletionsTotal.WithLabelValues("auth").Inc()
		s.log.Debug().Str("intent", intent).Msg("stale auth completion discarded")
	}
}
