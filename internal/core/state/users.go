package state

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/librisys/library-client/internal/api/metrics"
	"github.com/librisys/library-client/internal/core/domain"
	"github.com/librisys/library-client/internal/core/ports"
)

// UsersView is the read-only snapshot of the users slice.
type UsersView struct {
	Users  []domain.User
	Status RequestStatus
}

// UsersSlice caches the member/admin directory (admin-only data).
type UsersSlice struct {
	lifecycle
	backend  ports.Backend
	validate *validator.Validate
	log      zerolog.Logger
	notify   func()

	users []domain.User
}

// FetchAll replaces the cached directory.
func (s *UsersSlice) FetchAll(ctx context.Context) error {
	gen := s.begin()
	users, err := s.backend.ListUsers(ctx)
	if err != nil {
		s.settleErr(gen, "fetch users", err)
		return err
	}
	if s.succeed(gen, "", func() {
		s.users = users
	}) {
		s.notify()
	}
	return nil
}

// AddAdmin registers a new admin account (multipart, optional avatar) and
// appends the created user to the directory.
func (s *UsersSlice) AddAdmin(ctx context.Context, in ports.AdminInput) error {
	if err := checkInput(s.validate, in); err != nil {
		s.reject(err.Error())
		s.notify()
		return err
	}
	gen := s.begin()
	admin, msg, err := s.backend.AddAdmin(ctx, in)
	if err != nil {
		s.settleErr(gen, "add admin", err)
		return err
	}
	if s.succeed(gen, msg, func() {
		s.users = append(s.users, admin)
	}) {
		s.notify()
	}
	return nil
}

// Reset clears error and message.
func (s *UsersSlice) Reset() {
	s.reset()
	s.notify()
}

// Snapshot returns a consistent copy of the directory state.
func (s *UsersSlice) Snapshot() UsersView {
	var v UsersView
	s.view(func() {
		v.Users = append([]domain.User(nil), s.users...)
		v.Status = s.status
	})
	return v
}

func (s *UsersSlice) settleErr(gen uint64, intent string, err error) {
	if s.fail(gen, err.Error()) {
		s.log.Debug().Err(err).Str("intent", intent).Msg("user intent failed")
		s.notify()
	} else {
		metrics.StaleCompletionsTotal.WithLabelValues("users").Inc()
		s.log.Debug().Str("intent", intent).Msg("stale user completion discarded")
	}
}
