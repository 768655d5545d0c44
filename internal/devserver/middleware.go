package devserver

import (
	"github.com/labstack/echo/v4"

	"github.com/librisys/library-client/internal/core/domain"
)

const sessionCookie = "librisys_session"

const currentUserKey = "currentUser"

// requireSession resolves the session cookie to an account and stashes it
// in the request context. Requests without a live session get 401.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(sessionCookie)
		if err != nil || cookie.Value == "" {
			return domain.ErrNotAuthenticated
		}
		userID, ok, err := s.sessions.Get(c.Request().Context(), cookie.Value)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotAuthenticated
		}
		user, err := s.store.GetUser(userID)
		if err != nil {
			return domain.ErrNotAuthenticated
		}
		c.Set(currentUserKey, user)
		return next(c)
	}
}

// requireAdmin gates a route on the admin role. Must run inside
// requireSession.
func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !currentUser(c).IsAdmin() {
			return domain.ErrForbidden
		}
		return next(c)
	}
}

// currentUser fetches the account stashed by requireSession.
func currentUser(c echo.Context) domain.User {
	user, _ := c.Get(currentUserKey).(domain.User)
	return user
}
