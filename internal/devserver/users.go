package devserver

import (
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

func (s *Server) handleListUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"users": s.store.ListUsers(),
	})
}

// handleAddAdmin consumes the multipart add-new-admin form: text fields
// name, email, password, plus an optional "avatar" file part. The avatar is
// not persisted by the dev server; only a synthetic ref is recorded.
func (s *Server) handleAddAdmin(c echo.Context) error {
	name := c.FormValue("name")
	email := c.FormValue("email")
	password := c.FormValue("password")
	if name == "" || email == "" || password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name, email and password are required")
	}
	if len(password) < 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}

	avatarRef := ""
	if file, err := c.FormFile("avatar"); err == nil {
		src, err := file.Open()
		if err != nil {
			return err
		}
		n, _ := io.Copy(io.Discard, src)
		src.Close()
		avatarRef = defaultAvatars + uuid.NewString()
		s.log.Debug().Str("filename", file.Filename).Int64("bytes", n).Msg("avatar received")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin, err := s.store.CreateAdmin(name, email, string(hash), avatarRef, s.now())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Admin added successfully.",
		"admin":   admin,
	})
}
