package devserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

type borrowRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (s *Server) handleMyBorrows(c echo.Context) error {
	user := currentUser(c)
	return c.JSON(http.StatusOK, map[string]any{
		"borrowedBooks": s.store.RecordsByBorrower(user.Email),
	})
}

func (s *Server) handleAllBorrows(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"borrowedBooks": s.store.AllRecords(),
	})
}

func (s *Server) handleRecordBorrow(c echo.Context) error {
	var req borrowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rec, err := s.store.RecordBorrow(c.Param("bookId"), req.Email, s.now())
	if err != nil {
		return err
	}
	s.log.Info().Str("book", rec.BookID).Str("borrower", rec.Borrower).Msg("borrow recorded")
	return c.JSON(http.StatusOK, messageResponse{Message: "Borrowed book recorded successfully."})
}

func (s *Server) handleReturnBorrow(c echo.Context) error {
	var req borrowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	fine, err := s.store.ReturnBorrow(c.Param("bookId"), req.Email, s.now())
	if err != nil {
		return err
	}
	msg := "Book returned successfully."
	if fine > 0 {
		msg = fmt.Sprintf("Book returned successfully. Overdue fine charged: $%.2f.", fine)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}
