package devserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/librisys/library-client/internal/core/domain"
)

type addBookRequest struct {
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
}

func (s *Server) handleListBooks(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"books": s.store.ListBooks(),
	})
}

func (s *Server) handleAddBook(c echo.Context) error {
	var req addBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	book := s.store.AddBook(domain.Book{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	})
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Book added successfully.",
		"book":    book,
	})
}

func (s *Server) handleDeleteBook(c echo.Context) error {
	if err := s.store.DeleteBook(c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Book deleted successfully."})
}
