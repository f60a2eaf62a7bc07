package handlers

import (
	"context"
	"errors"

	"github.com/arianne/goalreads-api/internal/catalog"
	"github.com/arianne/goalreads-api/internal/middleware"
	"github.com/arianne/goalreads-api/internal/models"
	"github.com/arianne/goalreads-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (h *Handler) GetPopularBooks(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", catalog.DefaultPopularLimit)
	if limit < 1 || limit > 100 {
		limit = catalog.DefaultPopularLimit
	}
	minRatings := c.QueryInt("min_ratings", catalog.DefaultPopularMinRatings)
	if minRatings < 0 {
		minRatings = catalog.DefaultPopularMinRatings
	}

	books, err := h.Catalog.PopularBooks(limit, minRatings)
	if err != nil {
		h.Log.Errorw("popular books query failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load popular books",
		})
	}
	return c.JSON(books)
}

func (h *Handler) SearchBooks(c *fiber.Ctx) error {
	books, err := h.Catalog.SearchBooks(c.Query("q"))
	if err != nil {
		h.Log.Errorw("book search failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Search failed",
		})
	}
	return c.JSON(books)
}

// GetBook returns a single book. When the stored description is still the
// placeholder, a summary is generated and persisted; if generation fails the
// response carries an ephemeral fallback and the stored row stays untouched.
// Authenticated callers also get their own rating back.
func (h *Handler) GetBook(c *fiber.Ctx) error {
	bookID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid book ID",
		})
	}

	book, err := h.Catalog.GetBook(bookID)
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Book not found",
			})
		}
		h.Log.Errorw("book lookup failed", "bookId", bookID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load book",
		})
	}

	detail := models.BookDetail{Book: book}
	if book.Description == models.DefaultDescription {
		detail.Description = h.describeBook(c.UserContext(), book)
	}

	if userID, ok := middleware.UserFromToken(c, h.Cfg.JWTSecret); ok {
		if rating, err := h.Catalog.UserRating(userID, bookID); err == nil {
			detail.UserRating = rating
		}
	}

	return c.JSON(detail)
}

func (h *Handler) RateBook(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	bookID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid book ID",
		})
	}

	var req models.RateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Rating must be between 1 and 5",
		})
	}

	book, err := h.Catalog.SubmitRating(userID, bookID, req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrRatingOutOfRange):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Rating must be between 1 and 5",
			})
		case errors.Is(err, catalog.ErrBookNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Book not found",
			})
		}
		h.Log.Errorw("rating submission failed", "bookId", bookID, "userId", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to submit rating",
		})
	}

	return c.JSON(models.BookDetail{Book: book, UserRating: &req.Rating})
}

// describeBook generates and persists a blurb for a book, or returns an
// ephemeral placeholder that is never written to the stored row.
func (h *Handler) describeBook(ctx context.Context, book models.Book) string {
	if h.Summaries == nil {
		return services.FallbackDescription
	}

	summary, err := h.Summaries.GenerateBookSummary(ctx, book.Title, book.Author)
	if err != nil {
		h.Log.Warnw("summary generation failed", "bookId", book.ID, "error", err)
		return services.FallbackDescription
	}

	if _, err := h.Catalog.SetDescription(book.ID, summary); err != nil {
		// Still serve the generated text for this response.
		h.Log.Errorw("failed to persist summary", "bookId", book.ID, "error", err)
	}
	return summary
}
