package catalog

import (
	"errors"
	"strings"

	"github.com/arianne/goalreads-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetBook returns a single book by ID.
func (s *Service) GetBook(id uuid.UUID) (models.Book, error) {
	var book models.Book
	if err := s.db.First(&book, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Book{}, ErrBookNotFound
		}
		return models.Book{}, err
	}
	return book, nil
}

// SearchBooks does a case-insensitive substring match against title or
// author. An empty query matches nothing, not everything.
func (s *Service) SearchBooks(query string) ([]models.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Book{}, nil
	}

	pattern := "%" + strings.ToLower(query) + "%"
	books := []models.Book{}
	err := s.db.
		Where("lower(title) LIKE ? OR lower(author) LIKE ?", pattern, pattern).
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

// SetDescription persists a generated blurb for a book. Only the description
// column is touched.
func (s *Service) SetDescription(bookID uuid.UUID, description string) (models.Book, error) {
	var book models.Book
	if err := s.db.First(&book, "id = ?", bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Book{}, ErrBookNotFound
		}
		return models.Book{}, err
	}

	if err := s.db.Model(&book).Update("description", description).Error; err != nil {
		return models.Book{}, err
	}
	book.Description = description
	return book, nil
}

// UserRating returns the user's own rating for a book, or nil if they have
// not rated it.
func (s *Service) UserRating(userID, bookID uuid.UUID) (*float64, error) {
	var rating models.Rating
	err := s.db.Where("book_id = ? AND user_id = ?", bookID, userID).First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rating.Value, nil
}
