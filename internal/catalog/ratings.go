package catalog

import (
	"database/sql"
	"errors"
	"math"

	"github.com/arianne/goalreads-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmitRating stores or overwrites the user's rating for a book and
// recomputes the book's aggregate in the same transaction, so no reader sees
// a rating without its matching average and count. Resubmitting the same
// value is idempotent.
func (s *Service) SubmitRating(userID, bookID uuid.UUID, value float64) (models.Book, error) {
	if value < 1 || value > 5 {
		return models.Book{}, ErrRatingOutOfRange
	}

	var book models.Book
	err := s.db.Transaction(func(tx *gorm.DB) error {
		q := tx
		// Serialize concurrent submissions for the same book. SQLite has a
		// single writer, so the row lock is postgres-only.
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&book, "id = ?", bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		var rating models.Rating
		err := tx.Where("book_id = ? AND user_id = ?", bookID, userID).First(&rating).Error
		switch {
		case err == nil:
			rating.Value = value
			if err := tx.Save(&rating).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			rating = models.Rating{BookID: bookID, UserID: userID, Value: value}
			if err := tx.Create(&rating).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return recomputeAggregate(tx, &book)
	})
	if err != nil {
		return models.Book{}, err
	}

	s.log.Infow("rating submitted", "bookId", bookID, "userId", userID, "value", value,
		"averageRating", book.AverageRating, "ratingsCount", book.RatingsCount)
	return book, nil
}

// recomputeAggregate recalculates average_rating (mean rounded to 2 decimal
// places, 0 when there are no ratings) and ratings_count from the ratings
// table. It is the only writer of those two columns.
func recomputeAggregate(tx *gorm.DB, book *models.Book) error {
	var stats struct {
		Average sql.NullFloat64
		Count   int64
	}
	err := tx.Model(&models.Rating{}).
		Select("AVG(value) AS average, COUNT(id) AS count").
		Where("book_id = ?", book.ID).
		Scan(&stats).Error
	if err != nil {
		return err
	}

	book.AverageRating = 0
	if stats.Average.Valid {
		book.AverageRating = math.Round(stats.Average.Float64*100) / 100
	}
	book.RatingsCount = int(stats.Count)

	return tx.Model(&models.Book{}).
		Where("id = ?", book.ID).
		Updates(map[string]interface{}{
			"average_rating": book.AverageRating,
			"ratings_count":  book.RatingsCount,
		}).Error
}
