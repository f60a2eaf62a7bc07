package catalog

import (
	"sort"

	"github.com/arianne/goalreads-api/internal/models"
	"github.com/google/uuid"
)

const (
	DefaultPopularLimit      = 12
	DefaultPopularMinRatings = 100

	// top books kept per goal partition in the popular list
	popularRankCutoff = 2

	// minimum ratings_count for a book to be recommendable
	recommendMinRatings = 50
)

// PopularBooks builds the curated popular list: books are partitioned by
// goal, ranked inside each partition by (average_rating desc, ratings_count
// desc), and only the top two per goal survive. The surviving books are
// deduplicated across goals, sorted by the same key, and truncated to limit.
func (s *Service) PopularBooks(limit, minRatings int) ([]models.Book, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}

	type goalBookRow struct {
		models.Book `gorm:"embedded"`
		GoalID      uuid.UUID
	}

	var rows []goalBookRow
	err := s.db.Model(&models.Book{}).
		Select("books.*, book_goals.goal_id").
		Joins("JOIN book_goals ON book_goals.book_id = books.id").
		Where("books.ratings_count >= ?", minRatings).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	partitions := make(map[uuid.UUID][]models.Book)
	goalOrder := []uuid.UUID{}
	for _, row := range rows {
		if _, ok := partitions[row.GoalID]; !ok {
			goalOrder = append(goalOrder, row.GoalID)
		}
		partitions[row.GoalID] = append(partitions[row.GoalID], row.Book)
	}

	// Iterate partitions in first-seen order so the pre-sort merge is
	// deterministic across calls.
	merged := []models.Book{}
	seen := make(map[uuid.UUID]bool)
	for _, goalID := range goalOrder {
		partition := partitions[goalID]
		sortByRating(partition)
		for rank, book := range partition {
			if rank >= popularRankCutoff {
				break
			}
			if seen[book.ID] {
				continue
			}
			seen[book.ID] = true
			merged = append(merged, book)
		}
	}

	sortByRating(merged)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// RecommendationsForUser returns books belonging to any of the user's goals
// with at least recommendMinRatings ratings, each book once, best-rated
// first. A user with no goals gets an empty list.
func (s *Service) RecommendationsForUser(userID uuid.UUID) ([]models.Book, error) {
	var goalIDs []uuid.UUID
	err := s.db.Model(&models.UserGoal{}).
		Where("user_id = ?", userID).
		Pluck("goal_id", &goalIDs).Error
	if err != nil {
		return nil, err
	}
	if len(goalIDs) == 0 {
		return []models.Book{}, nil
	}

	books := []models.Book{}
	err = s.db.Model(&models.Book{}).
		Distinct("books.*").
		Joins("JOIN book_goals ON book_goals.book_id = books.id").
		Where("book_goals.goal_id IN ?", goalIDs).
		Where("books.ratings_count >= ?", recommendMinRatings).
		Find(&books).Error
	if err != nil {
		return nil, err
	}

	// Sort in memory rather than in SQL: DISTINCT plus ORDER BY on a
	// non-output expression is dialect-sensitive, and the tie order must be
	// stable across calls.
	sort.Slice(books, func(i, j int) bool {
		if books[i].AverageRating != books[j].AverageRating {
			return books[i].AverageRating > books[j].AverageRating
		}
		return books[i].ID.String() < books[j].ID.String()
	})
	return books, nil
}

// sortByRating orders books by (average_rating desc, ratings_count desc),
// with book ID as the final tiebreak so equal aggregates still rank
// deterministically.
func sortByRating(books []models.Book) {
	sort.Slice(books, func(i, j int) bool {
		if books[i].AverageRating != books[j].AverageRating {
			return books[i].AverageRating > books[j].AverageRating
		}
		if books[i].RatingsCount != books[j].RatingsCount {
			return books[i].RatingsCount > books[j].RatingsCount
		}
		return books[i].ID.String() < books[j].ID.String()
	})
}
