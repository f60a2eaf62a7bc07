package catalog

import (
	"errors"

	"github.com/arianne/goalreads-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListGoals returns the full goal reference list.
func (s *Service) ListGoals() ([]models.Goal, error) {
	goals := []models.Goal{}
	if err := s.db.Order("name").Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

// GoalsForUser returns the user's current goal set.
func (s *Service) GoalsForUser(userID uuid.UUID) ([]models.Goal, error) {
	goals := []models.Goal{}
	err := s.db.
		Joins("JOIN user_goals ON user_goals.goal_id = goals.id").
		Where("user_goals.user_id = ?", userID).
		Order("goals.name").
		Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

// ReplaceGoals atomically replaces the user's goal set with exactly the given
// IDs. Duplicate IDs collapse to one membership; an empty list clears the
// set. Every ID is validated before anything is changed.
func (s *Service) ReplaceGoals(userID uuid.UUID, goalIDs []uuid.UUID) error {
	unique := dedupeIDs(goalIDs)

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}

		if missing, err := missingGoalIDs(tx, unique); err != nil {
			return err
		} else if len(missing) > 0 {
			return &InvalidGoalIDsError{IDs: missing}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.UserGoal{}).Error; err != nil {
			return err
		}
		if len(unique) == 0 {
			return nil
		}

		edges := make([]models.UserGoal, 0, len(unique))
		for _, goalID := range unique {
			edges = append(edges, models.UserGoal{UserID: userID, GoalID: goalID})
		}
		return tx.Create(&edges).Error
	})
}

// AddGoal adds a single goal to the user's set. Adding a goal the user
// already holds is a conflict, not a duplicate membership.
func (s *Service) AddGoal(userID, goalID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}

		var goal models.Goal
		if err := tx.First(&goal, "id = ?", goalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGoalNotFound
			}
			return err
		}

		var existing models.UserGoal
		err := tx.Where("user_id = ? AND goal_id = ?", userID, goalID).First(&existing).Error
		if err == nil {
			return ErrDuplicateUserGoal
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&models.UserGoal{UserID: userID, GoalID: goalID}).Error
	})
}

// RemoveGoal removes a goal from the user's set.
func (s *Service) RemoveGoal(userID, goalID uuid.UUID) error {
	res := s.db.Where("user_id = ? AND goal_id = ?", userID, goalID).Delete(&models.UserGoal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserGoalNotHeld
	}
	return nil
}

func requireUser(tx *gorm.DB, userID uuid.UUID) error {
	var user models.User
	if err := tx.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func missingGoalIDs(tx *gorm.DB, goalIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(goalIDs) == 0 {
		return nil, nil
	}

	var found []uuid.UUID
	if err := tx.Model(&models.Goal{}).Where("id IN ?", goalIDs).Pluck("id", &found).Error; err != nil {
		return nil, err
	}

	known := make(map[uuid.UUID]bool, len(found))
	for _, id := range found {
		known[id] = true
	}

	var missing []uuid.UUID
	for _, id := range goalIDs {
		if !known[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	return unique
}
