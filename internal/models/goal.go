package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Goal is a named reading interest. Goals are static reference data seeded at
// startup; only their memberships change at runtime.
type Goal struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name string    `json:"name" gorm:"uniqueIndex;not null"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// Goal DTOs
type ReplaceGoalsRequest struct {
	GoalIDs []uuid.UUID `json:"goalIds" validate:"required"`
}

type AddGoalRequest struct {
	GoalID uuid.UUID `json:"goalId" validate:"required"`
}
