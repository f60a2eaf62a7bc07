package models

import "github.com/google/uuid"

// BookGoal is the book↔goal membership edge. No payload beyond the pair.
type BookGoal struct {
	BookID uuid.UUID `json:"bookId" gorm:"type:uuid;primaryKey"`
	GoalID uuid.UUID `json:"goalId" gorm:"type:uuid;primaryKey"`
}

func (BookGoal) TableName() string {
	return "book_goals"
}
