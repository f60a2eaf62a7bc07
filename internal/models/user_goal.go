package models

import "github.com/google/uuid"

// UserGoal is the user↔goal membership edge. A user may hold any number of
// goals at once, including none.
type UserGoal struct {
	UserID uuid.UUID `json:"userId" gorm:"type:uuid;primaryKey"`
	GoalID uuid.UUID `json:"goalId" gorm:"type:uuid;primaryKey"`
}

func (UserGoal) TableName() string {
	return "user_goals"
}
