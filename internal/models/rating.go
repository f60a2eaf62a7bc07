package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is one user's score for one book. The composite unique index keeps a
// single row per (book, user) pair; a second submission updates it in place.
type Rating struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	BookID    uuid.UUID `json:"bookId" gorm:"type:uuid;not null;uniqueIndex:idx_book_user"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_book_user"`
	Value     float64   `json:"value" gorm:"not null;check:value >= 1 AND value <= 5"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type RateBookRequest struct {
	Rating float64 `json:"rating" validate:"required,gte=1,lte=5"`
}
