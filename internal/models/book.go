package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultDescription marks a book whose blurb has not been generated yet.
const DefaultDescription = "No description available."

type Book struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title         string    `json:"title" gorm:"not null;index"`
	Author        string    `json:"author" gorm:"index"`
	Description   string    `json:"description"`
	CoverImageURL string    `json:"coverImageUrl"`
	AverageRating float64   `json:"averageRating" gorm:"default:0"`
	RatingsCount  int       `json:"ratingsCount" gorm:"default:0"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Description == "" {
		b.Description = DefaultDescription
	}
	return nil
}

// BookDetail is a response-only copy of a book. Description may be overridden
// with a generated or fallback blurb for a single response without touching
// the stored row, and UserRating carries the caller's own rating if any.
type BookDetail struct {
	Book
	UserRating *float64 `json:"userRating,omitempty"`
}
