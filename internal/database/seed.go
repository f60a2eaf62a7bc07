package database

import (
	"github.com/arianne/goalreads-api/internal/models"
	"gorm.io/gorm"
)

// DefaultGoals is the curated goal list. Books are imported separately; goals
// are small enough to ship with the binary.
var DefaultGoals = []string{
	"Explore Fantasy Worlds",
	"Laugh with Sci-Fi Classics",
	"Learn About the World (Non-Fiction)",
	"Master the English Language",
	"Build Web Development Skills",
	"Read Young Adult Survival Stories",
	"Engage with Pop Culture",
	"Read Foundational Essays",
	"Dive into Historical Fiction",
	"Understand Modern Economics",
	"Improve Critical Thinking",
	"Analyze Social & Historical Trends",
	"Understand Postmodern Literature",
	"Explore Contemporary Fiction",
	"Learn from Scientific Minds",
	"Read Classic 20th-Century Novels",
}

// SeedGoals inserts the default goals when the table is empty. Safe to call
// on every startup.
func SeedGoals(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Goal{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	goals := make([]models.Goal, 0, len(DefaultGoals))
	for _, name := range DefaultGoals {
		goals = append(goals, models.Goal{Name: name})
	}
	return db.Create(&goals).Error
}
