package catalog

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service is the engine behind the catalog API: goal membership, book
// lookups, rating submission with aggregate recomputation, and the two
// ranking read paths. It is the only writer of a book's average_rating and
// ratings_count.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log.With("component", "catalog")}
}
