package handlers

import (
	"github.com/arianne/goalreads-api/internal/catalog"
	"github.com/arianne/goalreads-api/internal/config"
	"github.com/arianne/goalreads-api/internal/services"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var validate = validator.New()

// Handler carries the wired dependencies for all endpoints. Summaries may be
// nil when no generator is configured; book reads then serve the fallback
// description.
type Handler struct {
	DB        *gorm.DB
	Catalog   *catalog.Service
	Summaries services.SummaryGenerator
	Cfg       *config.Config
	Log       *zap.SugaredLogger
}

func New(db *gorm.DB, cat *catalog.Service, summaries services.SummaryGenerator, cfg *config.Config, log *zap.SugaredLogger) *Handler {
	return &Handler{
		DB:        db,
		Catalog:   cat,
		Summaries: summaries,
		Cfg:       cfg,
		Log:       log,
	}
}
