package main

import (
	"log"

	"github.com/arianne/goalreads-api/internal/catalog"
	"github.com/arianne/goalreads-api/internal/config"
	"github.com/arianne/goalreads-api/internal/database"
	"github.com/arianne/goalreads-api/internal/handlers"
	"github.com/arianne/goalreads-api/internal/routes"
	"github.com/arianne/goalreads-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := newLogger(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	db, err := database.Connect(cfg)
	if err != nil {
		sugar.Fatalw("failed to connect to database", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		sugar.Fatalw("failed to migrate database", "error", err)
	}
	if err := database.SeedGoals(db); err != nil {
		sugar.Fatalw("failed to seed goals", "error", err)
	}

	cat := catalog.New(db, sugar)

	var summaries services.SummaryGenerator
	if client, err := services.NewGeminiClient(cfg, sugar); err != nil {
		sugar.Warnw("book summaries disabled", "error", err)
	} else {
		summaries = client
	}

	h := handlers.New(db, cat, summaries, cfg, sugar)

	app := fiber.New(fiber.Config{AppName: "goalreads-api"})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())
	routes.Setup(app, h)

	sugar.Infow("starting server", "port", cfg.Port, "env", cfg.AppEnv)
	if err := app.Listen(":" + cfg.Port); err != nil {
		sugar.Fatalw("server stopped", "error", err)
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
