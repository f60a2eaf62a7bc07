package routes

import (
	"github.com/arianne/goalreads-api/internal/handlers"
	"github.com/arianne/goalreads-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api")

	api.Post("/register", h.Register)
	api.Post("/login", h.Login)

	api.Get("/goals", h.GetGoals)

	books := api.Group("/books")
	books.Get("/popular", h.GetPopularBooks)
	books.Get("/search", h.SearchBooks)
	books.Get("/:id", h.GetBook)

	protected := api.Group("/", middleware.Protected(h.Cfg.JWTSecret))

	protected.Post("/books/:id/rate", h.RateBook)

	me := protected.Group("/users/me")
	me.Get("/goals", h.GetMyGoals)
	me.Put("/goals", h.ReplaceMyGoals)
	me.Post("/goals", h.AddMyGoal)
	me.Delete("/goals/:goalId", h.RemoveMyGoal)
	me.Get("/recommendations", h.GetRecommendations)
}
