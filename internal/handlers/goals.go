package handlers

import (
	"errors"

	"github.com/arianne/goalreads-api/internal/catalog"
	"github.com/arianne/goalreads-api/internal/middleware"
	"github.com/arianne/goalreads-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (h *Handler) GetGoals(c *fiber.Ctx) error {
	goals, err := h.Catalog.ListGoals()
	if err != nil {
		h.Log.Errorw("goal list query failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load goals",
		})
	}
	return c.JSON(goals)
}

func (h *Handler) GetMyGoals(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	goals, err := h.Catalog.GoalsForUser(userID)
	if err != nil {
		h.Log.Errorw("user goals query failed", "userId", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load your goals",
		})
	}
	return c.JSON(goals)
}

// ReplaceMyGoals swaps the caller's whole goal set for the submitted list.
// An empty list clears every membership.
func (h *Handler) ReplaceMyGoals(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.ReplaceGoalsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.GoalIDs == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "goalIds is required",
		})
	}

	if err := h.Catalog.ReplaceGoals(userID, req.GoalIDs); err != nil {
		var invalid *catalog.InvalidGoalIDsError
		switch {
		case errors.As(err, &invalid):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":          "One or more goals do not exist",
				"invalidGoalIds": invalid.IDs,
			})
		case errors.Is(err, catalog.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		h.Log.Errorw("goal replace failed", "userId", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update goals",
		})
	}

	return h.GetMyGoals(c)
}

func (h *Handler) AddMyGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.AddGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.GoalID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "goalId is required",
		})
	}

	if err := h.Catalog.AddGoal(userID, req.GoalID); err != nil {
		switch {
		case errors.Is(err, catalog.ErrGoalNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Goal not found",
			})
		case errors.Is(err, catalog.ErrDuplicateUserGoal):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Goal already selected",
			})
		case errors.Is(err, catalog.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		h.Log.Errorw("goal add failed", "userId", userID, "goalId", req.GoalID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add goal",
		})
	}

	return h.GetMyGoals(c)
}

func (h *Handler) RemoveMyGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("goalId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	if err := h.Catalog.RemoveGoal(userID, goalID); err != nil {
		if errors.Is(err, catalog.ErrUserGoalNotHeld) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Goal is not in your list",
			})
		}
		h.Log.Errorw("goal remove failed", "userId", userID, "goalId", goalID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to remove goal",
		})
	}

	return h.GetMyGoals(c)
}

func (h *Handler) GetRecommendations(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	books, err := h.Catalog.RecommendationsForUser(userID)
	if err != nil {
		h.Log.Errorw("recommendations query failed", "userId", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load recommendations",
		})
	}
	return c.JSON(books)
}
