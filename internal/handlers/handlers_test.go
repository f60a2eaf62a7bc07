package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arianne/goalreads-api/internal/catalog"
	"github.com/arianne/goalreads-api/internal/config"
	"github.com/arianne/goalreads-api/internal/database"
	"github.com/arianne/goalreads-api/internal/handlers"
	"github.com/arianne/goalreads-api/internal/models"
	"github.com/arianne/goalreads-api/internal/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

// fixedSummaries returns a canned blurb, or an error when Fail is set.
type fixedSummaries struct {
	Text string
	Fail bool
}

func (f *fixedSummaries) GenerateBookSummary(ctx context.Context, title, author string) (string, error) {
	if f.Fail {
		return "", errors.New("upstream unavailable")
	}
	return f.Text, nil
}

func newTestEnv(t *testing.T, h *handlers.Handler) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{JWTSecret: "test-secret"}
	sugar := zap.NewNop().Sugar()

	if h == nil {
		h = handlers.New(db, catalog.New(db, sugar), nil, cfg, sugar)
	} else {
		h.DB = db
		h.Catalog = catalog.New(db, sugar)
		h.Cfg = cfg
		h.Log = sugar
	}

	app := fiber.New()
	routes.Setup(app, h)
	return &testEnv{app: app, db: db}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	resp.Body.Close()
}

func (e *testEnv) registerUser(t *testing.T, email string) models.AuthResponse {
	t.Helper()

	resp := e.request(t, http.MethodPost, "/api/register", "", fiber.Map{
		"email":    email,
		"password": "hunter2-long-enough",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var auth models.AuthResponse
	decode(t, resp, &auth)
	require.NotEmpty(t, auth.Token)
	return auth
}

func (e *testEnv) createBook(t *testing.T, book *models.Book) {
	t.Helper()
	require.NoError(t, e.db.Create(book).Error)
}

func (e *testEnv) createGoal(t *testing.T, name string) models.Goal {
	t.Helper()
	goal := models.Goal{Name: name}
	require.NoError(t, e.db.Create(&goal).Error)
	return goal
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t, nil)
	env.registerUser(t, "alice@example.com")

	// Duplicate registration conflicts.
	resp := env.request(t, http.MethodPost, "/api/register", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "hunter2-long-enough",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "hunter2-long-enough",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.request(t, http.MethodPost, "/api/register", "", fiber.Map{
		"email":    "not-an-email",
		"password": "hunter2-long-enough",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/register", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRateBookFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	auth := env.registerUser(t, "alice@example.com")

	book := models.Book{Title: "Dune", Author: "Frank Herbert"}
	env.createBook(t, &book)
	ratePath := fmt.Sprintf("/api/books/%s/rate", book.ID)

	// No token.
	resp := env.request(t, http.MethodPost, ratePath, "", fiber.Map{"rating": 4})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Out of range.
	resp = env.request(t, http.MethodPost, ratePath, auth.Token, fiber.Map{"rating": 6})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown book.
	resp = env.request(t, http.MethodPost, "/api/books/00000000-0000-0000-0000-000000000001/rate", auth.Token, fiber.Map{"rating": 4})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Valid submission returns the updated aggregate and the caller's rating.
	resp = env.request(t, http.MethodPost, ratePath, auth.Token, fiber.Map{"rating": 4})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail models.BookDetail
	decode(t, resp, &detail)
	assert.Equal(t, 4.0, detail.AverageRating)
	assert.Equal(t, 1, detail.RatingsCount)
	require.NotNil(t, detail.UserRating)
	assert.Equal(t, 4.0, *detail.UserRating)
}

func TestGetBookNotFound(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.request(t, http.MethodGet, "/api/books/00000000-0000-0000-0000-000000000001", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/books/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetBookGeneratesAndPersistsSummary(t *testing.T) {
	env := newTestEnv(t, &handlers.Handler{
		Summaries: &fixedSummaries{Text: "A desert planet and its spice."},
	})

	book := models.Book{Title: "Dune", Author: "Frank Herbert"}
	env.createBook(t, &book)

	resp := env.request(t, http.MethodGet, "/api/books/"+book.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail models.BookDetail
	decode(t, resp, &detail)
	assert.Equal(t, "A desert planet and its spice.", detail.Description)

	// Persisted for subsequent reads.
	var stored models.Book
	require.NoError(t, env.db.First(&stored, "id = ?", book.ID).Error)
	assert.Equal(t, "A desert planet and its spice.", stored.Description)
}

func TestGetBookSummaryFailureServesEphemeralFallback(t *testing.T) {
	env := newTestEnv(t, &handlers.Handler{
		Summaries: &fixedSummaries{Fail: true},
	})

	book := models.Book{Title: "Dune", Author: "Frank Herbert"}
	env.createBook(t, &book)

	resp := env.request(t, http.MethodGet, "/api/books/"+book.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail models.BookDetail
	decode(t, resp, &detail)
	assert.Equal(t, "Could not generate a summary at this time.", detail.Description)

	// The stored row keeps the placeholder; nothing was persisted.
	var stored models.Book
	require.NoError(t, env.db.First(&stored, "id = ?", book.ID).Error)
	assert.Equal(t, models.DefaultDescription, stored.Description)
}

func TestGetBookWithoutGeneratorServesFallback(t *testing.T) {
	env := newTestEnv(t, nil)

	book := models.Book{Title: "Dune", Author: "Frank Herbert"}
	env.createBook(t, &book)

	resp := env.request(t, http.MethodGet, "/api/books/"+book.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail models.BookDetail
	decode(t, resp, &detail)
	assert.Equal(t, "Could not generate a summary at this time.", detail.Description)
}

func TestGoalMembershipFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	auth := env.registerUser(t, "alice@example.com")
	fantasy := env.createGoal(t, "Fantasy")
	scifi := env.createGoal(t, "SciFi")

	// Public goal list.
	resp := env.request(t, http.MethodGet, "/api/goals", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var goals []models.Goal
	decode(t, resp, &goals)
	assert.Len(t, goals, 2)

	// Replace with both goals.
	resp = env.request(t, http.MethodPut, "/api/users/me/goals", auth.Token, fiber.Map{
		"goalIds": []string{fantasy.ID.String(), scifi.ID.String()},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &goals)
	assert.Len(t, goals, 2)

	// Adding an already-held goal conflicts.
	resp = env.request(t, http.MethodPost, "/api/users/me/goals", auth.Token, fiber.Map{
		"goalId": fantasy.ID.String(),
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Remove one.
	resp = env.request(t, http.MethodDelete, "/api/users/me/goals/"+scifi.ID.String(), auth.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &goals)
	assert.Len(t, goals, 1)

	// Removing it again is not found.
	resp = env.request(t, http.MethodDelete, "/api/users/me/goals/"+scifi.ID.String(), auth.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Replace with an unknown goal lists the invalid IDs and changes nothing.
	resp = env.request(t, http.MethodPut, "/api/users/me/goals", auth.Token, fiber.Map{
		"goalIds": []string{"00000000-0000-0000-0000-000000000001"},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Clear everything with an empty list.
	resp = env.request(t, http.MethodPut, "/api/users/me/goals", auth.Token, fiber.Map{
		"goalIds": []string{},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &goals)
	assert.Empty(t, goals)
}

func TestRecommendationsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	auth := env.registerUser(t, "alice@example.com")
	fantasy := env.createGoal(t, "Fantasy")

	popular := models.Book{Title: "Popular", AverageRating: 4.8, RatingsCount: 120}
	obscure := models.Book{Title: "Obscure", AverageRating: 5, RatingsCount: 3}
	env.createBook(t, &popular)
	env.createBook(t, &obscure)
	require.NoError(t, env.db.Create(&models.BookGoal{BookID: popular.ID, GoalID: fantasy.ID}).Error)
	require.NoError(t, env.db.Create(&models.BookGoal{BookID: obscure.ID, GoalID: fantasy.ID}).Error)

	// No goals selected yet.
	resp := env.request(t, http.MethodGet, "/api/users/me/recommendations", auth.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var books []models.Book
	decode(t, resp, &books)
	assert.Empty(t, books)

	resp = env.request(t, http.MethodPut, "/api/users/me/goals", auth.Token, fiber.Map{
		"goalIds": []string{fantasy.ID.String()},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, http.MethodGet, "/api/users/me/recommendations", auth.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &books)
	require.Len(t, books, 1)
	assert.Equal(t, popular.ID, books[0].ID)
}

func TestPopularBooksEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	fantasy := env.createGoal(t, "Fantasy")

	a := models.Book{Title: "A", AverageRating: 4.8, RatingsCount: 120}
	b := models.Book{Title: "B", AverageRating: 4.5, RatingsCount: 80}
	env.createBook(t, &a)
	env.createBook(t, &b)
	require.NoError(t, env.db.Create(&models.BookGoal{BookID: a.ID, GoalID: fantasy.ID}).Error)
	require.NoError(t, env.db.Create(&models.BookGoal{BookID: b.ID, GoalID: fantasy.ID}).Error)

	resp := env.request(t, http.MethodGet, "/api/books/popular?min_ratings=100", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var books []models.Book
	decode(t, resp, &books)
	require.Len(t, books, 1)
	assert.Equal(t, a.ID, books[0].ID)
}

func TestSearchEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	book := models.Book{Title: "The Hobbit", Author: "J.R.R. Tolkien"}
	env.createBook(t, &book)

	resp := env.request(t, http.MethodGet, "/api/books/search?q=hobbit", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var books []models.Book
	decode(t, resp, &books)
	assert.Len(t, books, 1)

	// Absent query matches nothing, not everything.
	resp = env.request(t, http.MethodGet, "/api/books/search", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &books)
	assert.Empty(t, books)
}
