package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/arianne/goalreads-api/internal/config"
	"go.uber.org/zap"
)

// SummaryGenerator produces a one-paragraph blurb for a book. Implementations
// must be safe for concurrent use. Callers receive a handle that may be
// unavailable and fall back to FallbackDescription.
type SummaryGenerator interface {
	GenerateBookSummary(ctx context.Context, title, author string) (string, error)
}

// FallbackDescription is served when no summary can be generated. It is never
// persisted.
const FallbackDescription = "Could not generate a summary at this time."

// ErrSummaryUnavailable means the generator was not configured at startup.
var ErrSummaryUnavailable = errors.New("summary generator is not configured")

// GeminiClient generates book summaries via the Gemini REST API.
type GeminiClient struct {
	httpClient *http.Client
	log        *zap.SugaredLogger
	apiKey     string
	baseURL    string
	model      string
}

// NewGeminiClient builds a summary client from config. Returns
// ErrSummaryUnavailable when no API key is set; the caller decides how to
// degrade.
func NewGeminiClient(cfg *config.Config, log *zap.SugaredLogger) (*GeminiClient, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, ErrSummaryUnavailable
	}

	return &GeminiClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log.With("service", "gemini"),
		apiKey:     cfg.GeminiAPIKey,
		baseURL:    strings.TrimSuffix(cfg.GeminiBaseURL, "/"),
		model:      "gemini-2.5-flash",
	}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// GenerateBookSummary asks Gemini for a single-paragraph summary of the book
// and flattens the response to one line.
func (g *GeminiClient) GenerateBookSummary(ctx context.Context, title, author string) (string, error) {
	prompt := fmt.Sprintf(
		"Provide a concise, engaging, one-paragraph summary for the book '%s' by '%s'. "+
			"Focus on the main plot or key ideas. "+
			"Do not include any introductory phrases like 'This book is about...'.",
		title, author,
	)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("summary request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("summary request failed with status %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode summary response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("summary response contained no candidates")
	}

	summary := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	summary = strings.ReplaceAll(summary, "\n", " ")
	if summary == "" {
		return "", errors.New("summary response was empty")
	}
	return summary, nil
}
