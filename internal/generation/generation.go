// Package generation abstracts the hosted multi-modal model endpoint. One
// outbound call per user action; no retries, no queuing.
package generation

import (
	"context"
	"log/slog"
	"os"

	"github.com/spacesedan/captionflow/internal/clients"
	"github.com/spacesedan/captionflow/internal/models"
)

// Backend performs one generation call against a hosted model and returns
// the raw textual response.
type Backend interface {
	Generate(ctx context.Context, prompt string, img *models.ImagePayload) (string, error)
}

var (
	_ Backend = (*clients.GeminiClient)(nil)
	_ Backend = (*clients.OpenAIClient)(nil)
)

// FromEnv picks the backend from GENERATION_BACKEND. Gemini is the default.
func FromEnv() Backend {
	switch backend := os.Getenv("GENERATION_BACKEND"); backend {
	case "openai":
		return clients.GetOpenAIClient()
	case "", "gemini":
		return clients.GetGeminiClient()
	default:
		slog.Warn("[Generation] Unknown backend, falling back to gemini",
			slog.String("backend", backend))
		return clients.GetGeminiClient()
	}
}
