package clients

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spacesedan/captionflow/internal/models"
)

const (
	geminiEndpointFormat = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"
	defaultGeminiModel   = "gemini-2.0-flash"

	geminiRequestTimeout = 60 * time.Second // Timeout for individual Gemini API requests
)

var (
	geminiInstance *GeminiClient
	geminiOnce     sync.Once
)

type GeminiClient struct {
	httpClient *http.Client
	model      string
}

func GetGeminiClient() *GeminiClient {
	geminiOnce.Do(func() {
		model := os.Getenv("GEMINI_MODEL")
		if model == "" {
			model = defaultGeminiModel
		}

		geminiInstance = &GeminiClient{
			httpClient: &http.Client{Timeout: geminiRequestTimeout},
			model:      model,
		}
		slog.Info("[GeminiClient] Initialized",
			slog.String("model", model),
			slog.Duration("timeout", geminiRequestTimeout))
	})
	return geminiInstance
}

// Generate performs one generateContent call and returns the raw candidate
// text. The image, when present, rides along as an inline base64 part.
// No retries: a single failure surfaces to the caller.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, img *models.ImagePayload) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("%w: GEMINI_API_KEY not set", models.ErrAuth)
	}

	parts := []models.GeminiPart{{Text: prompt}}
	if img != nil {
		parts = append(parts, models.GeminiPart{
			InlineData: &models.GeminiInlineData{
				MimeType: img.MimeType,
				Data:     base64.StdEncoding.EncodeToString(img.Data),
			},
		})
	}

	payload := models.GeminiRequest{
		Contents: []models.GeminiContent{{Role: "user", Parts: parts}},
		GenerationConfig: &models.GeminiGenerationConfig{
			ResponseMIMEType: "application/json",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf(geminiEndpointFormat, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("[GeminiClient] Request failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return "", &models.TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &models.TransportError{Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("%w: status %d", models.ErrAuth, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Error("[GeminiClient] Upstream error",
			slog.Int("status", resp.StatusCode),
			slog.String("raw_response", preview(respBody)))
		return "", &models.UpstreamError{StatusCode: resp.StatusCode, Body: preview(respBody)}
	}

	var parsed models.GeminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		slog.Error("[GeminiClient] Failed to unmarshal response",
			slog.String("error", err.Error()),
			slog.String("raw_response", preview(respBody)))
		return "", &models.UpstreamError{StatusCode: resp.StatusCode, Body: preview(respBody)}
	}

	text := candidateText(parsed)
	if strings.TrimSpace(text) == "" {
		return "", &models.UpstreamError{StatusCode: resp.StatusCode, Body: "empty candidate text"}
	}

	slog.Info("[GeminiClient] Generation successful",
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("response_length", len(text)))
	return text, nil
}

// candidateText joins the text parts of the first candidate. The model
// returns the JSON array as a string inside the text part.
func candidateText(resp models.GeminiResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}

func preview(respBody []byte) string {
	raw := string(respBody)
	if len(raw) > 120 {
		raw = raw[:120] + "..."
	}
	return raw
}
