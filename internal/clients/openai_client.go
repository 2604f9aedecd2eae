package clients

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/spacesedan/captionflow/internal/models"
)

const (
	defaultOpenAIModel   = openai.GPT4oMini
	openAIRequestTimeout = 60 * time.Second // Timeout for individual OpenAI API requests
)

var (
	openAIInstance *OpenAIClient
	openAIOnce     sync.Once
)

type OpenAIClient struct {
	client *openai.Client
	model  string
}

func GetOpenAIClient() *OpenAIClient {
	openAIOnce.Do(func() {
		config := openai.DefaultConfig(os.Getenv("OPENAI_API_KEY"))
		config.HTTPClient = &http.Client{Timeout: openAIRequestTimeout}

		model := os.Getenv("OPENAI_MODEL")
		if model == "" {
			model = defaultOpenAIModel
		}

		openAIInstance = &OpenAIClient{
			client: openai.NewClientWithConfig(config),
			model:  model,
		}
		slog.Info("[OpenAIClient] Initialized",
			slog.String("model", model),
			slog.Duration("timeout", openAIRequestTimeout))
	})
	return openAIInstance
}

// Generate performs one chat completion and returns the raw message content.
// The image, when present, is sent as a base64 data-URI image part.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string, img *models.ImagePayload) (string, error) {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return "", fmt.Errorf("%w: OPENAI_API_KEY not set", models.ErrAuth)
	}

	msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if img != nil {
		dataURI := fmt.Sprintf("data:%s;base64,%s",
			img.MimeType, base64.StdEncoding.EncodeToString(img.Data))
		msg.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: prompt},
			{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: dataURI},
			},
		}
	} else {
		msg.Content = prompt
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: []openai.ChatCompletionMessage{msg},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			if apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden {
				return "", fmt.Errorf("%w: %v", models.ErrAuth, err)
			}
			return "", &models.UpstreamError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
		slog.Error("[OpenAIClient] Request failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return "", &models.TransportError{Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &models.UpstreamError{StatusCode: http.StatusOK, Body: "no choices returned"}
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", &models.UpstreamError{StatusCode: http.StatusOK, Body: "empty message content"}
	}

	slog.Info("[OpenAIClient] Generation successful",
		slog.String("finish_reason", string(resp.Choices[0].FinishReason)),
		slog.Duration("elapsed", time.Since(start)))
	return content, nil
}
