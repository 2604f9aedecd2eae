// Package sentiment scores generated captions with a local pretrained
// classifier. No network calls; the model is loaded once at process start.
package sentiment

import (
	"os"

	"github.com/spacesedan/captionflow/internal/models"
)

const (
	LabelPositive = "positive"
	LabelNeutral  = "neutral"
	LabelNegative = "negative"
)

// Scorer assigns a sentiment label and a confidence in [0,1] to a caption.
// Deterministic for identical input and identical model weights.
type Scorer interface {
	Score(caption string) (*models.Sentiment, error)
}

// FromEnv picks the scorer from SENTIMENT_BACKEND. VADER is the default:
// pure Go, nothing to download. The transformer backend needs an ONNX
// runtime available on the host.
func FromEnv() (Scorer, error) {
	switch os.Getenv("SENTIMENT_BACKEND") {
	case "transformer":
		return NewTransformerScorer()
	default:
		return NewVADERScorer(), nil
	}
}
