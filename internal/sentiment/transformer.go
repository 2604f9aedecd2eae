package sentiment

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/spacesedan/captionflow/internal/models"
)

const (
	defaultModelDir  = "./internal/transformers/models"
	sentimentModelID = "KnightsAnalytics/distilbert-base-uncased-finetuned-sst-2-english"
)

// TransformerScorer runs a distilbert sst-2 text-classification pipeline via
// hugot. Heavier than VADER and binary (no neutral label), but closer to the
// hosted transformer pipelines this replaces.
type TransformerScorer struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
}

// NewTransformerScorer downloads the model if missing, starts an ONNX
// runtime session, and builds the classification pipeline. Call Close on
// shutdown to release the session.
func NewTransformerScorer() (*TransformerScorer, error) {
	modelDir := os.Getenv("SENTIMENT_MODEL_DIR")
	if modelDir == "" {
		modelDir = defaultModelDir
	}
	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create model directory: %w", err)
	}

	slog.Info("[TransformerScorer] Ensuring sentiment model is present",
		slog.String("model", sentimentModelID),
		slog.String("dir", modelDir))
	modelPath, err := hugot.DownloadModel(sentimentModelID, modelDir, hugot.NewDownloadOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to download sentiment model: %w", err)
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "sentimentClassificationPipeline",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("failed to initialize sentiment pipeline: %w", err)
	}

	slog.Info("[TransformerScorer] Sentiment pipeline ready",
		slog.String("model_path", modelPath))
	return &TransformerScorer{session: session, pipeline: pipeline}, nil
}

func (s *TransformerScorer) Score(caption string) (*models.Sentiment, error) {
	output, err := s.pipeline.RunPipeline([]string{caption})
	if err != nil {
		return nil, &models.ScoringError{Err: err}
	}

	if len(output.ClassificationOutputs) == 0 || len(output.ClassificationOutputs[0]) == 0 {
		return nil, &models.ScoringError{Err: errors.New("empty classification output")}
	}

	best := output.ClassificationOutputs[0][0]
	return &models.Sentiment{
		Label: strings.ToLower(best.Label),
		Score: float64(best.Score),
	}, nil
}

func (s *TransformerScorer) Close() error {
	return s.session.Destroy()
}
