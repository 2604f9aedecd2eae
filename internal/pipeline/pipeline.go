// Package pipeline runs the single-pass generation flow: validate, build
// the prompt, call the model once, normalize, then score each variant.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/spacesedan/captionflow/internal/generation"
	"github.com/spacesedan/captionflow/internal/models"
	"github.com/spacesedan/captionflow/internal/normalizer"
	"github.com/spacesedan/captionflow/internal/prompts"
	"github.com/spacesedan/captionflow/internal/sentiment"
)

type Pipeline struct {
	backend generation.Backend
	scorer  sentiment.Scorer
}

func New(backend generation.Backend, scorer sentiment.Scorer) *Pipeline {
	return &Pipeline{backend: backend, scorer: scorer}
}

// Run produces exactly req.Count scored variants or fails the whole request.
// Scoring failures are the one exception: they degrade the affected variant
// (nil Sentiment) without discarding it.
func (p *Pipeline) Run(ctx context.Context, req models.GenerationRequest) ([]models.PostVariant, error) {
	prompt, err := prompts.Build(req)
	if err != nil {
		return nil, err
	}

	slog.Info("[Pipeline] Requesting generation",
		slog.Int("count", req.Count),
		slog.String("post_type", req.PostType),
		slog.Bool("has_image", req.Image != nil))

	raw, err := p.backend.Generate(ctx, prompt, req.Image)
	if err != nil {
		return nil, err
	}

	variants, err := normalizer.Normalize(raw, req.Count)
	if err != nil {
		return nil, err
	}

	for i := range variants {
		result, err := p.scorer.Score(variants[i].Caption)
		if err != nil {
			slog.Warn("[Pipeline] Scoring failed, returning variant unscored",
				slog.Int("variant", i),
				slog.String("error", err.Error()))
			continue
		}
		variants[i].Sentiment = result
	}

	slog.Info("[Pipeline] Generation complete",
		slog.Int("variants", len(variants)))
	return variants, nil
}
