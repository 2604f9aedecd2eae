// One-shot CLI run of the generation pipeline, for use from scripts or when
// the web UI is overkill.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spacesedan/captionflow/config"
	"github.com/spacesedan/captionflow/internal/generation"
	"github.com/spacesedan/captionflow/internal/logging"
	"github.com/spacesedan/captionflow/internal/models"
	"github.com/spacesedan/captionflow/internal/pipeline"
	"github.com/spacesedan/captionflow/internal/sentiment"
)

func main() {
	keywords := flag.String("keywords", "", "keywords or a short description of the post")
	postType := flag.String("type", "General", "post type/tone")
	platforms := flag.String("platforms", "Instagram", "comma-separated target platforms")
	count := flag.Int("count", 1, "number of variants to generate")
	imagePath := flag.String("image", "", "optional path to an image file")
	asJSON := flag.Bool("json", false, "print raw JSON instead of formatted output")
	flag.Parse()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	req := models.GenerationRequest{
		Keywords: *keywords,
		PostType: *postType,
		Count:    *count,
	}
	for _, p := range strings.Split(*platforms, ",") {
		if p = strings.TrimSpace(p); p != "" {
			req.Platforms = append(req.Platforms, p)
		}
	}

	if *imagePath != "" {
		data, err := os.ReadFile(*imagePath)
		if err != nil {
			slog.Error("[Generate] Failed to read image",
				slog.String("path", *imagePath),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		req.Image = &models.ImagePayload{
			Data:     data,
			MimeType: http.DetectContentType(data),
		}
	}

	scorer, err := sentiment.FromEnv()
	if err != nil {
		slog.Error("[Generate] Failed to initialize sentiment scorer",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	if closer, ok := scorer.(io.Closer); ok {
		defer closer.Close()
	}

	p := pipeline.New(generation.FromEnv(), scorer)
	posts, err := p.Run(context.Background(), req)
	if err != nil {
		slog.Error("[Generate] Generation failed",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *asJSON {
		out, err := json.MarshalIndent(posts, "", "  ")
		if err != nil {
			slog.Error("[Generate] Failed to marshal output",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	for i, post := range posts {
		fmt.Printf("Post #%d:\n", i+1)
		fmt.Printf("  Caption:  %s %s\n", post.Caption, strings.Join(post.Emojis, ""))
		fmt.Printf("  Hashtags: %s\n", strings.Join(post.Hashtags, " "))
		if post.Sentiment != nil {
			fmt.Printf("  Sentiment: %s (%.2f)\n", post.Sentiment.Label, post.Sentiment.Score)
		} else {
			fmt.Printf("  Sentiment: unavailable\n")
		}
		fmt.Println()
	}
}
