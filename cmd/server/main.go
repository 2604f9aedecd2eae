package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spacesedan/captionflow/config"
	"github.com/spacesedan/captionflow/internal/generation"
	"github.com/spacesedan/captionflow/internal/logging"
	"github.com/spacesedan/captionflow/internal/pipeline"
	"github.com/spacesedan/captionflow/internal/sentiment"
	"github.com/spacesedan/captionflow/internal/server"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	backend := generation.FromEnv()

	scorer, err := sentiment.FromEnv()
	if err != nil {
		slog.Error("[Main] Failed to initialize sentiment scorer",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	if closer, ok := scorer.(io.Closer); ok {
		defer closer.Close()
	}

	handler := server.NewHandler(pipeline.New(backend, scorer))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	slog.Info("[Main] Starting server", slog.String("port", port))
	if err := handler.Routes().Run(":" + port); err != nil {
		slog.Error("[Main] Server failed",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}
