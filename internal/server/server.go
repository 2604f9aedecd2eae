// Package server exposes the generation pipeline over HTTP: a JSON API plus
// an embedded single-page form.
package server

import (
	"context"
	_ "embed"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/spacesedan/captionflow/internal/models"
)

//go:embed web/index.html
var indexPage []byte

// Upload cap for the optional reference image, enforced in readImage.
const maxImageBytes = 8 << 20

var errImageTooLarge = errors.New("uploaded image exceeds the size limit")

// PostGenerator runs the full pipeline for one user action.
type PostGenerator interface {
	Run(ctx context.Context, req models.GenerationRequest) ([]models.PostVariant, error)
}

type Handler struct {
	generator PostGenerator
}

func NewHandler(generator PostGenerator) *Handler {
	return &Handler{generator: generator}
}

func (h *Handler) Routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.MaxMultipartMemory = maxImageBytes

	router.GET("/", h.Index)
	router.GET("/healthz", h.Health)

	api := router.Group("/api/v1")
	api.GET("/options", h.Options)
	api.POST("/posts/generate", h.GeneratePosts)

	return router
}

func (h *Handler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexPage)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Options feeds the form's select/checkbox vocabularies.
func (h *Handler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"post_types": models.PostTypes(),
		"platforms":  models.Platforms(),
	})
}

type GenerateResponse struct {
	Posts []models.PostVariant `json:"posts"`
	Count int                  `json:"count"`
}

// GeneratePosts handles POST /api/v1/posts/generate. Multipart form fields:
// keywords, post_type, platforms (repeated), count, image (optional file).
func (h *Handler) GeneratePosts(c *gin.Context) {
	countField := c.PostForm("count")
	if countField == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count is required"})
		return
	}
	count, err := strconv.Atoi(countField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count must be an integer"})
		return
	}

	img, err := readImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image must be 8MB or smaller"})
		return
	}

	req := models.GenerationRequest{
		Keywords:  c.PostForm("keywords"),
		PostType:  c.PostForm("post_type"),
		Platforms: c.PostFormArray("platforms"),
		Count:     count,
		Image:     img,
	}

	posts, err := h.generator.Run(c.Request.Context(), req)
	if err != nil {
		status, msg := statusForError(err)
		slog.Error("[Server] Generation request failed",
			slog.Any("request_id", c.Value("request_id")),
			slog.Int("status", status),
			slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, GenerateResponse{Posts: posts, Count: len(posts)})
}

// readImage pulls the optional uploaded image out of the multipart form.
// An absent or unreadable file never fails the request; an oversized one
// does.
func readImage(c *gin.Context) (*models.ImagePayload, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, nil
	}

	if fileHeader.Size > maxImageBytes {
		return nil, errImageTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		slog.Warn("[Server] Failed to open uploaded image",
			slog.String("error", err.Error()))
		return nil, nil
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil || len(data) == 0 {
		return nil, nil
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	return &models.ImagePayload{Data: data, MimeType: mimeType}, nil
}

// statusForError maps the pipeline error taxonomy onto one user-visible
// message per failed request.
func statusForError(err error) (int, string) {
	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, vErr.Error()
	}
	if errors.Is(err, models.ErrAuth) {
		return http.StatusServiceUnavailable, "generation service credentials are not configured"
	}
	if errors.Is(err, models.ErrIncompleteResponse) {
		return http.StatusBadGateway, "the model returned fewer posts than requested, please try again"
	}

	var (
		mErr *models.MalformedVariantError
		tErr *models.TransportError
		uErr *models.UpstreamError
	)
	switch {
	case errors.As(err, &mErr):
		return http.StatusBadGateway, "the model returned a malformed post, please try again"
	case errors.As(err, &tErr):
		return http.StatusBadGateway, "could not reach the generation service"
	case errors.As(err, &uErr):
		return http.StatusBadGateway, "the generation service returned an error"
	}

	return http.StatusInternalServerError, "internal error"
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("request_id", requestID)

		start := time.Now()
		c.Next()

		slog.Info("[Server] Request handled",
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)))
	}
}
