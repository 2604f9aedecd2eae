package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/captionflow/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubGenerator struct {
	posts   []models.PostVariant
	err     error
	lastReq models.GenerationRequest
}

func (s *stubGenerator) Run(_ context.Context, req models.GenerationRequest) ([]models.PostVariant, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.posts, nil
}

func postForm(t *testing.T, router http.Handler, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts/generate",
		strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validForm() url.Values {
	return url.Values{
		"keywords":  {"summer sale"},
		"post_type": {"Promotional"},
		"platforms": {"Instagram", "Twitter"},
		"count":     {"2"},
	}
}

func TestGeneratePostsSuccess(t *testing.T) {
	gen := &stubGenerator{posts: []models.PostVariant{
		{
			Caption:   "Summer sale is live!",
			Hashtags:  []string{"#summer", "#sale"},
			Emojis:    []string{"☀️"},
			Sentiment: &models.Sentiment{Label: "positive", Score: 0.91},
		},
		{Caption: "Last chance to save.", Hashtags: []string{}, Emojis: []string{}},
	}}
	router := NewHandler(gen).Routes()

	w := postForm(t, router, validForm())
	require.Equal(t, http.StatusOK, w.Code)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Posts, 2)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, []string{"#summer", "#sale"}, resp.Posts[0].Hashtags)
	assert.Nil(t, resp.Posts[1].Sentiment)

	assert.Equal(t, "summer sale", gen.lastReq.Keywords)
	assert.Equal(t, []string{"Instagram", "Twitter"}, gen.lastReq.Platforms)
	assert.Equal(t, 2, gen.lastReq.Count)
	assert.Nil(t, gen.lastReq.Image)
}

func TestGeneratePostsWithImage(t *testing.T) {
	gen := &stubGenerator{posts: []models.PostVariant{{Caption: "ok", Hashtags: []string{}, Emojis: []string{}}}}
	router := NewHandler(gen).Routes()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("keywords", "beach day"))
	require.NoError(t, writer.WriteField("post_type", "General"))
	require.NoError(t, writer.WriteField("platforms", "Instagram"))
	require.NoError(t, writer.WriteField("count", "1"))
	part, err := writer.CreateFormFile("image", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts/generate", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gen.lastReq.Image)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF, 0xE0}, gen.lastReq.Image.Data)
	assert.NotEmpty(t, gen.lastReq.Image.MimeType)
}

func TestGeneratePostsErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &models.ValidationError{Field: "keywords", Reason: "must not be empty"}, http.StatusBadRequest},
		{"auth", models.ErrAuth, http.StatusServiceUnavailable},
		{"incomplete", models.ErrIncompleteResponse, http.StatusBadGateway},
		{"malformed", &models.MalformedVariantError{Index: 1, Reason: "missing caption"}, http.StatusBadGateway},
		{"transport", &models.TransportError{Err: errors.New("dial tcp: timeout")}, http.StatusBadGateway},
		{"upstream", &models.UpstreamError{StatusCode: 500, Body: "oops"}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewHandler(&stubGenerator{err: tt.err}).Routes()

			w := postForm(t, router, validForm())
			assert.Equal(t, tt.status, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestGeneratePostsRejectsNonIntegerCount(t *testing.T) {
	router := NewHandler(&stubGenerator{}).Routes()

	form := validForm()
	form.Set("count", "many")

	w := postForm(t, router, form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGeneratePostsRequiresCount(t *testing.T) {
	gen := &stubGenerator{}
	router := NewHandler(gen).Routes()

	form := validForm()
	form.Del("count")

	w := postForm(t, router, form)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "count")
}

func TestGeneratePostsRejectsOversizedImage(t *testing.T) {
	gen := &stubGenerator{posts: []models.PostVariant{{Caption: "ok", Hashtags: []string{}, Emojis: []string{}}}}
	router := NewHandler(gen).Routes()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("keywords", "beach day"))
	require.NoError(t, writer.WriteField("post_type", "General"))
	require.NoError(t, writer.WriteField("platforms", "Instagram"))
	require.NoError(t, writer.WriteField("count", "1"))
	part, err := writer.CreateFormFile("image", "huge.jpg")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0xAB}, maxImageBytes+1))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts/generate", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "image")
}

func TestOptions(t *testing.T) {
	router := NewHandler(&stubGenerator{}).Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/options", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		PostTypes []string `json:"post_types"`
		Platforms []string `json:"platforms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.PostTypes, "Informative")
	assert.Contains(t, resp.Platforms, "Instagram")
}

func TestIndexServesPage(t *testing.T) {
	router := NewHandler(&stubGenerator{}).Routes()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "generate-form")
}

func TestHealthz(t *testing.T) {
	router := NewHandler(&stubGenerator{}).Routes()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
