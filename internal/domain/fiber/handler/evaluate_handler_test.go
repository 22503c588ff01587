package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fadilmartias/pitch-analyzer/internal/config"
	"github.com/fadilmartias/pitch-analyzer/internal/dto"
	"github.com/fadilmartias/pitch-analyzer/internal/extractor"
	"github.com/fadilmartias/pitch-analyzer/internal/model"
	"github.com/fadilmartias/pitch-analyzer/internal/repository"
	"github.com/fadilmartias/pitch-analyzer/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	err error
}

func (s stubExtractor) Extract(path, _ string) (extractor.Result, error) {
	if s.err != nil {
		return extractor.Result{}, s.err
	}
	return extractor.Result{Content: "Slide 1:\n" + filepath.Base(path), UnitCount: 1}, nil
}

type tenScorer struct{}

func (tenScorer) ScoreCategory(context.Context, string, string, string) model.ScoreResult {
	return model.ScoreResult{Score: 10, Notes: "x", Outcome: model.OutcomeScored}
}

func (tenScorer) ScoreDecision(context.Context, model.DecisionRequest) model.Decision {
	return model.Decision{Investible: "Yes", Summary: "Fund it.", KeyStrengths: []string{"team"}, KeyConcerns: []string{}}
}

type testApp struct {
	app       *fiber.App
	uploadDir string
}

func newTestApp(t *testing.T, ext stubExtractor, credential func() error) testApp {
	t.Helper()
	dir := t.TempDir()
	uploadDir := filepath.Join(dir, "uploads")

	store := repository.NewResultRepository(repository.NewMemoryCache(), repository.NewFileMirror(filepath.Join(dir, "reports")), nil)
	uc := usecase.NewEvaluationUsecase(ext, usecase.NewEvaluator(tenScorer{}, nil, nil), store, nil, credential, nil, nil)
	h := NewEvaluateHandler(uc, &config.AppConfig{UploadDir: uploadDir, MaxUploadMB: 1}, nil)

	app := fiber.New()
	h.RegisterRoutes(app)
	return testApp{app: app, uploadDir: uploadDir}
}

func multipartRequest(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func validFields() map[string]string {
	return map[string]string{
		"company_name": "Acme",
		"sector":       "Fintech",
		"stage":        "Seed",
		"funding_ask":  "$2M",
	}
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestUpload_Success(t *testing.T) {
	ta := newTestApp(t, stubExtractor{}, nil)

	resp, err := ta.app.Test(multipartRequest(t, "deck.PDF", []byte("%PDF-1.4"), validFields()), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decode[dto.UploadResponse](t, resp)
	assert.NotEmpty(t, out.EvaluationID)
	assert.Equal(t, out.EvaluationID, out.Result.EvaluationID)
	assert.Equal(t, "deck.PDF", out.Result.Filename)
	assert.Equal(t, 10.0, out.Result.Scores[model.OverallKey])
	assert.Equal(t, "Yes", out.Result.Investible)
	assert.FileExists(t, filepath.Join(ta.uploadDir, out.EvaluationID+".pdf"))

	resp, err = ta.app.Test(httptest.NewRequest(http.MethodGet, "/result/"+out.EvaluationID, nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	stored := decode[model.EvaluationResult](t, resp)
	assert.Equal(t, out.Result, stored)
}

func TestUpload_Validation(t *testing.T) {
	ta := newTestApp(t, stubExtractor{}, nil)

	tests := []struct {
		name     string
		filename string
		content  []byte
		fields   map[string]string
		message  string
	}{
		{"missing file", "", nil, validFields(), "file is required"},
		{"docx", "deck.docx", []byte("x"), validFields(), "Only PDF and PPTX files are supported"},
		{"too large", "deck.pdf", make([]byte, 1024*1024+1), validFields(), "file size is too large (max 1MB)"},
		{"missing fields", "deck.pptx", []byte("x"), map[string]string{"company_name": "Acme"}, "missing required fields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ta.app.Test(multipartRequest(t, tt.filename, tt.content, tt.fields), -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			body := decode[map[string]any](t, resp)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
		})
	}

	entries, _ := os.ReadDir(ta.uploadDir)
	assert.Empty(t, entries)
}

func TestUpload_MissingCredential(t *testing.T) {
	ta := newTestApp(t, stubExtractor{}, func() error {
		return &model.CredentialError{Variable: "GROQ_API_KEY"}
	})

	resp, err := ta.app.Test(multipartRequest(t, "deck.pdf", []byte("x"), validFields()), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "GROQ_API_KEY not configured", decode[map[string]any](t, resp)["message"])
}

func TestUpload_ExtractionFailure(t *testing.T) {
	ta := newTestApp(t, stubExtractor{err: model.WrapError(model.ErrExtraction, "open pdf", errors.New("corrupt"))}, nil)

	resp, err := ta.app.Test(multipartRequest(t, "deck.pdf", []byte("garbage"), validFields()), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, decode[map[string]any](t, resp)["message"], "Evaluation failed: ")

	entries, _ := os.ReadDir(ta.uploadDir)
	assert.Empty(t, entries)
}

func TestResult_NotFound(t *testing.T) {
	ta := newTestApp(t, stubExtractor{}, nil)

	for _, id := range []string{"unknown", "9a4c0a52-1111-4222-8333-444455556666"} {
		resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/result/"+id, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Evaluation not found", decode[map[string]any](t, resp)["message"])
	}
}
