package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tedred-internship-api/config"
	"tedred-internship-api/internal/delivery/http/middleware"
	"tedred-internship-api/internal/repository/memory"
	"tedred-internship-api/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Error     json.RawMessage `json:"error"`
	RequestID string          `json:"request_id"`
}

type sessionData struct {
	SessionID string `json:"session_id"`
	Step      int    `json:"step"`
	Record    struct {
		ResumeURL string `json:"resume_url"`
	} `json:"record"`
}

func testConfig() *config.Config {
	return &config.Config{
		FrontendURL:              "http://localhost:3000",
		RateLimitWindowSeconds:   60,
		RateLimitGlobalThreshold: 1000,
		RateLimitSubmitThreshold: 10,
		MaxResumeBytes:           1 << 10,
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, limiter *middleware.RateLimiter, checks map[string]usecase.Pinger) *gin.Engine {
	t.Helper()
	// Monday
	clock := func() time.Time { return time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC) }
	wizardUC := usecase.NewWizardUsecase(
		memory.NewSessionRepository(time.Hour),
		memory.NewSimulatedSubmitter(0),
		nil,
		nil,
		usecase.WizardConfig{SubmitMaxAttempts: 1, MaxResumeBytes: cfg.MaxResumeBytes},
		usecase.WithClock(clock),
	)
	return NewRouter(RouterDeps{
		WizardUC:    wizardUC,
		HealthUC:    usecase.NewHealthUsecase(checks),
		RateLimiter: limiter,
		Config:      cfg,
	})
}

func do(r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func startSession(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w, env := do(r, http.MethodPost, "/v1/wizard/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var data sessionData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.SessionID)
	assert.Equal(t, 1, data.Step)
	return data.SessionID
}

func TestStartAndGetSession(t *testing.T) {
	r := newTestRouter(t, testConfig(), nil, nil)
	id := startSession(t, r)

	w, env := do(r, http.MethodGet, "/v1/wizard/sessions/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")

	w, env = do(r, http.MethodGet, "/v1/wizard/sessions/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}

func TestAdvance_BlockedStepReturnsFieldErrors(t *testing.T) {
	r := newTestRouter(t, testConfig(), nil, nil)
	id := startSession(t, r)

	w, env := do(r, http.MethodPost, "/v1/wizard/sessions/"+id+"/advance", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var details usecase.GateDetails
	require.NoError(t, json.Unmarshal(env.Error, &details))
	assert.Equal(t, 1, int(details.Step))
	assert.Equal(t, "Personal Info", details.StepName)
	assert.Contains(t, details.Fields, "firstName")
}

func TestBindErrorsAreFormatted(t *testing.T) {
	r := newTestRouter(t, testConfig(), nil, nil)
	id := startSession(t, r)

	w, env := do(r, http.MethodPost, "/v1/wizard/sessions/"+id+"/jump", map[string]int{"step": 9})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var messages []string
	require.NoError(t, json.Unmarshal(env.Error, &messages))
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "at most 6")

	w, _ = do(r, http.MethodDelete, "/v1/wizard/sessions/"+id+"/education/-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(r, http.MethodPut, "/v1/wizard/sessions/"+id+"/experience/0/dates",
		map[string]string{"field": "start_date", "month": "2024-01"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func upload(r *gin.Engine, id, filename string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("resume", filename)
	_, _ = part.Write(content)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/wizard/sessions/"+id+"/resume", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAttachResume(t *testing.T) {
	r := newTestRouter(t, testConfig(), nil, nil)
	id := startSession(t, r)

	w := upload(r, id, "cv.pdf", []byte("%PDF-1.4\n%%EOF\n"))
	require.Equal(t, http.StatusOK, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var data sessionData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "cv.pdf", data.Record.ResumeURL)

	w = upload(r, id, "photo.png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = upload(r, id, "big.pdf", append([]byte("%PDF-1.4\n"), make([]byte, 2<<10)...))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestExportBeforeSubmitIsConflict(t *testing.T) {
	r := newTestRouter(t, testConfig(), nil, nil)
	id := startSession(t, r)

	w, _ := do(r, http.MethodGet, "/v1/wizard/sessions/"+id+"/export?format=csv", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCatalog(t *testing.T) {
	r := newTestRouter(t, testConfig(), nil, nil)

	w, env := do(r, http.MethodGet, "/v1/wizard/catalog", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cat WizardCatalog
	require.NoError(t, json.Unmarshal(env.Data, &cat))
	assert.Len(t, cat.Steps, 6)
	assert.True(t, cat.Steps[1].Skippable)
	assert.NotEmpty(t, cat.Departments)
	assert.Len(t, cat.ProficiencyLevels, 4)
	assert.Len(t, cat.AssessmentStages, 7)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, testConfig(), nil, map[string]usecase.Pinger{
		"database": func(context.Context) error { return nil },
	})
	w, _ := do(r, http.MethodGet, "/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	r = newTestRouter(t, testConfig(), nil, map[string]usecase.Pinger{
		"redis": func(context.Context) error { return errors.New("dial tcp: refused") },
	})
	w, env := do(r, http.MethodGet, "/v1/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, string(env.Error), "refused")
}

func TestGlobalRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitGlobalThreshold = 2
	r := newTestRouter(t, cfg, middleware.NewRateLimiter(nil, nil), nil)

	do(r, http.MethodGet, "/v1/wizard/catalog", nil)
	do(r, http.MethodGet, "/v1/wizard/catalog", nil)
	w, _ := do(r, http.MethodGet, "/v1/wizard/catalog", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// health is outside the wizard limit
	w, _ = do(r, http.MethodGet, "/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
