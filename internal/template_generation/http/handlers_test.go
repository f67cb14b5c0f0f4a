package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/repository"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/service"
)

const request = `# Project Description

Build a landing page website for **Evergreen Yards**, a landscaping company located in Austin, TX.
Call us at (512) 555-0100.

## Services

- Lawn Care - weekly mowing
- Hardscaping - patios and walls
`

type fakeReports struct {
	recs map[string][]domain.ReportRecord
}

func (f *fakeReports) GetByRunID(_ context.Context, runID string) ([]domain.ReportRecord, error) {
	recs, ok := f.recs[runID]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return recs, nil
}

func setupRouter(t *testing.T, dep Deps) (*gin.Engine, *repository.RunRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var runs *repository.RunRepository
	if dep.Runs == nil {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		runs = repository.NewRunRepository(client)
		dep.Runs = runs
	}
	if dep.Pipeline == nil {
		var recorder service.RunRecorder
		if runs != nil {
			recorder = runs
		}
		p, err := service.NewPipeline(service.Deps{OutDir: t.TempDir(), Runs: recorder})
		require.NoError(t, err)
		dep.Pipeline = p
	}

	r := gin.New()
	New(dep).Register(r.Group("/api/v1/templates"))
	return r, runs
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestResolve_RawSpec(t *testing.T) {
	r, _ := setupRouter(t, Deps{})

	w := do(r, http.MethodPost, "/api/v1/templates/resolve",
		`{"business_info":{"business_name":"Acme Plumbing","business_type":"plumbing"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res resolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "Acme Plumbing", res.Spec.BusinessName)
	assert.Greater(t, res.Spec.Services.Len(), 0)
}

func TestResolve_Markdown(t *testing.T) {
	r, _ := setupRouter(t, Deps{})

	body, _ := json.Marshal(resolveRequest{Markdown: request})
	w := do(r, http.MethodPost, "/api/v1/templates/resolve", string(body))
	require.Equal(t, http.StatusOK, w.Code)

	var res resolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "Evergreen Yards", res.Spec.BusinessName)
	assert.Equal(t, []string{"Lawn Care", "Hardscaping"}, res.Spec.Services.Names())
}

func TestResolve_InvalidJSON(t *testing.T) {
	r, _ := setupRouter(t, Deps{})

	w := do(r, http.MethodPost, "/api/v1/templates/resolve", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid json body", w.Body.String())
}

func TestGenerate_ThenGetRun(t *testing.T) {
	r, _ := setupRouter(t, Deps{})

	body, _ := json.Marshal(generateRequest{Markdown: request, JobID: "job-7"})
	w := do(r, http.MethodPost, "/api/v1/templates/generate", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		RunID  string           `json:"run_id"`
		JobID  string           `json:"job_id"`
		Status domain.RunStatus `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "job-7", res.JobID)
	assert.Equal(t, domain.RunCompleted, res.Status)

	w = do(r, http.MethodGet, "/api/v1/templates/runs/"+res.RunID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var run domain.GenerationRun
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.Equal(t, domain.RunCompleted, run.Status)
	for _, s := range domain.Stages {
		assert.Equal(t, domain.StageSuccess, run.Stages[s].Status, s)
	}
}

func TestGenerate_MissingInput(t *testing.T) {
	r, _ := setupRouter(t, Deps{})

	w := do(r, http.MethodPost, "/api/v1/templates/generate", `{"job_id":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerate_InvalidJobID(t *testing.T) {
	r, _ := setupRouter(t, Deps{})

	body, _ := json.Marshal(generateRequest{Markdown: request, JobID: "../../escaped"})
	w := do(r, http.MethodPost, "/api/v1/templates/generate", string(body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid job id")
}

func TestGenerate_RateLimited(t *testing.T) {
	r, _ := setupRouter(t, Deps{GenerateRPS: 0.001, GenerateBurst: 1})

	body, _ := json.Marshal(generateRequest{Markdown: request})
	first := do(r, http.MethodPost, "/api/v1/templates/generate", string(body))
	require.Equal(t, http.StatusOK, first.Code)

	second := do(r, http.MethodPost, "/api/v1/templates/generate", string(body))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestReview(t *testing.T) {
	r, _ := setupRouter(t, Deps{})

	w := do(r, http.MethodPost, "/api/v1/templates/review",
		`{"markup":"<html><head><title>Acme</title></head><body><h1>Hi</h1></body></html>"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res service.ReviewResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, domain.ReviewCode, res.CodeReview.Kind)
	assert.Less(t, res.DesignReview.OverallScore, 5.0)
	assert.True(t, strings.HasPrefix(res.Critique, "## Design Critique: Acme"))
}

func TestReview_EmptyMarkup(t *testing.T) {
	r, _ := setupRouter(t, Deps{})

	w := do(r, http.MethodPost, "/api/v1/templates/review", `{"markup":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRun_NotFound(t *testing.T) {
	r, _ := setupRouter(t, Deps{})

	w := do(r, http.MethodGet, "/api/v1/templates/runs/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrackingDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	p, err := service.NewPipeline(service.Deps{OutDir: t.TempDir()})
	require.NoError(t, err)
	r := gin.New()
	New(Deps{Pipeline: p}).Register(r.Group("/api/v1/templates"))

	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/api/v1/templates/runs/abc", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/api/v1/templates/runs/abc/events", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/api/v1/templates/runs/abc/reports", "").Code)
}

func TestGetReports(t *testing.T) {
	reports := &fakeReports{recs: map[string][]domain.ReportRecord{
		"run-1": {{ID: "r1", RunID: "run-1", Report: domain.Report{Kind: domain.ReviewCode, OverallScore: 8}}},
	}}
	r, _ := setupRouter(t, Deps{Reports: reports})

	w := do(r, http.MethodGet, "/api/v1/templates/runs/run-1/reports", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"run_id":"run-1"`)

	w = do(r, http.MethodGet, "/api/v1/templates/runs/run-2/reports", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStreamRunEvents_TerminalRun(t *testing.T) {
	r, runs := setupRouter(t, Deps{})
	ctx := context.Background()

	run := domain.NewGenerationRun("run-done", "job")
	require.NoError(t, runs.Create(ctx, run))
	require.NoError(t, runs.SetStatus(ctx, "run-done", domain.RunCompleted, ""))

	w := do(r, http.MethodGet, "/api/v1/templates/runs/run-done/events", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "event: initial\ndata: {"))
	assert.Contains(t, w.Body.String(), `"status":"completed"`)
}

// finishingStore completes the run right after handing out the snapshot,
// the window between reading state and listening for updates.
type finishingStore struct {
	*repository.RunRepository
}

func (s finishingStore) Get(ctx context.Context, runID string) (*domain.GenerationRun, error) {
	run, err := s.RunRepository.Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	if err := s.SetStatus(ctx, runID, domain.RunCompleted, ""); err != nil {
		return nil, err
	}
	return run, nil
}

func TestStreamRunEvents_TransitionAfterSnapshot(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	runs := repository.NewRunRepository(client)
	r, _ := setupRouter(t, Deps{Runs: finishingStore{runs}})

	bg := context.Background()
	require.NoError(t, runs.Create(bg, domain.NewGenerationRun("run-racy", "job")))

	ctx, cancel := context.WithTimeout(bg, 5*time.Second)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/templates/runs/run-racy/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.NoError(t, ctx.Err(), "stream did not end on the terminal update")
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "event: initial\ndata: {"))
	require.Contains(t, body, "event: update\ndata: {")
	split := strings.Index(body, "event: update")
	assert.Contains(t, body[:split], `"status":"queued"`)
	assert.Contains(t, body[split:], `"status":"completed"`)
}

func TestStreamRunEvents_NotFound(t *testing.T) {
	r, _ := setupRouter(t, Deps{})

	w := do(r, http.MethodGet, "/api/v1/templates/runs/nope/events", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetrics(t *testing.T) {
	r, _ := setupRouter(t, Deps{})

	w := do(r, http.MethodGet, "/api/v1/templates/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	var snap map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.NotEmpty(t, snap)
}
