package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/logging"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/packager"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/variation"
)

const landscapingRequest = `# Project Description

Build a landing page website for **Evergreen Yards**, a landscaping company located in Austin, TX.
Call us at (512) 555-0100 or email hello@evergreen.example.

## Services

- Lawn Care - weekly mowing
- Hardscaping - patios and walls

## Color Palette

- **Forest Green (#2D5016)** – primary buttons
`

type fakeRecorder struct {
	mu       sync.Mutex
	runs     map[string]*domain.GenerationRun
	updates  []string
	failNext bool
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{runs: map[string]*domain.GenerationRun{}}
}

func (f *fakeRecorder) Create(_ context.Context, run *domain.GenerationRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return errors.New("redis down")
	}
	f.runs[run.RunID] = run
	return nil
}

func (f *fakeRecorder) UpdateStage(_ context.Context, runID, stage string, st domain.StageState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[runID]
	if !ok {
		return domain.ErrRunNotFound
	}
	run.Stages[stage] = st
	f.updates = append(f.updates, stage+":"+string(st.Status))
	return nil
}

func (f *fakeRecorder) SetStatus(_ context.Context, runID string, status domain.RunStatus, errMsg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[runID]
	if !ok {
		return domain.ErrRunNotFound
	}
	run.Status, run.Error = status, errMsg
	return nil
}

func (f *fakeRecorder) SetOutputDir(_ context.Context, runID, dir string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if run, ok := f.runs[runID]; ok {
		run.OutputDir = dir
	}
	return nil
}

type fakeReports struct {
	saved []domain.ReviewKind
	err   error
}

func (f *fakeReports) Save(_ context.Context, runID string, r domain.Report) (*domain.ReportRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.saved = append(f.saved, r.Kind)
	return &domain.ReportRecord{RunID: runID, Report: r}, nil
}

func newTestPipeline(t *testing.T, deps Deps) *Pipeline {
	t.Helper()
	if deps.OutDir == "" {
		deps.OutDir = t.TempDir()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	p, err := NewPipeline(deps)
	require.NoError(t, err)
	return p
}

func TestRun_Markdown(t *testing.T) {
	ResetMetrics()
	rec := newFakeRecorder()
	reports := &fakeReports{}
	p := newTestPipeline(t, Deps{Runs: rec, Reports: reports})

	res, err := p.Run(context.Background(), Input{JobID: "job-1", Content: []byte(landscapingRequest)})
	require.NoError(t, err)

	assert.Equal(t, domain.RunCompleted, res.Status)
	assert.Equal(t, "Evergreen Yards", res.Spec.BusinessName)
	assert.Equal(t, "#2d5016", res.Spec.Colors.Primary)
	assert.Equal(t, []string{"Lawn Care", "Hardscaping"}, res.Spec.Services.Names())
	assert.NotEmpty(t, res.Prompt.UserPrompt)
	assert.Greater(t, res.DesignReview.OverallScore, 8.0)
	assert.Contains(t, res.Critique, "### Executive Summary")

	l := packager.NewRunLayout(p.outDir, res.RunID)
	for _, f := range []string{packager.SpecFile, packager.PromptFile, packager.VariationFile, packager.TemplateFile,
		packager.CTATemplateFile, packager.CodeReviewFile, packager.DesignReviewFile, packager.CritiqueFile} {
		assert.FileExists(t, l.Path(f))
	}
	cta, err := os.ReadFile(l.Path(packager.CTATemplateFile))
	require.NoError(t, err)
	assert.Contains(t, string(cta), "<!-- cta-optimized -->")
	assert.Contains(t, string(cta), `<meta property="og:title" content="Landscaping in Austin, TX | Evergreen Yards">`)
	assert.Contains(t, string(cta), `<script type="application/ld+json">`)

	require.NotNil(t, res.Variation)
	assert.Equal(t, "outdoor", res.Variation.Industry)
	assert.Equal(t, variation.New(nil).Generate(res.Spec, ""), *res.Variation)

	require.NotNil(t, res.Delivery)
	assert.FileExists(t, filepath.Join(res.Delivery.Dir, "index.php"))
	assert.FileExists(t, filepath.Join(res.Delivery.Dir, "design_variation.json"))
	spec, err := packager.LoadSpec(filepath.Join(res.Delivery.Dir, "spec.json"))
	require.NoError(t, err)
	assert.Equal(t, res.Spec, spec)

	run := rec.runs[res.RunID]
	require.NotNil(t, run)
	assert.Equal(t, domain.RunCompleted, run.Status)
	assert.Equal(t, res.Delivery.Dir, run.OutputDir)
	for _, s := range domain.Stages {
		assert.Equal(t, domain.StageSuccess, run.Stages[s].Status, s)
	}
	assert.Equal(t, "parse:running", rec.updates[0])
	assert.Equal(t, "package:success", rec.updates[len(rec.updates)-1])
	assert.Equal(t, []domain.ReviewKind{domain.ReviewCode, domain.ReviewDesign}, reports.saved)

	m := GetMetrics()
	assert.Equal(t, int64(1), m.Runs())
	assert.Equal(t, int64(1), m.StageCalls(domain.StagePackage))
	assert.Equal(t, int64(0), m.RunFailures())
}

func TestRun_UnreadableInputDegrades(t *testing.T) {
	p := newTestPipeline(t, Deps{})
	res, err := p.Run(context.Background(), Input{Path: filepath.Join(t.TempDir(), "missing.md")})
	require.NoError(t, err)

	assert.Equal(t, domain.RunCompleted, res.Status)
	assert.Equal(t, domain.DefaultBusinessType, res.Spec.BusinessType)
	assert.True(t, res.Spec.Colors.Complete())
	assert.NotEmpty(t, res.Spec.Services)
	require.NotEmpty(t, res.Warnings)
	assert.True(t, strings.HasPrefix(res.Warnings[0], "input ignored:"))
}

func TestRun_InvalidJSONDegrades(t *testing.T) {
	p := newTestPipeline(t, Deps{})
	res, err := p.Run(context.Background(), Input{Content: []byte(`{"business_info": `), Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, "#2563eb", res.Spec.Colors.Primary)
}

func TestRun_WriteFailure(t *testing.T) {
	ResetMetrics()
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	rec := newFakeRecorder()
	p := newTestPipeline(t, Deps{OutDir: blocker, Runs: rec})

	res, err := p.Run(context.Background(), Input{Raw: &domain.RawSpec{BusinessType: "PC Repair"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve:")
	assert.Equal(t, domain.RunFailed, res.Status)

	run := rec.runs[res.RunID]
	assert.Equal(t, domain.RunFailed, run.Status)
	assert.Equal(t, domain.StageFailed, run.Stages[domain.StageResolve].Status)
	assert.Equal(t, domain.StagePending, run.Stages[domain.StageEmit].Status)

	m := GetMetrics()
	assert.Equal(t, int64(1), m.RunFailures())
	assert.Equal(t, int64(1), m.StageErrors(domain.StageResolve))
}

func TestRun_RejectsInvalidJobID(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "out")
	rec := newFakeRecorder()
	p := newTestPipeline(t, Deps{OutDir: out, Runs: rec})

	res, err := p.Run(context.Background(), Input{JobID: "../../escaped", Raw: &domain.RawSpec{BusinessType: "Landscaping"}})
	require.ErrorIs(t, err, domain.ErrInvalidJobID)
	require.NotNil(t, res)
	assert.Equal(t, domain.RunFailed, res.Status)
	assert.Empty(t, rec.runs)
	assert.NoDirExists(t, filepath.Join(root, "escaped"))
	assert.NoDirExists(t, out)
}

func TestRun_TrackingFailuresAreNotFatal(t *testing.T) {
	rec := newFakeRecorder()
	rec.failNext = true
	p := newTestPipeline(t, Deps{Runs: rec, Reports: &fakeReports{err: errors.New("pg down")}})

	res, err := p.Run(context.Background(), Input{Raw: &domain.RawSpec{BusinessType: "Landscaping"}})
	require.NoError(t, err)
	assert.Equal(t, domain.RunCompleted, res.Status)
	assert.Empty(t, rec.runs)
}

func TestResolve_Cached(t *testing.T) {
	ResetMetrics()
	p := newTestPipeline(t, Deps{CacheSize: 2})
	raw := &domain.RawSpec{BusinessType: "PC Repair"}

	first := p.Resolve(context.Background(), raw)
	second := p.Resolve(context.Background(), &domain.RawSpec{BusinessType: "PC Repair"})
	assert.Equal(t, first, second)
	assert.Equal(t, "#3b82f6", first.Colors.Primary)
	assert.Equal(t, []string{"Computer Diagnostics", "Hardware Repair", "Software Solutions"}, first.Services.Names())

	// callers cannot corrupt the cached value
	first.Services[0].Name = "Changed"
	third := p.Resolve(context.Background(), raw)
	assert.Equal(t, "Computer Diagnostics", third.Services[0].Name)

	m := GetMetrics()
	assert.InDelta(t, 66.67, m.CacheHitRate(), 0.01)
}

func TestReview(t *testing.T) {
	p := newTestPipeline(t, Deps{})
	_, err := p.Review(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyMarkup)

	rv, err := p.Review(context.Background(), "<html><body>hi</body></html>")
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewCode, rv.CodeReview.Kind)
	assert.Less(t, rv.DesignReview.OverallScore, 3.0)
	assert.Contains(t, rv.Critique, "### Recommendations")
}

func TestNewLogger_RequestID(t *testing.T) {
	l := NewLogger(logging.WithRequestID(context.Background(), "rid-1"), nil)
	assert.Equal(t, "rid-1", l.requestID)
	assert.Equal(t, "unknown", NewLogger(context.Background(), nil).requestID)
}

func TestMetricsSnapshot(t *testing.T) {
	ResetMetrics()
	recordStage(domain.StageEmit, 0, errors.New("x"))
	recordStage("unknown", 0, nil)
	snap := GetMetrics().Snapshot()
	stages := snap["stages"].(map[string]map[string]any)
	assert.Equal(t, int64(1), stages[domain.StageEmit]["errors"])
	assert.Equal(t, int64(0), snap["runs"])
}
