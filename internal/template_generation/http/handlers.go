package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/ingest/parser"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/service"
)

// RunStore reads tracked runs. Implemented by repository.RunRepository.
type RunStore interface {
	Get(ctx context.Context, runID string) (*domain.GenerationRun, error)
	Subscribe(ctx context.Context, runID string) *redis.PubSub
}

type ReportReader interface {
	GetByRunID(ctx context.Context, runID string) ([]domain.ReportRecord, error)
}

type Deps struct {
	Pipeline      *service.Pipeline
	// Runs and Reports are optional; their routes answer 503 when unset.
	Runs          RunStore
	Reports       ReportReader
	GenerateRPS   float64
	GenerateBurst int
}

type Handler struct {
	pipeline *service.Pipeline
	runs     RunStore
	reports  ReportReader
	limiter  *rate.Limiter
}

func New(dep Deps) *Handler {
	limit := rate.Inf
	if dep.GenerateRPS > 0 {
		limit = rate.Limit(dep.GenerateRPS)
	}
	burst := dep.GenerateBurst
	if burst <= 0 {
		burst = 1
	}
	return &Handler{
		pipeline: dep.Pipeline,
		runs:     dep.Runs,
		reports:  dep.Reports,
		limiter:  rate.NewLimiter(limit, burst),
	}
}

type resolveRequest struct {
	Markdown string `json:"markdown"`
}

type resolveResponse struct {
	Spec     domain.ProjectSpec `json:"spec"`
	Warnings []string           `json:"warnings"`
}

type generateRequest struct {
	Markdown string          `json:"markdown"`
	Spec     *domain.RawSpec `json:"spec"`
	JobID    string          `json:"job_id"`
}

type reviewRequest struct {
	Markup string `json:"markup"`
}

// Resolve accepts either a raw spec object or {"markdown": "..."}.
func (h *Handler) Resolve(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.String(http.StatusBadRequest, "invalid json body")
		return
	}
	var probe resolveRequest
	if err := json.Unmarshal(body, &probe); err != nil {
		c.String(http.StatusBadRequest, "invalid json body")
		return
	}

	in := service.Input{Content: body, Format: parser.FormatJSON}
	if probe.Markdown != "" {
		in = service.Input{Content: []byte(probe.Markdown), Format: parser.FormatMarkdown}
	}
	raw, warnings := h.pipeline.Parse(in)
	if warnings == nil {
		warnings = []string{}
	}
	c.JSON(http.StatusOK, resolveResponse{
		Spec:     h.pipeline.Resolve(c.Request.Context(), raw),
		Warnings: warnings,
	})
}

func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid json body")
		return
	}
	if err := domain.ValidateJobID(req.JobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := service.Input{JobID: req.JobID, Raw: req.Spec}
	if req.Spec == nil {
		if req.Markdown == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "markdown or spec is required"})
			return
		}
		in.Content = []byte(req.Markdown)
		in.Format = parser.FormatMarkdown
	}

	res, err := h.pipeline.Run(c.Request.Context(), in)
	if errors.Is(err, domain.ErrInvalidJobID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		body := gin.H{"error": err.Error()}
		if res != nil {
			body["run_id"] = res.RunID
		}
		c.JSON(http.StatusInternalServerError, body)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Review(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid json body")
		return
	}
	res, err := h.pipeline.Review(c.Request.Context(), req.Markup)
	if errors.Is(err, domain.ErrEmptyMarkup) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetRun(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run tracking disabled"})
		return
	}
	run, err := h.runs.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get run"})
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *Handler) GetReports(c *gin.Context) {
	if h.reports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report storage disabled"})
		return
	}
	recs, err := h.reports.GetByRunID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrReportNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "reports not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get reports"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"run_id": c.Param("id"), "reports": recs})
}

func (h *Handler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, service.GetMetrics().Snapshot())
}

// rateLimit rejects requests once the token bucket is empty.
func (h *Handler) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
