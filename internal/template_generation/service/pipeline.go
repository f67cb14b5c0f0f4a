package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/emitter"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/export"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/ingest/parser"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/ingest/validator"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/packager"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/prompt"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/resolver"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/review"
	_ "github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/review/checks"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/seo"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/tables"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/variation"
)

const defaultCacheSize = 256

type Deps struct {
	Tables     *tables.Tables
	Resolver   *resolver.Resolver
	Assembler  *prompt.Assembler
	Emitter    *emitter.Emitter
	Variations *variation.Generator
	Packager   *packager.Packager
	Runs       RunRecorder
	Reports    ReportStore
	Logger     *zap.Logger
	OutDir     string
	CacheSize  int
}

// Input is one generation request. Raw wins over Content, Content over Path.
type Input struct {
	JobID   string
	Path    string
	Content []byte
	Format  parser.Format
	Raw     *domain.RawSpec
}

type Result struct {
	RunID        string               `json:"run_id"`
	JobID        string               `json:"job_id"`
	Status       domain.RunStatus     `json:"status"`
	Spec         domain.ProjectSpec   `json:"spec"`
	Warnings     []string             `json:"warnings"`
	Prompt       *prompt.Payload      `json:"prompt"`
	Variation    *variation.Variation `json:"variation"`
	CodeReview   domain.Report        `json:"code_review"`
	DesignReview domain.Report        `json:"design_review"`
	Critique     string               `json:"critique"`
	RunDir       string               `json:"run_dir"`
	Delivery     *packager.Delivery   `json:"delivery"`
}

type ReviewResult struct {
	CodeReview   domain.Report `json:"code_review"`
	DesignReview domain.Report `json:"design_review"`
	Critique     string        `json:"critique"`
}

type Pipeline struct {
	tables     *tables.Tables
	resolver   *resolver.Resolver
	assembler  *prompt.Assembler
	emitter    *emitter.Emitter
	variations *variation.Generator
	packager   *packager.Packager
	runs       RunRecorder
	reports    ReportStore
	log        *zap.Logger
	outDir     string
	cache      *lru.Cache[string, domain.ProjectSpec]
}

func NewPipeline(deps Deps) (*Pipeline, error) {
	p := &Pipeline{
		tables:     deps.Tables,
		resolver:   deps.Resolver,
		assembler:  deps.Assembler,
		emitter:    deps.Emitter,
		variations: deps.Variations,
		packager:   deps.Packager,
		runs:       deps.Runs,
		reports:    deps.Reports,
		log:        deps.Logger,
		outDir:     deps.OutDir,
	}
	if p.tables == nil {
		p.tables = tables.Default()
	}
	if p.resolver == nil {
		p.resolver = resolver.New(p.tables)
	}
	if p.variations == nil {
		p.variations = variation.New(nil)
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	if p.outDir == "" {
		p.outDir = "out"
	}
	var err error
	if p.assembler == nil {
		if p.assembler, err = prompt.NewAssembler(prompt.DefaultFragments()); err != nil {
			return nil, err
		}
	}
	if p.emitter == nil {
		if p.emitter, err = emitter.New(); err != nil {
			return nil, err
		}
	}
	if p.packager == nil {
		if p.packager, err = packager.New(packager.Options{OutDir: p.outDir}); err != nil {
			return nil, err
		}
	}
	size := deps.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	if p.cache, err = lru.New[string, domain.ProjectSpec](size); err != nil {
		return nil, fmt.Errorf("resolve cache: %w", err)
	}
	return p, nil
}

// Parse turns an input into a raw spec. Unreadable or malformed input
// degrades to an empty spec; the returned warnings say why.
func (p *Pipeline) Parse(in Input) (*domain.RawSpec, []string) {
	var warnings []string
	raw, err := p.parse(in)
	if err != nil {
		warnings = append(warnings, "input ignored: "+err.Error())
		raw = &domain.RawSpec{}
	}
	return raw, append(warnings, validator.Validate(raw)...)
}

func (p *Pipeline) parse(in Input) (*domain.RawSpec, error) {
	switch {
	case in.Raw != nil:
		return in.Raw, nil
	case len(in.Content) > 0:
		f := in.Format
		if f == "" {
			f = parser.Sniff(in.Content)
		}
		return parser.ParseBytes(in.Content, f, p.tables)
	case in.Path != "":
		return parser.ParseFile(in.Path, p.tables)
	default:
		return nil, errors.New("no request provided")
	}
}

// Resolve is memoized on the JSON form of raw; resolution is a pure
// function of raw and the tables.
func (p *Pipeline) Resolve(ctx context.Context, raw *domain.RawSpec) domain.ProjectSpec {
	key, err := cacheKey(raw)
	if err != nil {
		NewLogger(ctx, p.log).LogWarnf("resolve", "cache key: %v", err)
		return p.resolver.Resolve(raw)
	}
	if spec, ok := p.cache.Get(key); ok {
		recordCache(true)
		return cloneSpec(spec)
	}
	recordCache(false)
	spec := p.resolver.Resolve(raw)
	p.cache.Add(key, spec)
	return cloneSpec(spec)
}

// CTA exposes the resolver's call-to-action rules.
func (p *Pipeline) CTA() emitter.CTAResolver { return p.resolver }

// Review scores markup without writing anything.
func (p *Pipeline) Review(ctx context.Context, markup string) (*ReviewResult, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, domain.ErrEmptyMarkup
	}
	design := review.Score(domain.ReviewDesign, markup)
	return &ReviewResult{
		CodeReview:   review.Score(domain.ReviewCode, markup),
		DesignReview: design,
		Critique:     review.RenderCritique(design, markup),
	}, nil
}

// Run executes parse, resolve, assemble, emit, review and package in order.
// Only an invalid job id and failures to write artifacts are returned.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	layout := packager.NewRunLayout(p.outDir, runID)
	log := NewLogger(ctx, p.log).With(zap.String("run_id", runID))
	res := &Result{RunID: runID, JobID: in.JobID, Status: domain.RunRunning, RunDir: layout.Dir, Warnings: []string{}}
	if err := domain.ValidateJobID(in.JobID); err != nil {
		res.Status = domain.RunFailed
		return res, err
	}

	p.track(ctx, log, func() error { return p.runs.Create(ctx, domain.NewGenerationRun(runID, in.JobID)) })

	err := p.execute(ctx, log, in, layout, res)
	recordRun(time.Since(start), err)
	if err != nil {
		res.Status = domain.RunFailed
		log.LogError("run", err)
		p.track(ctx, log, func() error { return p.runs.SetStatus(ctx, runID, domain.RunFailed, err.Error()) })
		return res, err
	}

	res.Status = domain.RunCompleted
	p.track(ctx, log, func() error { return p.runs.SetOutputDir(ctx, runID, res.Delivery.Dir) })
	p.track(ctx, log, func() error { return p.runs.SetStatus(ctx, runID, domain.RunCompleted, "") })
	log.LogInfof("run", "completed in %s with %d warning(s)", time.Since(start), len(res.Warnings))
	return res, nil
}

func (p *Pipeline) execute(ctx context.Context, log *Logger, in Input, layout packager.RunLayout, res *Result) error {
	var raw *domain.RawSpec
	err := p.stage(ctx, log, res.RunID, domain.StageParse, func() (string, error) {
		var warnings []string
		raw, warnings = p.Parse(in)
		for _, w := range warnings {
			log.LogWarn("parse", w)
		}
		res.Warnings = append(res.Warnings, warnings...)
		return fmt.Sprintf("%d warning(s)", len(warnings)), nil
	})
	if err != nil {
		return err
	}

	err = p.stage(ctx, log, res.RunID, domain.StageResolve, func() (string, error) {
		res.Spec = p.Resolve(ctx, raw)
		return packager.SpecFile, export.WriteJSON(layout.Path(packager.SpecFile), res.Spec)
	})
	if err != nil {
		return err
	}

	err = p.stage(ctx, log, res.RunID, domain.StageAssemble, func() (string, error) {
		payload, err := p.assembler.Assemble(res.Spec, raw)
		if err != nil {
			return "", err
		}
		res.Prompt = payload
		if err := export.WriteJSON(layout.Path(packager.PromptFile), payload); err != nil {
			return "", err
		}
		v := p.variations.Generate(res.Spec, raw.DesignNotes())
		res.Variation = &v
		return v.ID, export.WriteJSON(layout.Path(packager.VariationFile), v)
	})
	if err != nil {
		return err
	}

	var markup string
	err = p.stage(ctx, log, res.RunID, domain.StageEmit, func() (string, error) {
		doc, err := p.emitter.Render(res.Spec, p.resolver)
		if err != nil {
			return "", err
		}
		if doc.Markup, err = seo.Enhance(doc.Markup, seo.InfoFromSpec(res.Spec)); err != nil {
			return "", err
		}
		if err := doc.Write(layout.Path(packager.TemplateFile)); err != nil {
			return "", err
		}
		markup = emitter.OptimizeCTAs(doc.Markup, res.Spec, p.resolver)
		return packager.CTATemplateFile, export.WriteText(layout.Path(packager.CTATemplateFile), markup)
	})
	if err != nil {
		return err
	}

	err = p.stage(ctx, log, res.RunID, domain.StageReview, func() (string, error) {
		rv, err := p.Review(ctx, markup)
		if err != nil {
			return "", err
		}
		res.CodeReview, res.DesignReview, res.Critique = rv.CodeReview, rv.DesignReview, rv.Critique
		if err := export.WriteJSON(layout.Path(packager.CodeReviewFile), rv.CodeReview); err != nil {
			return "", err
		}
		if err := export.WriteJSON(layout.Path(packager.DesignReviewFile), rv.DesignReview); err != nil {
			return "", err
		}
		if err := export.WriteText(layout.Path(packager.CritiqueFile), rv.Critique); err != nil {
			return "", err
		}
		p.saveReports(ctx, log, res.RunID, rv.CodeReview, rv.DesignReview)
		return fmt.Sprintf("code %.2f, design %.2f", rv.CodeReview.OverallScore, rv.DesignReview.OverallScore), nil
	})
	if err != nil {
		return err
	}

	return p.stage(ctx, log, res.RunID, domain.StagePackage, func() (string, error) {
		d, err := p.packager.Package(ctx, packager.Input{
			JobID:        in.JobID,
			RunID:        res.RunID,
			RunDir:       layout.Dir,
			Spec:         res.Spec,
			CodeReview:   &res.CodeReview,
			DesignReview: &res.DesignReview,
		})
		if err != nil {
			return "", err
		}
		res.Delivery = d
		res.Warnings = append(res.Warnings, d.Warnings...)
		return d.Dir, nil
	})
}

// stage runs fn and reports its lifecycle to the run recorder and metrics.
func (p *Pipeline) stage(ctx context.Context, log *Logger, runID, name string, fn func() (string, error)) error {
	started := time.Now().UTC()
	p.track(ctx, log, func() error {
		return p.runs.UpdateStage(ctx, runID, name, domain.StageState{Status: domain.StageRunning, StartedAt: &started})
	})

	output, err := fn()
	finished := time.Now().UTC()
	recordStage(name, finished.Sub(started), err)

	state := domain.StageState{Status: domain.StageSuccess, Output: output, StartedAt: &started, FinishedAt: &finished}
	if err != nil {
		state.Status = domain.StageFailed
		state.Error = err.Error()
		err = fmt.Errorf("%s: %w", name, err)
	}
	p.track(ctx, log, func() error { return p.runs.UpdateStage(ctx, runID, name, state) })
	return err
}

// track calls the run recorder when one is configured. Tracking problems
// are logged and never fail a run.
func (p *Pipeline) track(ctx context.Context, log *Logger, fn func() error) {
	if p.runs == nil {
		return
	}
	if err := fn(); err != nil {
		log.LogWarnf("track", "run tracking failed: %v", err)
	}
}

func (p *Pipeline) saveReports(ctx context.Context, log *Logger, runID string, reports ...domain.Report) {
	if p.reports == nil {
		return
	}
	for _, r := range reports {
		if _, err := p.reports.Save(ctx, runID, r); err != nil {
			log.LogWarnf("review", "persist %s report: %v", r.Kind, err)
		}
	}
}

func cacheKey(raw *domain.RawSpec) (string, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

func cloneSpec(s domain.ProjectSpec) domain.ProjectSpec {
	s.Services = append(domain.ServiceMap(nil), s.Services...)
	return s
}
