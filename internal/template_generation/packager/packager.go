package packager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/export"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/versioning"
)

type Options struct {
	OutDir    string
	Include   []string
	Exclude   []string
	Publisher Publisher
	Now       func() time.Time
}

type Input struct {
	JobID        string
	RunID        string
	RunDir       string
	Spec         domain.ProjectSpec
	CodeReview   *domain.Report
	DesignReview *domain.Report
}

type Manifest struct {
	Version       string             `json:"version" yaml:"version"`
	CreationDate  time.Time          `json:"creation_date" yaml:"creation_date"`
	TemplateID    string             `json:"template_id" yaml:"template_id"`
	JobID         string             `json:"job_id" yaml:"job_id"`
	VersionID     string             `json:"version_id" yaml:"version_id"`
	QualityScores map[string]float64 `json:"quality_scores" yaml:"quality_scores"`
	Files         []string           `json:"files" yaml:"files"`
}

type Delivery struct {
	Version   *versioning.Version `json:"version"`
	Dir       string              `json:"dir"`
	Files     []string            `json:"files"`
	Manifest  Manifest            `json:"manifest"`
	Warnings  []string            `json:"warnings"`
	Published []string            `json:"published,omitempty"`
}

type Packager struct {
	outDir    string
	filter    *filter
	publisher Publisher
	now       func() time.Time
}

func New(opts Options) (*Packager, error) {
	f, err := newFilter(opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}
	if opts.OutDir == "" {
		opts.OutDir = "out"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Packager{outDir: opts.OutDir, filter: f, publisher: opts.Publisher, now: opts.Now}, nil
}

// Package assembles a versioned delivery from a run's artifacts. Missing
// artifacts and publish failures become warnings; only write failures
// are returned.
func (p *Packager) Package(ctx context.Context, in Input) (*Delivery, error) {
	prior, err := versioning.ListVersions(p.outDir, jobOrDefault(in.JobID))
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	v, err := versioning.CreateVersion(in.JobID, p.outDir, "delivery")
	if err != nil {
		return nil, err
	}
	v.CreatedAt = p.now().UTC()

	d := &Delivery{Version: v, Dir: v.Dir, Warnings: []string{}}
	for _, dn := range deliveryNames {
		if !p.filter.allows(dn.Source) {
			continue
		}
		src := filepath.Join(in.RunDir, filepath.FromSlash(dn.Source))
		err := copyFile(src, filepath.Join(v.Dir, dn.Target))
		if errors.Is(err, os.ErrNotExist) {
			d.Warnings = append(d.Warnings, "missing artifact: "+dn.Source)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("copy %s: %w", dn.Source, err)
		}
		d.Files = append(d.Files, dn.Target)
	}

	if err := export.WriteYAML(filepath.Join(v.Dir, "spec.yaml"), in.Spec); err != nil {
		return nil, fmt.Errorf("write spec.yaml: %w", err)
	}
	if err := export.WriteText(filepath.Join(v.Dir, "README.md"), renderReadme(in)); err != nil {
		return nil, fmt.Errorf("write README.md: %w", err)
	}
	if err := export.WriteText(filepath.Join(v.Dir, "CHANGELOG.md"), renderChangelog(v, prior)); err != nil {
		return nil, fmt.Errorf("write CHANGELOG.md: %w", err)
	}
	d.Files = append(d.Files, "spec.yaml", "README.md", "CHANGELOG.md", "manifest.json")
	sort.Strings(d.Files)

	d.Manifest = Manifest{
		Version:       fmt.Sprintf("1.%d.0", len(prior)),
		CreationDate:  v.CreatedAt,
		TemplateID:    templateID(in),
		JobID:         v.JobID,
		VersionID:     v.VersionID,
		QualityScores: qualityScores(in.CodeReview, in.DesignReview),
		Files:         d.Files,
	}
	if err := export.WriteJSON(filepath.Join(v.Dir, "manifest.json"), d.Manifest); err != nil {
		return nil, fmt.Errorf("write manifest.json: %w", err)
	}

	v.Files = append([]string(nil), d.Files...)
	if err := v.Save(); err != nil {
		return nil, fmt.Errorf("write version.json: %w", err)
	}

	if p.publisher != nil {
		urls, err := p.publisher.Publish(ctx, d)
		if err != nil {
			d.Warnings = append(d.Warnings, "publish: "+err.Error())
		}
		d.Published = urls
	}
	return d, nil
}

// LoadSpec reads a delivered spec.json back into a ProjectSpec.
func LoadSpec(path string) (domain.ProjectSpec, error) {
	var spec domain.ProjectSpec
	b, err := os.ReadFile(path)
	if err != nil {
		return spec, err
	}
	if err := json.Unmarshal(b, &spec); err != nil {
		return spec, fmt.Errorf("decode %s: %w", path, err)
	}
	return spec, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func qualityScores(reports ...*domain.Report) map[string]float64 {
	out := map[string]float64{}
	for _, r := range reports {
		if r == nil {
			continue
		}
		out[string(r.Kind)+"_overall"] = r.OverallScore
		for name, c := range r.Categories {
			out[name] = c.Score
		}
	}
	return out
}

func templateID(in Input) string {
	if in.RunID != "" {
		return in.RunID
	}
	return filepath.Base(in.RunDir)
}

func jobOrDefault(jobID string) string {
	if jobID == "" {
		return "adhoc"
	}
	return jobID
}
