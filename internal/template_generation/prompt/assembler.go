package prompt

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
)

//go:embed fragments.yaml
var defaultFragmentsYAML []byte

// Fragments are the static pieces every prompt is built from.
type Fragments struct {
	SystemRole          string   `yaml:"system_role"`
	Constraints         []string `yaml:"constraints"`
	OutputFormat        string   `yaml:"output_format"`
	Examples            []string `yaml:"examples"`
	DefaultRequirements []string `yaml:"default_requirements"`
	PageSections        []string `yaml:"page_sections"`
	UserTemplate        string   `yaml:"user_template"`
}

func DefaultFragments() Fragments {
	f, err := parseFragments(defaultFragmentsYAML)
	if err != nil {
		panic(fmt.Sprintf("prompt: embedded fragments are invalid: %v", err))
	}
	return f
}

// LoadFragments reads a fragments file; empty fields keep their defaults.
func LoadFragments(path string) (Fragments, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Fragments{}, fmt.Errorf("prompt: read %s: %w", path, err)
	}
	f, err := parseFragments(b)
	if err != nil {
		return Fragments{}, err
	}
	d := DefaultFragments()
	if f.SystemRole == "" {
		f.SystemRole = d.SystemRole
	}
	if len(f.Constraints) == 0 {
		f.Constraints = d.Constraints
	}
	if f.OutputFormat == "" {
		f.OutputFormat = d.OutputFormat
	}
	if len(f.DefaultRequirements) == 0 {
		f.DefaultRequirements = d.DefaultRequirements
	}
	if len(f.PageSections) == 0 {
		f.PageSections = d.PageSections
	}
	if f.UserTemplate == "" {
		f.UserTemplate = d.UserTemplate
	}
	return f, nil
}

func parseFragments(b []byte) (Fragments, error) {
	var f Fragments
	if err := yaml.Unmarshal(b, &f); err != nil {
		return Fragments{}, fmt.Errorf("prompt: decode fragments: %w", err)
	}
	return f, nil
}

type BusinessContext struct {
	Name        string   `json:"name"`
	Services    []string `json:"services"`
	Location    string   `json:"location"`
	ProjectType string   `json:"project_type"`
}

// Payload is the prompt handed to the template author.
type Payload struct {
	GeneratedAt     time.Time       `json:"generated_at"`
	BusinessContext BusinessContext `json:"business_context"`
	SystemPrompt    string          `json:"system_prompt"`
	UserPrompt      string          `json:"user_prompt"`
	Constraints     []string        `json:"constraints"`
	OutputFormat    string          `json:"output_format"`
	Examples        []string        `json:"examples"`
}

type Assembler struct {
	fragments Fragments
	tmpl      *template.Template
	now       func() time.Time
}

func NewAssembler(f Fragments) (*Assembler, error) {
	tmpl, err := template.New("user_prompt").Parse(f.UserTemplate)
	if err != nil {
		return nil, fmt.Errorf("prompt: parse user template: %w", err)
	}
	return &Assembler{fragments: f, tmpl: tmpl, now: time.Now}, nil
}

// WithClock overrides the timestamp source.
func (a *Assembler) WithClock(now func() time.Time) *Assembler {
	a.now = now
	return a
}

type userPromptData struct {
	Name              string
	Spec              domain.ProjectSpec
	TargetAudience    string
	Requirements      []string
	DesignPreferences []string
	SiteType          string
	Sections          []string
}

func (a *Assembler) Assemble(spec domain.ProjectSpec, raw *domain.RawSpec) (*Payload, error) {
	data := userPromptData{
		Name:              spec.DisplayName(),
		Spec:              spec,
		TargetAudience:    strings.TrimSpace(raw.Section(domain.SectionTargetAudience)),
		Requirements:      bulletLines(raw.Section(domain.SectionRequirements)),
		DesignPreferences: bulletLines(raw.Section(domain.SectionDesignPreferences)),
		SiteType:          "single_page",
		Sections:          a.fragments.PageSections,
	}
	if data.TargetAudience == "" {
		data.TargetAudience = fmt.Sprintf("Local customers looking for %s services.", strings.ToLower(spec.BusinessType))
		if spec.Location != "" {
			data.TargetAudience = fmt.Sprintf("Local customers in %s looking for %s services.", spec.Location, strings.ToLower(spec.BusinessType))
		}
	}
	if len(data.Requirements) == 0 {
		data.Requirements = a.fragments.DefaultRequirements
	}
	if raw != nil && raw.SiteType != "" {
		data.SiteType = raw.SiteType
	}

	var buf bytes.Buffer
	if err := a.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("prompt: render user prompt: %w", err)
	}

	examples := a.fragments.Examples
	if examples == nil {
		examples = []string{}
	}
	return &Payload{
		GeneratedAt: a.now().UTC(),
		BusinessContext: BusinessContext{
			Name:        spec.BusinessName,
			Services:    spec.Services.Names(),
			Location:    spec.Location,
			ProjectType: spec.BusinessType,
		},
		SystemPrompt: a.fragments.SystemRole,
		UserPrompt:   strings.TrimSpace(buf.String()),
		Constraints:  append([]string(nil), a.fragments.Constraints...),
		OutputFormat: a.fragments.OutputFormat,
		Examples:     examples,
	}, nil
}

var bulletRe = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+(.*\S)\s*$`)

// bulletLines reduces a section to its list items; a section without any
// list items contributes each non-blank line instead.
func bulletLines(section string) []string {
	var items, plain []string
	for _, line := range strings.Split(section, "\n") {
		if m := bulletRe.FindStringSubmatch(line); m != nil {
			items = append(items, m[1])
			continue
		}
		if s := strings.TrimSpace(line); s != "" && !strings.HasPrefix(s, "#") {
			plain = append(plain, s)
		}
	}
	if len(items) > 0 {
		return items
	}
	return plain
}
