package domain

import "time"

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type ReviewKind string

const (
	ReviewCode   ReviewKind = "code"
	ReviewDesign ReviewKind = "design"
)

type Recommendation struct {
	Priority    Priority `json:"priority" yaml:"priority"`
	Category    string   `json:"category" yaml:"category"`
	Check       string   `json:"check,omitempty" yaml:"check,omitempty"`
	Description string   `json:"description" yaml:"description"`
}

type CategoryScore struct {
	Score    float64  `json:"score" yaml:"score"`
	Comments []string `json:"comments" yaml:"comments"`
}

// Report is the output of one heuristic scorer.
type Report struct {
	Kind            ReviewKind               `json:"kind" yaml:"kind"`
	OverallScore    float64                  `json:"overall_score" yaml:"overall_score"`
	Categories      map[string]CategoryScore `json:"categories" yaml:"categories"`
	Recommendations []Recommendation         `json:"recommendations" yaml:"recommendations"`
}

// ReportRecord is a persisted Report for one run.
type ReportRecord struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	Report    Report    `json:"report"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
