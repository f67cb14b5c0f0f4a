package domain

import "time"

type RunStatus string

const (
	RunQueued    RunStatus = "queued"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunCancelled RunStatus = "cancelled"
)

type StageStatus string

const (
	StagePending StageStatus = "pending"
	StageRunning StageStatus = "running"
	StageSuccess StageStatus = "success"
	StageFailed  StageStatus = "failed"
	StageSkipped StageStatus = "skipped"
)

// Pipeline stages in execution order.
const (
	StageParse    = "parse"
	StageResolve  = "resolve"
	StageAssemble = "assemble"
	StageEmit     = "emit"
	StageReview   = "review"
	StagePackage  = "package"
)

var Stages = []string{StageParse, StageResolve, StageAssemble, StageEmit, StageReview, StagePackage}

type StageState struct {
	Status     StageStatus `json:"status"`
	Output     string      `json:"output,omitempty"`
	Error      string      `json:"error,omitempty"`
	StartedAt  *time.Time  `json:"started_at,omitempty"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
}

// GenerationRun tracks one pipeline execution.
type GenerationRun struct {
	RunID     string                `json:"run_id"`
	JobID     string                `json:"job_id"`
	Status    RunStatus             `json:"status"`
	Stages    map[string]StageState `json:"stages"`
	OutputDir string                `json:"output_dir,omitempty"`
	Error     string                `json:"error,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func NewGenerationRun(runID, jobID string) *GenerationRun {
	stages := make(map[string]StageState, len(Stages))
	for _, s := range Stages {
		stages[s] = StageState{Status: StagePending}
	}
	now := time.Now()
	return &GenerationRun{
		RunID:     runID,
		JobID:     jobID,
		Status:    RunQueued,
		Stages:    stages,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s RunStatus) IsTerminal() bool {
	return s == RunCompleted || s == RunFailed || s == RunCancelled
}
