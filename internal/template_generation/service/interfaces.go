package service

import (
	"context"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
)

// RunRecorder receives run lifecycle updates. Implemented by the Redis run
// repository.
type RunRecorder interface {
	Create(ctx context.Context, run *domain.GenerationRun) error
	UpdateStage(ctx context.Context, runID, stage string, state domain.StageState) error
	SetStatus(ctx context.Context, runID string, status domain.RunStatus, errMsg string) error
	SetOutputDir(ctx context.Context, runID, dir string) error
}

// ReportStore persists review reports. Implemented by the Postgres report
// repository.
type ReportStore interface {
	Save(ctx context.Context, runID string, report domain.Report) (*domain.ReportRecord, error)
}
