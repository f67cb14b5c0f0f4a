package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
)

// ReportRepository persists review reports in PostgreSQL, one row per run
// and review kind.
type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save upserts the report on (run_id, kind).
func (r *ReportRepository) Save(ctx context.Context, runID string, report domain.Report) (*domain.ReportRecord, error) {
	query := `
		INSERT INTO generation_reports (id, run_id, kind, overall_score, report)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (run_id, kind) DO UPDATE SET
			overall_score = EXCLUDED.overall_score,
			report = EXCLUDED.report,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	body, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	rec := &domain.ReportRecord{RunID: runID, Report: report}
	err = r.db.QueryRowContext(ctx, query,
		uuid.New().String(),
		runID,
		string(report.Kind),
		report.OverallScore,
		body,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	return rec, nil
}

// GetByRunID returns every report of a run ordered by kind.
func (r *ReportRepository) GetByRunID(ctx context.Context, runID string) ([]domain.ReportRecord, error) {
	query := `
		SELECT id, run_id, report, created_at, updated_at
		FROM generation_reports
		WHERE run_id = $1
		ORDER BY kind
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var out []domain.ReportRecord
	for rows.Next() {
		var rec domain.ReportRecord
		var body []byte
		if err := rows.Scan(&rec.ID, &rec.RunID, &body, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		if err := json.Unmarshal(body, &rec.Report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	if len(out) == 0 {
		return nil, domain.ErrReportNotFound
	}
	return out, nil
}

// DeleteByRunID removes the reports of a run and reports how many rows went.
func (r *ReportRepository) DeleteByRunID(ctx context.Context, runID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM generation_reports WHERE run_id = $1`, runID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete reports: %w", err)
	}
	return res.RowsAffected()
}
