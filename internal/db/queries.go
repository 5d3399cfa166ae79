package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Run is one row of the runs table.
type Run struct {
	ID           string
	CreatedAt    int64 // unix seconds
	Locale       string
	SubjectCount int
	FailedCount  int
	ElapsedMS    int64
}

// SummaryRow is one report row. Position is the row's place in the sorted report.
type SummaryRow struct {
	Position  int
	SubjectID string
	Total     float64
	Sleep     float64
	Vigorous  float64
	Moderate  float64
	Light     float64
	Sedentary float64
}

// FailureRow records a subject that produced no summary.
type FailureRow struct {
	SubjectID string
	Code      string
	Message   string
}

// WriteReport stores a run with its summaries and failures in one transaction.
func WriteReport(ctx context.Context, db *sql.DB, run Run, rows []SummaryRow, failures []FailureRow) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, locale, subject_count, failed_count, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt, run.Locale, run.SubjectCount, run.FailedCount, run.ElapsedMS,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO subject_summaries (
			run_id, position, subject_id,
			total_hours, sleep_hours, vigorous_hours, moderate_hours, light_hours, sedentary_hours
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare summaries: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err = stmt.ExecContext(ctx,
			run.ID, r.Position, r.SubjectID,
			r.Total, r.Sleep, r.Vigorous, r.Moderate, r.Light, r.Sedentary,
		); err != nil {
			return fmt.Errorf("insert summary %s: %w", r.SubjectID, err)
		}
	}

	for _, f := range failures {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO subject_failures (run_id, subject_id, code, message) VALUES (?, ?, ?, ?)`,
			run.ID, f.SubjectID, f.Code, f.Message,
		); err != nil {
			return fmt.Errorf("insert failure %s: %w", f.SubjectID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
