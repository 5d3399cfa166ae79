package db

import "database/sql"

// Read-side helpers for asserting on written reports.

// GetRun loads a run by ID. Returns sql.ErrNoRows when absent.
func GetRun(db *sql.DB, id string) (*Run, error) {
	var r Run
	err := db.QueryRow(`
		SELECT id, created_at, locale, subject_count, failed_count, elapsed_ms
		FROM runs WHERE id = ?`, id,
	).Scan(&r.ID, &r.CreatedAt, &r.Locale, &r.SubjectCount, &r.FailedCount, &r.ElapsedMS)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListSummaries returns a run's report rows in report order.
func ListSummaries(db *sql.DB, runID string) ([]SummaryRow, error) {
	rows, err := db.Query(`
		SELECT position, subject_id,
		       total_hours, sleep_hours, vigorous_hours, moderate_hours, light_hours, sedentary_hours
		FROM subject_summaries
		WHERE run_id = ?
		ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SummaryRow
	for rows.Next() {
		var r SummaryRow
		if err := rows.Scan(&r.Position, &r.SubjectID,
			&r.Total, &r.Sleep, &r.Vigorous, &r.Moderate, &r.Light, &r.Sedentary); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListFailures returns a run's failed subjects in insertion order.
func ListFailures(db *sql.DB, runID string) ([]FailureRow, error) {
	rows, err := db.Query(`
		SELECT subject_id, code, message FROM subject_failures
		WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FailureRow
	for rows.Next() {
		var f FailureRow
		if err := rows.Scan(&f.SubjectID, &f.Code, &f.Message); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
