package report

import (
	"context"
	"fmt"
	"os"

	"github.com/hpungsan/metbands/internal/db"
)

type sqliteSink struct{}

func (sqliteSink) Format() string { return FormatSQLite }

// Write opens dst by name as a fresh database; dst itself is left untouched.
func (sqliteSink) Write(dst *os.File, t *Table, meta Meta) error {
	conn, err := db.Init(dst.Name())
	if err != nil {
		return err
	}

	run := db.Run{
		ID:           meta.RunID,
		CreatedAt:    meta.CreatedAt.Unix(),
		Locale:       string(t.Locale),
		SubjectCount: len(t.Rows),
		FailedCount:  len(meta.Failures),
		ElapsedMS:    meta.Elapsed.Milliseconds(),
	}
	rows := make([]db.SummaryRow, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = db.SummaryRow{
			Position:  i,
			SubjectID: r.SubjectID,
			Total:     r.Total,
			Sleep:     r.Sleep,
			Vigorous:  r.Vigorous,
			Moderate:  r.Moderate,
			Light:     r.Light,
			Sedentary: r.Sedentary,
		}
	}
	failures := make([]db.FailureRow, len(meta.Failures))
	for i, f := range meta.Failures {
		failures[i] = db.FailureRow{SubjectID: f.SubjectID, Code: f.Code, Message: f.Message}
	}

	if err := db.WriteReport(context.Background(), conn, run, rows, failures); err != nil {
		conn.Close()
		return fmt.Errorf("store report: %w", err)
	}
	return conn.Close()
}
