package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Init(filepath.Join(t.TempDir(), "report.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestWriteReport(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	run := Run{ID: "01RUN", CreatedAt: 1700000000, Locale: "zh", SubjectCount: 2, FailedCount: 1, ElapsedMS: 1234}
	rows := []SummaryRow{
		{Position: 0, SubjectID: "P1", Total: 24.5, Sleep: 8.25, Vigorous: 0.5, Moderate: 2, Light: 5.1234, Sedentary: 8.6},
		{Position: 1, SubjectID: "P2", Total: 1},
	}
	failures := []FailureRow{{SubjectID: "P3", Code: "SUBJECT_LOAD_FAILED", Message: "file not found"}}

	require.NoError(t, WriteReport(ctx, db, run, rows, failures))

	got, err := GetRun(db, "01RUN")
	require.NoError(t, err)
	assert.Equal(t, run, *got)

	summaries, err := ListSummaries(db, "01RUN")
	require.NoError(t, err)
	assert.Equal(t, rows, summaries)

	fails, err := ListFailures(db, "01RUN")
	require.NoError(t, err)
	assert.Equal(t, failures, fails)
}

func TestWriteReport_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	run := Run{ID: "01RUN", Locale: "en"}
	dup := []SummaryRow{{Position: 0, SubjectID: "P1"}, {Position: 0, SubjectID: "P2"}}

	err := WriteReport(ctx, db, run, dup, nil)
	require.Error(t, err)

	_, err = GetRun(db, "01RUN")
	assert.True(t, stderrors.Is(err, sql.ErrNoRows), "run row should be rolled back, got %v", err)
}

func TestListSummaries_Empty(t *testing.T) {
	db := openTestDB(t)

	rows, err := ListSummaries(db, "nope")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
