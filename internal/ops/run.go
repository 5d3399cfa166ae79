package ops

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hpungsan/metbands/internal/config"
	"github.com/hpungsan/metbands/internal/errors"
	"github.com/hpungsan/metbands/internal/manifest"
	"github.com/hpungsan/metbands/internal/report"
	"github.com/hpungsan/metbands/internal/runner"
	"github.com/hpungsan/metbands/internal/subject"
)

// RunOutput is the result of a full run.
type RunOutput struct {
	RunID     string           `json:"run_id"`
	Subjects  int              `json:"subjects"`
	Processed int              `json:"processed"`
	Rows      int              `json:"rows"`
	Failed    []SubjectFailure `json:"failed,omitempty"`
	Reports   []ReportFile     `json:"reports"`
	ElapsedMS int64            `json:"elapsed_ms"`
	Elapsed   string           `json:"elapsed"`

	Table *report.Table `json:"-"`
}

// Run reads the manifest, processes every subject concurrently, and writes
// the sorted report in each configured format. Subject failures are
// reported in the output, not returned as an error.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*RunOutput, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	// Reject bad output paths before any subject is processed.
	for _, format := range cfg.Formats {
		if err := ValidateOutputPath(report.TargetPath(cfg.OutputPath, format), format); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	runID := NewRunID()
	logger = logger.With("run_id", runID)

	ids, err := manifest.Read(cfg.ManifestPath, cfg.ManifestColumn, logger)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		logger.Warn("manifest lists no subjects", "manifest", cfg.ManifestPath)
	}
	logger.Info("manifest loaded", "manifest", cfg.ManifestPath, "subjects", len(ids))

	src := subject.DirSource{Dir: cfg.DataDir, Name: cfg.SubjectFile}
	outcome := runner.Run(ctx, ids, runner.Options{Workers: cfg.Workers, Logger: logger},
		func(ctx context.Context, id string) (*subject.Summary, error) {
			return subject.Process(ctx, src, id)
		})

	if ctx.Err() != nil {
		return nil, errors.NewCancelled("run")
	}

	table, err := report.Build(outcome.Summaries, report.Locale(cfg.Locale))
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}

	out := &RunOutput{
		RunID:     runID,
		Subjects:  len(ids),
		Processed: len(outcome.Summaries),
		Failed:    failuresOf(outcome.Failures),
		Table:     table,
	}
	for _, s := range outcome.Summaries {
		out.Rows += s.Rows
	}

	meta := report.Meta{
		RunID:     runID,
		CreatedAt: start,
		Elapsed:   time.Since(start),
		Failures:  make([]report.Failure, len(out.Failed)),
	}
	for i, f := range out.Failed {
		meta.Failures[i] = report.Failure(f)
	}

	out.Reports, err = WriteReports(table, meta, cfg.OutputPath, cfg.Formats)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	out.ElapsedMS = elapsed.Milliseconds()
	out.Elapsed = elapsed.Round(time.Millisecond).String()

	logger.Info("run complete",
		"processed", out.Processed,
		"failed", len(out.Failed),
		"rows", humanize.Comma(int64(out.Rows)),
		"reports", len(out.Reports),
		"elapsed", out.Elapsed,
	)
	return out, nil
}

// failuresOf converts runner failures, ordered by subject number.
func failuresOf(in []runner.Failure) []SubjectFailure {
	if len(in) == 0 {
		return nil
	}
	out := make([]SubjectFailure, len(in))
	for i, f := range in {
		out[i] = SubjectFailure{
			SubjectID: f.SubjectID,
			Code:      string(errors.CodeOf(f.Err)),
			Message:   f.Err.Error(),
		}
	}
	slices.SortStableFunc(out, func(a, b SubjectFailure) int {
		return report.CompareSubjectIDs(a.SubjectID, b.SubjectID)
	})
	return out
}
