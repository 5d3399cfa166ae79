package subject

import (
	"context"
	"fmt"

	"github.com/hpungsan/metbands/internal/errors"
	"github.com/hpungsan/metbands/internal/intensity"
)

// Summary is the per-subject result handed to the report builder.
type Summary struct {
	SubjectID string              `json:"subject_id"`
	Durations intensity.Durations `json:"durations"`

	// Diagnostics; not part of the exported table.
	Rows       int `json:"rows"`
	Parsed     int `json:"parsed"`     // rows whose annotation carried a MET value
	Imputed    int `json:"imputed"`    // nulls filled by imputation
	Unresolved int `json:"unresolved"` // nulls left after imputation (leading gap)
	Untimed    int `json:"untimed"`    // rows without time, excluded from band hours
}

// Process loads one subject's recording and summarizes it. Any load or
// structural problem is returned as a SUBJECT_LOAD_FAILED error carrying the
// subject ID; no summary is produced in that case.
func Process(ctx context.Context, src Source, subjectID string) (*Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled(fmt.Sprintf("subject %s", subjectID))
	}

	rc, err := src.Open(subjectID)
	if err != nil {
		return nil, errors.NewSubjectLoadFailed(subjectID, err)
	}
	defer rc.Close()

	samples, err := ReadSamples(rc)
	if err != nil {
		return nil, errors.NewSubjectLoadFailed(subjectID, err)
	}

	summary := Summarize(subjectID, samples)
	return &summary, nil
}

// Summarize runs parse → impute → aggregate over a loaded recording.
func Summarize(subjectID string, samples []Sample) Summary {
	annotations := make([]string, len(samples))
	for i, s := range samples {
		annotations[i] = s.Annotation
	}

	parsed := intensity.ParseAll(annotations)
	imputed := intensity.Impute(parsed)

	banded := make([]*float64, 0, len(imputed))
	untimed := 0
	for i, s := range samples {
		if !s.Timed() {
			untimed++
			continue
		}
		banded = append(banded, imputed[i])
	}

	missing := intensity.CountNull(parsed)
	unresolved := intensity.CountNull(imputed)

	return Summary{
		SubjectID:  subjectID,
		Durations:  intensity.Aggregate(banded, len(samples)),
		Rows:       len(samples),
		Parsed:     len(samples) - missing,
		Imputed:    missing - unresolved,
		Unresolved: unresolved,
		Untimed:    untimed,
	}
}
