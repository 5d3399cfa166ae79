// Package subject loads one subject's recording and reduces it to a
// per-band duration summary.
package subject

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
)

// Required recording columns.
const (
	ColumnTime       = "time"
	ColumnAnnotation = "annotation"
)

// ErrNoSamples is returned when a recording has a header but no data rows.
var ErrNoSamples = stderrors.New("recording has no samples")

// Sample is one recorded row. Time is an ordering key only and is never
// parsed; an empty Time is treated as null.
type Sample struct {
	Time       string
	Annotation string
}

// Timed reports whether the sample carries a time value.
func (s Sample) Timed() bool {
	return s.Time != ""
}

// ReadSamples reads a CSV recording with a header row. Only the time and
// annotation columns are kept; other columns are ignored. File order and row
// count are preserved exactly.
func ReadSamples(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty recording: missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	timeIdx, annIdx := -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch name {
		case ColumnTime:
			timeIdx = i
		case ColumnAnnotation:
			annIdx = i
		}
	}
	var missing []string
	if timeIdx < 0 {
		missing = append(missing, ColumnTime)
	}
	if annIdx < 0 {
		missing = append(missing, ColumnAnnotation)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	samples := make([]Sample, 0, 4096)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(samples)+2, err)
		}
		samples = append(samples, Sample{
			Time:       strings.Clone(rec[timeIdx]),
			Annotation: strings.Clone(rec[annIdx]),
		})
	}

	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	return samples, nil
}
