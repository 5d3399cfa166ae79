// Package report turns subject summaries into the ordered, localized result
// table and renders it in each output format.
package report

import (
	"fmt"
	"time"

	"github.com/hpungsan/metbands/internal/intensity"
	"github.com/hpungsan/metbands/internal/subject"
)

// Locale selects the header language.
type Locale string

const (
	LocaleZH Locale = "zh"
	LocaleEN Locale = "en"
)

var headers = map[Locale][]string{
	LocaleZH: {
		"志愿者ID",
		"记录总时长（小时）",
		"睡眠总时长（小时）",
		"高等强度运动总时长（小时）",
		"中等强度运动总时长（小时）",
		"低等强度运动总时长（小时）",
		"静态活动总时长（小时）",
	},
	LocaleEN: {
		"Subject ID",
		"Total recording (hours)",
		"Sleep (hours)",
		"Vigorous activity (hours)",
		"Moderate activity (hours)",
		"Light activity (hours)",
		"Sedentary (hours)",
	},
}

// Headers returns the column headers for a locale, in column order:
// ID, total, sleep, vigorous, moderate, light, sedentary.
func Headers(locale Locale) ([]string, error) {
	h, ok := headers[locale]
	if !ok {
		return nil, fmt.Errorf("unknown locale %q", locale)
	}
	return append([]string(nil), h...), nil
}

// Row is one subject's line in the report.
type Row struct {
	SubjectID string
	Total     float64
	Sleep     float64
	Vigorous  float64
	Moderate  float64
	Light     float64
	Sedentary float64
}

// Values returns the numeric cells in column order.
func (r Row) Values() []float64 {
	return []float64{r.Total, r.Sleep, r.Vigorous, r.Moderate, r.Light, r.Sedentary}
}

// Table is the final report.
type Table struct {
	Locale  Locale
	Headers []string
	Rows    []Row
}

// Failure is a subject left out of the table.
type Failure struct {
	SubjectID string
	Code      string
	Message   string
}

// Meta describes the run that produced a table.
type Meta struct {
	RunID     string
	CreatedAt time.Time
	Elapsed   time.Duration
	Failures  []Failure
}

// Build sorts summaries by subject number and lays them out as a table.
// The input slice is not modified.
func Build(summaries []subject.Summary, locale Locale) (*Table, error) {
	h, err := Headers(locale)
	if err != nil {
		return nil, err
	}

	sorted := append([]subject.Summary(nil), summaries...)
	SortBySubjectNumber(sorted)

	rows := make([]Row, len(sorted))
	for i, s := range sorted {
		rows[i] = rowFor(s)
	}
	return &Table{Locale: locale, Headers: h, Rows: rows}, nil
}

func rowFor(s subject.Summary) Row {
	d := s.Durations
	return Row{
		SubjectID: s.SubjectID,
		Total:     intensity.RoundTotal(d.Total),
		Sleep:     intensity.Round4(d.Sleep),
		Vigorous:  intensity.Round4(d.Vigorous),
		Moderate:  intensity.Round4(d.Moderate),
		Light:     intensity.Round4(d.Light),
		Sedentary: intensity.Round4(d.Sedentary),
	}
}
