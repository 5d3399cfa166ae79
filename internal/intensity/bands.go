package intensity

import (
	"math"
	"sort"
	"strconv"
)

// SamplesPerHour is the assumed sampling rate (100 Hz) expressed per hour.
const SamplesPerHour = 100 * 3600

// Band is an activity-intensity range over MET values.
type Band int

const (
	Sleep     Band = iota // (-inf, 1.0)
	Sedentary             // [1.0, 1.6)
	Light                 // [1.6, 3.0)
	Moderate              // [3.0, 6.0)
	Vigorous              // [6.0, +inf)
)

// String returns the band's identifier.
func (b Band) String() string {
	switch b {
	case Sleep:
		return "sleep"
	case Sedentary:
		return "sedentary"
	case Light:
		return "light"
	case Moderate:
		return "moderate"
	case Vigorous:
		return "vigorous"
	default:
		return "unknown"
	}
}

// Classify returns the band containing v. Lower bounds are inclusive, so a
// value on a boundary belongs to the higher band.
func Classify(v float64) Band {
	switch {
	case v >= 6.0:
		return Vigorous
	case v >= 3.0 && v < 6.0:
		return Moderate
	case v >= 1.6 && v < 3.0:
		return Light
	case v >= 1.0 && v < 1.6:
		return Sedentary
	default:
		return Sleep
	}
}

// Durations holds hour estimates for one record.
type Durations struct {
	Total     float64 `json:"total_hours"`
	Sleep     float64 `json:"sleep_hours"`
	Vigorous  float64 `json:"vigorous_hours"`
	Moderate  float64 `json:"moderate_hours"`
	Light     float64 `json:"light_hours"`
	Sedentary float64 `json:"sedentary_hours"`
}

// Aggregate estimates hours per band and the total record duration.
//
// values are the imputed MET values of the samples that count towards band
// time; rows is the full row count of the record. Samples are grouped by exact
// value, each group's hours are rounded to 4 places and then summed into its
// band. Null values form a group that belongs to no band. Total is derived from
// rows alone, is never computed from the band sums, and is rounded with
// RoundTotal.
func Aggregate(values []*float64, rows int) Durations {
	counts := make(map[float64]int)
	for _, v := range values {
		if v != nil {
			counts[*v]++
		}
	}

	distinct := make([]float64, 0, len(counts))
	for v := range counts {
		distinct = append(distinct, v)
	}
	sort.Float64s(distinct)

	var sums [5]float64
	for _, v := range distinct {
		hours := Round4(float64(counts[v]) / SamplesPerHour)
		sums[Classify(v)] += hours
	}

	return Durations{
		Total:     RoundTotal(float64(rows) / 100 / 3600),
		Sleep:     Round4(sums[Sleep]),
		Vigorous:  Round4(sums[Vigorous]),
		Moderate:  Round4(sums[Moderate]),
		Light:     Round4(sums[Light]),
		Sedentary: Round4(sums[Sedentary]),
	}
}

// Round4 rounds v to 4 decimal places by scaling, rounding half away from
// zero and scaling back. Used for per-value and per-band hours.
func Round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// RoundTotal rounds the exact binary value of v to 4 decimal places. Unlike
// Round4 it does not scale first, so 0.00035 (stored just below the halfway
// point) rounds down to 0.0003.
func RoundTotal(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 4, 64), 64)
	if err != nil {
		return Round4(v)
	}
	return r
}
