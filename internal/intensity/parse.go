// Package intensity turns per-sample annotations into MET values and
// estimates the hours a record spends in each activity-intensity band.
package intensity

import (
	"math"
	"regexp"
	"strconv"
)

// metPattern matches the MET score embedded in an annotation, e.g.
// "... ;MET 3.5" → "3.5". Only the first occurrence is used.
var metPattern = regexp.MustCompile(`;MET (\d+\.\d+)`)

// ParseAnnotation extracts the MET value from an annotation string.
// Returns nil when the marker is absent or the captured number does not
// parse as a finite float. A miss is expected and is never an error.
func ParseAnnotation(annotation string) *float64 {
	m := metPattern.FindStringSubmatch(annotation)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

// ParseAll applies ParseAnnotation to every annotation, preserving order.
func ParseAll(annotations []string) []*float64 {
	out := make([]*float64, len(annotations))
	for i, a := range annotations {
		out[i] = ParseAnnotation(a)
	}
	return out
}
