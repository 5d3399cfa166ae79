package report

import (
	"cmp"
	"math/big"
	"slices"
	"strings"

	"github.com/hpungsan/metbands/internal/subject"
)

// SubjectNumber extracts the trailing decimal digits of an ID ("P10" -> 10).
// ok is false when the ID has no trailing digits.
func SubjectNumber(id string) (n *big.Int, ok bool) {
	end := len(id)
	start := end
	for start > 0 && id[start-1] >= '0' && id[start-1] <= '9' {
		start--
	}
	if start == end {
		return nil, false
	}
	n, ok = new(big.Int).SetString(id[start:end], 10)
	return n, ok
}

// CompareSubjectIDs orders IDs by their numeric suffix, ascending. IDs
// without a suffix sort after all numbered ones. Ties fall back to the
// plain string order so the result is deterministic.
func CompareSubjectIDs(a, b string) int {
	na, okA := SubjectNumber(a)
	nb, okB := SubjectNumber(b)
	switch {
	case okA && okB:
		if c := na.Cmp(nb); c != 0 {
			return c
		}
	case okA:
		return -1
	case okB:
		return 1
	}
	return cmp.Compare(strings.TrimSpace(a), strings.TrimSpace(b))
}

// SortBySubjectNumber sorts summaries in place ("P2","P10","P1" -> P1,P2,P10).
func SortBySubjectNumber(s []subject.Summary) {
	slices.SortStableFunc(s, func(a, b subject.Summary) int {
		return CompareSubjectIDs(a.SubjectID, b.SubjectID)
	})
}
