// Package ops composes manifest reading, subject processing and report
// writing into the operations exposed by the CLI.
package ops

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// SubjectFailure is a subject left out of the report.
type SubjectFailure struct {
	SubjectID string `json:"subject_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// NewRunID returns a time-ordered run identifier.
func NewRunID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
