package ops

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/hpungsan/metbands/internal/errors"
	"github.com/hpungsan/metbands/internal/subject"
)

// SubjectOutput is the result of processing a single recording.
type SubjectOutput struct {
	Path    string          `json:"path"`
	Summary subject.Summary `json:"summary"`
}

// ProcessFile summarizes one recording outside of a manifest run. The
// subject ID is the file name without its extension.
func ProcessFile(ctx context.Context, path string) (*SubjectOutput, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.NewInvalidRequest("recording path is required")
	}
	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	s, err := subject.Process(ctx, subject.FileSource(path), id)
	if err != nil {
		return nil, err
	}
	return &SubjectOutput{Path: path, Summary: *s}, nil
}
