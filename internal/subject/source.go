package subject

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hpungsan/metbands/internal/errors"
)

// Source resolves a subject ID to its raw recording.
type Source interface {
	Open(subjectID string) (io.ReadCloser, error)
}

// DirSource reads recordings from a directory using a file naming rule.
type DirSource struct {
	Dir  string
	Name func(subjectID string) string
}

// Path returns the recording path for a subject.
func (s DirSource) Path(subjectID string) string {
	return filepath.Join(s.Dir, s.Name(subjectID))
}

// Open opens the subject's recording.
func (s DirSource) Open(subjectID string) (io.ReadCloser, error) {
	path := s.Path(subjectID)
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewFileNotFound(path)
		}
		return nil, err
	}
	return f, nil
}

// FileSource serves a single file regardless of subject ID.
type FileSource string

// Open opens the file.
func (s FileSource) Open(string) (io.ReadCloser, error) {
	f, err := os.Open(string(s))
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewFileNotFound(string(s))
		}
		return nil, err
	}
	return f, nil
}
