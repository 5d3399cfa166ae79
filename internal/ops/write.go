package ops

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/metbands/internal/errors"
	"github.com/hpungsan/metbands/internal/report"
)

// ReportFile is one written report.
type ReportFile struct {
	Format string `json:"format"`
	Path   string `json:"path"`
	Bytes  int64  `json:"bytes"`
}

type stagedReport struct {
	sink   report.Sink
	target string
	temp   string
	size   int64
}

// WriteReports renders the table in every format. Each report is written to
// a temp file next to its target; only when all of them succeed are they
// renamed into place. On failure every temp file is removed and existing
// reports are left untouched.
func WriteReports(t *report.Table, meta report.Meta, output string, formats []string) ([]ReportFile, error) {
	staged := make([]*stagedReport, 0, len(formats))
	for _, format := range formats {
		sink, err := report.SinkFor(format)
		if err != nil {
			return nil, errors.NewInvalidRequest(err.Error())
		}
		target := report.TargetPath(output, format)
		if err := ValidateOutputPath(target, format); err != nil {
			return nil, err
		}
		staged = append(staged, &stagedReport{sink: sink, target: target})
	}
	if err := writeStaged(staged, t, meta); err != nil {
		return nil, err
	}

	files := make([]ReportFile, len(staged))
	for i, s := range staged {
		files[i] = ReportFile{Format: s.sink.Format(), Path: s.target, Bytes: s.size}
	}
	return files, nil
}

// writeStaged stages every report, then commits them all.
func writeStaged(staged []*stagedReport, t *report.Table, meta report.Meta) error {
	success := false
	defer func() {
		if success {
			return
		}
		for _, s := range staged {
			if s.temp != "" {
				os.Remove(s.temp)
			}
		}
	}()

	for _, s := range staged {
		if err := stage(s, t, meta); err != nil {
			return errors.NewReportFailed(s.sink.Format(), err)
		}
	}

	for _, s := range staged {
		// os.Rename would replace a symlink swapped in after validation.
		if info, err := os.Lstat(s.target); err == nil && info.Mode()&os.ModeSymlink != 0 {
			return errors.NewReportFailed(s.sink.Format(), fmt.Errorf("report path is a symlink: %s", s.target))
		}
		if err := os.Rename(s.temp, s.target); err != nil {
			return errors.NewReportFailed(s.sink.Format(), fmt.Errorf("finalize report: %w", err))
		}
		s.temp = ""
	}

	success = true
	return nil
}

// stage writes one report to a fresh temp file beside its target.
func stage(s *stagedReport, t *report.Table, meta report.Meta) error {
	dir := filepath.Dir(s.target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return fmt.Errorf("generate temp file name: %w", err)
	}
	s.temp = s.target + "." + hex.EncodeToString(randBytes) + ".tmp"

	file, err := openFileNoFollow(s.temp, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o644)
	if err != nil {
		s.temp = ""
		return fmt.Errorf("create temp file: %w", err)
	}

	if err := s.sink.Write(file, t, meta); err != nil {
		file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return err
	}
	// Close before rename (required on Windows; fine elsewhere).
	if err := file.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	info, err := os.Stat(s.temp)
	if err != nil {
		return err
	}
	s.size = info.Size()
	return nil
}
