// Package manifest reads the ordered list of subject IDs to process.
package manifest

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hpungsan/metbands/internal/errors"
)

// Read loads subject IDs from the named column of a CSV or .xlsx manifest.
// Blank IDs are skipped with a warning. Manifest order is preserved.
func Read(path, column string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(path)
	default:
		rows, err = readCSV(path)
	}
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewFileNotFound(path)
		}
		return nil, errors.NewManifestInvalid(path, err)
	}

	return extract(path, rows, column, logger)
}

func extract(path string, rows [][]string, column string, logger *slog.Logger) ([]string, error) {
	if len(rows) == 0 {
		return nil, errors.NewManifestInvalid(path, fmt.Errorf("missing header row"))
	}

	col := -1
	for i, name := range rows[0] {
		if strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) == column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, errors.NewManifestInvalid(path, fmt.Errorf("column %q not found", column))
	}

	ids := make([]string, 0, len(rows)-1)
	seen := make(map[string]bool, len(rows)-1)
	for n, row := range rows[1:] {
		var id string
		if col < len(row) {
			id = strings.TrimSpace(row[col])
		}
		if id == "" {
			logger.Warn("skipping blank subject id", "manifest", path, "row", n+2)
			continue
		}
		if seen[id] {
			logger.Warn("duplicate subject id", "manifest", path, "row", n+2, "subject_id", id)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// readXLSX returns the rows of the first sheet.
func readXLSX(path string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}
