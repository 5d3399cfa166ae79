package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Output formats.
const (
	FormatXLSX    = "xlsx"
	FormatCSV     = "csv"
	FormatParquet = "parquet"
	FormatSQLite  = "sqlite"
	FormatHTML    = "html"
)

// Formats lists every supported format.
var Formats = []string{FormatXLSX, FormatCSV, FormatParquet, FormatSQLite, FormatHTML}

// Sink renders a table into an already-created, empty file. The caller owns
// the file: it syncs, closes and renames it after Write returns.
type Sink interface {
	Format() string
	Write(dst *os.File, t *Table, meta Meta) error
}

// SinkFor returns the sink for a format name.
func SinkFor(format string) (Sink, error) {
	switch strings.ToLower(format) {
	case FormatXLSX:
		return xlsxSink{}, nil
	case FormatCSV:
		return csvSink{}, nil
	case FormatParquet:
		return parquetSink{}, nil
	case FormatSQLite:
		return sqliteSink{}, nil
	case FormatHTML:
		return htmlSink{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// Extension returns the file extension for a format, including the dot.
func Extension(format string) string {
	if strings.EqualFold(format, FormatSQLite) {
		return ".db"
	}
	return "." + strings.ToLower(format)
}

// TargetPath derives the output path for a format from the configured output
// path by swapping the extension ("result_1.xlsx" + csv -> "result_1.csv").
func TargetPath(output, format string) string {
	ext := filepath.Ext(output)
	if strings.EqualFold(ext, Extension(format)) {
		return output
	}
	return strings.TrimSuffix(output, ext) + Extension(format)
}
