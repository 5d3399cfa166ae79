package report

import (
	"bufio"
	"encoding/csv"
	"os"
	"strconv"
)

// utf8BOM lets spreadsheet tools detect UTF-8 for the localized headers.
const utf8BOM = "\ufeff"

type csvSink struct{}

func (csvSink) Format() string { return FormatCSV }

func (csvSink) Write(dst *os.File, t *Table, _ Meta) error {
	bw := bufio.NewWriter(dst)
	if _, err := bw.WriteString(utf8BOM); err != nil {
		return err
	}

	w := csv.NewWriter(bw)
	if err := w.Write(t.Headers); err != nil {
		return err
	}
	rec := make([]string, 0, len(t.Headers))
	for _, r := range t.Rows {
		rec = append(rec[:0], r.SubjectID)
		for _, v := range r.Values() {
			rec = append(rec, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return bw.Flush()
}
