package report

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Sheet1"

type xlsxSink struct{}

func (xlsxSink) Format() string { return FormatXLSX }

func (xlsxSink) Write(dst *os.File, t *Table, _ Meta) error {
	f := excelize.NewFile()
	defer f.Close()

	if name := f.GetSheetName(0); name != xlsxSheet {
		if err := f.SetSheetName(name, xlsxSheet); err != nil {
			return err
		}
	}

	header := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{r.SubjectID}
		for _, v := range r.Values() {
			values = append(values, v)
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %s: %w", r.SubjectID, err)
		}
	}

	if _, err := f.WriteTo(dst); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
