package report

import (
	"fmt"
	"os"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// parquetRow uses stable ASCII column names; localized headers stay in the
// human-facing formats.
type parquetRow struct {
	SubjectID string  `parquet:"name=subject_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Total     float64 `parquet:"name=total_hours, type=DOUBLE"`
	Sleep     float64 `parquet:"name=sleep_hours, type=DOUBLE"`
	Vigorous  float64 `parquet:"name=vigorous_hours, type=DOUBLE"`
	Moderate  float64 `parquet:"name=moderate_hours, type=DOUBLE"`
	Light     float64 `parquet:"name=light_hours, type=DOUBLE"`
	Sedentary float64 `parquet:"name=sedentary_hours, type=DOUBLE"`
}

type parquetSink struct{}

func (parquetSink) Format() string { return FormatParquet }

func (parquetSink) Write(dst *os.File, t *Table, _ Meta) error {
	data, err := marshalParquet(t.Rows)
	if err != nil {
		return fmt.Errorf("encode parquet: %w", err)
	}
	_, err = dst.Write(data)
	return err
}

func marshalParquet(rows []Row) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(parquetRow), 1)
	if err != nil {
		return nil, err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, r := range rows {
		row := parquetRow{
			SubjectID: r.SubjectID,
			Total:     r.Total,
			Sleep:     r.Sleep,
			Vigorous:  r.Vigorous,
			Moderate:  r.Moderate,
			Light:     r.Light,
			Sedentary: r.Sedentary,
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return nil, err
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}
