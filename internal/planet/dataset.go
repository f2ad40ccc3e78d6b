package planet

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"iter"
	"math"
	"strconv"
	"strings"
)

const (
	columnKeplerName  = "kepler_name"
	columnDisposition = "koi_disposition"
	columnInsolation  = "koi_insol"
	columnRadius      = "koi_prad"
)

// RowError reports a single malformed record. Ingestion skips it and keeps reading.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("malformed dataset row at line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ReadDataset lazily decodes a header driven CSV stream in which lines starting with '#'
// are comments. Each malformed record yields a *RowError; any other error ends the
// sequence. The sequence is single use: reopen the source to read it again.
func ReadDataset(r io.Reader) iter.Seq2[DatasetRow, error] {
	return func(yield func(DatasetRow, error) bool) {
		reader := csv.NewReader(r)
		reader.Comment = '#'
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true

		header, err := reader.Read()
		if err != nil {
			if stderrors.Is(err, io.EOF) {
				err = fmt.Errorf("dataset has no header row")
			}
			yield(DatasetRow{}, fmt.Errorf("failed to read dataset header: %w", err))
			return
		}

		columns, err := indexColumns(header)
		if err != nil {
			yield(DatasetRow{}, err)
			return
		}

		for {
			record, err := reader.Read()
			if stderrors.Is(err, io.EOF) {
				return
			}

			var parseErr *csv.ParseError
			if stderrors.As(err, &parseErr) {
				if !yield(DatasetRow{}, &RowError{Line: parseErr.Line, Err: parseErr.Err}) {
					return
				}
				continue
			}
			if err != nil {
				yield(DatasetRow{}, fmt.Errorf("failed to read dataset: %w", err))
				return
			}

			line, _ := reader.FieldPos(0)

			if len(record) != len(header) {
				rowErr := &RowError{
					Line: line,
					Err:  fmt.Errorf("row has %d fields, header has %d", len(record), len(header)),
				}
				if !yield(DatasetRow{}, rowErr) {
					return
				}
				continue
			}

			row := DatasetRow{
				Line:        line,
				KeplerName:  strings.TrimSpace(record[columns[columnKeplerName]]),
				Disposition: strings.TrimSpace(record[columns[columnDisposition]]),
				Insolation:  parseFloat(record[columns[columnInsolation]]),
				Radius:      parseFloat(record[columns[columnRadius]]),
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

func indexColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	for _, required := range []string{columnKeplerName, columnDisposition, columnInsolation, columnRadius} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("dataset header is missing column %q", required)
		}
	}
	return columns, nil
}

func parseFloat(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
