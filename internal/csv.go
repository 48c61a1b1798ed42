package internal

import (
	"encoding/csv"
	"io"
	"iter"
)

// CSVRecord carries one parsed row, or the error that produced it.
type CSVRecord[T any] struct {
	Value T
	Error error
}

// ParseCSV streams rows from r through parse. When hasHeader is true the
// first row is captured and handed to parse alongside every record; rows
// that fail to parse are yielded with Error set so callers can skip them
// individually instead of aborting the whole file.
func ParseCSV[T any](r io.Reader, hasHeader bool, parse func(record, headers []string) (T, error)) iter.Seq[CSVRecord[T]] {
	return func(yield func(CSVRecord[T]) bool) {
		reader := csv.NewReader(r)
		reader.TrimLeadingSpace = true
		reader.FieldsPerRecord = -1

		var headers []string
		if hasHeader {
			h, err := reader.Read()
			if err != nil {
				if err != io.EOF {
					yield(CSVRecord[T]{Error: err})
				}
				return
			}
			headers = h
		}

		for {
			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				if !yield(CSVRecord[T]{Error: err}) {
					return
				}
				continue
			}
			value, err := parse(record, headers)
			if !yield(CSVRecord[T]{Value: value, Error: err}) {
				return
			}
		}
	}
}
