package trace

import (
	"bufio"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// CSVWriter writes records as CSV rows. The header is emitted with the
// first record.
type CSVWriter[T any] struct {
	writer        *bufio.Writer
	headerWritten bool
}

// NewCSVWriter creates a CSV writer on w. Closing the writer flushes it but
// leaves w open.
func NewCSVWriter[T any](w io.Writer) *CSVWriter[T] {
	return &CSVWriter[T]{writer: bufio.NewWriter(w)}
}

func (cw *CSVWriter[T]) Write(record T) error {
	records := []T{record}
	if !cw.headerWritten {
		if err := gocsv.Marshal(records, cw.writer); err != nil {
			return fmt.Errorf("writing trace csv: %w", err)
		}
		cw.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, cw.writer); err != nil {
		return fmt.Errorf("writing trace csv: %w", err)
	}
	return nil
}

func (cw *CSVWriter[T]) Close() error {
	if err := cw.writer.Flush(); err != nil {
		return fmt.Errorf("closing trace csv: %w", err)
	}
	return nil
}

// ReadCSV decodes CSV produced by CSVWriter.
func ReadCSV[T any](r io.Reader) ([]T, error) {
	var records []T
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("reading trace csv: %w", err)
	}
	return records, nil
}
