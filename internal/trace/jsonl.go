package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// JSONLWriter writes one JSON object per line through a buffer.
type JSONLWriter[T any] struct {
	writer *bufio.Writer
}

// NewJSONLWriter creates a JSONL writer on w. Closing the writer flushes it
// but leaves w open.
func NewJSONLWriter[T any](w io.Writer) *JSONLWriter[T] {
	return &JSONLWriter[T]{writer: bufio.NewWriterSize(w, 64*1024)}
}

// Write appends a record. It is buffered until Close.
func (jw *JSONLWriter[T]) Write(record T) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal trace record: %w", err)
	}
	if _, err := jw.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write trace record: %w", err)
	}
	if err := jw.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	return nil
}

// Close flushes buffered data.
func (jw *JSONLWriter[T]) Close() error {
	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush on close: %w", err)
	}
	return nil
}

// ReadJSONL decodes every line of r into a record.
func ReadJSONL[T any](r io.Reader) ([]T, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var records []T
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record T
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal trace record: %w", err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan trace line: %w", err)
	}
	return records, nil
}
