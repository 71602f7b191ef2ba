// Package trace exports per-generation fitness traces as JSON lines or CSV.
package trace

import (
	"fmt"
	"io"
	"strings"
)

// GARecord is one generation of a genetic algorithm run.
type GARecord struct {
	RunID          string  `json:"run_id" csv:"run_id"`
	Generation     int     `json:"generation" csv:"generation"`
	MaxFitness     float64 `json:"max_fitness" csv:"max_fitness"`
	AverageFitness float64 `json:"average_fitness" csv:"average_fitness"`
}

// DERecord is one generation of a differential evolution run.
type DERecord struct {
	RunID       string  `json:"run_id" csv:"run_id"`
	Generation  int     `json:"generation" csv:"generation"`
	BestFitness float64 `json:"best_fitness" csv:"best_fitness"`
	Evaluations int     `json:"evaluations" csv:"evaluations"`
}

// Format selects the encoding of a trace.
type Format int

const (
	FormatNone Format = iota
	FormatJSONL
	FormatCSV
)

// ParseFormat parses "none", "jsonl" or "csv".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return FormatNone, nil
	case "jsonl":
		return FormatJSONL, nil
	case "csv":
		return FormatCSV, nil
	default:
		return FormatNone, fmt.Errorf("unknown trace format %q (available: none, jsonl, csv)", s)
	}
}

func (f Format) String() string {
	switch f {
	case FormatJSONL:
		return "jsonl"
	case FormatCSV:
		return "csv"
	default:
		return "none"
	}
}

// Writer streams trace records of type T.
type Writer[T any] interface {
	Write(record T) error
	Close() error
}

// NewWriter returns a Writer for the given format. FormatNone yields a
// writer that discards everything.
func NewWriter[T any](w io.Writer, f Format) Writer[T] {
	switch f {
	case FormatJSONL:
		return NewJSONLWriter[T](w)
	case FormatCSV:
		return NewCSVWriter[T](w)
	default:
		return discard[T]{}
	}
}

type discard[T any] struct{}

func (discard[T]) Write(T) error { return nil }
func (discard[T]) Close() error  { return nil }

// GARecords converts the parallel GA traces into records.
func GARecords(runID string, maxFitness, averageFitness []float64) []GARecord {
	records := make([]GARecord, len(maxFitness))
	for i := range maxFitness {
		records[i] = GARecord{
			RunID:          runID,
			Generation:     i,
			MaxFitness:     maxFitness[i],
			AverageFitness: averageFitness[i],
		}
	}
	return records
}

// DERecords converts the parallel DE best-fitness and evaluation traces into
// records.
func DERecords(runID string, best []float64, evaluations []int) []DERecord {
	records := make([]DERecord, len(best))
	for i, v := range best {
		records[i] = DERecord{RunID: runID, Generation: i, BestFitness: v, Evaluations: evaluations[i]}
	}
	return records
}

// WriteAll writes every record and closes w.
func WriteAll[T any](w Writer[T], records []T) error {
	for _, r := range records {
		if err := w.Write(r); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
