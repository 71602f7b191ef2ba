package de

import (
	"log/slog"
	"math"
)

// StopReason records why a run ended.
type StopReason string

const (
	StopIterations StopReason = "iterations"
	StopEpsilon    StopReason = "epsilon"
	StopBudget     StopReason = "budget"
	StopStalled    StopReason = "stalled"
)

// stallTracker counts generations without a significant improvement of the
// best fitness. An improvement is significant when it exceeds threshold
// times the magnitude of the last significant value.
type stallTracker struct {
	patience        int
	threshold       float64
	lastSignificant float64
	staleCount      int
	logger          *slog.Logger
}

func newStallTracker(patience int, threshold float64, initial float64, logger *slog.Logger) *stallTracker {
	return &stallTracker{
		patience:        patience,
		threshold:       threshold,
		lastSignificant: initial,
		logger:          logger,
	}
}

// Update records the best fitness of a generation and reports whether the
// run has stalled. It never stalls when patience is zero.
func (s *stallTracker) Update(best float64) bool {
	if s.patience <= 0 {
		return false
	}

	improvement := s.lastSignificant - best
	if improvement > s.threshold*math.Abs(s.lastSignificant) {
		s.lastSignificant = best
		s.staleCount = 0
		return false
	}

	s.staleCount++
	s.logger.Debug("No significant fitness improvement",
		"best", best,
		"last_significant", s.lastSignificant,
		"stale_count", s.staleCount,
		"patience", s.patience,
	)
	return s.staleCount >= s.patience
}
