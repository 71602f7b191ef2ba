package ga

import "errors"

var (
	// ErrConfig marks an invalid engine, operator or strategy configuration.
	// Use errors.Is(err, ErrConfig) to check for it.
	ErrConfig = errors.New("ga: invalid configuration")

	// ErrNonPositiveFitness is returned by fitness-proportional selection when
	// the candidates' total fitness is zero or negative.
	ErrNonPositiveFitness = errors.New("ga: non-positive total fitness")

	// ErrDone is returned by Step once every generation has run.
	ErrDone = errors.New("ga: run already finished")
)
