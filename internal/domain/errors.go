package domain

// ConfigurationError covers bad caller input: weights not summing to 100,
// unknown metric keys, out-of-range thresholds. Never retried.
type ConfigurationError struct {
	Err error
}

func (e ConfigurationError) Error() string {
	return e.Err.Error()
}

// DataUnavailableError means no snapshot exists for a requested lookback
// offset. In multi-horizon responses it downgrades the affected horizon
// to a null entry instead of failing the whole call.
type DataUnavailableError struct {
	Err error
}

func (e DataUnavailableError) Error() string {
	return e.Err.Error()
}

// InsufficientDataError means a period had zero valid candidates to
// populate a portfolio. It aborts only that horizon's computation.
type InsufficientDataError struct {
	Err error
}

func (e InsufficientDataError) Error() string {
	return e.Err.Error()
}

// ComputationError flags degenerate arithmetic, e.g. compounding from a
// zero prior portfolio value.
type ComputationError struct {
	Err error
}

func (e ComputationError) Error() string {
	return e.Err.Error()
}
