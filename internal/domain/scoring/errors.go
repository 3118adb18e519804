package scoring

import "errors"

// Sentinel error kinds returned by the aggregator and the scorer. Callers match
// them with errors.Is; the wrapped message names the failed precondition.
var (
	ErrInsufficientData  = errors.New("insufficient booking history")
	ErrDegenerateWeights = errors.New("all weights are zero")
	ErrInvalidInput      = errors.New("invalid input")
)
