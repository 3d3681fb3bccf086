package validation

import "errors"

// Configuration errors. Invalid configs are rejected synchronously at the
// point they are supplied; scoring never silently clamps a bad config.
var (
	ErrWeightsNotNormalized = errors.New("factor weights must sum to 1.0")
	ErrThresholdOutOfRange  = errors.New("thresholds must be between 0.0 and 1.0")
	ErrThresholdOrder       = errors.New("auto-approve threshold must be greater than auto-reject threshold")
	ErrNegativeWeight       = errors.New("factor weights cannot be negative")
)

// Input errors.
var (
	ErrNilMemory       = errors.New("memory record cannot be nil")
	ErrInvalidDecision = errors.New("invalid decision value")
)
