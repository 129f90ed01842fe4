package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks inputs the caller must fix before retrying.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError carries enough context to locate the offending input.
// Want and Got are vector lengths when the failure is a dimension mismatch.
type InvalidInputError struct {
	Record string
	Reason string
	Want   int
	Got    int
}

func (e *InvalidInputError) Error() string {
	if e.Want != e.Got {
		return fmt.Sprintf("invalid input: %s (record %q: want length %d, got %d)", e.Reason, e.Record, e.Want, e.Got)
	}
	if e.Record != "" {
		return fmt.Sprintf("invalid input: %s (record %q)", e.Reason, e.Record)
	}
	return "invalid input: " + e.Reason
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}
