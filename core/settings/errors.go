package settings

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every error returned for a rejected settings value.
var ErrValidation = errors.New("invalid settings")

// ValidationError describes the first value that failed validation.
type ValidationError struct {
	Key    string
	Value  string
	Reason string
	// Err is the underlying cause, e.g. the file system error for root_path.
	Err error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s %q: %s", e.Key, e.Value, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports ErrValidation as a match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
