package retry

import (
	"errors"
	"fmt"
)

// ErrInvalidMaxAttempts is returned when a policy allows fewer than one attempt.
var ErrInvalidMaxAttempts = errors.New("max attempts must be at least 1")

// ExhaustedError reports that every allowed attempt failed.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}
