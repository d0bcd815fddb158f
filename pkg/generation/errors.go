package generation

import (
	"errors"
	"fmt"
)

// ErrQuota marks a provider error caused by rate limiting or exhausted quota
var ErrQuota = errors.New("quota exhausted")

// Stage tells a failed draft apart from a failed audit
type Stage string

const (
	StageGeneration Stage = "generation"
	StageAudit      Stage = "audit"
)

// Error is returned by every Client operation that does not produce a usable result
type Error struct {
	Stage  Stage
	Reason string
	Quota  bool
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Stage, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(stage Stage, err error, format string, args ...any) *Error {
	reason := fmt.Sprintf(format, args...)
	if err != nil {
		reason = fmt.Sprintf("%s: %v", reason, err)
	}
	return &Error{
		Stage:  stage,
		Reason: reason,
		Quota:  errors.Is(err, ErrQuota),
		Err:    err,
	}
}
