package workflow

import (
	"errors"
	"fmt"

	"github.com/ethanbaker/hq-console/pkg/sheet"
)

var (
	// ErrValidation is returned before any call is made when input is incomplete
	ErrValidation = errors.New("validation failed")

	// ErrBusy is returned while another mutating operation is in flight
	ErrBusy = errors.New("another operation is in progress")

	// ErrNoCurrent is returned when an operation needs a current record
	ErrNoCurrent = errors.New("no current record")

	// ErrReadOnly is returned for edits, audits and approvals of an approved record
	ErrReadOnly = errors.New("record is approved and read-only")

	// ErrEditing is returned for operations that cannot run while edit mode is on
	ErrEditing = errors.New("record is being edited")

	// ErrNotEditing is returned when the scratch buffer is updated outside edit mode
	ErrNotEditing = errors.New("edit mode is off")

	// ErrInvalidEdit is returned when committing the scratch buffer would break the record
	ErrInvalidEdit = errors.New("invalid edit")

	// ErrNotFound is returned when a record id is neither local nor in the last search
	ErrNotFound = errors.New("record not found")
)

// Op names a controller operation that calls out to a client
type Op string

const (
	OpGenerate Op = "generate"
	OpAudit    Op = "audit"
	OpApprove  Op = "approve"
)

// OperationError is a failed generate, audit or approve. The prior state is intact
type OperationError struct {
	Op      Op
	Failure sheet.Failure
	Err     error
}

func (e *OperationError) Error() string {
	if e.Failure != sheet.FailureNone {
		return fmt.Sprintf("%s failed (%s): %v", e.Op, e.Failure, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
