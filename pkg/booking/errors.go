package booking

import (
	"errors"
	"fmt"
)

// Domain-level error values returned by the booking service.
var (
	ErrSlotTaken            = errors.New("slot already reserved")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrNotCancellable       = errors.New("reservation not cancellable")
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrTableNotFound        = errors.New("table not found")
	ErrTableUnavailable     = errors.New("table unavailable")
	ErrTableWrongRestaurant = errors.New("table does not belong to restaurant")
	ErrPartyTooLarge        = errors.New("party size exceeds table capacity")

	ErrInvalidUserID        = errors.New("invalid user id")
	ErrInvalidRestaurantID  = errors.New("invalid restaurant id")
	ErrInvalidTableID       = errors.New("invalid table id")
	ErrInvalidReservationID = errors.New("invalid reservation id")
	ErrInvalidSlotDate      = errors.New("invalid reservation date")
	ErrInvalidSlotTime      = errors.New("invalid reservation time")
	ErrInvalidPartySize     = errors.New("invalid party size")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidDateBucket    = errors.New("invalid date filter")
	ErrInvalidServiceConfig = errors.New("invalid service config")
)

// OperationError wraps a failure with a stable operation code.
type OperationError struct {
	operation string
	subject   string
	code      string
	err       error
}

// Error returns the formatted error message.
func (operationError OperationError) Error() string {
	return fmt.Sprintf("%s.%s.%s: %v", operationError.operation, operationError.subject, operationError.code, operationError.err)
}

// Unwrap returns the underlying error.
func (operationError OperationError) Unwrap() error {
	return operationError.err
}

// Operation returns the operation segment.
func (operationError OperationError) Operation() string {
	return operationError.operation
}

// Subject returns the subject segment.
func (operationError OperationError) Subject() string {
	return operationError.subject
}

// Code returns the stable error code segment.
func (operationError OperationError) Code() string {
	return operationError.code
}

// WrapError wraps an error with operation, subject, and code metadata.
func WrapError(operation string, subject string, code string, err error) error {
	if err == nil {
		return nil
	}
	return OperationError{
		operation: operation,
		subject:   subject,
		code:      code,
		err:       err,
	}
}
