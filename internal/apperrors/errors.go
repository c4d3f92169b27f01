package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal indicates an unexpected failure in the engine or its persistence layer.
var ErrInternal = errors.New("internal error")

// ErrImbalancedEntry indicates that debits and credits of a transaction would not be equal.
var ErrImbalancedEntry = errors.New("journal entries do not balance")

// ErrInvalidTransition indicates a status change that the transaction lifecycle does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrImmutableRecord indicates a mutation attempted on a secured or locked record.
var ErrImmutableRecord = errors.New("record is immutable")

// ErrInsufficientPayment indicates that the tendered amounts do not cover the amount due.
var ErrInsufficientPayment = errors.New("insufficient payment")

// ErrPermissionDenied indicates the actor lacks the capability required for the operation.
var ErrPermissionDenied = errors.New("permission denied")

// ErrAlreadyOpen indicates a register session is already open for the register.
var ErrAlreadyOpen = errors.New("register already open")

// ErrNotOpen indicates the register has no open session.
var ErrNotOpen = errors.New("register not open")

// ErrConcurrentModification indicates that a record changed between read and write.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// InvalidTransitionError carries the rejected from/to pair.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition.Error(), e.From, e.To)
}

// Unwrap lets errors.Is match ErrInvalidTransition.
func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// InsufficientPaymentError carries the missing amount in minor units.
type InsufficientPaymentError struct {
	Shortfall int64
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("%s: shortfall of %d minor units", ErrInsufficientPayment.Error(), e.Shortfall)
}

func (e *InsufficientPaymentError) Unwrap() error {
	return ErrInsufficientPayment
}

// AppError wraps infrastructure failures with a status-like code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError. A nil err is replaced by ErrInternal so that
// callers can still match with errors.Is.
func NewAppError(code int, message string, err error) *AppError {
	if err == nil {
		err = ErrInternal
	}
	return &AppError{Code: code, Message: message, Err: err}
}
