package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error.
type ErrorType string

const (
	// NotFoundError indicates a not found error.
	NotFoundError ErrorType = "NotFound"
	// InvalidInputError indicates an invalid input error.
	InvalidInputError ErrorType = "InvalidInput"
	// InternalError indicates an internal error.
	InternalError ErrorType = "Internal"
	// ValidationErr indicates a malformed or out-of-range scalar input, e.g. a negative amount or rate.
	ValidationErr ErrorType = "Validation"
	// SchemaErr indicates an order does not structurally match the expected shape.
	SchemaErr ErrorType = "Schema"
	// LengthMismatchErr indicates a liquidity snapshot is not aligned with its order list.
	LengthMismatchErr ErrorType = "LengthMismatch"
	// ArithmeticErr indicates a computation would divide by a non-positive value.
	ArithmeticErr ErrorType = "Arithmetic"
	// SignatureDeniedErr indicates the signer declined to produce a signature.
	SignatureDeniedErr ErrorType = "SignatureDenied"
	// InvalidSignerErr indicates the signer cannot sign for the requested address, or produced a bad signature.
	InvalidSignerErr ErrorType = "InvalidSigner"
)

var (
	ErrInvalidInput = New(InvalidInputError, "invalid input")

	ErrAmountMustNotBeNil       = Validation("amount must not be nil")
	ErrFeeRateMustNotBeNegative = Validation("feeRate must be greater than or equal to 0")

	ErrDivisionByZero       = Arithmetic("divisor must be positive")
	ErrFeeOrderCannotNetFee = Arithmetic("fee order takerFee must be less than makerAssetAmount")

	ErrUserDeniedSignature = New(SignatureDeniedErr, "user denied message signature")
	ErrInvalidSignature    = New(InvalidSignerErr, "signature does not match signer address")

	ErrPriceNotFound = New(NotFoundError, "price not found")
)

// TypedError represents an error with a specific type.
type TypedError struct {
	Type ErrorType
	Err  error
}

// Is returns true if err, or any error it wraps, is a *TypedError of the given type.
func Is(err error, typ ErrorType) bool {
	var e *TypedError
	if errors.As(err, &e) {
		return e.Type == typ
	}
	return false
}

// Error implements the error interface for TypedError.
func (e *TypedError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *TypedError) Unwrap() error {
	return e.Err
}

// New creates a new TypedError with the given error type and message.
func New(errorType ErrorType, message string) *TypedError {
	return &TypedError{Type: errorType, Err: errors.New(message)}
}

// Newf creates a new TypedError with the given error type and message.
func Newf(errorType ErrorType, message string, a ...any) *TypedError {
	return &TypedError{Type: errorType, Err: fmt.Errorf(message, a...)}
}

// NewInternal creates a new internal error with the given message.
func NewInternal(message string) *TypedError {
	return &TypedError{Type: InternalError, Err: errors.New(message)}
}

// Wrap creates a new TypedError by wrapping an existing error with an additional message.
func Wrap(errorType ErrorType, err error, message string) *TypedError {
	return &TypedError{Type: errorType, Err: fmt.Errorf("%s: %w", message, err)}
}

// Validation creates a new validation error
func Validation(message string, a ...any) *TypedError {
	return &TypedError{Type: ValidationErr, Err: fmt.Errorf(message, a...)}
}

// Schema creates a new schema error
func Schema(message string, a ...any) *TypedError {
	return &TypedError{Type: SchemaErr, Err: fmt.Errorf(message, a...)}
}

// LengthMismatch creates a new length mismatch error
func LengthMismatch(message string, a ...any) *TypedError {
	return &TypedError{Type: LengthMismatchErr, Err: fmt.Errorf(message, a...)}
}

// Arithmetic creates a new arithmetic error
func Arithmetic(message string, a ...any) *TypedError {
	return &TypedError{Type: ArithmeticErr, Err: fmt.Errorf(message, a...)}
}
