package types

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ValidationError      ErrorCode = "VALIDATION_ERROR"
	Unauthorized         ErrorCode = "UNAUTHORIZED"
	StateError           ErrorCode = "STATE_ERROR"
	ArithmeticOverflow   ErrorCode = "ARITHMETIC_OVERFLOW"
	TransferFailed       ErrorCode = "TRANSFER_FAILED"
	NotFound             ErrorCode = "NOT_FOUND"
	BadRequest           ErrorCode = "BAD_REQUEST"
	InternalServiceError ErrorCode = "INTERNAL_SERVICE_ERROR"
)

func (c ErrorCode) String() string {
	return string(c)
}

// Error is the error returned by every staking operation. StatusCode is the
// http status the api layer responds with.
type Error struct {
	StatusCode int
	ErrorCode  ErrorCode
	Err        error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(statusCode int, errorCode ErrorCode, err error) *Error {
	return &Error{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Err:        err,
	}
}

func NewErrorWithMsg(statusCode int, errorCode ErrorCode, msg string) *Error {
	return NewError(statusCode, errorCode, errors.New(msg))
}

func NewValidationFailedError(err error) *Error {
	return NewError(http.StatusBadRequest, ValidationError, err)
}

func NewUnauthorizedError(err error) *Error {
	return NewError(http.StatusForbidden, Unauthorized, err)
}

func NewStateError(err error) *Error {
	return NewError(http.StatusConflict, StateError, err)
}

func NewArithmeticOverflowError(err error) *Error {
	return NewError(http.StatusUnprocessableEntity, ArithmeticOverflow, err)
}

func NewTransferFailedError(err error) *Error {
	return NewError(http.StatusBadGateway, TransferFailed, err)
}

func NewNotFoundError(err error) *Error {
	return NewError(http.StatusNotFound, NotFound, err)
}

func NewInternalServiceError(err error) *Error {
	return NewError(http.StatusInternalServerError, InternalServiceError, err)
}

// IsErrorCode reports whether err (or anything it wraps) is an *Error with given code.
func IsErrorCode(err error, code ErrorCode) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.ErrorCode == code
}

// Overflowf builds an ArithmeticOverflow error wrapping ErrMathOverflow.
func Overflowf(format string, args ...any) *Error {
	return NewArithmeticOverflowError(
		fmt.Errorf("%w: %s", ErrMathOverflow, fmt.Sprintf(format, args...)),
	)
}
