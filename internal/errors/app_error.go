package errors

import (
	"errors"
	"fmt"
)

// AppError is the tagged failure returned by every service operation.
type AppError struct {
	Kind    Kind
	Code    string // client facing code, see codes.go
	Message string // safe to show to the caller
	Err     error  // original cause, logged only
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another *AppError by kind and code so tests can use errors.Is
// against the package-level sentinels.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Code == "" || e.Code == t.Code)
}

func New(kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

func Wrap(err error, kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message, Err: err}
}

func Unauthenticated(code, message string) *AppError {
	if code == "" {
		code = AuthUnauthorized
	}
	if message == "" {
		message = "authentication required"
	}
	return New(KindUnauthenticated, code, message)
}

func Forbidden(code, message string) *AppError {
	if code == "" {
		code = AuthzForbidden
	}
	if message == "" {
		message = "you do not have permission to perform this action"
	}
	return New(KindForbidden, code, message)
}

func NotFound(code, message string) *AppError {
	if code == "" {
		code = ResourceNotFound
	}
	return New(KindNotFound, code, message)
}

func Validation(code, message string) *AppError {
	if code == "" {
		code = ValidationInvalidInput
	}
	return New(KindValidation, code, message)
}

func Conflict(code, message string) *AppError {
	if code == "" {
		code = ResourceAlreadyExists
	}
	return New(KindConflict, code, message)
}

// Internal hides err behind a generic message.
func Internal(err error) *AppError {
	return Wrap(err, KindInternal, InternalServerError, "an internal error occurred, please try again later")
}

// Sentinels usable with errors.Is; they match any error of the same kind.
var (
	ErrUnauthenticated = &AppError{Kind: KindUnauthenticated}
	ErrForbidden       = &AppError{Kind: KindForbidden}
	ErrNotFound        = &AppError{Kind: KindNotFound}
	ErrValidation      = &AppError{Kind: KindValidation}
	ErrConflict        = &AppError{Kind: KindConflict}
	ErrInternal        = &AppError{Kind: KindInternal}
)

// AsAppError returns err as *AppError, converting foreign errors to INTERNAL.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// KindOf returns the kind of err, INTERNAL for foreign errors.
func KindOf(err error) Kind {
	return AsAppError(err).Kind
}
