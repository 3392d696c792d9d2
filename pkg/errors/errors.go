package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindSlotUnavailable
	KindStorage
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindSlotUnavailable:
		return "slot_unavailable"
	case KindStorage:
		return "storage_error"
	case KindValidation:
		return "validation_error"
	default:
		return "internal"
	}
}

// Sentinels for errors.Is matching on kind.
var (
	ErrNotFound        = &AppError{Kind: KindNotFound}
	ErrSlotUnavailable = &AppError{Kind: KindSlotUnavailable}
	ErrStorage         = &AppError{Kind: KindStorage}
	ErrValidation      = &AppError{Kind: KindValidation}
)

// AppError represents an application error
type AppError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
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

// Is reports whether target is an AppError of the same kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// StatusCode maps the error kind to an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindSlotUnavailable:
		return http.StatusConflict
	case KindStorage:
		return http.StatusServiceUnavailable
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func SlotUnavailable(err error) *AppError {
	return &AppError{
		Kind:    KindSlotUnavailable,
		Message: "this time slot is no longer available, please select another time",
		Err:     err,
	}
}

func Storage(err error) *AppError {
	return &AppError{
		Kind:    KindStorage,
		Message: "booking store is unavailable, please try again",
		Err:     err,
	}
}

func Validation(message string, err error) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Message: message,
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindInternal when err carries none.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}
