package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the transport layer can map it to a status
// code without string matching.
type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindService    Kind = "SERVICE"
	KindStore      Kind = "STORE"
	KindRetrieval  Kind = "RETRIEVAL"
	KindNotFound   Kind = "NOT_FOUND"
)

type AppError struct {
	Kind    Kind
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

func New(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func NewValidation(message string) *AppError {
	return New(KindValidation, message, nil)
}

func NewService(message string, err error) *AppError {
	return New(KindService, message, err)
}

func NewStore(message string, err error) *AppError {
	return New(KindStore, message, err)
}

func NewRetrieval(message string, err error) *AppError {
	return New(KindRetrieval, message, err)
}

func NewNotFound(message string) *AppError {
	return New(KindNotFound, message, nil)
}

// KindOf reports the Kind of err when err is, or wraps, an AppError.
func KindOf(err error) (Kind, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}

func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
