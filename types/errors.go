package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures so handlers can map them to
// responses without inspecting error strings.
type ErrorKind string

const (
	ErrKindExtraction ErrorKind = "extraction"
	ErrKindEmbedding  ErrorKind = "embedding"
	ErrKindStore      ErrorKind = "store"
	ErrKindGeneration ErrorKind = "generation"
	ErrKindValidation ErrorKind = "validation"
)

// AppError is the structured failure surfaced to callers. It carries a
// kind, a human-readable message and optionally the underlying cause.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is lets errors.Is match two AppErrors by kind.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if errors.As(target, &appErr) {
		return appErr.Kind == e.Kind
	}
	return false
}

func NewExtractionError(message string, err error) *AppError {
	return &AppError{Kind: ErrKindExtraction, Message: message, Err: err}
}

func NewEmbeddingError(message string, err error) *AppError {
	return &AppError{Kind: ErrKindEmbedding, Message: message, Err: err}
}

func NewStoreError(message string, err error) *AppError {
	return &AppError{Kind: ErrKindStore, Message: message, Err: err}
}

func NewGenerationError(message string, err error) *AppError {
	return &AppError{Kind: ErrKindGeneration, Message: message, Err: err}
}

func NewValidationError(message string) *AppError {
	return &AppError{Kind: ErrKindValidation, Message: message}
}

// KindOf extracts the error kind, defaulting to store for unclassified
// errors so nothing is ever reported as a success.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrKindStore
}
