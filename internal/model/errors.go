package model

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrExtraction        = errors.New("document extraction failed")
	ErrMissingCredential = errors.New("missing credential")
	ErrNotFound          = errors.New("evaluation not found")
	ErrInvalidInput      = errors.New("invalid input")
)

// WrapError keeps the error kind visible to errors.Is while adding operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", operation, kind)
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

// CredentialError names the environment variable that has to be set.
type CredentialError struct {
	Variable string
}

func (e *CredentialError) Error() string {
	return e.Variable + " not configured"
}

func (e *CredentialError) Unwrap() error {
	return ErrMissingCredential
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
