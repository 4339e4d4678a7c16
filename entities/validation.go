package entities

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation error = errors.New("validation failed")
)

// Issue describes one rule a value broke.
type Issue struct {
	Field   string
	Message string
}

// ValidationError collects every issue found while building an entity or
// value object. It unwraps to ErrValidation.
type ValidationError struct {
	Message string
	Issues  []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// issues accumulates problems from several validations so the caller gets
// all of them at once.
type issues []Issue

func (i *issues) add(err error) {
	if err == nil {
		return
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		*i = append(*i, validationErr.Issues...)
		return
	}
	*i = append(*i, Issue{Message: err.Error()})
}

func (i issues) err(message string) error {
	if len(i) == 0 {
		return nil
	}
	return &ValidationError{Message: message, Issues: i}
}

func invalid(message string, field string, reason string) error {
	return &ValidationError{
		Message: message,
		Issues:  []Issue{{Field: field, Message: reason}},
	}
}
