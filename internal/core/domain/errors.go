package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput means the document text is too short to analyze.
	ErrEmptyInput = errors.New("document text empty or too short")
	// ErrMissingScheduleInput means an extraction record violated the
	// response-window invariant. This is a bug, not a user condition.
	ErrMissingScheduleInput = errors.New("missing schedule input")

	ErrDocumentNotFound  = errors.New("document not found")
	ErrTodoNotFound      = errors.New("todo not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTemporary         = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
