package session

import (
	"errors"
	"fmt"
)

// ErrClosed indicates an operation on a session that has been closed.
var ErrClosed = errors.New("session is closed")

// ErrNoFields indicates focus mode or question generation was requested
// for a session with no fields to work through.
var ErrNoFields = errors.New("session has no fields")

// UnknownFieldError indicates a field identifier that is not part of
// this session's field list.
type UnknownFieldError struct {
	FieldName string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("field %s is not part of this session", e.FieldName)
}

// InvalidTransitionError indicates a field action that is not allowed
// from the field's current progress state.
type InvalidTransitionError struct {
	FieldName string
	From      Progress
	To        Progress
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("field %s cannot go from %s to %s", e.FieldName, e.From, e.To)
}
