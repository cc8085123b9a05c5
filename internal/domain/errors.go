package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports bad or missing input. The operation had no effect.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// NotFoundError reports a referenced record that does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// PermissionError reports an edit or delete that is no longer allowed.
type PermissionError struct {
	Action string
	Reason string
}

func (e *PermissionError) Error() string {
	return e.Action + " not permitted: " + e.Reason
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

func Denied(action, reason string) error {
	return &PermissionError{Action: action, Reason: reason}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

func IsPermission(err error) bool {
	var p *PermissionError
	return errors.As(err, &p)
}
