// Package errs defines the error taxonomy every API operation maps its
// failures into. Handlers translate these to HTTP statuses; anything that
// is none of them is an internal error and reaches the caller as a
// generic 500 with the details kept in the server log.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError: malformed, missing or out-of-range input. 400.
type ValidationError struct {
	Msg    string
	Fields []string // missing/offending field names, when known
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return e.Msg + ": " + strings.Join(e.Fields, ", ")
	}
	return e.Msg
}

func Validation(msg string) error { return &ValidationError{Msg: msg} }

func MissingFields(fields ...string) error {
	return &ValidationError{Msg: "missing required fields", Fields: fields}
}

// NotFoundError: the referenced entity is absent or inactive. 404.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func NotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError: the request collides with existing state, e.g. a
// duplicate email. 409.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func Conflict(msg string) error { return &ConflictError{Msg: msg} }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
