package vp9me

import (
	"errors"
	"fmt"
)

// Errors reported for invalid frames and blocks. They are wrapped in an
// *InputError naming the offending field.
var (
	ErrNoFrame        = errors.New("vp9me: no frame begun")
	ErrNoReference    = errors.New("vp9me: reference not available")
	ErrPlaneTooSmall  = errors.New("vp9me: plane too small")
	ErrBorderTooSmall = errors.New("vp9me: plane border too small")
	ErrOutOfRange     = errors.New("vp9me: value out of range")
)

// InputError reports which input field failed validation.
//
// The underlying sentinel can be matched with errors.Is.
type InputError struct {
	Field string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("vp9me: invalid %s: %v", e.Field, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

func inputErr(field string, err error) error {
	return &InputError{Field: field, Err: err}
}
