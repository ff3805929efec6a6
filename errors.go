package sheetstore

import (
	"errors"
	"fmt"
)

var (
	ErrRemote             = errors.New("remote error")
	ErrNotFound           = errors.New("not found")
	ErrDecode             = errors.New("decode error")
	ErrInvalidRow         = errors.New("invalid row index")
	ErrIDSpaceExhausted   = errors.New("identifier space exhausted")
	ErrReadOnlyCollection = errors.New("collection does not support updates")
	ErrValidation         = errors.New("validation failed")
)

// RemoteError is returned when the backend answers with a non-success status.
// Message is the backend-supplied error message, unmodified.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: spreadsheet API error (status %d)", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: spreadsheet API error: %s", e.Op, e.Message)
}

func (e *RemoteError) Unwrap() error { return e.Err }

func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

// NotFoundError reports a sheet or record that is absent from already-fetched data.
type NotFoundError struct {
	Kind string // "sheet", "record", ...
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DecodeError reports a response whose shape does not match the row-matrix contract.
type DecodeError struct {
	Ref    string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to decode %s: %s: %v", e.Ref, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to decode %s: %s", e.Ref, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
