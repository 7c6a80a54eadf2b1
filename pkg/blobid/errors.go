package blobid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates that a bucket, name prefix or extension
	// passed to New does not satisfy its naming convention.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrFormat indicates that a string is not a serialized blob identifier.
	ErrFormat = errors.New("invalid blob id format")
)

// ArgumentError describes an input rejected by New.
type ArgumentError struct {
	Arg    string
	Value  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Arg, e.Value, e.Reason)
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// FormatError is returned by Parse for strings that do not follow the grammar.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("wrong format of blob id: %q", e.Input)
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}
