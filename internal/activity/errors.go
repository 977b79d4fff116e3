package activity

import (
	"errors"
	"fmt"
)

var (
	ErrNoContent            = errors.New("no input content")
	ErrUnsupportedFormat    = errors.New("unsupported file format, supported: .csv, .txt")
	ErrUnknownPeriod        = errors.New("unknown period, supported: hour, day, week, month")
	ErrUnsupportedSeparator = errors.New("unsupported separator, supported: comma, semicolon, tab")
)

// InputError is returned before any parsing starts when the source cannot be read.
type InputError struct {
	Source string
	Err    error
}

func (e *InputError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("input: %s", e.Err)
	}
	return fmt.Sprintf("input %s: %s", e.Source, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// ParseError wraps a fault raised by the parsing algorithm itself.
// Malformed rows never produce it; they are skipped.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
