package loctext

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPragma is returned when a #pragma line does not carry exactly
	// a key and a value.
	ErrMalformedPragma = errors.New("malformed pragma")
	// ErrMissingHeader is returned in strict mode when a data line has no "=>".
	ErrMissingHeader = errors.New("missing header separator")

	// ErrUnencodableID is returned when an identifier cannot be written back.
	ErrUnencodableID = errors.New("identifier cannot be encoded")
	// ErrUnencodableLocale is returned when a locale code cannot be written back.
	ErrUnencodableLocale = errors.New("locale code cannot be encoded")
	// ErrUnencodablePragma is returned when a pragma key or value contains
	// whitespace or is empty.
	ErrUnencodablePragma = errors.New("pragma cannot be encoded")
)

// ParseError is a fatal format violation. Line and Column are 1-based;
// Column is 0 when not applicable.
type ParseError struct {
	Line   int
	Column int
	Text   string
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("line %d, column %d: %s: %q", e.Line, e.Column, e.Msg, e.Text)
	}
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

// WarningCode classifies a recoverable problem.
type WarningCode string

const (
	WarnMissingHeader   WarningCode = "missing-header"
	WarnUnquotedValue   WarningCode = "unquoted-value"
	WarnMalformedLocale WarningCode = "malformed-locale"
	WarnNoLocaleData    WarningCode = "no-locale-data"
	WarnDuplicatePragma WarningCode = "duplicate-pragma"
)

// Warning is a line-local problem that did not stop the parse. The offending
// line contributed no record unless Code is WarnDuplicatePragma.
type Warning struct {
	Line int
	ID   string
	Code WarningCode
	Msg  string
}

func (w Warning) String() string {
	if w.ID != "" {
		return fmt.Sprintf("line %d (%s): %s", w.Line, w.ID, w.Msg)
	}
	return fmt.Sprintf("line %d: %s", w.Line, w.Msg)
}
