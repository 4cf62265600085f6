package diag

import (
	"errors"
	"fmt"

	"baml/internal/source"
)

// Error carries the single diagnostic that aborted a pipeline phase.
// The lexer and parser stop at the first problem, so there is never more
// than one per document.
type Error struct {
	Diagnostic Diagnostic
}

// Errorf builds an *Error with SevError severity.
func Errorf(code Code, primary source.Span, format string, args ...any) *Error {
	return &Error{Diagnostic: NewError(code, primary, fmt.Sprintf(format, args...))}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Diagnostic.Code.ID(), e.Diagnostic.Message)
}

// Code returns the diagnostic code.
func (e *Error) Code() Code {
	return e.Diagnostic.Code
}

// WithNote attaches a secondary location to the error.
func (e *Error) WithNote(sp source.Span, msg string) *Error {
	e.Diagnostic = e.Diagnostic.WithNote(sp, msg)
	return e
}

// AsDiagnostic extracts the diagnostic from err (through any wrapping).
func AsDiagnostic(err error) (Diagnostic, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Diagnostic, true
	}
	return Diagnostic{}, false
}
