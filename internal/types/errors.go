package types

import (
	"errors"
	"fmt"

	"github.com/ztrue/tracerr"
)

// MalformedTypeError reports a type built in violation of a structural
// invariant, such as a keyed array without properties.
type MalformedTypeError struct {
	Type string // the variant being constructed
	Msg  string
}

// Error implements the error interface.
func (e *MalformedTypeError) Error() string {
	return fmt.Sprintf("malformed %s: %s", e.Type, e.Msg)
}

// malformedf returns a MalformedTypeError carrying a stack trace.
func malformedf(typ, format string, args ...interface{}) error {
	return tracerr.Wrap(&MalformedTypeError{Type: typ, Msg: fmt.Sprintf(format, args...)})
}

// IsMalformed reports whether err is a MalformedTypeError.
func IsMalformed(err error) bool {
	var m *MalformedTypeError
	return errors.As(tracerr.Unwrap(err), &m)
}
