package codebase

import (
	"errors"
	"fmt"

	"github.com/ztrue/tracerr"
)

// DeclError reports an invalid class declaration.
type DeclError struct {
	Class string
	Msg   string
}

func (e *DeclError) Error() string {
	return fmt.Sprintf("class %s: %s", e.Class, e.Msg)
}

func declErrorf(class, format string, args ...interface{}) error {
	return tracerr.Wrap(&DeclError{Class: class, Msg: fmt.Sprintf(format, args...)})
}

// IsDeclError reports whether err is a DeclError.
func IsDeclError(err error) bool {
	var d *DeclError
	return errors.As(tracerr.Unwrap(err), &d)
}
