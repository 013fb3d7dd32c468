package template

import (
	"errors"
	"fmt"

	"github.com/ztrue/tracerr"
)

// UnexpectedOffsetError reports a container consulted at a type argument
// position it does not have. It is a logic error in the caller.
type UnexpectedOffsetError struct {
	Container string // id of the input container
	Offset    int
}

// Error implements the error interface.
func (e *UnexpectedOffsetError) Error() string {
	return fmt.Sprintf("unexpected offset %d into %s", e.Offset, e.Container)
}

func unexpectedOffset(container string, offset int) error {
	return tracerr.Wrap(&UnexpectedOffsetError{Container: container, Offset: offset})
}

// IsUnexpectedOffset reports whether err is an UnexpectedOffsetError.
func IsUnexpectedOffset(err error) bool {
	var e *UnexpectedOffsetError
	return errors.As(tracerr.Unwrap(err), &e)
}
