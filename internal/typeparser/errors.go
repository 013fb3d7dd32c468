package typeparser

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle"
	"github.com/ztrue/tracerr"
)

// SyntaxError reports a type string that cannot be parsed or denotes no
// valid type.
type SyntaxError struct {
	Input  string
	Column int // 1-based, 0 when unknown
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("%q:%d: %s", e.Input, e.Column, e.Msg)
	}
	return fmt.Sprintf("%q: %s", e.Input, e.Msg)
}

func syntaxError(input string, err error) error {
	e := &SyntaxError{Input: input, Msg: err.Error()}
	var perr participle.Error
	if errors.As(err, &perr) {
		e.Column = perr.Token().Pos.Column
		e.Msg = perr.Message()
	}
	return tracerr.Wrap(e)
}

func invalidf(input, format string, args ...interface{}) error {
	return tracerr.Wrap(&SyntaxError{Input: input, Msg: fmt.Sprintf(format, args...)})
}

// IsSyntaxError reports whether err is a SyntaxError.
func IsSyntaxError(err error) bool {
	var s *SyntaxError
	return errors.As(tracerr.Unwrap(err), &s)
}
