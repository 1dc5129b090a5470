package parser

import (
	"errors"
	"fmt"
)

// ParseError describes malformed roadmap input. It is fatal to the parse
// attempt only; the caller may retry with a different parser. Line is
// 1-based and zero when the position is unknown.
type ParseError struct {
	Path  string
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("parse %s:%d: %v", e.Path, e.Line, e.Err)
	case e.Field != "":
		return fmt.Sprintf("parse %s: field %s: %v", e.Path, e.Field, e.Err)
	default:
		return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err is (or wraps) a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
