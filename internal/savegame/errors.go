package savegame

import (
	"errors"
	"fmt"
)

var ErrParse = errors.New("parse error")

// ParseError reports malformed or incompatible data at a position of the document.
type ParseError struct {
	Reason string
	Line   int
	Column int
	Err    error
}

func (that *ParseError) Error() string {
	if that.Err != nil {
		return fmt.Sprintf("%s at %d:%d: %s: %v", ErrParse, that.Line, that.Column, that.Reason, that.Err)
	}

	return fmt.Sprintf("%s at %d:%d: %s", ErrParse, that.Line, that.Column, that.Reason)
}

func (that *ParseError) Unwrap() []error {
	if that.Err != nil {
		return []error{ErrParse, that.Err}
	}

	return []error{ErrParse}
}
