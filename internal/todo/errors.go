package todo

import (
	"errors"
	"fmt"
)

var ErrOutOfRange = errors.New("index out of range")

// RangeError reports a mutation addressed past the end of a list.
type RangeError struct {
	Op    string
	List  List
	Index int
	Len   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %s[%d]: %v (len %d)", e.Op, e.List, e.Index, ErrOutOfRange, e.Len)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}
