package cart

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidItem     = errors.New("invalid line item")
	ErrIndexOutOfRange = errors.New("line item index out of range")
)

// IndexError reports a SetQuantity call against a position the cart does
// not have. It unwraps to ErrIndexOutOfRange.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("line item index %d out of range [0,%d)", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
