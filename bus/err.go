package bus

import (
	"errors"

	"github.com/ezrec/ledrom/translate"
)

var f = translate.From

var (
	// Image errors
	ErrImageSize = errors.New(f("image exceeds rom window"))
)

// ErrImageRead indicates a failure reading a ROM image.
type ErrImageRead struct {
	Offset int
	Err    error
}

func (err *ErrImageRead) Error() string {
	return f("image read at offset 0x%x %v", err.Offset, err.Err)
}

func (err *ErrImageRead) Unwrap() error {
	return err.Err
}
