package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is wrapped by every CodecError
	ErrMalformed = errors.New("malformed board encoding")
	// ErrDoesNotFit is returned when rows cannot be centred on the target size
	ErrDoesNotFit = errors.New("board does not fit")
)

// CodecError reports undecodable RLE or bitmap text. Pos is the byte offset
// (for RLE input) or the 1-based line number (for save-file rows).
type CodecError struct {
	Pos    int
	Reason string
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("%s at %d: %s", ErrMalformed, e.Pos, e.Reason)
}

func (e *CodecError) Unwrap() error {
	return ErrMalformed
}

// FitError reports rows that are larger than the target they are centred on
type FitError struct {
	Rows, Cols             int
	TargetRows, TargetCols int
}

func (e *FitError) Error() string {
	return fmt.Sprintf("%s: %dx%d into %dx%d", ErrDoesNotFit, e.Rows, e.Cols, e.TargetRows, e.TargetCols)
}

func (e *FitError) Unwrap() error {
	return ErrDoesNotFit
}
