package game

import (
	"errors"
	"fmt"
)

var (
	ErrTooFewCells       = errors.New("too few enabled cells")
	ErrBoardSize         = errors.New("board size out of bounds")
	ErrBoardTooLarge     = errors.New("board too large to load")
	ErrInvalidPosition   = errors.New("invalid board position")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidMultimine  = errors.New("invalid multimine settings")
	ErrInvalidRows       = errors.New("invalid board rows")
	ErrInvalidSnapshot   = errors.New("invalid snapshot")
	ErrWrongState        = errors.New("operation not allowed in current state")

	ErrPlacementDiverged = errors.New("mine placement cannot converge")
)

// ValidationError is returned when a request is rejected before any state changes
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error, format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...), Err: err}
}

// PlacementError is returned when stacked mines cannot all be placed without
// exceeding MaxMinesPerCell
type PlacementError struct {
	NumMines   int
	Placed     int
	SeedCells  int
	Likelihood float64
	Spread     float64
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("%s: placed %d of %d mines on %d cells (likelihood %g, spread %g)",
		ErrPlacementDiverged, e.Placed, e.NumMines, e.SeedCells, e.Likelihood, e.Spread)
}

func (e *PlacementError) Unwrap() error {
	return ErrPlacementDiverged
}
