package sketch

import "errors"

var (
	// ErrInvalidCanvas indicates a non-positive or non-finite canvas size.
	ErrInvalidCanvas = errors.New("sketch: invalid canvas size")

	// ErrInvalidPopulation indicates a negative agent count.
	ErrInvalidPopulation = errors.New("sketch: invalid agent count")
)
