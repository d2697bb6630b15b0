package game

import "errors"

var (
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrOutOfBounds       = errors.New("coordinates out of bounds")
	ErrInvalidSnapshot   = errors.New("invalid snapshot")
)
