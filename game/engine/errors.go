package engine

import "errors"

var (
	ErrInvalidGrid   = errors.New("invalid grid")
	ErrInvalidConfig = errors.New("invalid board config")
	ErrOutOfBounds   = errors.New("cell out of bounds")
	ErrCellOccupied  = errors.New("cell already occupied")
	ErrCellEmpty     = errors.New("cell not occupied")
	ErrUnitNotFound  = errors.New("unit not found")
	ErrDuplicateUnit = errors.New("duplicate unit id")
)
