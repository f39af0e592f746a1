package session

import "errors"

var (
	// ErrInvalidConfiguration is returned by Configure and StartRound for an
	// odd or empty grid, an unknown tier, or an unknown palette.
	ErrInvalidConfiguration = errors.New("session: invalid configuration")

	// ErrInvalidIndex is returned when a cell index is outside the grid.
	ErrInvalidIndex = errors.New("session: invalid cell index")
)
