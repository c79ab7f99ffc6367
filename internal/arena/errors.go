package arena

import "errors"

var (
	// ErrInvalidGridSize indicates a grid that cannot contain the fixed body set.
	ErrInvalidGridSize = errors.New("arena: grid size must exceed the largest body")

	// ErrInvalidBody indicates a restored body with an unusable size or position.
	ErrInvalidBody = errors.New("arena: invalid body")
)
