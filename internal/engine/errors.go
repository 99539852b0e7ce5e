package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput reports malformed arguments such as a non-positive
	// weight, a bad wave count or a zero-volume container.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidContainer is returned by Pack when the container geometry is
	// unusable. It wraps ErrInvalidInput.
	ErrInvalidContainer = fmt.Errorf("invalid container: %w", ErrInvalidInput)
)
