package physics

import "errors"

var (
	// ErrParameterBounds indicates a parameter value is outside its valid range.
	ErrParameterBounds = errors.New("physics: parameter out of valid bounds")

	// ErrInvalidState indicates a body with NaN or Inf position or velocity.
	ErrInvalidState = errors.New("physics: invalid state (NaN or Inf detected)")

	// ErrUnknownParam indicates SetParam was called with a name the world does not expose.
	ErrUnknownParam = errors.New("physics: unknown parameter")
)
