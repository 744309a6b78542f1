package tennis

import (
	"errors"
	"fmt"
)

// ErrValidation is the root of every input error. Callers report these
// to the user and never retry them.
var ErrValidation = errors.New("invalid input")

var (
	ErrMissingOpponent = fmt.Errorf("%w: opponent name is required", ErrValidation)
	ErrEmptyName       = fmt.Errorf("%w: name must not be empty", ErrValidation)
	ErrInvalidDate     = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	ErrMissingUID      = fmt.Errorf("%w: user id is required", ErrValidation)
)
