package repl

import "errors"

// ErrOutOfBounds is returned for a history index outside the stored entries.
var ErrOutOfBounds = errors.New("history index out of range")
