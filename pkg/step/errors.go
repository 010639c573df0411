package step

import "errors"

// ErrTransitionNotAllowed is returned by Container.Set when an attached Table rejects the move.
var ErrTransitionNotAllowed = errors.New("transition not allowed")
