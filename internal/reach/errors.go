package reach

import "errors"

// ErrUnboundContext is returned when an Observer is used while not attached
// to a platform binding.
var ErrUnboundContext = errors.New("observer is not attached to a platform context")
