package engine

import "errors"

// ErrEmptyInput is returned when a message is empty after trimming. The HTTP
// layer maps it to a 400; it never mutates session state.
var ErrEmptyInput = errors.New("empty message")
