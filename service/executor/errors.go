package executor

import "errors"

var (
	ErrHandlerNotFound = errors.New("no handler registered for node type")
	ErrNilOutcome      = errors.New("handler returned no outcome")
)
