package execution

import (
	"errors"
	"fmt"
)

// ErrMaxSteps is returned when a traversal exceeds the configured step budget.
var ErrMaxSteps = errors.New("max steps exceeded")

// ValidationError reports a request rejected by a processor node.
type ValidationError struct {
	Node   string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError creates a validation error for the node.
func NewValidationError(node, format string, args ...interface{}) error {
	return &ValidationError{Node: node, Reason: fmt.Sprintf(format, args...)}
}

// HandlerError reports a node whose internal logic could not complete.
type HandlerError struct {
	Node string
	Err  error
}

func (e *HandlerError) Error() string {
	return e.Err.Error()
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// NewHandlerError wraps err for the node.
func NewHandlerError(node string, err error) error {
	return &HandlerError{Node: node, Err: err}
}

// NotFoundError reports a traversal reaching an undefined node.
type NotFoundError struct {
	Node string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("node %s not found", e.Node)
}
