package model

import (
	"errors"
	"strings"
)

// ErrMissingSection is wrapped by issues reporting an absent top-level section.
var ErrMissingSection = errors.New("missing section")

// ErrDanglingReference is wrapped by issues reporting an unknown successor.
var ErrDanglingReference = errors.New("dangling node reference")

// ConfigurationError aggregates every issue found in a workflow document.
// An engine must refuse to start with it.
type ConfigurationError struct {
	Source string
	Issues []error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid workflow configuration")
	if e.Source != "" {
		b.WriteString(" ")
		b.WriteString(e.Source)
	}
	for i, issue := range e.Issues {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(issue.Error())
	}
	return b.String()
}

// Unwrap exposes the individual issues to errors.Is/As.
func (e *ConfigurationError) Unwrap() []error {
	return e.Issues
}

// NewConfigurationError returns nil when there are no issues.
func NewConfigurationError(source string, issues []error) error {
	if len(issues) == 0 {
		return nil
	}
	return &ConfigurationError{Source: source, Issues: issues}
}
