// Package idgen issues execution and queue message identifiers.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// NewFunc produces identifiers; tests may swap it for Sequence.
var NewFunc = uuid.NewString

// New returns a new identifier.
func New() string { return NewFunc() }

// Sequence returns a generator yielding prefix-1, prefix-2 and so on.
func Sequence(prefix string) func() string {
	var n atomic.Int64
	return func() string {
		return prefix + "-" + strconv.FormatInt(n.Add(1), 10)
	}
}
