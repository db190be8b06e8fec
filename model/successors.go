package model

import "sort"

// DefaultBranch is the branching key used when the intent has no route.
const DefaultBranch = "default"

// SuccessorKind tags the successor variant.
type SuccessorKind int

const (
	// Sequential successors are a flat ordered list.
	Sequential SuccessorKind = iota
	// Branching successors map an intent to a list.
	Branching
)

func (k SuccessorKind) String() string {
	if k == Branching {
		return "branching"
	}
	return "sequential"
}

// Successors designates the next node(s) of a node. Only the first id of a
// resolved list is followed; further ids are informational. The empty id
// terminates the traversal.
type Successors struct {
	Kind     SuccessorKind       `json:"kind"`
	Next     []string            `json:"next,omitempty"`
	Branches map[string][]string `json:"branches,omitempty"`
	// Default is used when the intent has no branch; nil terminates.
	Default []string `json:"default,omitempty"`
	// Order keeps branch keys in declaration order.
	Order []string `json:"-"`
}

// SequentialOf creates sequential successors.
func SequentialOf(ids ...string) Successors {
	return Successors{Kind: Sequential, Next: ids}
}

// BranchingOf creates branching successors with an optional default list.
func BranchingOf(branches map[string][]string, defaultIDs []string) Successors {
	ret := Successors{Kind: Branching, Branches: branches, Default: defaultIDs}
	for key := range branches {
		ret.Order = append(ret.Order, key)
	}
	sort.Strings(ret.Order)
	return ret
}

// Resolve returns the successor list for the intent. Sequential successors
// ignore the intent.
func (s Successors) Resolve(intent string) []string {
	if s.Kind == Sequential {
		return s.Next
	}
	if next, ok := s.Branches[intent]; ok {
		return next
	}
	return s.Default
}

// References returns every successor id, in declaration order, including
// the empty terminal sentinel.
func (s Successors) References() []string {
	if s.Kind == Sequential {
		return s.Next
	}
	var ret []string
	order := s.Order
	if len(order) != len(s.Branches) {
		order = order[:0:0]
		for key := range s.Branches {
			order = append(order, key)
		}
		sort.Strings(order)
	}
	for _, key := range order {
		ret = append(ret, s.Branches[key]...)
	}
	return append(ret, s.Default...)
}

// IsEmpty reports whether no successor was declared.
func (s Successors) IsEmpty() bool {
	return len(s.Next) == 0 && len(s.Branches) == 0 && len(s.Default) == 0
}
