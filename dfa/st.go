// Package dfa implements the combined DFA state ST and its worklist
// construction (spec.md §4.G): direct continuations paired with
// reduction simulators, transitions partition-refined to stay pairwise
// disjoint, and reduction-derivatives cached by requested-reduction set.
package dfa

import (
	"github.com/nihei9/lrgrep/derive"
	"github.com/nihei9/lrgrep/pattern"
)

// ST is a DFA state: direct continuations plus parallel reduction
// simulators (spec.md §3 "DFA state (ST)"). Two STs compare by
// (direct, reduce) lexicographically, which Key() captures as a single
// string so it can key the worklist's seen-state map.
type ST struct {
	Direct *pattern.KRESet
	Reduce *derive.RedSet
}

func (s *ST) Key() string {
	return s.Direct.Key() + "|" + s.Reduce.Key()
}
