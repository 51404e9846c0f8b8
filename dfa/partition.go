package dfa

import (
	"sort"

	"github.com/nihei9/lrgrep/automaton"
	"github.com/nihei9/lrgrep/collections"
	"github.com/nihei9/lrgrep/derive"
	"github.com/nihei9/lrgrep/pattern"
)

// rawEdge is one (label, payload) transition produced by a step, before
// partition refinement. Exactly one of direct/reduce is set.
type rawEdge struct {
	label  *collections.IntSet[automaton.S]
	direct *pattern.KRESet
	reduce *derive.RedSet
}

type cell struct {
	label  *collections.IntSet[automaton.S]
	direct *pattern.KRESet
	reduce *derive.RedSet
}

// partitionRefine makes transition labels pairwise disjoint (spec.md
// §4.G, §9 "Partition refinement"): every LR(1) state mentioned by any
// edge's label is grouped with every other state that is labeled by
// exactly the same subset of edges; each resulting cell's destination
// merges those edges' direct KRESets (union) and reduce Reds (union).
// The grouping itself only depends on edge membership, not on map
// iteration order, and cells come out in ascending order of their
// smallest state whatever the order of the input edges, so the result is
// stable and deterministic (spec.md §8 property 5/6).
func partitionRefine(edges []rawEdge) []cell {
	stateSet := map[automaton.S]bool{}
	for _, e := range edges {
		for _, s := range e.label.Values() {
			stateSet[s] = true
		}
	}
	states := make([]automaton.S, 0, len(stateSet))
	for s := range stateSet {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })

	sigMembers := map[string][]automaton.S{}
	sigEdgeIdx := map[string][]int{}
	var order []string
	for _, s := range states {
		var sig []int
		for i, e := range edges {
			if e.label.Contains(s) {
				sig = append(sig, i)
			}
		}
		key := sigKey(sig)
		if _, ok := sigEdgeIdx[key]; !ok {
			sigEdgeIdx[key] = sig
			order = append(order, key)
		}
		sigMembers[key] = append(sigMembers[key], s)
	}

	out := make([]cell, 0, len(order))
	for _, key := range order {
		lbl := collections.NewIntSet[automaton.S]()
		for _, s := range sigMembers[key] {
			lbl.Add(s)
		}
		var directs []*pattern.KRESet
		var reduces []*derive.Red
		for _, i := range sigEdgeIdx[key] {
			if edges[i].direct != nil {
				directs = append(directs, edges[i].direct)
			}
			if edges[i].reduce != nil {
				reduces = append(reduces, edges[i].reduce.Members()...)
			}
		}
		out = append(out, cell{label: lbl, direct: pattern.Union(directs...), reduce: derive.NewRedSet(reduces...)})
	}
	return out
}

func sigKey(sig []int) string {
	b := make([]byte, 0, len(sig)*5)
	for _, i := range sig {
		b = append(b, byte(i), byte(i>>8), byte(i>>16), byte(i>>24), ',')
	}
	return string(b)
}
