// Package derive implements the single-step Brzozowski derivative of a
// KRESet (spec.md §4.E) and the reduction simulator that lifts it across
// the reduction graph (spec.md §4.F).
package derive

import (
	"sort"

	"github.com/nihei9/lrgrep/automaton"
	"github.com/nihei9/lrgrep/collections"
	"github.com/nihei9/lrgrep/pattern"
)

// DirectEdge is one (label, continuation) pair a single KRE contributes
// to a step (spec.md §4.E: "push (σ, k') to direct").
type DirectEdge struct {
	Label *collections.IntSet[automaton.S]
	Next  *pattern.KRE
}

// Prederive walks one KRE exactly as spec.md §4.E prescribes: Done pushes
// its clause to reached; More(Set,_) pushes a direct edge; More(Alt,_)
// recurses on each alternative; More(Star,_) recurses on skipping the
// star and on taking one more iteration; More(Seq,_) folds the sequence
// into nested Mores and recurses once; More(Reduce,_) pushes the
// continuation to reduce and also recurses on it, since the reduction is
// optional. visited guards against infinite recursion through Star
// (the only cycle a KRE DAG can contain).
func Prederive(b *pattern.Builder, k *pattern.KRE, visited map[int]bool, reached *[]int, direct *[]DirectEdge, reduce *[]*pattern.KRE) {
	if visited[k.ID] {
		return
	}
	visited[k.ID] = true

	if k.IsDone {
		*reached = append(*reached, k.Clause)
		return
	}

	re := k.Re
	next := k.Next

	switch re.Kind {
	case pattern.KindSet:
		lbl := collections.NewIntSet[automaton.S]()
		for _, s := range re.States {
			lbl.Add(s)
		}
		*direct = append(*direct, DirectEdge{Label: lbl, Next: next})

	case pattern.KindAlt:
		for _, child := range re.Children {
			Prederive(b, b.More(child, next), visited, reached, direct, reduce)
		}

	case pattern.KindStar:
		Prederive(b, next, visited, reached, direct, reduce)
		Prederive(b, b.More(re.Children[0], k), visited, reached, direct, reduce)

	case pattern.KindSeq:
		folded := next
		for i := len(re.Children) - 1; i >= 0; i-- {
			folded = b.More(re.Children[i], folded)
		}
		Prederive(b, folded, visited, reached, direct, reduce)

	case pattern.KindReduce:
		*reduce = append(*reduce, next)
		Prederive(b, next, visited, reached, direct, reduce)
	}
}

// Edge is one disjoint (label, continuation) cell of a KRESet's one-step
// derivative (spec.md §4.E derive_reduce's result).
type Edge struct {
	Label *collections.IntSet[automaton.S]
	To    *pattern.KRESet
}

// DeriveReduce implements derive_reduce(T) of spec.md §4.E: prederive
// every member of t, turn every reached clause into an (all_states,
// Done{i}) edge, combine with the raw direct edges, then partition-refine
// so labels are pairwise disjoint and continuations within a cell are
// merged by union.
func DeriveReduce(b *pattern.Builder, allStates *collections.IntSet[automaton.S], t *pattern.KRESet) []Edge {
	var reached []int
	var rawDirect []DirectEdge
	visited := map[int]bool{}
	for _, k := range t.Members() {
		var discardedReduce []*pattern.KRE // reset per spec.md §4.E: handled by the caller, not here
		Prederive(b, k, visited, &reached, &rawDirect, &discardedReduce)
	}

	var all []labeledKRE
	for _, e := range rawDirect {
		all = append(all, labeledKRE{label: e.Label, to: e.Next})
	}
	for _, clause := range reached {
		all = append(all, labeledKRE{label: allStates, to: b.Done(clause)})
	}

	return partitionDirect(all)
}

type labeledKRE struct {
	label *collections.IntSet[automaton.S]
	to    *pattern.KRE
}

func partitionDirect(all []labeledKRE) []Edge {
	stateSet := map[automaton.S]bool{}
	for _, e := range all {
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
		for i, e := range all {
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
	sort.Strings(order)

	out := make([]Edge, 0, len(order))
	for _, key := range order {
		lbl := collections.NewIntSet[automaton.S]()
		for _, s := range sigMembers[key] {
			lbl.Add(s)
		}
		var kres []*pattern.KRE
		for _, i := range sigEdgeIdx[key] {
			kres = append(kres, all[i].to)
		}
		out = append(out, Edge{Label: lbl, To: pattern.NewKRESet(kres...)})
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
