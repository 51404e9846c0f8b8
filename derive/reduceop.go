package derive

import (
	"sort"

	"github.com/nihei9/lrgrep/automaton"
	"github.com/nihei9/lrgrep/collections"
	"github.com/nihei9/lrgrep/pattern"
	"github.com/nihei9/lrgrep/redgraph"
)

// Transition is one output edge of ReduceOp's Initial/DeriveRed: either a
// direct continuation (Direct != nil) or a further-reducible simulator
// (Reducible != nil), never both (spec.md §4.F).
type Transition struct {
	Label     *collections.IntSet[automaton.S]
	Direct    *pattern.KRESet
	Reducible *Red
}

// ReduceOp implements Reduce_op(D) of spec.md §4.F: given a derivable D
// (here always a KRESet, routed through Cache), it lifts D into an
// object that walks the reduction graph, producing direct and
// further-reducible transitions at each step.
type ReduceOp struct {
	r     *redgraph.Graph
	cache *Cache
}

func NewReduceOp(r *redgraph.Graph, cache *Cache) *ReduceOp {
	return &ReduceOp{r: r, cache: cache}
}

// InitialDerivations implements initial_derivations(d): precompute
// continuations: map<S, D> using Redgraph.Derive(root=d, step=lookup s in
// Cache.Derive(d), join=Union).
func (op *ReduceOp) InitialDerivations(d *pattern.KRESet) *Derivations {
	step := func(acc *pattern.KRESet, s automaton.S) (*pattern.KRESet, bool) {
		for _, e := range op.cache.Derive(acc) {
			if e.Label.Contains(s) {
				return e.To, true
			}
		}
		return nil, false
	}
	join := func(accs []*pattern.KRESet) *pattern.KRESet {
		return pattern.Union(accs...)
	}
	continuations := redgraph.Derive(op.r, d, step, join)
	return &Derivations{Source: d, Continuations: continuations}
}

// Initial implements initial(d): direct is the singleton-state
// transitions (singleton(s), continuations[s]); reducible is one
// transition per LR(1) state s whose reachable_goto(of_lr1(s))
// intersects dom(continuations).
func (op *ReduceOp) Initial(d *Derivations) (direct []Transition, reducible []Transition) {
	var states []automaton.S
	for s := range d.Continuations {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	for _, s := range states {
		direct = append(direct, Transition{Label: singleton(s), Direct: d.Continuations[s]})
	}

	n := op.r.Grammar().StateCount()
	for i := 0; i < n; i++ {
		s := automaton.S(i)
		if intersectsDomain(op.r.ReachableGotoSet(redgraph.OfLr1(s)), d.Continuations) {
			reducible = append(reducible, Transition{Label: singleton(s), Reducible: &Red{Derivations: d, State: redgraph.OfLr1(s)}})
		}
	}
	return direct, reducible
}

// DeriveRed implements derive(t) for t = {derivations, state = a}
// (spec.md §4.F step 1-2).
func (op *ReduceOp) DeriveRed(red *Red) (direct []Transition, reducible []Transition) {
	a := red.State
	d := red.Derivations

	if parent, ok := op.r.AbstractParent(a); ok {
		if intersectsDomain(op.r.ReachableGotoSet(parent), d.Continuations) {
			reducible = append(reducible, Transition{Label: op.allStates(), Reducible: &Red{Derivations: d, State: parent}})
		}
	}

	visited := map[automaton.Symbol]bool{}
	op.walkGotoNT(a, d, visited, &direct, &reducible)
	return direct, reducible
}

func (op *ReduceOp) walkGotoNT(a automaton.A, d *Derivations, visited map[automaton.Symbol]bool, direct, reducible *[]Transition) {
	states := op.r.AbstractStates(a)

	var nts []automaton.Symbol
	for _, nt := range op.r.GotoNT(a) {
		if !visited[nt] {
			nts = append(nts, nt)
		}
	}
	for _, nt := range nts {
		visited[nt] = true

		srcsByTarget := map[automaton.S]*collections.IntSet[automaton.S]{}
		var targetOrder []automaton.S
		for _, src := range states {
			tgt, ok := op.r.Grammar().FindGoto(src, nt)
			if !ok {
				continue
			}
			set, seen := srcsByTarget[tgt]
			if !seen {
				set = collections.NewIntSet[automaton.S]()
				srcsByTarget[tgt] = set
				targetOrder = append(targetOrder, tgt)
			}
			set.Add(src)
		}
		sort.Slice(targetOrder, func(i, j int) bool { return targetOrder[i] < targetOrder[j] })

		for _, tgt := range targetOrder {
			srcs := srcsByTarget[tgt]

			if v, ok := d.Continuations[tgt]; ok {
				for _, e := range op.cache.Derive(v) {
					restricted := intersect(e.Label, srcs)
					if restricted.Len() == 0 {
						continue
					}
					*direct = append(*direct, Transition{Label: restricted, Direct: e.To})
				}
			}

			if intersectsDomain(op.r.ReachableGotoSet(redgraph.OfLr1(tgt)), d.Continuations) {
				*reducible = append(*reducible, Transition{Label: srcs, Reducible: &Red{Derivations: d, State: redgraph.OfLr1(tgt)}})
			}

			op.walkGotoNT(redgraph.OfLr1(tgt), d, visited, direct, reducible)
		}
	}
}

func (op *ReduceOp) allStates() *collections.IntSet[automaton.S] {
	out := collections.NewIntSet[automaton.S]()
	for i := 0; i < op.r.Grammar().StateCount(); i++ {
		out.Add(automaton.S(i))
	}
	return out
}

func singleton(s automaton.S) *collections.IntSet[automaton.S] {
	out := collections.NewIntSet[automaton.S]()
	out.Add(s)
	return out
}

func intersectsDomain(set *collections.IntSet[automaton.S], domain map[automaton.S]*pattern.KRESet) bool {
	for _, s := range set.Values() {
		if _, ok := domain[s]; ok {
			return true
		}
	}
	return false
}

func intersect(a, b *collections.IntSet[automaton.S]) *collections.IntSet[automaton.S] {
	out := collections.NewIntSet[automaton.S]()
	for _, s := range a.Values() {
		if b.Contains(s) {
			out.Add(s)
		}
	}
	return out
}
