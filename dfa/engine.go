package dfa

import (
	"github.com/nihei9/lrgrep/automaton"
	"github.com/nihei9/lrgrep/collections"
	"github.com/nihei9/lrgrep/derive"
	"github.com/nihei9/lrgrep/pattern"
	"github.com/nihei9/lrgrep/redgraph"
)

// Engine carries everything a single step of spec.md §4.G's derive(st)
// needs: the interning builder, the reduction graph, the requested-
// reduction-set cache, and the reduction-operator it parameterizes.
type Engine struct {
	b         *pattern.Builder
	g         *automaton.Grammar
	r         *redgraph.Graph
	cache     *derive.Cache
	op        *derive.ReduceOp
	allStates *collections.IntSet[automaton.S]

	// derivationsCache memoizes ReduceOp.InitialDerivations by the
	// requested-reduction KRESet's key, since the same set of freshly
	// requested reductions recurs across many DFA states (spec.md §4.G
	// "Cache lookup: reduction_cache ... keyed by the set of newly
	// requested reductions").
	derivationsCache map[string]*derive.Derivations
}

func NewEngine(g *automaton.Grammar, r *redgraph.Graph, b *pattern.Builder) *Engine {
	allStates := collections.NewIntSet[automaton.S]()
	for i := 0; i < g.StateCount(); i++ {
		allStates.Add(automaton.S(i))
	}
	cache := derive.NewCache(b, allStates)
	return &Engine{
		b:                b,
		g:                g,
		r:                r,
		cache:            cache,
		op:               derive.NewReduceOp(r, cache),
		allStates:        allStates,
		derivationsCache: map[string]*derive.Derivations{},
	}
}

func (e *Engine) derivationsFor(reduceSet *pattern.KRESet) *derive.Derivations {
	if hit, ok := e.derivationsCache[reduceSet.Key()]; ok {
		return hit
	}
	d := e.op.InitialDerivations(reduceSet)
	e.derivationsCache[reduceSet.Key()] = d
	return d
}

// Transition is one outgoing edge of a derived ST, before the target ST
// is interned into the DFA's state table.
type Transition struct {
	Label *collections.IntSet[automaton.S]
	To    *ST
}

// Derive implements derive(st) of spec.md §4.G.
func (e *Engine) Derive(st *ST) (accept []int, transitions []Transition) {
	var reached []int
	var rawDirect []derive.DirectEdge
	var reduceReqs []*pattern.KRE
	visited := map[int]bool{}
	for _, k := range st.Direct.Members() {
		derive.Prederive(e.b, k, visited, &reached, &rawDirect, &reduceReqs)
	}

	var edges []rawEdge
	for _, re := range rawDirect {
		edges = append(edges, rawEdge{label: re.Label, direct: pattern.NewKRESet(re.Next)})
	}

	if len(reduceReqs) > 0 {
		reduceSet := pattern.NewKRESet(reduceReqs...)
		derivations := e.derivationsFor(reduceSet)
		direct, reducible := e.op.Initial(derivations)
		edges = append(edges, liftReduceOpTransitions(direct, reducible)...)
	}

	for _, r := range st.Reduce.Members() {
		direct, reducible := e.op.DeriveRed(r)
		edges = append(edges, liftReduceOpTransitions(direct, reducible)...)
	}

	cells := partitionRefine(edges)
	transitions = make([]Transition, len(cells))
	for i, c := range cells {
		transitions[i] = Transition{Label: c.label, To: &ST{Direct: c.direct, Reduce: c.reduce}}
	}
	return reached, transitions
}

func liftReduceOpTransitions(direct, reducible []derive.Transition) []rawEdge {
	var out []rawEdge
	for _, t := range direct {
		out = append(out, rawEdge{label: t.Label, direct: t.Direct})
	}
	for _, t := range reducible {
		out = append(out, rawEdge{label: t.Label, reduce: derive.NewRedSet(t.Reducible)})
	}
	return out
}
