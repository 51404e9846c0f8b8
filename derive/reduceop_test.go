package derive

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nihei9/lrgrep/automaton"
	"github.com/nihei9/lrgrep/collections"
	"github.com/nihei9/lrgrep/pattern"
	"github.com/nihei9/lrgrep/redgraph"
)

// Grammar: S -> A (start), A -> 'a' (spec.md §8 concrete scenario 1).
// State 0 is the initial state, state 1 is reached via goto on A, state 2
// is reached via shift on 'a' and reduces A -> 'a'.
const reduceopFixtureJSON = `
{
  "terminal_count": 1,
  "non_terminal_count": 2,
  "terminals": ["a"],
  "non_terminals": ["S", "A"],
  "productions": [
    {"lhs": "n0", "rhs": ["n1"], "kind": "start"},
    {"lhs": "n1", "rhs": ["t0"], "kind": "regular"}
  ],
  "states": [
    {
      "items": [{"production": 0, "dot": 0}, {"production": 1, "dot": 0}],
      "reductions": [],
      "transitions": [{"symbol": "n1", "state": 1}, {"symbol": "t0", "state": 2}]
    },
    {
      "incoming": "n1",
      "items": [{"production": 0, "dot": 1}],
      "reductions": [{"lookahead": "a", "productions": [0]}],
      "transitions": []
    },
    {
      "incoming": "t0",
      "items": [{"production": 1, "dot": 1}],
      "reductions": [{"lookahead": "a", "productions": [1]}],
      "transitions": []
    }
  ]
}
`

func setupReduceOp(t *testing.T) (*automaton.Grammar, *redgraph.Graph, *ReduceOp, *pattern.Builder) {
	t.Helper()
	g, err := automaton.Load(strings.NewReader(reduceopFixtureJSON))
	require.NoError(t, err)
	r := redgraph.Build(g)
	b := pattern.NewBuilder()
	allStates := collections.NewIntSet[automaton.S]()
	for i := 0; i < g.StateCount(); i++ {
		allStates.Add(automaton.S(i))
	}
	cache := NewCache(b, allStates)
	op := NewReduceOp(r, cache)
	return g, r, op, b
}

func TestInitialDerivationsLiftsOverReductionGraph(t *testing.T) {
	_, _, op, b := setupReduceOp(t)

	// A pattern that, once a reduction lands on state 2 (after popping to
	// the abstract frame of state 2), continues into Done(0).
	re := b.Set([]automaton.S{2}, nil, pattern.Pos{})
	kre := b.More(re, b.Done(0))
	d := pattern.NewKRESet(kre)

	derivations := op.InitialDerivations(d)
	require.NotNil(t, derivations)
	require.Same(t, d, derivations.Source)
}

func TestInitialProducesDirectAndReducibleTransitions(t *testing.T) {
	_, _, op, b := setupReduceOp(t)

	re := b.Set([]automaton.S{2}, nil, pattern.Pos{})
	kre := b.More(re, b.Done(0))
	d := pattern.NewKRESet(kre)

	derivations := op.InitialDerivations(d)
	direct, reducible := op.Initial(derivations)

	// Every direct/reducible transition must carry a non-empty label.
	for _, tr := range direct {
		require.Greater(t, tr.Label.Len(), 0)
		require.NotNil(t, tr.Direct)
	}
	for _, tr := range reducible {
		require.Greater(t, tr.Label.Len(), 0)
		require.NotNil(t, tr.Reducible)
	}
}

func TestDeriveRedDoesNotPanicAtRootAbstractFrame(t *testing.T) {
	_, r, op, b := setupReduceOp(t)

	re := b.Set([]automaton.S{1}, nil, pattern.Pos{})
	kre := b.More(re, b.Done(0))
	d := pattern.NewKRESet(kre)
	derivations := op.InitialDerivations(d)

	red := &Red{Derivations: derivations, State: redgraph.OfLr1(automaton.S(2))}
	direct, reducible := op.DeriveRed(red)
	_ = direct
	_ = reducible
}
