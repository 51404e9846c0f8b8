package redgraph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nihei9/lrgrep/automaton"
)

// singleStateJSON is a degenerate grammar (spec.md §8 concrete scenario 6):
// one state, no reductions, no transitions.
const singleStateJSON = `
{
  "terminal_count": 0,
  "non_terminal_count": 0,
  "terminals": [],
  "non_terminals": [],
  "productions": [],
  "states": [
    {"items": [], "reductions": [], "transitions": []}
  ]
}
`

func loadSingleState(t *testing.T) *automaton.Grammar {
	t.Helper()
	g, err := automaton.Load(strings.NewReader(singleStateJSON))
	require.NoError(t, err)
	return g
}

const twoStateJSON = `
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

func loadTwoState(t *testing.T) *automaton.Grammar {
	t.Helper()
	g, err := automaton.Load(strings.NewReader(twoStateJSON))
	require.NoError(t, err)
	return g
}

func TestBuildSingleStateNoReductions(t *testing.T) {
	g := loadSingleState(t)
	r := Build(g)

	root := r.ConcreteRoot(automaton.S(0))
	require.Equal(t, automaton.S(0), root.State)
	require.Nil(t, root.Parent)
	require.Equal(t, 0, root.Goto.Len())

	a := OfLr1(automaton.S(0))
	require.Empty(t, r.GotoNT(a))
	require.Empty(t, r.ReachableGoto(a))

	_, ok := r.AbstractParent(a)
	require.False(t, ok)
}

func TestBuildReductionPopulatesAbstractGotoNT(t *testing.T) {
	g := loadTwoState(t)
	r := Build(g)

	// State 2 reduces A -> 'a' (depth 1); popping one frame from the
	// concrete root (state 2, no parent) lands on the abstract frame
	// of_lr1(2), which should record nonterminal A in its goto_nt set.
	a2 := OfLr1(automaton.S(2))
	nts := r.GotoNT(a2)
	require.Len(t, nts, 1)
	require.Equal(t, automaton.N(1), nts[0])

	// State 1 reduces S -> A (a start production) which must be excluded.
	a1 := OfLr1(automaton.S(1))
	require.Empty(t, r.GotoNT(a1))
}

// epsilonJSON is S -> A (start), A -> ε: state 0 reduces A->ε at depth 0
// without popping, so the reduction graph must record a concrete child for
// the goto it takes from the (still-current) root frame.
const epsilonJSON = `
{
  "terminal_count": 0,
  "non_terminal_count": 2,
  "terminals": [],
  "non_terminals": ["S", "A"],
  "productions": [
    {"lhs": "n0", "rhs": ["n1"], "kind": "start"},
    {"lhs": "n1", "rhs": [], "kind": "regular"}
  ],
  "states": [
    {
      "items": [{"production": 0, "dot": 0}],
      "reductions": [{"lookahead": "$", "productions": [1]}],
      "transitions": [{"symbol": "n1", "state": 1}]
    },
    {
      "incoming": "n1",
      "items": [{"production": 0, "dot": 1}],
      "reductions": [],
      "transitions": []
    }
  ]
}
`

func loadEpsilon(t *testing.T) *automaton.Grammar {
	t.Helper()
	g, err := automaton.Load(strings.NewReader(epsilonJSON))
	require.NoError(t, err)
	return g
}

func TestBuildConcreteRootGotoChildren(t *testing.T) {
	g := loadEpsilon(t)
	r := Build(g)

	root := r.ConcreteRoot(automaton.S(0))
	child, ok := root.Goto.Get(automaton.S(1))
	require.True(t, ok)
	require.Equal(t, automaton.S(1), child.State)
	require.Equal(t, root, child.Parent)
}
