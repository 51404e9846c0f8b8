package automaton

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixtureJSON is a tiny, hand-written compiled-table fixture for the
// grammar S -> A, A -> 'a' (spec.md §8 concrete scenario 1), used to
// exercise the wire-format decoding logic rather than any real LR(1)
// construction (grammar construction itself is an external collaborator
// per spec.md §1).
const fixtureJSON = `
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

func loadFixture(t *testing.T) *Grammar {
	t.Helper()
	g, err := Load(strings.NewReader(fixtureJSON))
	require.NoError(t, err)
	return g
}

func TestLoadCounts(t *testing.T) {
	g := loadFixture(t)
	require.Equal(t, 1, g.TerminalCount())
	require.Equal(t, 2, g.NonTerminalCount())
	require.Equal(t, 2, g.ProductionCount())
	require.Equal(t, 3, g.StateCount())
}

func TestLoadProductionKinds(t *testing.T) {
	g := loadFixture(t)
	require.Equal(t, Start, g.Production(0).Kind)
	require.Equal(t, Regular, g.Production(1).Kind)
}

func TestLoadReductionsExcludeStartProductions(t *testing.T) {
	g := loadFixture(t)

	// State 1's only reduction references a Start-kind production and
	// must be excluded (spec.md §4.A: "must exclude start productions").
	reds1 := g.Reductions(1)
	for _, lhss := range reds1 {
		require.Empty(t, lhss)
	}

	reds2 := g.Reductions(2)
	require.Len(t, reds2, 2)
	require.Equal(t, []Symbol{N(1)}, reds2[1])
}

func TestLoadTransitionsAndGoto(t *testing.T) {
	g := loadFixture(t)

	require.Len(t, g.Successors(0), 2)
	preds1 := g.Predecessors(1)
	require.Len(t, preds1, 1)
	require.True(t, preds1[0].IsGoto())

	target, ok := g.FindGoto(0, N(1))
	require.True(t, ok)
	require.Equal(t, S(1), target)
}

func TestLoadSymbolResolution(t *testing.T) {
	g := loadFixture(t)

	sym, ok := g.ToSymbol("a")
	require.True(t, ok)
	require.Equal(t, T(0), sym)

	sym, ok = g.ToSymbol("A")
	require.True(t, ok)
	require.Equal(t, N(1), sym)

	_, ok = g.ToSymbol("nonexistent")
	require.False(t, ok)

	text, ok := g.ToText(T(0))
	require.True(t, ok)
	require.Equal(t, "a", text)
}
