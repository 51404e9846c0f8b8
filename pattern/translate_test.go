package pattern

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nihei9/lrgrep/automaton"
	"github.com/nihei9/lrgrep/dsl"
)

const translateFixtureJSON = `
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

func loadTranslateFixture(t *testing.T) *automaton.Grammar {
	t.Helper()
	g, err := automaton.Load(strings.NewReader(translateFixtureJSON))
	require.NoError(t, err)
	return g
}

func TestTranslateSimpleSymbolPattern(t *testing.T) {
	g := loadTranslateFixture(t)
	entry, err := dsl.Parse("t.lrgrep", "rule r =\n\tA { act1 }\n")
	require.NoError(t, err)

	b := NewBuilder()
	prog, err := Translate(g, "t.lrgrep", entry, b)
	require.NoError(t, err)
	require.Len(t, prog.Rules, 1)

	rule := prog.Rules[0]
	require.Equal(t, 1, rule.Set.Len())
	kre := rule.Set.Members()[0]
	require.False(t, kre.IsDone)
	require.Equal(t, KindSet, kre.Re.Kind)
	require.Equal(t, []automaton.S{1}, kre.Re.States)
	require.True(t, kre.Next.IsDone)
	require.Equal(t, 0, kre.Next.Clause)
}

func TestTranslateUnknownSymbolIsResolutionError(t *testing.T) {
	g := loadTranslateFixture(t)
	entry, err := dsl.Parse("t.lrgrep", "rule r =\n\tFOO { act }\n")
	require.NoError(t, err)

	b := NewBuilder()
	_, err = Translate(g, "t.lrgrep", entry, b)
	require.Error(t, err)
}

func TestTranslateItemTemplateReversesPrefix(t *testing.T) {
	g := loadTranslateFixture(t)
	entry, err := dsl.Parse("t.lrgrep", "rule r =\n\t[A: a . ] { act }\n")
	require.NoError(t, err)

	b := NewBuilder()
	prog, err := Translate(g, "t.lrgrep", entry, b)
	require.NoError(t, err)

	kre := prog.Rules[0].Set.Members()[0]
	require.Equal(t, []automaton.S{2}, kre.Re.States)
}
