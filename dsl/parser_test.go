package dsl

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nihei9/lrgrep/rgerr"
)

func TestParseSimpleClause(t *testing.T) {
	src := `
rule unclosed_paren =
	a { act1 }
`
	entry, err := Parse("test.lrgrep", src)
	require.NoError(t, err)
	require.Len(t, entry.Rules, 1)

	rule := entry.Rules[0]
	require.Equal(t, "unclosed_paren", rule.Name)
	require.Len(t, rule.Clauses, 1)

	clause := rule.Clauses[0]
	require.Equal(t, " act1 ", clause.Code)
	require.False(t, clause.Partial)
	require.False(t, clause.Unreachable)

	require.Equal(t, PatAtom, clause.Pattern.Kind)
	require.Equal(t, "a", clause.Pattern.Atom.Symbol)
}

func TestParseItemTemplate(t *testing.T) {
	src := `
rule missing_operand =
	[E: E plus . E] { "missing operand" }
`
	entry, err := Parse("test.lrgrep", src)
	require.NoError(t, err)

	pat := entry.Rules[0].Clauses[0].Pattern
	require.Equal(t, PatItem, pat.Kind)
	require.Equal(t, "E", pat.Item.LHS)
	require.Equal(t, []string{"E", "plus"}, pat.Item.Prefix)
	require.Equal(t, []string{"E"}, pat.Item.Suffix)
}

func TestParseSeqAltStarReduce(t *testing.T) {
	src := `
rule unclosed =
	_* lparen ! { "unclosed paren" }
`
	entry, err := Parse("test.lrgrep", src)
	require.NoError(t, err)

	pat := entry.Rules[0].Clauses[0].Pattern
	require.Equal(t, PatSeq, pat.Kind)
	require.Len(t, pat.Children, 3)
	require.Equal(t, PatStar, pat.Children[0].Kind)
	require.Equal(t, PatAtom, pat.Children[1].Kind)
	require.Equal(t, PatReduce, pat.Children[2].Kind)
}

// TestParseExplicitSemicolonSequence exercises spec.md §8 scenario 3's
// literal worked example, which uses the explicit ';' sequence operator
// (spec.md §6.2 `term ::= ... | pattern ';' pattern`) rather than bare
// juxtaposition.
func TestParseExplicitSemicolonSequence(t *testing.T) {
	src := `
rule unclosed =
	_* ; LPAREN ; ! { "unclosed paren" }
`
	entry, err := Parse("test.lrgrep", src)
	require.NoError(t, err)

	pat := entry.Rules[0].Clauses[0].Pattern
	require.Equal(t, PatSeq, pat.Kind)
	require.Len(t, pat.Children, 3)
	require.Equal(t, PatStar, pat.Children[0].Kind)
	require.Equal(t, PatAtom, pat.Children[1].Kind)
	require.Equal(t, "LPAREN", pat.Children[1].Atom.Symbol)
	require.Equal(t, PatReduce, pat.Children[2].Kind)
}

func TestParseUnreachableClause(t *testing.T) {
	src := `
rule r =
	a unreachable
	b { act }
`
	entry, err := Parse("test.lrgrep", src)
	require.NoError(t, err)
	require.Len(t, entry.Rules[0].Clauses, 2)
	require.True(t, entry.Rules[0].Clauses[0].Unreachable)
	require.False(t, entry.Rules[0].Clauses[1].Unreachable)
}

func TestParseStartSymbols(t *testing.T) {
	src := `
startsymbols = S, T;
rule r =
	a { act }
`
	entry, err := Parse("test.lrgrep", src)
	require.NoError(t, err)
	require.Equal(t, []string{"S", "T"}, entry.StartSymbols)
}

func TestParseUnexpectedTokenIsParseError(t *testing.T) {
	src := `rule r = = { act }`
	_, err := Parse("test.lrgrep", src)
	require.Error(t, err)
	rgErr, ok := err.(*rgerr.Error)
	require.True(t, ok)
	require.Equal(t, rgerr.KindParse, rgErr.Kind)
}

func TestLexUnclosedActionIsLexicalError(t *testing.T) {
	src := `rule r = a { unterminated`
	_, err := Parse("test.lrgrep", src)
	require.Error(t, err)
	rgErr, ok := err.(*rgerr.Error)
	require.True(t, ok)
	require.Equal(t, rgerr.KindLexical, rgErr.Kind)
}
