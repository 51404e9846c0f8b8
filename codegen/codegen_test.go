package codegen

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nihei9/lrgrep/rgcompile"
)

const codegenFixtureJSON = `
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

const codegenFixtureSpec = "rule r =\n\tA { doSomething() }\n"

func compileFixture(t *testing.T) *rgcompile.Result {
	t.Helper()
	dir := t.TempDir()
	grammarPath := filepath.Join(dir, "grammar.json")
	specPath := filepath.Join(dir, "spec.lrgrep")
	require.NoError(t, writeFixtureFile(grammarPath, codegenFixtureJSON))
	require.NoError(t, writeFixtureFile(specPath, codegenFixtureSpec))

	result, err := rgcompile.Compile(grammarPath, specPath)
	require.NoError(t, err)
	return result
}

func TestGenerateIncludesBuildIDAndRuleTable(t *testing.T) {
	result := compileFixture(t)

	out, err := Generate(result, Options{})
	require.NoError(t, err)
	require.Contains(t, out, "build-id:")
	require.Contains(t, out, "rStates")
	require.Contains(t, out, "doSomething()")
}

func TestGenerateWrapsHeaderAndTrailer(t *testing.T) {
	result := compileFixture(t)

	out, err := Generate(result, Options{Header: "// header", Trailer: "// trailer", PackageName: "gen"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "// header"))
	require.True(t, strings.HasSuffix(out, "// trailer"))
	require.Contains(t, out, "package gen")
}

func TestDescribeIncludesClauseAndStateSummary(t *testing.T) {
	result := compileFixture(t)

	out := Describe(result, 80)
	require.Contains(t, out, "rule r")
	require.Contains(t, out, "clause 0")
	require.Contains(t, out, "state 0")
}
