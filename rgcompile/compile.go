// Package rgcompile wires together every component of the compilation
// pipeline (spec.md §2): grammar loading, DSL parsing, IR translation,
// reduction-graph construction, and DFA construction, one rule at a
// time.
package rgcompile

import (
	"fmt"
	"os"

	"github.com/nihei9/lrgrep/automaton"
	"github.com/nihei9/lrgrep/dfa"
	"github.com/nihei9/lrgrep/dsl"
	"github.com/nihei9/lrgrep/pattern"
	"github.com/nihei9/lrgrep/redgraph"
	"github.com/nihei9/lrgrep/rgerr"
)

// RuleResult is one rule's compiled form: its clause metadata (for
// codegen's action dispatcher) and its built DFA.
type RuleResult struct {
	Rule *pattern.Rule
	DFA  *dfa.DFA
}

// Result is the full output of Compile: the loaded grammar and one
// RuleResult per rule.
type Result struct {
	Grammar *automaton.Grammar
	Rules   []*RuleResult
}

// Compile runs the full pipeline: load the grammar table at grammarPath,
// parse the spec file at specPath, resolve every pattern against the
// grammar, and build one DFA per rule.
//
// Resolution errors are raised eagerly, before any DFA construction
// begins (spec.md §7 "resolution errors fail eagerly at translation
// time").
func Compile(grammarPath, specPath string) (*Result, error) {
	g, err := loadGrammar(grammarPath)
	if err != nil {
		return nil, err
	}

	src, err := os.ReadFile(specPath)
	if err != nil {
		return nil, rgerr.Config(err)
	}

	entry, err := dsl.Parse(specPath, string(src))
	if err != nil {
		return nil, err
	}

	b := pattern.NewBuilder()
	prog, err := pattern.Translate(g, specPath, entry, b)
	if err != nil {
		return nil, err
	}

	r := redgraph.Build(g)
	eng := dfa.NewEngine(g, r, b)

	result := &Result{Grammar: g}
	for _, rule := range prog.Rules {
		d := dfa.Build(eng, rule.Set)
		if err := checkUnreachable(rule, d); err != nil {
			return nil, err
		}
		result.Rules = append(result.Rules, &RuleResult{Rule: rule, DFA: d})
	}

	return result, nil
}

// checkUnreachable implements SPEC_FULL.md §3.H's completeness check for
// the `unreachable` clause: a clause so marked asserts its pattern
// matches no path of the built DFA, so finding its index among any
// state's accepted clause is a configuration error, not a silent no-op.
func checkUnreachable(rule *pattern.Rule, d *dfa.DFA) error {
	reached := map[int]bool{}
	for _, clause := range d.Accept {
		reached[clause] = true
	}
	for _, c := range rule.Clauses {
		if c.Unreachable && reached[c.Index] {
			return rgerr.Config(fmt.Errorf("rule %q: clause %d is declared unreachable but matches at least one DFA state", rule.Name, c.Index))
		}
	}
	return nil
}

func loadGrammar(path string) (*automaton.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, rgerr.Config(err)
	}
	defer f.Close()

	g, err := automaton.Load(f)
	if err != nil {
		return nil, rgerr.Config(err)
	}
	return g, nil
}
