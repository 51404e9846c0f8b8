package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/nihei9/lrgrep/pattern"
	"github.com/nihei9/lrgrep/rgcompile"
)

// Describe renders the human-readable dump the CLI's -d flag asks for
// (SPEC_FULL.md §3.J): one paragraph per rule giving its clause and DFA
// state counts, one line per clause naming its action kind (word-wrapped
// to width), then one line per DFA state with its accepted clause and
// transition count. Clause patterns themselves are not printed.
func Describe(result *rgcompile.Result, width int) string {
	if width <= 0 {
		width = 100
	}

	var b strings.Builder
	for _, rr := range result.Rules {
		fmt.Fprintf(&b, "rule %s (%d clauses, %d states)\n", rr.Rule.Name, len(rr.Rule.Clauses), rr.DFA.StateCount())

		for _, c := range rr.Rule.Clauses {
			summary := fmt.Sprintf("  clause %d: %s", c.Index, clauseLabel(c))
			wrapped := rosed.Edit(summary).Wrap(width).String()
			b.WriteString(wrapped)
			b.WriteString("\n")
		}

		var states []int
		for i := range rr.DFA.States {
			states = append(states, i)
		}
		sort.Ints(states)
		for _, i := range states {
			accept := "-"
			if clause, ok := rr.DFA.Accept[i]; ok {
				accept = fmt.Sprintf("%d", clause)
			}
			fmt.Fprintf(&b, "  state %d: accept=%s, %d transitions\n", i, accept, len(rr.DFA.Trans[i]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func clauseLabel(c *pattern.ClauseInfo) string {
	if c.Unreachable {
		return "unreachable"
	}
	if c.Partial {
		return "partial { ... }"
	}
	return "{ ... }"
}
