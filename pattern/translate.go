package pattern

import (
	"fmt"

	"github.com/nihei9/lrgrep/automaton"
	"github.com/nihei9/lrgrep/dsl"
	"github.com/nihei9/lrgrep/rgerr"
)

// Program is the translated form of one dsl.Entry (spec.md §4.D
// "Translation"): every rule's clauses compiled into one KRESet ready for
// the derivative-based DFA construction of package derive/dfa.
type Program struct {
	StartSymbols []automaton.Symbol
	Rules        []*Rule
}

type Rule struct {
	Name    string
	Args    []string
	Clauses []*ClauseInfo
	Set     *KRESet
}

// ClauseInfo carries what the DFA/codegen stages need back from a
// clause beyond its pattern: its priority index (lower wins ties per
// spec.md §4.G "smallest clause index"), its action body, and whether it
// was declared `unreachable` (checked for real unreachability once the
// DFA is built, SPEC_FULL.md §3.H).
type ClauseInfo struct {
	Index       int
	Partial     bool
	Unreachable bool
	Code        string
	Pos         dsl.Pos
}

// Translate implements spec.md §4.D: resolve every DSL pattern against
// grammar g and assemble each rule's clauses into a KRESet, tagging
// clause i's continuation with Done(i).
func Translate(g *automaton.Grammar, file string, entry *dsl.Entry, b *Builder) (*Program, error) {
	prog := &Program{}

	for _, name := range entry.StartSymbols {
		sym, ok := g.ToSymbol(name)
		if !ok {
			return nil, rgerr.Resolution(file, 0, fmt.Errorf("unknown start symbol %q", name))
		}
		prog.StartSymbols = append(prog.StartSymbols, sym)
	}

	for _, dr := range entry.Rules {
		r := &Rule{Name: dr.Name, Args: dr.Args}
		var kres []*KRE
		for i, dc := range dr.Clauses {
			re, err := translatePattern(g, file, b, dc.Pattern)
			if err != nil {
				return nil, err
			}
			info := &ClauseInfo{
				Index:       i,
				Partial:     dc.Partial,
				Unreachable: dc.Unreachable,
				Code:        dc.Code,
				Pos:         dc.Pos,
			}
			r.Clauses = append(r.Clauses, info)
			kres = append(kres, b.More(re, b.Done(i)))
		}
		r.Set = NewKRESet(kres...)
		prog.Rules = append(prog.Rules, r)
	}

	return prog, nil
}

func toPos(p dsl.Pos) Pos { return Pos{Row: p.Row, Col: p.Col} }

func translatePattern(g *automaton.Grammar, file string, b *Builder, pat *dsl.Pattern) (*RE, error) {
	pos := toPos(pat.Pos)
	switch pat.Kind {
	case dsl.PatAtom:
		return translateAtom(g, file, b, pat, pos)

	case dsl.PatItem:
		return translateItem(g, file, b, pat, pos)

	case dsl.PatReduce:
		return b.Reduce(pos), nil

	case dsl.PatSeq:
		children, err := translateChildren(g, file, b, pat.Children)
		if err != nil {
			return nil, err
		}
		return b.Seq(children, pos), nil

	case dsl.PatAlt:
		children, err := translateChildren(g, file, b, pat.Children)
		if err != nil {
			return nil, err
		}
		return b.Alt(children, pos), nil

	case dsl.PatStar:
		child, err := translatePattern(g, file, b, pat.Children[0])
		if err != nil {
			return nil, err
		}
		return b.Star(child, pos), nil

	default:
		return nil, fmt.Errorf("unknown pattern kind %d", pat.Kind)
	}
}

func translateChildren(g *automaton.Grammar, file string, b *Builder, children []*dsl.Pattern) ([]*RE, error) {
	out := make([]*RE, len(children))
	for i, c := range children {
		re, err := translatePattern(g, file, b, c)
		if err != nil {
			return nil, err
		}
		out[i] = re
	}
	return out, nil
}

func translateAtom(g *automaton.Grammar, file string, b *Builder, pat *dsl.Pattern, pos Pos) (*RE, error) {
	atom := pat.Atom
	if atom.IsWildcard || atom.IsAny {
		return b.Set(allStates(g), pat.Capture, pos), nil
	}
	sym, ok := g.ToSymbol(atom.Symbol)
	if !ok {
		return nil, rgerr.Resolution(file, pat.Pos.Row, fmt.Errorf("unknown symbol %q", atom.Symbol))
	}
	states := setFromMap(automaton.StatesOfSymbol(g, sym))
	return b.Set(states, pat.Capture, pos), nil
}

// translateItem builds an automaton.ItemTemplate from an ItemNode
// (spec.md §4.B/§6.2). The DSL surface lists item.Prefix left to right
// (source order, increasing position toward the dot); ItemTemplate.Prefix
// is documented nearest-to-dot-first, so it is reversed here.
func translateItem(g *automaton.Grammar, file string, b *Builder, pat *dsl.Pattern, pos Pos) (*RE, error) {
	it := pat.Item
	tpl := automaton.ItemTemplate{}

	if it.LHS != "" {
		sym, ok := g.ToSymbol(it.LHS)
		if !ok {
			return nil, rgerr.Resolution(file, pat.Pos.Row, fmt.Errorf("unknown nonterminal %q", it.LHS))
		}
		tpl.LHS = &sym
	}

	prefix, err := resolveItemSymbols(g, file, pat.Pos.Row, it.Prefix)
	if err != nil {
		return nil, err
	}
	reverse(prefix)
	tpl.Prefix = prefix

	suffix, err := resolveItemSymbols(g, file, pat.Pos.Row, it.Suffix)
	if err != nil {
		return nil, err
	}
	tpl.Suffix = suffix

	states := setFromMap(automaton.StatesByItems(g, tpl))
	return b.Set(states, pat.Capture, pos), nil
}

func resolveItemSymbols(g *automaton.Grammar, file string, row int, names []string) ([]*automaton.Symbol, error) {
	out := make([]*automaton.Symbol, len(names))
	for i, name := range names {
		if name == "" {
			out[i] = nil
			continue
		}
		sym, ok := g.ToSymbol(name)
		if !ok {
			return nil, rgerr.Resolution(file, row, fmt.Errorf("unknown symbol %q", name))
		}
		s := sym
		out[i] = &s
	}
	return out, nil
}

func reverse(s []*automaton.Symbol) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func allStates(g *automaton.Grammar) []automaton.S {
	out := make([]automaton.S, g.StateCount())
	for i := range out {
		out[i] = automaton.S(i)
	}
	return out
}

func setFromMap(m map[automaton.S]struct{}) []automaton.S {
	out := make([]automaton.S, 0, len(m))
	for s := range m {
		out = append(out, s)
	}
	return out
}
