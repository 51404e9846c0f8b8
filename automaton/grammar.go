package automaton

import "fmt"

// Production is a densely numbered production: LHS nonterminal, RHS symbol
// string, and whether it is the augmented start production (spec.md §3,
// §6.1).
type Production struct {
	LHS  Symbol
	RHS  []Symbol
	Kind ProductionKind
}

// Item is an LR(1) item (p, pos): production p with the dot before RHS[pos]
// (spec.md §3 "Items").
type Item struct {
	Prod P
	Pos  int
}

// Transition is an edge of the automaton labeled by a symbol. Whether it is
// a goto (nonterminal) or a shift (terminal) transition is determined by
// Symbol.Kind (spec.md §3 "Transitions": Any = G ⊎ H).
type Transition struct {
	Symbol Symbol
	Source S
	Target S
}

func (t Transition) IsGoto() bool  { return t.Symbol.IsNonTerminal() }
func (t Transition) IsShift() bool { return t.Symbol.IsTerminal() }

type stateData struct {
	incoming    *Symbol
	items       []Item
	reductions  [][]Symbol // indexed by pop-depth d; reductions[d] = lhs(p) for |rhs(p)| = d
	transitions []Transition
}

// Grammar is the typed, index-based wrapper over terminals, nonterminals,
// productions, and LR(1) states described in spec.md §4.A. Once built by
// Load, it is immutable (spec.md §5).
type Grammar struct {
	terminalCount    int
	nonTerminalCount int
	terminalNames    []string
	nonTerminalNames []string
	name2Sym         map[string]Symbol
	productions      []Production
	states           []stateData

	// predecessors/successors give O(1) lookup per spec.md §3.
	predecessorsOf [][]Transition
	successorsOf   [][]Transition
	gotoIndex      map[gotoKey]S
}

// ToSymbol resolves a DSL-surface symbol name to its Symbol, used by the
// pattern translator to raise ResolutionError on an unknown name
// (spec.md §7).
func (g *Grammar) ToSymbol(name string) (Symbol, bool) {
	sym, ok := g.name2Sym[name]
	return sym, ok
}

// ToText is the inverse of ToSymbol, used for diagnostics and report
// output.
func (g *Grammar) ToText(sym Symbol) (string, bool) {
	if sym.IsTerminal() {
		if sym.Num < 0 || sym.Num >= len(g.terminalNames) {
			return "", false
		}
		return g.terminalNames[sym.Num], true
	}
	if sym.Num < 0 || sym.Num >= len(g.nonTerminalNames) {
		return "", false
	}
	return g.nonTerminalNames[sym.Num], true
}

type gotoKey struct {
	state S
	nt    Symbol
}

func (g *Grammar) indexTransitions(all []Transition) {
	g.predecessorsOf = make([][]Transition, len(g.states))
	g.successorsOf = make([][]Transition, len(g.states))
	g.gotoIndex = make(map[gotoKey]S, len(all))
	for _, t := range all {
		g.successorsOf[t.Source] = append(g.successorsOf[t.Source], t)
		g.predecessorsOf[t.Target] = append(g.predecessorsOf[t.Target], t)
		if t.IsGoto() {
			g.gotoIndex[gotoKey{state: t.Source, nt: t.Symbol}] = t.Target
		}
	}
}

func (g *Grammar) TerminalCount() int    { return g.terminalCount }
func (g *Grammar) NonTerminalCount() int { return g.nonTerminalCount }
func (g *Grammar) ProductionCount() int  { return len(g.productions) }
func (g *Grammar) StateCount() int       { return len(g.states) }

func (g *Grammar) Production(p P) Production {
	return g.productions[p]
}

// Successors/Predecessors give the O(1) transition lists spec.md §3
// requires.
func (g *Grammar) Successors(s S) []Transition   { return g.successorsOf[s] }
func (g *Grammar) Predecessors(s S) []Transition { return g.predecessorsOf[s] }

// FindGoto returns the goto transition target for (state, nonterminal), if
// one exists (spec.md §3: find_goto(s, n): S x N -> G, partial).
func (g *Grammar) FindGoto(s S, nt Symbol) (S, bool) {
	t, ok := g.gotoIndex[gotoKey{state: s, nt: nt}]
	return t, ok
}

// Lr1 is the read-only item/reduction/incoming-symbol interface an LR(1)
// state exposes (spec.md §4.A, §6.1).
type Lr1 interface {
	Items(s S) []Item
	Incoming(s S) (Symbol, bool)
	// Reductions returns reductions(s): an array indexed by pop-depth,
	// each entry the set of LHS nonterminals reducible at that depth
	// (spec.md §3 "Items").
	Reductions(s S) [][]Symbol
}

var _ Lr1 = (*Grammar)(nil)

func (g *Grammar) Items(s S) []Item {
	return g.states[s].items
}

func (g *Grammar) Incoming(s S) (Symbol, bool) {
	st := &g.states[s]
	if st.incoming == nil {
		return Symbol{}, false
	}
	return *st.incoming, true
}

func (g *Grammar) Reductions(s S) [][]Symbol {
	return g.states[s].reductions
}

// Transitions lists every transition the state exposes, split by kind not
// required here since callers can inspect Transition.IsGoto/IsShift.
func (g *Grammar) Transitions(s S) []Transition {
	return g.states[s].transitions
}

func (g *Grammar) String() string {
	return fmt.Sprintf("Grammar{states=%d, productions=%d, terminals=%d, nonterminals=%d}",
		len(g.states), len(g.productions), g.terminalCount, g.nonTerminalCount)
}
