package automaton

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// The wire format is the "compiled LR(1) table" spec.md §6.1 describes as
// an external collaborator's deliverable. It mirrors the shape of
// vartan's spec/grammar/description.go Report, extended with the fields
// our compiler needs at its own runtime (incoming symbol per state,
// production kind) that vartan's serialized table omits because its
// driver never needs item sets once the action/goto tables are baked.
//
// Symbols are encoded as compact strings ("t3", "n5") matching the
// prefix convention grammar/symbol.Symbol.String() already uses in the
// teacher, so a hand-written fixture reads the same way a vartan
// "describe" dump does.
type wireGrammar struct {
	TerminalCount    int              `json:"terminal_count"`
	NonTerminalCount int              `json:"non_terminal_count"`
	Terminals        []string         `json:"terminals"`
	NonTerminals     []string         `json:"non_terminals"`
	Productions      []wireProduction `json:"productions"`
	States           []wireState      `json:"states"`
}

type wireProduction struct {
	LHS  string   `json:"lhs"`
	RHS  []string `json:"rhs"`
	Kind string   `json:"kind"` // "start" | "regular"
}

type wireItem struct {
	Production int `json:"production"`
	Dot        int `json:"dot"`
}

type wireReduction struct {
	Lookahead   string `json:"lookahead"`
	Productions []int  `json:"productions"`
}

type wireTransition struct {
	Symbol string `json:"symbol"`
	State  int    `json:"state"`
}

type wireState struct {
	Incoming    string           `json:"incoming,omitempty"`
	Items       []wireItem       `json:"items"`
	Reductions  []wireReduction  `json:"reductions"`
	Transitions []wireTransition `json:"transitions"`
}

func parseSymbol(s string) (Symbol, error) {
	if len(s) < 2 {
		return Symbol{}, fmt.Errorf("malformed symbol %q", s)
	}
	num, err := strconv.Atoi(s[1:])
	if err != nil {
		return Symbol{}, fmt.Errorf("malformed symbol %q: %w", s, err)
	}
	switch s[0] {
	case 't':
		return T(num), nil
	case 'n':
		return N(num), nil
	default:
		return Symbol{}, fmt.Errorf("malformed symbol %q: unknown prefix", s)
	}
}

// Load reads a compiled LR(1) table and builds the typed grammar view
// (spec.md §4.A).
func Load(r io.Reader) (*Grammar, error) {
	var wg wireGrammar
	dec := json.NewDecoder(r)
	if err := dec.Decode(&wg); err != nil {
		return nil, fmt.Errorf("decode grammar table: %w", err)
	}
	return buildFromWire(&wg)
}

func buildFromWire(wg *wireGrammar) (*Grammar, error) {
	prods := make([]Production, len(wg.Productions))
	for i, wp := range wg.Productions {
		lhs, err := parseSymbol(wp.LHS)
		if err != nil {
			return nil, fmt.Errorf("production %d lhs: %w", i, err)
		}
		rhs := make([]Symbol, len(wp.RHS))
		for j, rs := range wp.RHS {
			sym, err := parseSymbol(rs)
			if err != nil {
				return nil, fmt.Errorf("production %d rhs[%d]: %w", i, j, err)
			}
			rhs[j] = sym
		}
		kind := Regular
		if wp.Kind == "start" {
			kind = Start
		}
		prods[i] = Production{LHS: lhs, RHS: rhs, Kind: kind}
	}

	g := &Grammar{
		terminalCount:    wg.TerminalCount,
		nonTerminalCount: wg.NonTerminalCount,
		terminalNames:    wg.Terminals,
		nonTerminalNames: wg.NonTerminals,
		productions:      prods,
		states:           make([]stateData, len(wg.States)),
	}
	g.name2Sym = map[string]Symbol{}
	for n, name := range wg.Terminals {
		if name != "" {
			g.name2Sym[name] = T(n)
		}
	}
	for n, name := range wg.NonTerminals {
		if name != "" {
			g.name2Sym[name] = N(n)
		}
	}

	var transitions []Transition
	for si, ws := range wg.States {
		st := &g.states[si]
		if ws.Incoming != "" {
			sym, err := parseSymbol(ws.Incoming)
			if err != nil {
				return nil, fmt.Errorf("state %d incoming: %w", si, err)
			}
			st.incoming = &sym
		}
		st.items = make([]Item, len(ws.Items))
		for i, wi := range ws.Items {
			st.items[i] = Item{Prod: P(wi.Production), Pos: wi.Dot}
		}

		maxDepth := 0
		type redKey struct {
			depth int
			lhs   Symbol
		}
		seen := map[redKey]bool{}
		raw := make(map[int][]Symbol) // depth -> lhs list, deduped
		for _, wr := range ws.Reductions {
			for _, prodIdx := range wr.Productions {
				if prodIdx < 0 || prodIdx >= len(prods) {
					return nil, fmt.Errorf("state %d reduction references unknown production %d", si, prodIdx)
				}
				p := prods[prodIdx]
				if p.Kind == Start {
					continue
				}
				depth := len(p.RHS)
				k := redKey{depth: depth, lhs: p.LHS}
				if seen[k] {
					continue
				}
				seen[k] = true
				raw[depth] = append(raw[depth], p.LHS)
				if depth > maxDepth {
					maxDepth = depth
				}
			}
		}
		st.reductions = make([][]Symbol, maxDepth+1)
		for d, lhss := range raw {
			st.reductions[d] = lhss
		}

		st.transitions = make([]Transition, len(ws.Transitions))
		for i, wt := range ws.Transitions {
			sym, err := parseSymbol(wt.Symbol)
			if err != nil {
				return nil, fmt.Errorf("state %d transition[%d]: %w", si, i, err)
			}
			tr := Transition{Symbol: sym, Source: S(si), Target: S(wt.State)}
			st.transitions[i] = tr
			transitions = append(transitions, tr)
		}
	}

	g.indexTransitions(transitions)

	return g, nil
}
