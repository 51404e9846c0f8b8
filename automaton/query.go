package automaton

// StatesOfSymbol computes states_of_symbol(sym): the set of LR(1) states
// having sym as their incoming symbol (spec.md §4.B). Scans Incoming(s) for
// every state on each call; the result is not cached.
func StatesOfSymbol(g *Grammar, sym Symbol) map[S]struct{} {
	out := map[S]struct{}{}
	for s := S(0); s.Int() < g.StateCount(); s++ {
		in, ok := g.Incoming(s)
		if !ok {
			continue
		}
		if in == sym {
			out[s] = struct{}{}
		}
	}
	return out
}

func (s S) Int() int { return int(s) }

// ItemTemplate is the `[item]` atom of the DSL (spec.md §6.2):
// `(nt ':')? symbol* '.' symbol*`. A nil LHS matches any production's LHS;
// a nil element of Prefix/Suffix is the wildcard `_`.
type ItemTemplate struct {
	LHS    *Symbol
	Prefix []*Symbol // aligned at positions pos-1, pos-2, ... (nearest-to-dot first)
	Suffix []*Symbol // aligned at positions pos, pos+1, ...
}

// StatesByItems implements states_by_items(lhs?, prefix, suffix) of
// spec.md §4.B: include s iff some item (p, pos) of s satisfies every
// condition (i)-(v).
func StatesByItems(g *Grammar, t ItemTemplate) map[S]struct{} {
	out := map[S]struct{}{}
	for s := S(0); s.Int() < g.StateCount(); s++ {
		for _, it := range g.Items(s) {
			if itemMatches(g, it, t) {
				out[s] = struct{}{}
				break
			}
		}
	}
	return out
}

func itemMatches(g *Grammar, it Item, t ItemTemplate) bool {
	prod := g.Production(it.Prod)

	if t.LHS != nil && prod.LHS != *t.LHS {
		return false
	}
	if it.Pos < len(t.Prefix) {
		return false
	}
	if len(prod.RHS) < it.Pos+len(t.Suffix) {
		return false
	}

	for i, want := range t.Prefix {
		if want == nil {
			continue
		}
		pos := it.Pos - 1 - i
		if pos < 0 || pos >= len(prod.RHS) {
			return false
		}
		if prod.RHS[pos] != *want {
			return false
		}
	}

	for i, want := range t.Suffix {
		if want == nil {
			continue
		}
		pos := it.Pos + i
		if pos < 0 || pos >= len(prod.RHS) {
			return false
		}
		if prod.RHS[pos] != *want {
			return false
		}
	}

	return true
}
