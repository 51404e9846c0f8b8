package redgraph

import (
	"github.com/nihei9/lrgrep/automaton"
	"github.com/nihei9/lrgrep/collections"
)

// buildGotoClosure is phase 4's first half (spec.md §4.C phase 4): for
// every abstract frame with a non-empty goto_nt, group its states by their
// transitive closure targets.
func (r *Graph) buildGotoClosure() {
	r.closure = make([][]closureGroup, len(r.abstract))

	for a := 0; a < len(r.abstract); a++ {
		af := r.abstract[a]
		if af.gotoNT.Len() == 0 {
			continue
		}

		byTargetKey := map[string]*closureGroup{}
		var order []string
		for _, s := range af.states.Values() {
			targets := r.close(s, af.gotoNT)
			key := targetSetKey(targets)
			grp, ok := byTargetKey[key]
			if !ok {
				grp = &closureGroup{
					Sources: collections.NewIntSet[automaton.S](),
					Targets: targets,
				}
				byTargetKey[key] = grp
				order = append(order, key)
			}
			grp.Sources.Add(s)
		}

		groups := make([]closureGroup, 0, len(order))
		for _, key := range order {
			groups = append(groups, *byTargetKey[key])
		}
		r.closure[a] = groups
	}
}

// close computes close(s) of spec.md §4.C phase 4: the set of states
// reached from s by repeatedly taking find_goto(., nt) for nt in ntSet,
// continuing transitively through each newly found state's own abstract
// root's goto_nt, until a fixpoint over visited states.
func (r *Graph) close(s automaton.S, ntSet *collections.SymbolSet) *collections.IntSet[automaton.S] {
	targets := collections.NewIntSet[automaton.S]()
	visited := collections.NewIntSet[automaton.S]()

	type work struct {
		state automaton.S
		nts   *collections.SymbolSet
	}
	queue := []work{{state: s, nts: ntSet}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited.Contains(cur.state) {
			continue
		}
		visited.Add(cur.state)

		for _, kv := range cur.nts.Each() {
			nt := automaton.Symbol{Kind: automaton.SymbolKind(kv[0]), Num: kv[1]}
			target, ok := r.g.FindGoto(cur.state, nt)
			if !ok {
				continue
			}
			targets.Add(target)
			queue = append(queue, work{state: target, nts: r.abstract[OfLr1(target)].gotoNT})
		}
	}

	return targets
}

func targetSetKey(s *collections.IntSet[automaton.S]) string {
	var b []byte
	for _, v := range s.Values() {
		b = append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24), ',')
	}
	return string(b)
}

// solveReachableGoto is phase 4's second half: the least-fixed-point
// worklist of spec.md §4.C / §9 ("a straightforward worklist suffices:
// enqueue all abstract frames, repeat until no set grows").
func (r *Graph) solveReachableGoto() {
	n := len(r.abstract)
	r.reachable = make([]*collections.IntSet[automaton.S], n)
	for a := 0; a < n; a++ {
		r.reachable[a] = collections.NewIntSet[automaton.S]()
	}

	targetsOf := make([]*collections.IntSet[automaton.S], n)
	for a := 0; a < n; a++ {
		targetsOf[a] = collections.NewIntSet[automaton.S]()
		for _, grp := range r.closure[a] {
			for _, t := range grp.Targets.Values() {
				targetsOf[a].Add(t)
			}
		}
	}

	changed := true
	for changed {
		changed = false
		for a := 0; a < n; a++ {
			acc := r.reachable[a]

			if acc.Union(targetsOf[a]) {
				changed = true
			}
			if parent, ok := r.AbstractParent(automaton.A(a)); ok {
				if acc.Union(r.reachable[parent]) {
					changed = true
				}
			}
			for _, t := range targetsOf[a].Values() {
				if acc.Union(r.reachable[OfLr1(t)]) {
					changed = true
				}
			}
		}
	}
}
