package dfa

import (
	"sort"

	"github.com/nihei9/lrgrep/automaton"
	"github.com/nihei9/lrgrep/collections"
	"github.com/nihei9/lrgrep/derive"
	"github.com/nihei9/lrgrep/pattern"
)

// Edge is one outgoing transition of a built DFA state, referencing its
// target by index into DFA.States.
type Edge struct {
	Label *collections.IntSet[automaton.S]
	To    int
}

// DFA is the worklist-constructed automaton of spec.md §4.G: one ST per
// state, transitions labeled by pairwise-disjoint state sets, and an
// accept clause (smaller index wins, spec.md §8 property 7) per state
// that reaches one.
type DFA struct {
	States []*ST
	Trans  [][]Edge
	Accept map[int]int // state index -> winning clause index
}

// Build runs the worklist construction of spec.md §4.G starting from
// {direct: clausesOfEntry, reduce: ∅}.
func Build(e *Engine, clausesOfEntry *pattern.KRESet) *DFA {
	d := &DFA{Accept: map[int]int{}}
	indexOf := map[string]int{}

	intern := func(st *ST) (int, bool) {
		key := st.Key()
		if idx, ok := indexOf[key]; ok {
			return idx, false
		}
		idx := len(d.States)
		d.States = append(d.States, st)
		d.Trans = append(d.Trans, nil)
		indexOf[key] = idx
		return idx, true
	}

	start := &ST{Direct: clausesOfEntry, Reduce: derive.NewRedSet()}
	startIdx, _ := intern(start)

	queue := []int{startIdx}
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]

		reached, transitions := e.Derive(d.States[idx])
		if len(reached) > 0 {
			sort.Ints(reached)
			d.Accept[idx] = reached[0]
		}

		for _, t := range transitions {
			childIdx, isNew := intern(t.To)
			d.Trans[idx] = append(d.Trans[idx], Edge{Label: t.Label, To: childIdx})
			if isNew {
				queue = append(queue, childIdx)
			}
		}
	}

	return d
}

// StateCount returns the number of DFA states built.
func (d *DFA) StateCount() int { return len(d.States) }
