package redgraph

import (
	"github.com/nihei9/lrgrep/automaton"
	"github.com/nihei9/lrgrep/collections"
)

// Build runs all four phases of spec.md §4.C over g and returns the
// resulting reduction graph.
func Build(g *automaton.Grammar) *Graph {
	r := &Graph{g: g}

	// Phase 1: abstract-frame allocation. A_lr1 = {of_lr1(s) | s in S}.
	r.abstract = make([]*abstractFrame, g.StateCount())
	for s := 0; s < g.StateCount(); s++ {
		states := collections.NewIntSet[automaton.S]()
		for _, t := range g.Predecessors(automaton.S(s)) {
			states.Add(t.Source)
		}
		r.abstract[s] = &abstractFrame{
			states: states,
			gotoNT: collections.NewSymbolSet(),
		}
	}

	// Phase 2: stack-suffix enumeration.
	r.concreteRoots = make([]*ConcreteFrame, g.StateCount())
	for s := 0; s < g.StateCount(); s++ {
		c0 := newConcreteFrame(automaton.S(s), nil)
		r.concreteRoots[s] = c0
		r.populate(c0, automaton.S(s))
	}

	// Phase 3: derivation trie.
	r.trieRoot = newTrieNode()
	for s := 0; s < g.StateCount(); s++ {
		insertSubtree(r.trieRoot, r.concreteRoots[s], automaton.S(s))
	}

	// Phase 4: goto closure and reachable-goto fixpoint.
	r.buildGotoClosure()
	r.solveReachableGoto()

	return r
}

// framePtr is the "current frame pointer" of spec.md §4.C phase 2: either a
// concrete frame or an abstract-frame index.
type framePtr struct {
	concrete *ConcreteFrame
	abstract automaton.A
	isAbs    bool
}

func concretePtr(c *ConcreteFrame) framePtr { return framePtr{concrete: c} }
func abstractPtr(a automaton.A) framePtr    { return framePtr{abstract: a, isAbs: true} }

// populate performs phase 2's recursive population of a concrete frame's
// subtree (and the abstract frames its reduction walk passes through),
// starting at LR(1) state s0.
func (r *Graph) populate(c0 *ConcreteFrame, s0 automaton.S) {
	reds := r.g.Reductions(s0)

	fp := concretePtr(c0)
	for i := 0; i < len(reds); i++ {
		if i > 0 {
			fp = r.pop(fp)
		}
		for _, lhs := range reds[i] {
			if !fp.isAbs {
				c := fp.concrete
				target, ok := mustFindGoto(r.g, c.State, lhs)
				if !ok {
					// No goto for this nonterminal at this concrete state
					// means this reduction sequence never actually
					// happens on this particular prefix; skip it rather
					// than treating it as a hard invariant violation,
					// since reductions(s0) is a superset across all
					// lookaheads and not every (state, popped-prefix)
					// combination is realizable.
					continue
				}
				if _, known := c.Goto.Get(target); known {
					continue
				}
				child := newConcreteFrame(target, c)
				c.Goto.Put(target, child)
				r.populate(child, target)
			} else {
				r.abstract[fp.abstract].gotoNT.Add(symbolKind(lhs), lhs.Num)
			}
		}
	}
}

// pop implements the frame-pointer transition of spec.md §4.C phase 2
// step (i).
func (r *Graph) pop(fp framePtr) framePtr {
	if !fp.isAbs {
		c := fp.concrete
		if c.Parent != nil {
			return concretePtr(c.Parent)
		}
		return abstractPtr(OfLr1(c.State))
	}

	a := r.abstract[fp.abstract]
	if a.parent != nil {
		return abstractPtr(*a.parent)
	}

	// Allocate a fresh, strictly-deeper abstract frame.
	states := collections.NewIntSet[automaton.S]()
	for _, s := range a.states.Values() {
		for _, t := range r.g.Predecessors(s) {
			states.Add(t.Source)
		}
	}
	next := &abstractFrame{
		states: states,
		gotoNT: collections.NewSymbolSet(),
	}
	r.abstract = append(r.abstract, next)
	newIdx := automaton.A(len(r.abstract) - 1)
	a.parent = &newIdx
	return abstractPtr(newIdx)
}
