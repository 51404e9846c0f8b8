// Package redgraph implements the reduction graph (spec.md §4.C): a static
// analysis over an LR(1) automaton that enumerates every stack suffix
// reachable by applying any sequence of reductions from any state.
package redgraph

import (
	"github.com/nihei9/lrgrep/automaton"
	"github.com/nihei9/lrgrep/collections"
	"github.com/nihei9/lrgrep/rgerr"
)

// ConcreteFrame is a fully known stack suffix (spec.md §3 "Reduction
// graph"). Concrete frames form a tree rooted at an LR(1) state; a frame
// is owned by its parent.
type ConcreteFrame struct {
	State  automaton.S
	Parent *ConcreteFrame
	Goto   *collections.IntTrieMap[automaton.S, *ConcreteFrame]
}

func newConcreteFrame(state automaton.S, parent *ConcreteFrame) *ConcreteFrame {
	return &ConcreteFrame{
		State:  state,
		Parent: parent,
		Goto:   collections.NewIntTrieMap[automaton.S, *ConcreteFrame](),
	}
}

// abstractFrame represents "some stack whose top is in States" (spec.md
// §3). Parent edges form a DAG: allocated lazily, always strictly deeper
// than the frame they are a parent of.
type abstractFrame struct {
	states *collections.IntSet[automaton.S]
	gotoNT *collections.SymbolSet
	parent *automaton.A // nil = none yet
}

// Graph is the reduction graph: the abstract-frame universe, the concrete
// frame forest (one root per LR(1) state), and the derivation trie built
// over it, plus the goto-closure/reachable-goto tables of phase 4. Built
// once by Build and read-only thereafter (spec.md §5).
type Graph struct {
	g             *automaton.Grammar
	concreteRoots []*ConcreteFrame // indexed by automaton.S
	abstract      []*abstractFrame // indexed by automaton.A; first StateCount() are of_lr1(s)
	trieRoot      *trieNode

	closure   [][]closureGroup                       // indexed by automaton.A
	reachable []*collections.IntSet[automaton.S]      // indexed by automaton.A
}

// OfLr1 returns the reserved abstract frame index for LR(1) state s
// (spec.md §3: "the first |S| indices of A are reserved").
func OfLr1(s automaton.S) automaton.A {
	return automaton.A(s)
}

func (r *Graph) Grammar() *automaton.Grammar { return r.g }

func (r *Graph) ConcreteRoot(s automaton.S) *ConcreteFrame {
	return r.concreteRoots[s]
}

func (r *Graph) AbstractStates(a automaton.A) []automaton.S {
	return r.abstract[a].states.Values()
}

// GotoNT returns the nonterminals recorded against abstract frame a as
// (kind, num) pairs; nonterminals always have kind == automaton.NonTerminal.
func (r *Graph) GotoNT(a automaton.A) []automaton.Symbol {
	pairs := r.abstract[a].gotoNT.Each()
	out := make([]automaton.Symbol, len(pairs))
	for i, kv := range pairs {
		out[i] = automaton.Symbol{Kind: automaton.SymbolKind(kv[0]), Num: kv[1]}
	}
	return out
}

func (r *Graph) AbstractParent(a automaton.A) (automaton.A, bool) {
	p := r.abstract[a].parent
	if p == nil {
		return 0, false
	}
	return *p, true
}

// ReachableGoto returns reachable_goto[a] (spec.md §4.C phase 4).
func (r *Graph) ReachableGoto(a automaton.A) []automaton.S {
	return r.reachable[a].Values()
}

func (r *Graph) ReachableGotoSet(a automaton.A) *collections.IntSet[automaton.S] {
	return r.reachable[a]
}

// GotoClosure returns goto_closure[a]: a partition of a.states into
// (sources, targets) groups (spec.md §3, §4.C phase 4).
func (r *Graph) GotoClosure(a automaton.A) []closureGroup {
	return r.closure[a]
}

type closureGroup struct {
	Sources *collections.IntSet[automaton.S]
	Targets *collections.IntSet[automaton.S]
}

func symbolKind(sym automaton.Symbol) int { return int(sym.Kind) }

func mustFindGoto(g *automaton.Grammar, s automaton.S, nt automaton.Symbol) (automaton.S, bool) {
	if !nt.IsNonTerminal() {
		rgerr.Invariant("reduction graph: goto requested on non-nonterminal symbol %v", nt)
	}
	return g.FindGoto(s, nt)
}
