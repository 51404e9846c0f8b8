package redgraph

import (
	"github.com/nihei9/lrgrep/automaton"
	"github.com/nihei9/lrgrep/collections"
)

// trieNode is a node of the derivation trie (spec.md §3 "Derivation
// trie"). A root-to-node path s_k,...,s_1 means "a stack ending
// s_k,...,s_1 is reachable by reductions from some state s", and
// gotoTargets at that node lists every such originating s.
type trieNode struct {
	children    *collections.IntTrieMap[automaton.S, *trieNode]
	gotoTargets *collections.IntSet[automaton.S]
}

func newTrieNode() *trieNode {
	return &trieNode{
		children:    collections.NewIntTrieMap[automaton.S, *trieNode](),
		gotoTargets: collections.NewIntSet[automaton.S](),
	}
}

// insertSubtree implements phase 3 of spec.md §4.C: for the concrete
// subtree rooted at c (built while enumerating reductions from LR(1)
// state origin), insert every prefix path c.State, child.State, ... into
// the global trie, recording origin at each resulting node's gotoTargets.
func insertSubtree(parent *trieNode, c *ConcreteFrame, origin automaton.S) {
	node, ok := parent.children.Get(c.State)
	if !ok {
		node = newTrieNode()
		parent.children.Put(c.State, node)
	}
	node.gotoTargets.Add(origin)

	for _, s := range c.Goto.Keys() {
		child, _ := c.Goto.Get(s)
		insertSubtree(node, child, origin)
	}
}

// Step is the single-edge transition a derivation walk applies: given an
// accumulated value and the LR(1) state labeling the trie edge being
// followed, it returns the value's derivative along that edge, or false
// if the walk should not continue down that edge.
type Step[X any] func(acc X, s automaton.S) (X, bool)

// Join merges the accumulated values collected for one LR(1) state into
// the derive map's value for that state.
type Join[X any, Y any] func(accs []X) Y

// Derive is the generic derivation-trie fold of spec.md §4.C's "derive"
// interface: a DFS over the trie starting at root, applying step at every
// edge, recording acc whenever a node's gotoTargets contains a state, and
// finally joining the accumulated lists per LR(1) state. The result is
// independent of DFS visitation order (spec.md §8 property 8) because
// contributions are collected into a list per state and only combined by
// join at the very end.
func Derive[X any, Y any](r *Graph, root X, step Step[X], join Join[X, Y]) map[automaton.S]Y {
	collected := map[automaton.S][]X{}

	var walk func(node *trieNode, acc X)
	walk = func(node *trieNode, acc X) {
		for _, s := range node.gotoTargets.Values() {
			collected[s] = append(collected[s], acc)
		}
		for _, s := range node.children.Keys() {
			child, _ := node.children.Get(s)
			if next, ok := step(acc, s); ok {
				walk(child, next)
			}
		}
	}
	walk(r.trieRoot, root)

	out := make(map[automaton.S]Y, len(collected))
	for s, accs := range collected {
		out[s] = join(accs)
	}
	return out
}
