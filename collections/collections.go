// Package collections supplies the small set of deterministic, ordered
// containers the compiler relies on: the reduction graph's concrete-frame
// children and derivation trie (keyed by LR(1) state), and the abstract
// frame's state/goto-nonterminal sets. Every one of spec.md §8's testable
// properties about "stable, deterministic" output (partition refinement,
// derive order-independence, goto-closure partitioning) is far easier to
// hold onto when iteration order is baked into the container instead of
// re-sorted ad hoc at each call site, so this wraps
// github.com/emirpasic/gods's tree-based containers rather than Go's
// unordered built-in map.
package collections

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/sets/treeset"
	godsutils "github.com/emirpasic/gods/utils"
)

// Ordered is any integer-like index type (automaton.S, automaton.A,
// automaton.P, ...).
type Ordered interface {
	~int
}

// IntSet is an ordered set over an integer-like index universe.
type IntSet[T Ordered] struct {
	s *treeset.Set
}

func NewIntSet[T Ordered](vs ...T) *IntSet[T] {
	s := &IntSet[T]{s: treeset.NewWithIntComparator()}
	for _, v := range vs {
		s.Add(v)
	}
	return s
}

func (s *IntSet[T]) Add(v T) { s.s.Add(int(v)) }

func (s *IntSet[T]) Contains(v T) bool { return s.s.Contains(int(v)) }

func (s *IntSet[T]) Len() int { return s.s.Size() }

// Values returns the set's elements in ascending order.
func (s *IntSet[T]) Values() []T {
	raw := s.s.Values()
	out := make([]T, len(raw))
	for i, v := range raw {
		out[i] = T(v.(int))
	}
	return out
}

// Union adds every element of other into s and reports whether s grew
// (used by the reachable_goto least-fixed-point worklist).
func (s *IntSet[T]) Union(other *IntSet[T]) bool {
	grew := false
	for _, v := range other.Values() {
		if !s.Contains(v) {
			s.Add(v)
			grew = true
		}
	}
	return grew
}

func (s *IntSet[T]) Equal(other *IntSet[T]) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, v := range s.Values() {
		if !other.Contains(v) {
			return false
		}
	}
	return true
}

// IntTrieMap is an ordered map keyed by an integer-like index, used for the
// derivation trie's children and a concrete frame's goto table.
type IntTrieMap[T Ordered, V any] struct {
	m *treemap.Map
}

func NewIntTrieMap[T Ordered, V any]() *IntTrieMap[T, V] {
	return &IntTrieMap[T, V]{m: treemap.NewWithIntComparator()}
}

func (m *IntTrieMap[T, V]) Get(k T) (V, bool) {
	v, ok := m.m.Get(int(k))
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

func (m *IntTrieMap[T, V]) Put(k T, v V) {
	m.m.Put(int(k), v)
}

// Keys returns the map's keys in ascending order.
func (m *IntTrieMap[T, V]) Keys() []T {
	raw := m.m.Keys()
	out := make([]T, len(raw))
	for i, k := range raw {
		out[i] = T(k.(int))
	}
	return out
}

func (m *IntTrieMap[T, V]) Len() int { return m.m.Size() }

// symbolKey packs an automaton-style (kind, num) pair into a single
// comparable int so Symbol sets can reuse the same tree container.
func symbolKey(kind, num int) int {
	return num*2 + kind
}

// SymbolSet is an ordered set of (kind, num) symbol pairs, used for a
// nonterminal goto-label set (abstract frame's goto_nt).
type SymbolSet struct {
	s      *treeset.Set
	decode map[int][2]int
}

func NewSymbolSet() *SymbolSet {
	return &SymbolSet{
		s:      treeset.NewWith(godsutils.IntComparator),
		decode: map[int][2]int{},
	}
}

func (s *SymbolSet) Add(kind, num int) {
	k := symbolKey(kind, num)
	s.s.Add(k)
	s.decode[k] = [2]int{kind, num}
}

func (s *SymbolSet) Contains(kind, num int) bool {
	return s.s.Contains(symbolKey(kind, num))
}

func (s *SymbolSet) Len() int { return s.s.Size() }

// Each returns the (kind, num) pairs in ascending key order.
func (s *SymbolSet) Each() [][2]int {
	raw := s.s.Values()
	out := make([][2]int, len(raw))
	for i, v := range raw {
		out[i] = s.decode[v.(int)]
	}
	return out
}

func (s *SymbolSet) Union(other *SymbolSet) bool {
	grew := false
	for _, kv := range other.Each() {
		if !s.Contains(kv[0], kv[1]) {
			s.Add(kv[0], kv[1])
			grew = true
		}
	}
	return grew
}
