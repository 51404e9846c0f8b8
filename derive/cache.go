package derive

import (
	"github.com/nihei9/lrgrep/automaton"
	"github.com/nihei9/lrgrep/collections"
	"github.com/nihei9/lrgrep/pattern"
)

// Cache memoizes DeriveReduce by the KRESet's structural key (spec.md §9
// "Cache ... parameterized over any type with derive, merge, compare";
// the one derivable type the compiler actually needs this for is
// KRESet, per spec.md §4.F: "here, a cached KRESet"). The same
// continuation set is re-derived along many reduction-graph paths, so
// caching by Key() avoids redoing Prederive's walk each time.
type Cache struct {
	b         *pattern.Builder
	allStates *collections.IntSet[automaton.S]
	memo      map[string][]Edge
}

func NewCache(b *pattern.Builder, allStates *collections.IntSet[automaton.S]) *Cache {
	return &Cache{b: b, allStates: allStates, memo: map[string][]Edge{}}
}

func (c *Cache) Derive(t *pattern.KRESet) []Edge {
	if hit, ok := c.memo[t.Key()]; ok {
		return hit
	}
	edges := DeriveReduce(c.b, c.allStates, t)
	c.memo[t.Key()] = edges
	return edges
}
