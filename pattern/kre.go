package pattern

import (
	"fmt"
	"sort"
	"strings"
)

// KRE is a continuation-tagged regular expression (spec.md §3 "Pattern
// IR"): either Done{clause} (accept clause) or More(re, continuation).
type KRE struct {
	ID       int
	IsDone   bool
	Clause   int  // valid iff IsDone
	Re       *RE  // valid iff !IsDone
	Next     *KRE // valid iff !IsDone
}

func (k *KRE) String() string {
	if k.IsDone {
		return fmt.Sprintf("done(%d)", k.Clause)
	}
	return fmt.Sprintf("%s;%s", k.Re.String(), k.Next.String())
}

func (b *Builder) Done(clause int) *KRE {
	for _, k := range b.doneCache {
		if k.Clause == clause {
			return k
		}
	}
	k := &KRE{ID: b.alloc(), IsDone: true, Clause: clause}
	b.doneCache = append(b.doneCache, k)
	return k
}

func (b *Builder) More(re *RE, next *KRE) *KRE {
	key := moreKey(re, next)
	if k, ok := b.byMoreKey[key]; ok {
		return k
	}
	k := &KRE{ID: b.alloc(), Re: re, Next: next}
	b.byMoreKey[key] = k
	return k
}

func moreKey(re *RE, next *KRE) string {
	return fmt.Sprintf("%d:%d", re.ID, next.ID)
}

// KRESet is an ordered set of KREs representing their union (spec.md §3).
// Members are kept sorted by ID so two KRESets built from the same
// members always compare, hash, and print identically regardless of
// construction order — required for spec.md §8's determinism properties
// and for using a KRESet as a map key in the DFA's worklist and
// reduction-derivative cache (package dfa).
type KRESet struct {
	members []*KRE
	key     string
}

func NewKRESet(members ...*KRE) *KRESet {
	s := &KRESet{}
	s.members = dedupAndSortKRE(members)
	s.key = kreSetKey(s.members)
	return s
}

func (s *KRESet) Members() []*KRE { return s.members }
func (s *KRESet) Len() int        { return len(s.members) }
func (s *KRESet) Key() string     { return s.key }

func (s *KRESet) Equal(o *KRESet) bool {
	return s.key == o.key
}

// Less gives KRESet a total order so ST{direct, reduce} can be compared
// lexicographically per spec.md §3 ("Two STs compare by (direct, reduce)
// lexicographically").
func (s *KRESet) Less(o *KRESet) bool {
	return s.key < o.key
}

// Union merges members of multiple KRESets into one (spec.md §4.G:
// "merging destination STs within each cell by componentwise union").
func Union(sets ...*KRESet) *KRESet {
	var all []*KRE
	for _, s := range sets {
		all = append(all, s.members...)
	}
	return NewKRESet(all...)
}

func dedupAndSortKRE(members []*KRE) []*KRE {
	byID := map[int]*KRE{}
	for _, k := range members {
		byID[k.ID] = k
	}
	out := make([]*KRE, 0, len(byID))
	for _, k := range byID {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func kreSetKey(members []*KRE) string {
	var b strings.Builder
	for _, k := range members {
		fmt.Fprintf(&b, "%d,", k.ID)
	}
	return b.String()
}
