package derive

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nihei9/lrgrep/automaton"
	"github.com/nihei9/lrgrep/pattern"
)

// Derivations is the continuations table of spec.md §4.F
// initial_derivations(d): the merged derivative of d along every
// reduction-reachable path to each LR(1) state, plus the originating
// KRESet (needed for Red's lexicographic comparison).
type Derivations struct {
	Source        *pattern.KRESet
	Continuations map[automaton.S]*pattern.KRESet
}

// Red is a reduction-simulator instance {derivations, state: A} (spec.md
// §3 "DFA state (ST)", §4.F). Compared lexicographically by (state,
// derivations.source) per spec.md §4.F.
type Red struct {
	Derivations *Derivations
	State       automaton.A
}

func (r *Red) key() string {
	return fmt.Sprintf("%d:%s", r.State, r.Derivations.Source.Key())
}

func (r *Red) Less(o *Red) bool {
	if r.State != o.State {
		return r.State < o.State
	}
	return r.Derivations.Source.Key() < o.Derivations.Source.Key()
}

func (r *Red) Equal(o *Red) bool {
	return r.State == o.State && r.Derivations.Source.Key() == o.Derivations.Source.Key()
}

// RedSet is an ordered set of Red simulators, the `reduce: set<Red>`
// component of an ST (spec.md §3).
type RedSet struct {
	members []*Red
	key     string
}

func NewRedSet(members ...*Red) *RedSet {
	byKey := map[string]*Red{}
	for _, r := range members {
		byKey[r.key()] = r
	}
	out := make([]*Red, 0, len(byKey))
	for _, r := range byKey {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })

	var b strings.Builder
	for _, r := range out {
		b.WriteString(r.key())
		b.WriteByte(',')
	}
	return &RedSet{members: out, key: b.String()}
}

func (s *RedSet) Members() []*Red { return s.members }
func (s *RedSet) Len() int        { return len(s.members) }
func (s *RedSet) Key() string     { return s.key }
func (s *RedSet) Equal(o *RedSet) bool { return s.key == o.key }
