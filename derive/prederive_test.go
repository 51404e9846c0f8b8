package derive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nihei9/lrgrep/automaton"
	"github.com/nihei9/lrgrep/collections"
	"github.com/nihei9/lrgrep/pattern"
)

func TestPrederiveDoneReachesClause(t *testing.T) {
	b := pattern.NewBuilder()
	k := b.Done(5)

	var reached []int
	var direct []DirectEdge
	var reduce []*pattern.KRE
	Prederive(b, k, map[int]bool{}, &reached, &direct, &reduce)

	require.Equal(t, []int{5}, reached)
	require.Empty(t, direct)
	require.Empty(t, reduce)
}

func TestPrederiveSetProducesDirectEdge(t *testing.T) {
	b := pattern.NewBuilder()
	re := b.Set([]automaton.S{1, 2}, nil, pattern.Pos{})
	k := b.More(re, b.Done(0))

	var reached []int
	var direct []DirectEdge
	var reduce []*pattern.KRE
	Prederive(b, k, map[int]bool{}, &reached, &direct, &reduce)

	require.Empty(t, reached)
	require.Len(t, direct, 1)
	require.True(t, direct[0].Label.Contains(automaton.S(1)))
	require.True(t, direct[0].Label.Contains(automaton.S(2)))
	require.True(t, direct[0].Next.IsDone)
	require.Equal(t, 0, direct[0].Next.Clause)
}

func TestPrederiveReduceRecursesAndRecordsRequest(t *testing.T) {
	b := pattern.NewBuilder()
	reduceRE := b.Reduce(pattern.Pos{})
	k := b.More(reduceRE, b.Done(1))

	var reached []int
	var direct []DirectEdge
	var reduce []*pattern.KRE
	Prederive(b, k, map[int]bool{}, &reached, &direct, &reduce)

	// The reduction is optional: it both requests a reduce step and
	// recurses directly into its continuation, which is already Done.
	require.Equal(t, []int{1}, reached)
	require.Len(t, reduce, 1)
	require.True(t, reduce[0].IsDone)
	require.Equal(t, 1, reduce[0].Clause)
}

func TestPrederiveStarDoesNotLoopForever(t *testing.T) {
	b := pattern.NewBuilder()
	re := b.Set([]automaton.S{1}, nil, pattern.Pos{})
	star := b.Star(re, pattern.Pos{})
	k := b.More(star, b.Done(0))

	var reached []int
	var direct []DirectEdge
	var reduce []*pattern.KRE
	Prederive(b, k, map[int]bool{}, &reached, &direct, &reduce)

	// Skipping the star reaches Done(0) directly; taking one more
	// iteration produces a direct edge back into the star itself.
	require.Equal(t, []int{0}, reached)
	require.Len(t, direct, 1)
}

func TestDeriveReduceDisjointLabelsAndMergedContinuations(t *testing.T) {
	b := pattern.NewBuilder()
	allStates := collections.NewIntSet[automaton.S](0, 1, 2)

	re1 := b.Set([]automaton.S{0, 1}, nil, pattern.Pos{})
	re2 := b.Set([]automaton.S{1, 2}, nil, pattern.Pos{})
	k1 := b.More(re1, b.Done(0))
	k2 := b.More(re2, b.Done(1))
	set := pattern.NewKRESet(k1, k2)

	edges := DeriveReduce(b, allStates, set)

	seen := map[automaton.S]int{}
	for _, e := range edges {
		for _, s := range e.Label.Values() {
			seen[s]++
		}
	}
	for s, count := range seen {
		require.Equal(t, 1, count, "state %v labeled by more than one edge", s)
	}

	var foundOverlap bool
	for _, e := range edges {
		if e.Label.Contains(automaton.S(1)) && e.To.Len() == 2 {
			foundOverlap = true
		}
	}
	require.True(t, foundOverlap, "state 1 should reach both clauses' continuations merged into one cell")
}
