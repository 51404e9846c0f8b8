package dfa

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nihei9/lrgrep/automaton"
	"github.com/nihei9/lrgrep/collections"
	"github.com/nihei9/lrgrep/pattern"
)

func label(states ...automaton.S) *collections.IntSet[automaton.S] {
	return collections.NewIntSet[automaton.S](states...)
}

func TestPartitionRefineDisjointsOverlappingLabels(t *testing.T) {
	b := pattern.NewBuilder()
	k0 := b.Done(0)
	k1 := b.Done(1)

	edges := []rawEdge{
		{label: label(0, 1), direct: pattern.NewKRESet(k0)},
		{label: label(1, 2), direct: pattern.NewKRESet(k1)},
	}

	cells := partitionRefine(edges)

	seen := map[automaton.S]int{}
	for _, c := range cells {
		for _, s := range c.label.Values() {
			seen[s]++
		}
	}
	for s, count := range seen {
		require.Equal(t, 1, count, "state %v covered by more than one cell", s)
	}

	var mergedCell *cell
	for i := range cells {
		if cells[i].label.Contains(automaton.S(1)) {
			mergedCell = &cells[i]
		}
	}
	require.NotNil(t, mergedCell)
	require.Equal(t, 2, mergedCell.direct.Len())
}

func TestPartitionRefineIsOrderIndependent(t *testing.T) {
	b := pattern.NewBuilder()
	k0 := b.Done(0)
	k1 := b.Done(1)

	edgesA := []rawEdge{
		{label: label(0, 1), direct: pattern.NewKRESet(k0)},
		{label: label(1, 2), direct: pattern.NewKRESet(k1)},
	}
	edgesB := []rawEdge{
		{label: label(1, 2), direct: pattern.NewKRESet(k1)},
		{label: label(0, 1), direct: pattern.NewKRESet(k0)},
	}

	cellsA := partitionRefine(edgesA)
	cellsB := partitionRefine(edgesB)

	require.Equal(t, len(cellsA), len(cellsB))
	for i := range cellsA {
		require.Equal(t, cellsA[i].label.Values(), cellsB[i].label.Values())
		require.Equal(t, cellsA[i].direct.Key(), cellsB[i].direct.Key())
	}
}
