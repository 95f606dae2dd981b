package graphutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonathanScottRose/GENIE-sub001/internal/graphutil"
)

func TestMultiwayCutTwoTerminalsSplitsAtCheapestEdge(t *testing.T) {
	// 0 -(5)- 1 -(1)- 2 -(5)- 3, terminals at 0 and 3: the cheapest cut
	// isolates {0,1} from {2,3} through the weight-1 edge.
	edges := []graphutil.UndirectedEdge{
		{A: 0, B: 1, Weight: 5},
		{A: 1, B: 2, Weight: 1},
		{A: 2, B: 3, Weight: 5},
	}
	assignment, unassigned := graphutil.MultiwayCut(4, edges, []int{0, 3})
	require.Empty(t, unassigned)
	assert.Equal(t, assignment[0], assignment[1])
	assert.Equal(t, assignment[2], assignment[3])
	assert.NotEqual(t, assignment[0], assignment[2])
}

func TestMultiwayCutUnreachableVertexIsUnassigned(t *testing.T) {
	edges := []graphutil.UndirectedEdge{
		{A: 0, B: 1, Weight: 1},
	}
	// vertex 2 has no edge at all and is not itself a terminal.
	assignment, unassigned := graphutil.MultiwayCut(3, edges, []int{0})
	require.Len(t, unassigned, 1)
	assert.Equal(t, 2, unassigned[0])
	assert.Equal(t, assignment[0], assignment[1])
}

func TestMultiwayCutSingleTerminalClaimsEverything(t *testing.T) {
	edges := []graphutil.UndirectedEdge{
		{A: 0, B: 1, Weight: 3},
		{A: 1, B: 2, Weight: 3},
	}
	assignment, unassigned := graphutil.MultiwayCut(3, edges, []int{0})
	require.Empty(t, unassigned)
	assert.Equal(t, []int{0, 0, 0}, assignment)
}

func TestMultiwayCutDeterministic(t *testing.T) {
	edges := []graphutil.UndirectedEdge{
		{A: 0, B: 2, Weight: 2},
		{A: 1, B: 2, Weight: 2},
		{A: 2, B: 3, Weight: 4},
	}
	first, _ := graphutil.MultiwayCut(4, edges, []int{0, 1})
	for i := 0; i < 10; i++ {
		again, _ := graphutil.MultiwayCut(4, edges, []int{0, 1})
		assert.Equal(t, first, again)
	}
}
