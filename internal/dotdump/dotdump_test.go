package dotdump

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonathanScottRose/GENIE-sub001/internal/ir"
)

func TestWritePointToPointUsesInstanceNamesAsNodeIDs(t *testing.T) {
	sys := ir.NewSystem("t")
	producer := sys.AddNode(ir.Node{Name: "producer", Kind: ir.KindInstance})
	consumer := sys.AddNode(ir.Node{Name: "consumer", Kind: ir.KindInstance})
	srcPID := sys.AddPort(producer, "out", ir.IfData, ir.DirOut)
	dstPID := sys.AddPort(consumer, "in", ir.IfData, ir.DirIn)
	sys.Connect(srcPID, dstPID)

	var buf bytes.Buffer
	require.NoError(t, WritePointToPoint(&buf, sys))

	out := buf.String()
	assert.Contains(t, out, `"producer"`)
	assert.Contains(t, out, `"consumer"`)
	assert.Contains(t, out, `"producer" -> "consumer"`)
	assert.NotContains(t, out, "n0", "node ids should mirror instance names, not positional indices")
}

func TestWriteTopologyUsesNodeNamesAsIDs(t *testing.T) {
	sys := ir.NewSystem("t")
	a := sys.Topology.AddNode(ir.TopoNode{Name: "src_a", Kind: ir.TopoSource})
	b := sys.Topology.AddNode(ir.TopoNode{Name: "merge_b", Kind: ir.TopoMerge})
	sys.Topology.AddEdge(a, b, []int{0})

	var buf bytes.Buffer
	require.NoError(t, WriteTopology(&buf, sys))

	out := buf.String()
	assert.Contains(t, out, `"src_a"`)
	assert.Contains(t, out, `"merge_b"`)
	assert.Contains(t, out, `"src_a" -> "merge_b"`)
}

func TestWriteTopologyFallsBackToIndexForUnnamedNode(t *testing.T) {
	sys := ir.NewSystem("t")
	sys.Topology.AddNode(ir.TopoNode{Kind: ir.TopoSource})

	var buf bytes.Buffer
	require.NoError(t, WriteTopology(&buf, sys))
	assert.Contains(t, buf.String(), `"t0"`)
}
