package clockassign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonathanScottRose/GENIE-sub001/internal/ir"
	"github.com/JonathanScottRose/GENIE-sub001/internal/logctx"
)

func addInstanceWithDataPort(sys *ir.System, name string, dir ir.Direction) (ir.PortID, ir.PortID) {
	nodeID := sys.AddNode(ir.Node{Name: name, Kind: ir.KindInstance})
	clk := sys.AddPort(nodeID, "clk", ir.IfClock, ir.DirIn)
	data := sys.AddPort(nodeID, "data", ir.IfData, dir)
	sys.BindClock(data, clk)
	return clk, data
}

func TestClockCrossInsertedBetweenDistinctDomains(t *testing.T) {
	sys := ir.NewSystem("t")
	_, srcData := addInstanceWithDataPort(sys, "producer", ir.DirOut)
	_, dstData := addInstanceWithDataPort(sys, "consumer", ir.DirIn)
	sys.Connect(srcData, dstData)

	require.NoError(t, Run(sys, logctx.Nop()))

	var crossings int
	for _, n := range sys.Nodes() {
		if n.Kind == ir.KindClockCross {
			crossings++
		}
	}
	assert.Equal(t, 1, crossings, "two instances on distinct clock domains must get exactly one crossing")
}

// TestCrossingWidthReadsFlowsNotPhysical reproduces the case a Merge or
// Split introduces: the interconnect-side port's own Protocol.Physical
// is still empty at clock-assign time (bit packing hasn't run), so the
// edge weight has to come from the Flow the topology realizer already
// attached to both ports, not from Physical field intersection.
func TestCrossingWidthReadsFlowsNotPhysical(t *testing.T) {
	sys := ir.NewSystem("t")
	producerNode := sys.AddNode(ir.Node{Name: "producer", Kind: ir.KindInstance})
	srcPID := sys.AddPort(producerNode, "out", ir.IfData, ir.DirOut)
	sys.Port(srcPID).Protocol.DeclareLogical("data", 8, ir.Forward)
	sys.Port(srcPID).Protocol.AssignLocal("data", "xdata")

	mergeNode := sys.AddNode(ir.Node{Name: "merge_0", Kind: ir.KindMerge})
	sinkPID := sys.AddPort(mergeNode, "in0", ir.IfData, ir.DirIn)

	require.Empty(t, sys.Port(sinkPID).Protocol.Physical, "merge input has no carriage assigned yet")

	flowID := sys.AddFlow(ir.FlowTarget{Port: srcPID, Link: 0})
	sys.AttachFlow(flowID, srcPID)
	sys.AttachFlow(flowID, sinkPID)

	a := &assigner{sys: sys, flowWidth: make(map[ir.FlowID]int)}
	got := a.crossingWidth(sys.Port(srcPID), sys.Port(sinkPID))
	assert.Equal(t, 8, got, "crossing width must come from the flow's source fields, not the bare merge-side Physical map")
}

func TestNoClockCrossWithinOneTerminal(t *testing.T) {
	sys := ir.NewSystem("t")
	nodeID := sys.AddNode(ir.Node{Name: "producer", Kind: ir.KindInstance})
	clk := sys.AddPort(nodeID, "clk", ir.IfClock, ir.DirIn)
	out1 := sys.AddPort(nodeID, "out1", ir.IfData, ir.DirOut)
	out2 := sys.AddPort(nodeID, "out2", ir.IfData, ir.DirIn)
	sys.BindClock(out1, clk)
	sys.BindClock(out2, clk)
	sys.Connect(out1, out2)

	require.NoError(t, Run(sys, logctx.Nop()))

	for _, n := range sys.Nodes() {
		assert.NotEqual(t, ir.KindClockCross, n.Kind)
	}
}
