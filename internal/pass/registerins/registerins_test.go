package registerins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonathanScottRose/GENIE-sub001/internal/ir"
	"github.com/JonathanScottRose/GENIE-sub001/internal/logctx"
)

func buildMergeWithSink(sys *ir.System) (mergeID ir.NodeID, sinkPID ir.PortID) {
	mergeID = sys.AddNode(ir.Node{Name: "merge0", Kind: ir.KindMerge})
	sys.AddClockSinkPort(mergeID)
	outPID := sys.AddPort(mergeID, "out", ir.IfData, ir.DirOut)

	sinkNode := sys.AddNode(ir.Node{Name: "consumer", Kind: ir.KindInstance})
	sinkPID = sys.AddPort(sinkNode, "in", ir.IfData, ir.DirIn)

	sys.Connect(outPID, sinkPID)
	return mergeID, sinkPID
}

func TestRegisterInsertedOnMergeOutputWhenEnabled(t *testing.T) {
	sys := ir.NewSystem("t")
	_, sinkPID := buildMergeWithSink(sys)

	require.NoError(t, Run(sys, true, logctx.Nop()))

	var registers int
	for _, n := range sys.Nodes() {
		if n.Kind == ir.KindRegister {
			registers++
		}
	}
	assert.Equal(t, 1, registers, "register_merge=true must splice a Register after the Merge")

	sink := sys.Port(sinkPID)
	require.NotEqual(t, ir.NoConn, sink.Conn)
	upstream := sys.Conn(sink.Conn).Src
	upstreamNode := sys.Node(sys.Port(upstream).Node)
	assert.Equal(t, ir.KindRegister, upstreamNode.Kind, "sink must now be driven by the spliced register, not the merge directly")
}

func TestNoRegisterInsertedWhenDisabled(t *testing.T) {
	sys := ir.NewSystem("t")
	buildMergeWithSink(sys)

	require.NoError(t, Run(sys, false, logctx.Nop()))

	for _, n := range sys.Nodes() {
		assert.NotEqual(t, ir.KindRegister, n.Kind)
	}
}

func TestMergeClockFansOutToInsertedRegister(t *testing.T) {
	sys := ir.NewSystem("t")
	mergeID, _ := buildMergeWithSink(sys)

	mergeClkPID := sys.Node(mergeID).Ports[0]
	clkSrcNode := sys.AddNode(ir.Node{Name: "clksrc", Kind: ir.KindInstance})
	clkSrcPID := sys.AddPort(clkSrcNode, "clk", ir.IfClock, ir.DirOut)
	sys.Connect(clkSrcPID, mergeClkPID)

	require.NoError(t, Run(sys, true, logctx.Nop()))

	clkConnID := sys.Port(mergeClkPID).Conn
	require.NotEqual(t, ir.NoConn, clkConnID)
	sinks := sys.Conn(clkConnID).Sinks
	assert.Len(t, sinks, 2, "register's clock port must be appended as a second sink on the merge's clock fan-out")
}
