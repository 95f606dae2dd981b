package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonathanScottRose/GENIE-sub001/internal/ir"
	"github.com/JonathanScottRose/GENIE-sub001/internal/logctx"
)

// chainWithRegisters builds src -> reg1 -> ... -> regN -> sink, N+1
// connections with numRegisters Register nodes on the route, and
// records a single Link/Flow over it.
func chainWithRegisters(sys *ir.System, numRegisters int) (linkIdx int, sinkPID ir.PortID) {
	srcNode := sys.AddNode(ir.Node{Name: "producer", Kind: ir.KindInstance})
	srcPID := sys.AddPort(srcNode, "out", ir.IfData, ir.DirOut)

	current := srcPID
	for i := 0; i < numRegisters; i++ {
		regID := sys.AddNode(ir.Node{Name: "reg", Kind: ir.KindRegister})
		regIn := sys.AddPort(regID, "in", ir.IfData, ir.DirIn)
		regOut := sys.AddPort(regID, "out", ir.IfData, ir.DirOut)
		sys.Connect(current, regIn)
		current = regOut
	}

	dstNode := sys.AddNode(ir.Node{Name: "consumer", Kind: ir.KindInstance})
	dstPID := sys.AddPort(dstNode, "in", ir.IfData, ir.DirIn)
	sys.Connect(current, dstPID)

	sys.Links = append(sys.Links, ir.Link{Label: "L0"})
	linkIdx = len(sys.Links) - 1

	flowID := sys.AddFlow(ir.FlowTarget{Port: srcPID, Link: linkIdx})
	sys.AttachFlow(flowID, dstPID)

	return linkIdx, dstPID
}

func TestTraceCountsRegistersAlongRoute(t *testing.T) {
	sys := ir.NewSystem("t")
	_, _ = chainWithRegisters(sys, 2)
	sys.Queries = append(sys.Queries, ir.LatencyQuery{LinkLabel: "L0", ParamName: "lat"})

	require.NoError(t, Run(sys, logctx.Nop()))

	node, ok := sys.Params["lat"]
	require.True(t, ok)
	val, err := node.Eval(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, val)
}

func TestTraceZeroRegisters(t *testing.T) {
	sys := ir.NewSystem("t")
	chainWithRegisters(sys, 0)
	sys.Queries = append(sys.Queries, ir.LatencyQuery{LinkLabel: "L0", ParamName: "lat"})

	require.NoError(t, Run(sys, logctx.Nop()))

	node := sys.Params["lat"]
	val, err := node.Eval(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, val)
}

func TestUnknownLinkLabelIsSpecError(t *testing.T) {
	sys := ir.NewSystem("t")
	chainWithRegisters(sys, 1)
	sys.Queries = append(sys.Queries, ir.LatencyQuery{LinkLabel: "does-not-exist", ParamName: "lat"})

	err := Run(sys, logctx.Nop())
	require.Error(t, err)
}
