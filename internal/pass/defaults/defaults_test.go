package defaults

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonathanScottRose/GENIE-sub001/internal/ir"
	"github.com/JonathanScottRose/GENIE-sub001/internal/logctx"
)

func TestResolveForwardControlsDefaultsToConstOne(t *testing.T) {
	sys := ir.NewSystem("t")
	srcNode := sys.AddNode(ir.Node{Name: "src", Kind: ir.KindInstance})
	dstNode := sys.AddNode(ir.Node{Name: "dst", Kind: ir.KindInstance})
	srcPID := sys.AddPort(srcNode, "out", ir.IfData, ir.DirOut)
	dstPID := sys.AddPort(dstNode, "in", ir.IfData, ir.DirIn)

	dst := sys.Port(dstPID)
	dst.Protocol.DeclareLogical(ir.FieldValid, 1, ir.Forward)
	dst.Protocol.DeclareLogical(ir.FieldSOP, 1, ir.Forward)

	sys.Connect(srcPID, dstPID)

	require.NoError(t, Run(sys, logctx.Nop()))

	vst := dst.Protocol.State[ir.FieldValid]
	assert.True(t, vst.IsConst)
	assert.Equal(t, uint64(1), vst.ConstValue.Value)

	sst := dst.Protocol.State[ir.FieldSOP]
	assert.True(t, sst.IsConst)
}

func TestResolveFlowIDDefaultsWhenSingleFlow(t *testing.T) {
	sys := ir.NewSystem("t")
	srcNode := sys.AddNode(ir.Node{Name: "src", Kind: ir.KindInstance})
	dstNode := sys.AddNode(ir.Node{Name: "dst", Kind: ir.KindInstance})
	srcPID := sys.AddPort(srcNode, "out", ir.IfData, ir.DirOut)
	dstPID := sys.AddPort(dstNode, "in", ir.IfData, ir.DirIn)

	dst := sys.Port(dstPID)
	dst.Protocol.DeclareLogical(ir.FieldFlowID, 3, ir.Forward)

	flowID := sys.AddFlow(ir.FlowTarget{Port: srcPID})
	sys.AttachFlow(flowID, dstPID)

	sys.Connect(srcPID, dstPID)

	require.NoError(t, Run(sys, logctx.Nop()))

	fst := dst.Protocol.State[ir.FieldFlowID]
	assert.True(t, fst.IsConst)
	assert.Equal(t, uint64(flowID), fst.ConstValue.Value)
}

func TestResolveReadyDefaultsAtSource(t *testing.T) {
	sys := ir.NewSystem("t")
	srcNode := sys.AddNode(ir.Node{Name: "src", Kind: ir.KindInstance})
	dstNode := sys.AddNode(ir.Node{Name: "dst", Kind: ir.KindInstance})
	srcPID := sys.AddPort(srcNode, "out", ir.IfData, ir.DirOut)
	dstPID := sys.AddPort(dstNode, "in", ir.IfData, ir.DirIn)

	src := sys.Port(srcPID)
	src.Protocol.DeclareLogical(ir.FieldReady, 1, ir.Reverse)

	sys.Connect(srcPID, dstPID)

	require.NoError(t, Run(sys, logctx.Nop()))

	rst := src.Protocol.State[ir.FieldReady]
	assert.True(t, rst.IsConst)
	assert.Equal(t, uint64(1), rst.ConstValue.Value)
}
