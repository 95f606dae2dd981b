// Package registerins splices a Register node into every Merge node's
// outbound connection, when enabled by the register_merge compile
// option.
package registerins

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/JonathanScottRose/GENIE-sub001/internal/compiler"
	"github.com/JonathanScottRose/GENIE-sub001/internal/ir"
)

func Run(sys *ir.System, registerMerge bool, log *zap.Logger) error {
	if !registerMerge {
		return nil
	}
	n := sys.NumNodes()
	for i := 0; i < n; i++ {
		nodeID := ir.NodeID(i)
		node := sys.Node(nodeID)
		if node.Kind != ir.KindMerge {
			continue
		}
		outPID, ok := node.PortByName(sys, "out")
		if !ok {
			return compiler.InternalInvariant(fmt.Sprintf("merge node %q has no out port", node.Name), nil)
		}
		outPort := sys.Port(outPID)
		connID := outPort.Conn
		if connID == ir.NoConn {
			continue
		}
		clkPID := node.Ports[0] // the node's clock-sink port, added first by AddClockSinkPort
		clkConn := sys.Port(clkPID).Conn

		regName := fmt.Sprintf("register_%d", sys.NumNodes())
		regID := sys.AddNode(ir.Node{Name: regName, Kind: ir.KindRegister})
		regClk := sys.AddPort(regID, "clk", ir.IfClock, ir.DirIn)
		midIn := sys.AddPort(regID, "in", ir.IfData, ir.DirIn)
		midOut := sys.AddPort(regID, "out", ir.IfData, ir.DirOut)
		sys.BindClock(midIn, regClk)
		sys.BindClock(midOut, regClk)

		if clkConn != ir.NoConn {
			sys.AppendSink(clkConn, regClk)
		}

		sys.Splice(connID, midIn, midOut)
		log.Debug("inserted register on merge output", zap.String("merge", node.Name), zap.String("register", regName))
	}
	return nil
}
