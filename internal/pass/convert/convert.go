// Package convert splices a FlowConvert node
// into any connection where exactly one endpoint carries a
// linkpoint-id field and the other does not.
package convert

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/JonathanScottRose/GENIE-sub001/internal/compiler"
	"github.com/JonathanScottRose/GENIE-sub001/internal/ir"
	"github.com/JonathanScottRose/GENIE-sub001/internal/registry"
)

func Run(sys *ir.System, reg *registry.Registry, log *zap.Logger) error {
	// Snapshot connection ids up front: splicing appends new
	// connections, and we must not revisit ones we just created.
	n := len(sys.Connections())
	for id := 0; id < n; id++ {
		if err := processConnection(sys, reg, ir.ConnID(id), log); err != nil {
			return err
		}
	}
	return nil
}

func processConnection(sys *ir.System, reg *registry.Registry, id ir.ConnID, log *zap.Logger) error {
	conn := sys.Conn(id)
	src := sys.Port(conn.Src)
	srcHasLP := src.Protocol != nil && src.Protocol.Has(ir.FieldLinkpoint)
	for _, sinkPID := range append([]ir.PortID(nil), conn.Sinks...) {
		sink := sys.Port(sinkPID)
		sinkHasLP := sink.Protocol != nil && sink.Protocol.Has(ir.FieldLinkpoint)
		if srcHasLP == sinkHasLP {
			continue // both carry it (compatible passthrough assumed) or neither does
		}
		lpToFlow := srcHasLP // converting from the lp side towards the flow side
		lpPort := sinkPID
		if lpToFlow {
			lpPort = conn.Src
		}
		table, err := buildTable(sys, reg, lpPort)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("flowconv_%d", len(sys.Nodes()))
		nodeID := sys.AddNode(ir.Node{Name: name, Kind: ir.KindFlowConvert})
		sys.AddClockSinkPort(nodeID)
		clk := sys.Node(nodeID).Ports[0]

		inWidth := fieldWidth(sys.Port(lpPort).Protocol, ir.FieldLinkpoint)
		outWidth := flowIDWidth(len(table))

		var midIn, midOut ir.PortID
		if lpToFlow {
			midIn = sys.AddPort(nodeID, "lp_in", ir.IfData, ir.DirIn)
			midOut = sys.AddPort(nodeID, "flow_out", ir.IfData, ir.DirOut)
			midIn2 := sys.Port(midIn)
			midIn2.Protocol.DeclareLogical(ir.FieldLinkpoint, inWidth, ir.Forward)
			midIn2.Protocol.AssignLocal(ir.FieldLinkpoint, ir.XData)
			midOut2 := sys.Port(midOut)
			midOut2.Protocol.DeclareLogical(ir.FieldFlowID, outWidth, ir.Forward)
			midOut2.Protocol.AssignLocal(ir.FieldFlowID, ir.XData)
		} else {
			midIn = sys.AddPort(nodeID, "flow_in", ir.IfData, ir.DirIn)
			midOut = sys.AddPort(nodeID, "lp_out", ir.IfData, ir.DirOut)
			midIn2 := sys.Port(midIn)
			midIn2.Protocol.DeclareLogical(ir.FieldFlowID, outWidth, ir.Forward)
			midIn2.Protocol.AssignLocal(ir.FieldFlowID, ir.XData)
			midOut2 := sys.Port(midOut)
			midOut2.Protocol.DeclareLogical(ir.FieldLinkpoint, inWidth, ir.Forward)
			midOut2.Protocol.AssignLocal(ir.FieldLinkpoint, ir.XData)
		}
		sys.BindClock(midIn, clk)
		sys.BindClock(midOut, clk)

		// Carry forward the Flows lpPort already routes so downstream
		// passes (clock-domain edge weighting in particular) see the
		// same traffic on these new mid ports that flowed through the
		// connection before the converter was spliced in.
		for _, fid := range sys.Port(lpPort).Flows {
			sys.AttachFlow(fid, midIn)
			sys.AttachFlow(fid, midOut)
		}

		sys.SpliceSink(id, sinkPID, midIn, midOut)
		sys.SetFlowConvertParams(nodeID, ir.FlowConvertParams{
			LPToFlow: lpToFlow,
			InWidth:  inWidth,
			OutWidth: outWidth,
			Table:    table,
		})

		log.Debug("inserted flow converter",
			zap.String("node", name),
			zap.Bool("lp_to_flow", lpToFlow),
			zap.Int("entries", len(table)))
	}
	return nil
}

func fieldWidth(p *ir.Protocol, field string) int {
	if p == nil {
		return 0
	}
	return p.Logical[field].Width
}

func flowIDWidth(numFlows int) int {
	bits := 0
	n := numFlows - 1
	for n > 0 {
		bits++
		n >>= 1
	}
	return bits
}

// buildTable derives the (linkpoint-encoding, flow-id) rows for the
// Flows traversing lpPort.
func buildTable(sys *ir.System, reg *registry.Registry, lpPort ir.PortID) ([]ir.ConverterRow, error) {
	port := sys.Port(lpPort)
	var rows []ir.ConverterRow
	for _, flowID := range port.Flows {
		flow := sys.Flow(flowID)
		linkIdx, ok := linkForPort(sys, flow, lpPort)
		if !ok {
			continue
		}
		link := sys.Links[linkIdx]
		target := link.Src
		if flow.Source.Port != lpPort {
			target = link.Dst
		}
		enc, err := resolveEncoding(sys, reg, target)
		if err != nil {
			return nil, compiler.SpecError("resolving linkpoint encoding", err)
		}
		rows = append(rows, ir.ConverterRow{Encoding: enc, FlowID: flowID})
	}
	return rows, nil
}

func linkForPort(sys *ir.System, flow *ir.Flow, port ir.PortID) (int, bool) {
	if flow.Source.Port == port {
		return flow.Source.Link, true
	}
	for _, s := range flow.Sinks {
		if s.Port == port {
			return s.Link, true
		}
	}
	return 0, false
}

func resolveEncoding(sys *ir.System, reg *registry.Registry, target ir.LinkTarget) (int, error) {
	nodeID, ok := sys.NodeByName(target.Instance)
	if !ok {
		return 0, fmt.Errorf("unknown instance %q", target.Instance)
	}
	comp, err := reg.MustLookup(sys.Node(nodeID).Component)
	if err != nil {
		return 0, err
	}
	iface, ok := comp.Interface(target.Interface)
	if !ok {
		return 0, fmt.Errorf("unknown interface %q on %q", target.Interface, comp.Name)
	}
	lp, ok := iface.Linkpoint(target.Linkpoint)
	if !ok {
		return 0, fmt.Errorf("unknown linkpoint %q on %s.%s", target.Linkpoint, target.Instance, target.Interface)
	}
	return lp.Encoding, nil
}
