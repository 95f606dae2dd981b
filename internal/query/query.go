// Package query confirms the finalized netlist is fully wired, then
// resolves latency queries: for each (link label, param name) binding a
// system declares, it walks the netlist along that link's route and
// binds the named parameter to the number of Register nodes the route
// passes through.
package query

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/JonathanScottRose/GENIE-sub001/internal/compiler"
	"github.com/JonathanScottRose/GENIE-sub001/internal/expr"
	"github.com/JonathanScottRose/GENIE-sub001/internal/graphutil"
	"github.com/JonathanScottRose/GENIE-sub001/internal/ir"
)

func Run(sys *ir.System, log *zap.Logger) error {
	if err := checkConnectivity(sys); err != nil {
		return err
	}
	for _, q := range sys.Queries {
		linkIdx, ok := findLinkByLabel(sys, q.LinkLabel)
		if !ok {
			return compiler.SpecError(fmt.Sprintf("latency query references unknown link label %q", q.LinkLabel), nil)
		}
		flowID, ok := sys.FlowForLink(linkIdx)
		if !ok {
			return compiler.RoutingError(fmt.Sprintf("link %q was never elaborated into a flow", q.LinkLabel), nil)
		}
		flow := sys.Flow(flowID)
		latency, err := trace(sys, flow.Source.Port, linkIdx)
		if err != nil {
			return err
		}
		sys.Params[q.ParamName] = expr.Lit(latency)
		log.Debug("resolved latency query",
			zap.String("link", q.LinkLabel), zap.String("param", q.ParamName), zap.Int("registers", latency))
	}
	return nil
}

// checkConnectivity confirms every flow's sinks are reachable from its
// source over the connections the netlist has wired so far (passing
// through each interconnect node from its input data ports to its output
// data ports), raising RoutingError for a disconnected required port
// before any latency is traced — a malformed route that trace's forward
// walk would otherwise just silently stop short of.
func checkConnectivity(sys *ir.System) error {
	ports := sys.Ports()
	g := graphutil.New(len(ports))
	for _, conn := range sys.Connections() {
		for _, sink := range conn.Sinks {
			g.AddEdge(graphutil.VertexID(conn.Src), graphutil.VertexID(sink), 1)
		}
	}
	for _, node := range sys.Nodes() {
		if node.Kind == ir.KindInstance || node.Kind == ir.KindExport {
			continue // a route ends at an instance or export; it never passes through one
		}
		for _, in := range node.Ports {
			for _, out := range node.Ports {
				pin, pout := sys.Port(in), sys.Port(out)
				if pin.Type == ir.IfData && pin.Dir == ir.DirIn && pout.Type == ir.IfData && pout.Dir == ir.DirOut {
					g.AddEdge(graphutil.VertexID(in), graphutil.VertexID(out), 1)
				}
			}
		}
	}

	for _, flow := range sys.Flows() {
		dist, _ := graphutil.Dijkstra(g, graphutil.VertexID(flow.Source.Port))
		for _, sink := range flow.Sinks {
			if dist[sink.Port] == graphutil.Unreached {
				return compiler.RoutingError(
					fmt.Sprintf("flow %d: sink port is disconnected from its source port", flow.ID), nil)
			}
		}
	}
	return nil
}

func findLinkByLabel(sys *ir.System, label string) (int, bool) {
	for i, l := range sys.Links {
		if l.Label == label {
			return i, true
		}
	}
	return -1, false
}

// trace walks forward from the data port that originates linkIdx,
// hopping from a node's inbound data port to whichever of its outbound
// data ports still carries linkIdx, until it reaches a port with no
// further connection (an Instance or Export sink). visited guards
// against a malformed netlist that loops back on itself.
func trace(sys *ir.System, start ir.PortID, linkIdx int) (int, error) {
	latency := 0
	visited := make(map[ir.PortID]bool)
	current := start
	for {
		if visited[current] {
			return 0, compiler.RoutingError(
				fmt.Sprintf("cycle detected routing link index %d", linkIdx), nil)
		}
		visited[current] = true

		port := sys.Port(current)
		if sys.Node(port.Node).Kind == ir.KindRegister {
			latency++
		}

		connID := port.Conn
		if connID == ir.NoConn {
			return latency, nil
		}
		nextPort, ok := downstreamSibling(sys, connID, linkIdx)
		if !ok {
			return latency, nil
		}
		node := sys.Node(sys.Port(nextPort).Node)
		if node.Kind == ir.KindInstance || node.Kind == ir.KindExport {
			return latency, nil
		}
		outPort, ok := outboundSibling(sys, nextPort, linkIdx)
		if !ok {
			return latency, nil
		}
		current = outPort
	}
}

// downstreamSibling picks, from a connection's sink list, the one sink
// port whose recorded Links include linkIdx.
func downstreamSibling(sys *ir.System, connID ir.ConnID, linkIdx int) (ir.PortID, bool) {
	conn := sys.Conn(connID)
	for _, pid := range conn.Sinks {
		if sys.Port(pid).HasLink(linkIdx) {
			return pid, true
		}
	}
	if len(conn.Sinks) == 1 {
		return conn.Sinks[0], true
	}
	return ir.NoPort, false
}

// outboundSibling finds the output-direction data port, on the same
// node as inPort, that carries linkIdx onward — the single "out" port
// of most interconnect nodes, or whichever "outK" port of a Split
// actually routes this link.
func outboundSibling(sys *ir.System, inPort ir.PortID, linkIdx int) (ir.PortID, bool) {
	p := sys.Port(inPort)
	node := sys.Node(p.Node)
	var candidates []ir.PortID
	for _, pid := range node.Ports {
		pp := sys.Port(pid)
		if pp.Type == ir.IfData && pp.Dir == ir.DirOut {
			candidates = append(candidates, pid)
		}
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}
	for _, pid := range candidates {
		if sys.Port(pid).HasLink(linkIdx) {
			return pid, true
		}
	}
	return ir.NoPort, false
}
