// Package dotdump renders a Graphviz .dot view of either the
// declarative topology graph (--topo-dot) or the finalized
// point-to-point netlist (--p2p-dot). Node labels on the p2p dump
// include each data port's physical field widths, since nothing else
// in this CLI shows protocol carriage without standing up an RTL
// emitter.
package dotdump

import (
	"fmt"
	"io"
	"sort"

	"github.com/JonathanScottRose/GENIE-sub001/internal/ir"
)

// WriteTopology renders sys.Topology as a directed graph: one vertex per
// TopoNode, one edge per TopoEdge labeled with the link indices it
// multiplexes.
func WriteTopology(w io.Writer, sys *ir.System) error {
	fmt.Fprintf(w, "digraph topology {\n")
	fmt.Fprintf(w, "  rankdir=LR;\n")
	ids := make([]string, len(sys.Topology.Nodes))
	for i, n := range sys.Topology.Nodes {
		ids[i] = topoNodeID(i, n.Name)
		fmt.Fprintf(w, "  %s [label=%q];\n", ids[i], fmt.Sprintf("%s\\n%s", n.Name, topoKindLabel(n.Kind)))
	}
	for _, e := range sys.Topology.Edges {
		fmt.Fprintf(w, "  %s -> %s [label=%q];\n", ids[e.From], ids[e.To], fmt.Sprint(e.Links))
	}
	fmt.Fprintf(w, "}\n")
	return nil
}

// topoNodeID mirrors a topology vertex's name as its Graphviz id, the
// same way WritePointToPoint uses netlist instance names, since both
// dumps exist so a reader can match a node in the rendering back to the
// name it was given. An unnamed source vertex falls back to its index
// so the id stays unique and non-empty.
func topoNodeID(i int, name string) string {
	if name == "" {
		return fmt.Sprintf("%q", fmt.Sprintf("t%d", i))
	}
	return fmt.Sprintf("%q", name)
}

func topoKindLabel(k ir.TopoNodeKind) string {
	switch k {
	case ir.TopoSource:
		return "source"
	case ir.TopoSplit:
		return "split"
	case ir.TopoMerge:
		return "merge"
	default:
		return "?"
	}
}

// WritePointToPoint renders the finalized netlist: one vertex per Node,
// one edge per (Connection source, sink) pair, with data port labels
// annotated with their packed physical field widths.
func WritePointToPoint(w io.Writer, sys *ir.System) error {
	fmt.Fprintf(w, "digraph p2p {\n")
	fmt.Fprintf(w, "  rankdir=LR;\n")
	nodes := sys.Nodes()
	for i := range nodes {
		n := &nodes[i]
		fmt.Fprintf(w, "  %s [shape=record label=%q];\n", netlistNodeID(n), nodeLabel(sys, ir.NodeID(i), n))
	}
	for _, conn := range sys.Connections() {
		srcNode := sys.Node(sys.Port(conn.Src).Node)
		for _, sinkPID := range conn.Sinks {
			dstNode := sys.Node(sys.Port(sinkPID).Node)
			fmt.Fprintf(w, "  %s -> %s [label=%q];\n", netlistNodeID(srcNode), netlistNodeID(dstNode), sys.Port(sinkPID).Name)
		}
	}
	fmt.Fprintf(w, "}\n")
	return nil
}

// netlistNodeID mirrors a Node's own name as its Graphviz id, so a
// point-to-point dump's node ids read the same as the instance/split/
// merge names a user would already recognize, rather than an opaque
// positional index.
func netlistNodeID(n *ir.Node) string {
	return fmt.Sprintf("%q", n.Name)
}

func nodeLabel(sys *ir.System, id ir.NodeID, n *ir.Node) string {
	label := fmt.Sprintf("%s\\n(%s)", n.Name, n.Kind)
	for _, pid := range n.Ports {
		p := sys.Port(pid)
		if p.Type != ir.IfData || p.Protocol == nil {
			continue
		}
		label += "\\n" + p.Name + ": " + physicalFieldsSummary(p.Protocol)
	}
	return label
}

func physicalFieldsSummary(p *ir.Protocol) string {
	names := make([]string, 0, len(p.Physical))
	for name := range p.Physical {
		names = append(names, name)
	}
	sort.Strings(names)
	out := ""
	for i, name := range names {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s[%d]", name, p.Physical[name].Width)
	}
	return out
}
