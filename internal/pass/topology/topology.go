// Package topology instantiates Split/Merge
// nodes from the System's TopologyGraph and splicing connections between
// the concrete ports they and the pre-existing Instance/Export ports
// resolve to.
package topology

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/JonathanScottRose/GENIE-sub001/internal/compiler"
	"github.com/JonathanScottRose/GENIE-sub001/internal/ir"
)

// Run realizes sys.Topology into netlist Split/Merge nodes and
// connections. Determinism comes entirely from iterating
// TopologyGraph.Edges in their recorded (insertion) order.
func Run(sys *ir.System, log *zap.Logger) error {
	r := &realizer{
		sys:       sys,
		nodeID:    make(map[int]ir.NodeID),
		outPorts:  make(map[int][]ir.PortID),
		inPorts:   make(map[int][]ir.PortID),
		nextOut:   make(map[int]int),
		nextIn:    make(map[int]int),
	}
	if err := r.instantiateSplitsAndMerges(); err != nil {
		return err
	}
	return r.wireEdges(log)
}

type realizer struct {
	sys      *ir.System
	nodeID   map[int]ir.NodeID // topology node index -> netlist node id (split/merge only)
	outPorts map[int][]ir.PortID
	inPorts  map[int][]ir.PortID
	nextOut  map[int]int
	nextIn   map[int]int
}

func (r *realizer) instantiateSplitsAndMerges() error {
	g := r.sys.Topology
	for i, tn := range g.Nodes {
		switch tn.Kind {
		case ir.TopoSplit:
			fanout := len(g.EdgesFrom(i))
			if fanout == 0 {
				return compiler.TopologyError(fmt.Sprintf("split node %q has no outgoing edges", tn.Name), nil)
			}
			name := tn.Name
			if name == "" {
				name = fmt.Sprintf("split_%d", i)
			}
			nodeID := r.sys.AddNode(ir.Node{Name: name, Kind: ir.KindSplit})
			r.sys.AddClockSinkPort(nodeID)
			r.sys.AddPort(nodeID, "in", ir.IfData, ir.DirIn)
			var outs []ir.PortID
			for o := 0; o < fanout; o++ {
				pid := r.sys.AddPort(nodeID, fmt.Sprintf("out%d", o), ir.IfData, ir.DirOut)
				r.sys.BindClock(pid, r.sys.Node(nodeID).Ports[0])
				outs = append(outs, pid)
			}
			inPID, _ := r.sys.Node(nodeID).PortByName(r.sys, "in")
			r.sys.BindClock(inPID, r.sys.Node(nodeID).Ports[0])
			r.nodeID[i] = nodeID
			r.outPorts[i] = outs
		case ir.TopoMerge:
			fanin := len(g.EdgesTo(i))
			if fanin == 0 {
				return compiler.TopologyError(fmt.Sprintf("merge node %q has no incoming edges", tn.Name), nil)
			}
			name := tn.Name
			if name == "" {
				name = fmt.Sprintf("merge_%d", i)
			}
			nodeID := r.sys.AddNode(ir.Node{Name: name, Kind: ir.KindMerge})
			r.sys.AddClockSinkPort(nodeID)
			var ins []ir.PortID
			for in := 0; in < fanin; in++ {
				pid := r.sys.AddPort(nodeID, fmt.Sprintf("in%d", in), ir.IfData, ir.DirIn)
				r.sys.BindClock(pid, r.sys.Node(nodeID).Ports[0])
				ins = append(ins, pid)
			}
			outPID := r.sys.AddPort(nodeID, "out", ir.IfData, ir.DirOut)
			r.sys.BindClock(outPID, r.sys.Node(nodeID).Ports[0])
			r.nodeID[i] = nodeID
			r.inPorts[i] = ins
		}
	}
	return nil
}

func (r *realizer) portFor(topoIdx int, asSource bool) (ir.PortID, error) {
	g := r.sys.Topology
	tn := g.Nodes[topoIdx]
	switch tn.Kind {
	case ir.TopoSource:
		pid, ok := r.sys.FindPort(tn.Target)
		if !ok {
			return ir.NoPort, compiler.TopologyError(fmt.Sprintf("unresolved topology endpoint %q", tn.Name), nil)
		}
		return pid, nil
	case ir.TopoSplit:
		if asSource {
			idx := r.nextOut[topoIdx]
			ports := r.outPorts[topoIdx]
			if idx >= len(ports) {
				return ir.NoPort, compiler.TopologyError(fmt.Sprintf("split %q fan-out exceeded", tn.Name), nil)
			}
			r.nextOut[topoIdx]++
			return ports[idx], nil
		}
		nodeID := r.nodeID[topoIdx]
		pid, _ := r.sys.Node(nodeID).PortByName(r.sys, "in")
		return pid, nil
	case ir.TopoMerge:
		if !asSource {
			idx := r.nextIn[topoIdx]
			ports := r.inPorts[topoIdx]
			if idx >= len(ports) {
				return ir.NoPort, compiler.TopologyError(fmt.Sprintf("merge %q fan-in exceeded", tn.Name), nil)
			}
			r.nextIn[topoIdx]++
			return ports[idx], nil
		}
		nodeID := r.nodeID[topoIdx]
		pid, _ := r.sys.Node(nodeID).PortByName(r.sys, "out")
		return pid, nil
	default:
		return ir.NoPort, compiler.InternalInvariant("unknown topology node kind", nil)
	}
}

func (r *realizer) wireEdges(log *zap.Logger) error {
	g := r.sys.Topology
	for _, e := range g.Edges {
		srcPort, err := r.portFor(e.From, true)
		if err != nil {
			return err
		}
		dstPort, err := r.portFor(e.To, false)
		if err != nil {
			return err
		}
		src := r.sys.Port(srcPort)
		if src.Conn == ir.NoConn {
			r.sys.Connect(srcPort, dstPort)
		} else {
			r.sys.AppendSink(src.Conn, dstPort)
		}
		for _, li := range e.Links {
			flowID, ok := r.sys.FlowForLink(li)
			if !ok {
				return compiler.InternalInvariant(fmt.Sprintf("link %d has no owning flow", li), nil)
			}
			r.sys.AttachFlow(flowID, srcPort)
			r.sys.AttachFlow(flowID, dstPort)
			r.sys.Port(srcPort).AddLink(li)
			r.sys.Port(dstPort).AddLink(li)
		}
		log.Debug("wired topology edge",
			zap.String("src", fmt.Sprintf("%s.%s", r.sys.Node(src.Node).Name, src.Name)),
			zap.String("dst", fmt.Sprintf("%s.%s", r.sys.Node(r.sys.Port(dstPort).Node).Name, r.sys.Port(dstPort).Name)),
		)
	}
	return nil
}

