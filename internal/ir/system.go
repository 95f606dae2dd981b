package ir

import "github.com/JonathanScottRose/GENIE-sub001/internal/expr"

// LatencyQuery binds a link label to a parameter name that will receive
// the register-count latency of its route.
type LatencyQuery struct {
	LinkLabel string
	ParamName string
}

// System is the container for one compile unit: instances, exports,
// links, topology, and — once the netlist passes run — the arenas of
// Node, Port, Connection and Flow values they populate. The System owns
// all of these; nothing outlives it.
type System struct {
	Name string
	// Parent supports the hierarchical/nested-system naming scheme
	// described in original_source/include/ct/hierarchy.h; nil for a
	// top-level system. Not an ownership edge: Parent is read-only
	// context for diagnostics, never traversed by the passes.
	Parent *System

	Instances       []Instance
	Exports         []Export
	Links           []Link
	Topology        *TopologyGraph
	ExclusionGroups [][]int // groups of Link indices that never transmit simultaneously
	Params          map[string]expr.Node
	Queries         []LatencyQuery

	// Netlist arenas, populated by internal/pass/*.
	nodes       []Node
	ports       []Port
	connections []Connection
	flows       []Flow

	nodeByName map[string]NodeID

	flowConvertParams map[NodeID]FlowConvertParams
}

func NewSystem(name string) *System {
	return &System{
		Name:       name,
		Topology:   &TopologyGraph{},
		Params:     make(map[string]expr.Node),
		nodeByName: make(map[string]NodeID),
	}
}

// FullName joins ancestor system names with '.', supporting the
// hierarchical naming scheme; for a top-level system it is just Name.
func (s *System) FullName() string {
	if s.Parent == nil {
		return s.Name
	}
	return s.Parent.FullName() + "." + s.Name
}

// --- Node arena ---

func (s *System) AddNode(n Node) NodeID {
	id := NodeID(len(s.nodes))
	s.nodes = append(s.nodes, n)
	if n.Name != "" {
		s.nodeByName[n.Name] = id
	}
	return id
}

func (s *System) Node(id NodeID) *Node { return &s.nodes[id] }

func (s *System) NodeByName(name string) (NodeID, bool) {
	id, ok := s.nodeByName[name]
	return id, ok
}

func (s *System) Nodes() []Node { return s.nodes }

func (s *System) NumNodes() int { return len(s.nodes) }

// --- Port arena ---

// AddPort creates a new port on node `nodeID` and appends it to that
// node's port list, returning the new port's id.
func (s *System) AddPort(nodeID NodeID, name string, typ InterfaceType, dir Direction) PortID {
	p := newPort(name, typ, dir, nodeID)
	id := PortID(len(s.ports))
	s.ports = append(s.ports, p)
	node := s.Node(nodeID)
	node.Ports = append(node.Ports, id)
	return id
}

func (s *System) Port(id PortID) *Port { return &s.ports[id] }

func (s *System) Ports() []Port { return s.ports }

// --- Connection arena ---

// Connect establishes a new connection from src to sinks, setting each
// port's Conn field. It is the caller's responsibility to ensure src
// and each sink don't already have conflicting connections (at most one
// inbound connection per input port).
func (s *System) Connect(src PortID, sinks ...PortID) ConnID {
	id := ConnID(len(s.connections))
	s.connections = append(s.connections, Connection{Src: src, Sinks: append([]PortID{}, sinks...)})
	s.Port(src).Conn = id
	for _, sink := range sinks {
		s.Port(sink).Conn = id
	}
	return id
}

// AppendSink adds another sink to an existing connection (used when a
// source fans out to a second destination, e.g. building up a Split's
// output set incrementally).
func (s *System) AppendSink(id ConnID, sink PortID) {
	s.connections[id].Sinks = append(s.connections[id].Sinks, sink)
	s.Port(sink).Conn = id
}

func (s *System) Conn(id ConnID) *Connection { return &s.connections[id] }

func (s *System) Connections() []Connection { return s.connections }

// SpliceSink detaches a single sink from connection `id`, rewiring it as
// src -> midIn (remaining part of the original connection) and
// midOut -> sink (a new connection), returning the new connection's id.
// Used when only one branch of a fan-out connection needs an
// interconnect node spliced in front of it (e.g. a FlowConvert whose
// direction differs per sink).
func (s *System) SpliceSink(id ConnID, sink, midIn, midOut PortID) ConnID {
	conn := &s.connections[id]
	for i, p := range conn.Sinks {
		if p == sink {
			conn.Sinks[i] = midIn
			break
		}
	}
	s.Port(midIn).Conn = id
	newID := ConnID(len(s.connections))
	s.connections = append(s.connections, Connection{Src: midOut, Sinks: []PortID{sink}})
	s.Port(midOut).Conn = newID
	s.Port(sink).Conn = newID
	return newID
}

// Splice replaces connection `id` with two connections: src -> mid and
// mid -> (original sinks), used to insert an interconnect node (e.g. a
// FlowConvert, ClockCross, or Register) into an existing connection.
// The original connection is destroyed.
func (s *System) Splice(id ConnID, midIn, midOut PortID) {
	orig := s.connections[id]
	s.connections[id] = Connection{Src: orig.Src, Sinks: []PortID{midIn}}
	s.Port(orig.Src).Conn = id
	s.Port(midIn).Conn = id
	newID := ConnID(len(s.connections))
	s.connections = append(s.connections, Connection{Src: midOut, Sinks: orig.Sinks})
	s.Port(midOut).Conn = newID
	for _, sink := range orig.Sinks {
		s.Port(sink).Conn = newID
	}
}

// --- Flow arena ---

func (s *System) AddFlow(source FlowTarget) FlowID {
	id := FlowID(len(s.flows))
	s.flows = append(s.flows, Flow{ID: id, Source: source})
	return id
}

func (s *System) Flow(id FlowID) *Flow { return &s.flows[id] }

func (s *System) Flows() []Flow { return s.flows }

// AttachFlow records flow `id` on the given port; callers attach a Flow
// to each of its ends with one call per port.
func (s *System) AttachFlow(id FlowID, port PortID) {
	s.Port(port).AddFlow(id)
}

// FlowForLink finds the Flow that a given Link (by index into
// System.Links) belongs to.
func (s *System) FlowForLink(linkIdx int) (FlowID, bool) {
	for _, f := range s.flows {
		for _, idx := range f.LinkIndices() {
			if idx == linkIdx {
				return f.ID, true
			}
		}
	}
	return NoFlow, false
}
