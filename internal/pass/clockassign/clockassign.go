// Package clockassign chooses, for every interconnect node's clock-sink
// port, which clock source drives it, then splices a ClockCross node
// into any data connection whose endpoints still disagree on their
// driving clock after that choice.
package clockassign

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/JonathanScottRose/GENIE-sub001/internal/compiler"
	"github.com/JonathanScottRose/GENIE-sub001/internal/graphutil"
	"github.com/JonathanScottRose/GENIE-sub001/internal/ir"
)

func Run(sys *ir.System, log *zap.Logger) error {
	a := &assigner{
		sys:       sys,
		log:       log,
		vertexOf:  make(map[ir.PortID]int),
		driver:    make(map[ir.PortID]ir.PortID),
		clockConn: make(map[ir.PortID]ir.ConnID),
		flowWidth: make(map[ir.FlowID]int),
	}
	a.collectVertices()
	if err := a.partition(); err != nil {
		return err
	}
	a.wireNonTerminals()
	a.insertClockCrossings()
	return nil
}

type assigner struct {
	sys *ir.System
	log *zap.Logger

	portOf       []ir.PortID // vertex index -> clock PortID
	vertexOf     map[ir.PortID]int
	terminalFlag []bool
	terminals    []int // vertex indices, in ascending discovery order

	driver    map[ir.PortID]ir.PortID // clock PortID -> the terminal clock PortID that drives it
	clockConn map[ir.PortID]ir.ConnID // terminal clock PortID -> its fan-out connection, once created

	flowWidth map[ir.FlowID]int // memoized result of flowPayloadWidth
}

// A terminal is a clock-sink port belonging to a node that already
// names a concrete clock source on its own: an Instance (its component
// declares the clock interface directly) or the Export node (the
// clock is whatever the enclosing system wires to it). Every other
// clock-sink port belongs to an interconnect node an earlier pass
// inserted (Split, Merge, FlowConvert) and still needs a driver chosen.
//
// The data model carries no explicit clock-to-clock Link, so two
// distinct Instance/Export clock ports are never merged into one
// terminal: each is its own domain. That is the conservative reading —
// it can only ever insert an extra ClockCross where a real design
// shares a clock, never silently merge two that don't.
func (a *assigner) collectVertices() {
	for _, node := range a.sys.Nodes() {
		isTerminal := node.Kind == ir.KindInstance || node.Kind == ir.KindExport
		for _, pid := range node.Ports {
			p := a.sys.Port(pid)
			if p.Type != ir.IfClock {
				continue
			}
			v := len(a.portOf)
			a.portOf = append(a.portOf, pid)
			a.vertexOf[pid] = v
			a.terminalFlag = append(a.terminalFlag, isTerminal)
			if isTerminal {
				a.terminals = append(a.terminals, v)
			}
		}
	}
}

func (a *assigner) partition() error {
	type edgeKey struct{ lo, hi int }
	weights := make(map[edgeKey]int)
	for _, conn := range a.sys.Connections() {
		src := a.sys.Port(conn.Src)
		if src.Type != ir.IfData || src.ClockPort == ir.NoPort {
			continue
		}
		srcV, ok := a.vertexOf[src.ClockPort]
		if !ok {
			continue
		}
		for _, sinkID := range conn.Sinks {
			sink := a.sys.Port(sinkID)
			if sink.Type != ir.IfData || sink.ClockPort == ir.NoPort {
				continue
			}
			dstV, ok := a.vertexOf[sink.ClockPort]
			if !ok || dstV == srcV {
				continue
			}
			k := edgeKey{srcV, dstV}
			if k.lo > k.hi {
				k.lo, k.hi = k.hi, k.lo
			}
			weights[k] += a.crossingWidth(src, sink)
		}
	}

	var edges []graphutil.UndirectedEdge
	for k, w := range weights {
		edges = append(edges, graphutil.UndirectedEdge{A: k.lo, B: k.hi, Weight: w})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})

	if len(a.portOf) == 0 {
		return nil
	}
	assignment, unassigned := graphutil.MultiwayCut(len(a.portOf), edges, a.terminals)
	if len(unassigned) > 0 {
		return compiler.ClockError(fmt.Sprintf("%d clock-sink port(s) unreachable from any clock source", len(unassigned)), nil)
	}
	for v, pid := range a.portOf {
		if a.terminalFlag[v] {
			a.driver[pid] = pid
			continue
		}
		termV := a.terminals[assignment[v]]
		a.driver[pid] = a.portOf[termV]
	}
	a.log.Debug("clock domains assigned", zap.Int("vertices", len(a.portOf)), zap.Int("terminals", len(a.terminals)))
	return nil
}

func (a *assigner) wireNonTerminals() {
	for v, pid := range a.portOf {
		if a.terminalFlag[v] {
			continue
		}
		a.driveClock(a.driver[pid], pid)
	}
}

func (a *assigner) driveClock(terminal, sink ir.PortID) {
	if id, ok := a.clockConn[terminal]; ok {
		a.sys.AppendSink(id, sink)
		return
	}
	id := a.sys.Connect(terminal, sink)
	a.clockConn[terminal] = id
}

// insertClockCrossings walks every data connection recorded before
// this pass started — snapshotting the count up front, since splicing
// appends new connections we must not revisit — and splices a
// ClockCross node wherever source and sink disagree on their resolved
// driving clock.
func (a *assigner) insertClockCrossings() {
	n := len(a.sys.Connections())
	for id := 0; id < n; id++ {
		connID := ir.ConnID(id)
		conn := a.sys.Conn(connID)
		src := a.sys.Port(conn.Src)
		if src.Type != ir.IfData || src.ClockPort == ir.NoPort {
			continue
		}
		srcDriver := a.driver[src.ClockPort]
		for _, sinkID := range append([]ir.PortID(nil), conn.Sinks...) {
			sink := a.sys.Port(sinkID)
			if sink.Type != ir.IfData || sink.ClockPort == ir.NoPort {
				continue
			}
			dstDriver := a.driver[sink.ClockPort]
			if srcDriver == dstDriver {
				continue
			}
			a.spliceClockCross(connID, sinkID, srcDriver, dstDriver)
		}
	}
}

func (a *assigner) spliceClockCross(connID ir.ConnID, sinkID ir.PortID, srcDriver, dstDriver ir.PortID) {
	name := fmt.Sprintf("clockcross_%d", a.sys.NumNodes())
	nodeID := a.sys.AddNode(ir.Node{Name: name, Kind: ir.KindClockCross})
	inClk := a.sys.AddPort(nodeID, "in_clock", ir.IfClock, ir.DirIn)
	outClk := a.sys.AddPort(nodeID, "out_clock", ir.IfClock, ir.DirIn)
	midIn := a.sys.AddPort(nodeID, "in", ir.IfData, ir.DirIn)
	midOut := a.sys.AddPort(nodeID, "out", ir.IfData, ir.DirOut)
	a.sys.BindClock(midIn, inClk)
	a.sys.BindClock(midOut, outClk)

	a.sys.SpliceSink(connID, sinkID, midIn, midOut)
	a.driveClock(srcDriver, inClk)
	a.driveClock(dstDriver, outClk)

	a.log.Debug("inserted clock crossing", zap.String("node", name))
}

// crossingWidth approximates the bit width that would have to cross
// clock domains if src and sink ended up on different sides of the cut.
// Bit packing hasn't run yet at this stage, so a Split or Merge port's
// own Protocol.Physical is still empty — reading it directly (as a
// straight field-name intersection between src and sink would) silently
// scores every connection touching one of those nodes as zero-weight,
// which is exactly the set of connections the clock assigner most needs
// to weigh correctly. Instead, walk the Flows the topology realizer
// already attached to both ports and, for each one routed through both,
// charge the width its true originating port declares locally: an
// Instance or Export port's local fields are known in full at elaborate
// time regardless of what stage any interconnect port in between has
// reached.
//
// Several flows can share one connection (a Merge's output, a
// FlowConvert's carrier). Only one is ever in flight on the wire at a
// time, so the estimate takes the widest of them rather than summing —
// summing would overstate a fan-in connection's true crossing cost in
// proportion to how many flows happen to share it.
func (a *assigner) crossingWidth(src, sink *ir.Port) int {
	best := 0
	for _, fid := range src.Flows {
		if !sink.HasFlow(fid) {
			continue
		}
		if w := a.flowPayloadWidth(fid); w > best {
			best = w
		}
	}
	return best
}

// flowPayloadWidth sums the widths of the logical fields a flow's
// source port assigns locally — the payload that would actually cross a
// clock boundary if this flow's route were cut there. Memoized since
// the same flow is consulted once per connection it passes through.
func (a *assigner) flowPayloadWidth(fid ir.FlowID) int {
	if w, ok := a.flowWidth[fid]; ok {
		return w
	}
	total := 0
	srcPort := a.sys.Port(a.sys.Flow(fid).Source.Port)
	if srcPort.Protocol != nil {
		for name, st := range srcPort.Protocol.State {
			if st.IsLocal {
				total += srcPort.Protocol.Logical[name].Width
			}
		}
	}
	a.flowWidth[fid] = total
	return total
}
