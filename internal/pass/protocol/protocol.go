// Package protocol is the algorithmic core of the compiler: propagating
// which logical fields a connection must carry on behalf of the Flows
// routed over it, then greedily bit-packing each physical field so that
// fields which are ever simultaneously required never overlap.
package protocol

import (
	"sort"

	"go.uber.org/zap"

	"github.com/JonathanScottRose/GENIE-sub001/internal/ir"
)

func Run(sys *ir.System, log *zap.Logger) error {
	propagateAllFlows(sys)
	mirrorInterconnectSides(sys)
	ensureLocalSets(sys)
	packAllPorts(sys)
	log.Debug("protocol carriage propagated and packed", zap.Int("ports", len(sys.Ports())))
	return nil
}

// --- Carriage propagation ---

// propagateAllFlows runs the backward carriage walk for every
// (Flow, sink) pair twice: once for forward-sense fields (data, valid,
// sop, eop, flow_id, linkpoint-id, ...) recorded on the xdata physical
// field, and once for reverse-sense fields (ready) recorded on
// xdata_rev. Both walks start at the same sink port and move toward
// the flow's source in the same order; only which side adds and which
// side removes differs, and that difference is entirely captured by
// the Sense filter, so one walk function serves both.
func propagateAllFlows(sys *ir.System) {
	for _, flow := range sys.Flows() {
		for _, sink := range flow.Sinks {
			propagateSense(sys, sink.Port, flow.ID, ir.Forward, ir.XData)
			propagateSense(sys, sink.Port, flow.ID, ir.Reverse, ir.XDataRev)
		}
	}
}

func propagateSense(sys *ir.System, startSink ir.PortID, flow ir.FlowID, sense ir.Sense, physField string) {
	var carriage []string
	current := startSink
	for {
		sinkPort := sys.Port(current)
		carriage = addLocalFields(carriage, sinkPort.Protocol, sense)

		conn := sinkPort.Conn
		if conn == ir.NoConn {
			return
		}
		srcPID := sys.Conn(conn).Src
		srcPort := sys.Port(srcPID)

		carriage = subtractLocalFields(carriage, srcPort.Protocol, sense)
		srcPort.Protocol.CarryOnto(physField, sortedCopy(carriage), sense)

		srcNode := sys.Node(srcPort.Node)
		if srcNode.Kind == ir.KindInstance || srcNode.Kind == ir.KindExport {
			return
		}
		next, ok := upstreamSibling(sys, srcPID, flow)
		if !ok {
			return
		}
		current = next
	}
}

func addLocalFields(existing []string, p *ir.Protocol, sense ir.Sense) []string {
	if p == nil {
		return existing
	}
	var add []string
	for f, st := range p.State {
		if st.IsLocal && p.Logical[f].Sense == sense {
			add = append(add, f)
		}
	}
	sort.Strings(add)
	for _, f := range add {
		existing = appendIfMissing(existing, f)
	}
	return existing
}

func subtractLocalFields(existing []string, p *ir.Protocol, sense ir.Sense) []string {
	if p == nil {
		return existing
	}
	var remaining []string
	for _, f := range existing {
		st, ok := p.State[f]
		if ok && st.IsLocal && p.Logical[f].Sense == sense {
			continue
		}
		remaining = append(remaining, f)
	}
	return remaining
}

func appendIfMissing(list []string, f string) []string {
	for _, x := range list {
		if x == f {
			return list
		}
	}
	return append(list, f)
}

func sortedCopy(list []string) []string {
	out := append([]string(nil), list...)
	sort.Strings(out)
	return out
}

// upstreamSibling finds the input-direction data port, on the same node
// as `port`, that feeds it for the given flow — the single "in" port
// for Split/FlowConvert/Register/ClockCross, or whichever "inK" port of
// a Merge actually carries this flow.
func upstreamSibling(sys *ir.System, port ir.PortID, flow ir.FlowID) (ir.PortID, bool) {
	p := sys.Port(port)
	node := sys.Node(p.Node)
	var candidates []ir.PortID
	for _, pid := range node.Ports {
		pp := sys.Port(pid)
		if pp.Type == ir.IfData && pp.Dir == ir.DirIn {
			candidates = append(candidates, pid)
		}
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}
	for _, pid := range candidates {
		if sys.Port(pid).HasFlow(flow) {
			return pid, true
		}
	}
	return ir.NoPort, false
}

// --- Mirroring node-internal sides that never receive a CarryOnto of their own ---

// The backward walk only ever calls CarryOnto on the port that plays
// the *source* role of a connection — which, for Split.in and every
// Merge.inK and the "in" side of Register/ClockCross, never happens:
// those ports are always the *sink* role of the connection feeding
// them. Physically they still have to carry exactly what their node's
// other side carries (a split fans one wire to many; a register or
// clock-crossing buffer doesn't change the data), so their layout is
// copied rather than packed independently.
//
// FlowConvert is the one exception: its two sides genuinely differ (one
// carries flow_id locally, the other linkpoint-id), so only the
// non-local, pass-through fields are copied across.
func mirrorInterconnectSides(sys *ir.System) {
	n := sys.NumNodes()
	for i := 0; i < n; i++ {
		node := sys.Node(ir.NodeID(i))
		switch node.Kind {
		case ir.KindSplit:
			inPID, inOk := node.PortByName(sys, "in")
			out0PID, outOk := node.PortByName(sys, "out0")
			if inOk && outOk {
				copyAllPhysical(sys.Port(inPID).Protocol, sys.Port(out0PID).Protocol)
			}
		case ir.KindMerge:
			outPID, ok := node.PortByName(sys, "out")
			if !ok {
				continue
			}
			outProto := sys.Port(outPID).Protocol
			for _, pid := range node.Ports {
				p := sys.Port(pid)
				if p.Type == ir.IfData && p.Dir == ir.DirIn {
					copyAllPhysical(p.Protocol, outProto)
				}
			}
		case ir.KindRegister, ir.KindClockCross:
			inPID, inOk := node.PortByName(sys, "in")
			outPID, outOk := node.PortByName(sys, "out")
			if inOk && outOk {
				copyAllPhysical(sys.Port(inPID).Protocol, sys.Port(outPID).Protocol)
			}
		case ir.KindFlowConvert:
			inPID, inOk := node.PortByName(sys, "lp_in")
			outPID, outOk := node.PortByName(sys, "flow_out")
			if !inOk {
				inPID, inOk = node.PortByName(sys, "flow_in")
				outPID, outOk = node.PortByName(sys, "lp_out")
			}
			if inOk && outOk {
				copyPassThroughOnly(sys.Port(inPID).Protocol, sys.Port(outPID).Protocol, ir.XData)
				copyPassThroughOnly(sys.Port(inPID).Protocol, sys.Port(outPID).Protocol, ir.XDataRev)
			}
		}
	}
}

func copyAllPhysical(dst, src *ir.Protocol) {
	names := make([]string, 0, len(src.Physical))
	for name := range src.Physical {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		dst.CopyCarriage(src, name)
	}
}

// copyPassThroughOnly brings over only the fields `src` carries
// pass-through (is_local=false) on physField, leaving dst's own
// locally-assigned fields untouched.
func copyPassThroughOnly(dst, src *ir.Protocol, physField string) {
	srcPF, ok := src.Physical[physField]
	if !ok {
		return
	}
	var passThrough []string
	for _, f := range srcPF.Fields {
		if src.State[f].IsLocal {
			continue
		}
		passThrough = append(passThrough, f)
		if lf, ok := src.Logical[f]; ok {
			dst.DeclareLogical(f, lf.Width, lf.Sense)
		}
	}
	if len(passThrough) == 0 {
		return
	}
	dst.CarryOnto(physField, sortedCopy(passThrough), srcPF.Sense)
}

// --- Local-field co-occurrence ---

// ensureLocalSets makes sure a port's own locally-produced/consumed
// fields are recorded as co-occurring with every carriage set already
// seen on the same physical field, so the packer below never lets a
// pass-through field share bits with one this node actually reads or
// drives every cycle.
func ensureLocalSets(sys *ir.System) {
	for _, port := range sys.Ports() {
		if port.Protocol == nil {
			continue
		}
		for _, pf := range port.Protocol.Physical {
			var locals []string
			for _, f := range pf.Fields {
				if port.Protocol.State[f].IsLocal {
					locals = append(locals, f)
				}
			}
			if len(locals) == 0 {
				continue
			}
			sort.Strings(locals)
			if len(pf.CarriageSets) == 0 {
				pf.CarriageSets = append(pf.CarriageSets, locals)
				continue
			}
			for i, set := range pf.CarriageSets {
				pf.CarriageSets[i] = unionSorted(set, locals)
			}
		}
	}
}

func unionSorted(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, f := range a {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	for _, f := range b {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

// --- Bit packing ---

func packAllPorts(sys *ir.System) {
	for _, port := range sys.Ports() {
		if port.Protocol == nil {
			continue
		}
		for _, pf := range port.Protocol.Physical {
			placed := packField(pf, port.Protocol.Logical)
			for f, lo := range placed {
				st := port.Protocol.State[f]
				st.PhysFieldLo = lo
				port.Protocol.State[f] = st
			}
		}
	}
}

// packField implements the greedy deterministic bit-packing algorithm:
// fields are placed in descending occurrence order (ties broken by
// name), each at the lowest offset that doesn't collide with any
// already-placed field it was ever seen co-occurring with.
func packField(pf *ir.PhysicalField, logical map[string]ir.LogicalField) map[string]int {
	occurrence := make(map[string]int, len(pf.Fields))
	co := make(map[string]map[string]bool, len(pf.Fields))
	for _, f := range pf.Fields {
		co[f] = make(map[string]bool)
	}
	for _, set := range pf.CarriageSets {
		for _, f := range set {
			occurrence[f]++
		}
		for _, f := range set {
			if co[f] == nil {
				co[f] = make(map[string]bool)
			}
			for _, g := range set {
				if f != g {
					co[f][g] = true
				}
			}
		}
	}

	order := append([]string(nil), pf.Fields...)
	sort.Slice(order, func(i, j int) bool {
		if occurrence[order[i]] != occurrence[order[j]] {
			return occurrence[order[i]] > occurrence[order[j]]
		}
		return order[i] < order[j]
	})

	placed := make(map[string]int, len(order))
	for _, f := range order {
		w := logical[f].Width
		coNames := make([]string, 0, len(co[f]))
		for g := range co[f] {
			coNames = append(coNames, g)
		}
		sort.Strings(coNames)

		pos := 0
	restart:
		for _, g := range coNames {
			lo, ok := placed[g]
			if !ok {
				continue
			}
			gw := logical[g].Width
			if pos < lo+gw && lo < pos+w {
				pos = lo + gw
				goto restart
			}
		}
		placed[f] = pos
		if pos+w > pf.Width {
			pf.Width = pos + w
		}
	}
	return placed
}
