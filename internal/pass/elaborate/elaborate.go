// Package elaborate expands a System
// specification into the initial netlist (one Instance node per
// spec-instance, one Export node, and one Flow per unique source
// linkpoint appearing in the system's links).
package elaborate

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/JonathanScottRose/GENIE-sub001/internal/compiler"
	"github.com/JonathanScottRose/GENIE-sub001/internal/ir"
	"github.com/JonathanScottRose/GENIE-sub001/internal/registry"
)

// Run elaborates sys in place against reg, returning a *compiler.Error
// on any BadReference or UnicastFanout condition.
func Run(sys *ir.System, reg *registry.Registry, log *zap.Logger) error {
	e := &elaborator{sys: sys, reg: reg, log: log}
	if err := e.buildInstances(); err != nil {
		return err
	}
	e.buildExport()
	if err := e.buildFlows(); err != nil {
		return err
	}
	return nil
}

type elaborator struct {
	sys *ir.System
	reg *registry.Registry
	log *zap.Logger
}

func (e *elaborator) buildInstances() error {
	for _, inst := range e.sys.Instances {
		comp, err := e.reg.MustLookup(inst.Component)
		if err != nil {
			return compiler.SpecError(fmt.Sprintf("instance %q", inst.Name), err)
		}
		nodeID := e.sys.AddNode(ir.Node{Name: inst.Name, Kind: ir.KindInstance, Component: comp.Name})
		res := ir.ParamResolver(e.sys, &inst, comp)

		// Two passes over the interface list: clock/reset ports first, so
		// every data interface's ClockIntf reference resolves to an
		// already-created sibling port on this same node.
		ifacePort := make(map[string]ir.PortID, len(comp.Interfaces))
		for _, iface := range comp.Interfaces {
			if iface.Type == ir.IfData {
				continue
			}
			portID := e.sys.AddPort(nodeID, iface.Name, iface.Type, iface.Dir)
			e.sys.Port(portID).Signals = append(e.sys.Port(portID).Signals, iface.Signals...)
			ifacePort[iface.Name] = portID
		}

		for _, iface := range comp.Interfaces {
			if iface.Type != ir.IfData {
				continue
			}
			portID := e.sys.AddPort(nodeID, iface.Name, iface.Type, iface.Dir)
			port := e.sys.Port(portID)
			port.Signals = append(port.Signals, iface.Signals...)
			if clkPort, ok := ifacePort[iface.ClockIntf]; ok {
				port.ClockPort = clkPort
			}
			for _, sig := range iface.Signals {
				width, err := ir.EvalWidth(sig.Width, res)
				if err != nil {
					return compiler.SpecError(fmt.Sprintf("%s.%s width", inst.Name, iface.Name), err)
				}
				if sig.Role.IsControl() {
					width = 1
				}
				port.Protocol.DeclareLogical(ir.FieldName(sig), width, sig.Sense())
				port.Protocol.AssignLocal(ir.FieldName(sig), ir.XData)
			}
		}
		e.log.Debug("elaborated instance", zap.String("instance", inst.Name), zap.String("component", comp.Name))
	}
	return nil
}

func (e *elaborator) buildExport() {
	nodeID := e.sys.AddNode(ir.Node{Name: "export", Kind: ir.KindExport})
	for _, exp := range e.sys.Exports {
		// the node faces inward: an export declared as seen from outside
		// the system has its Export-node-side port in the opposite
		// direction.
		e.sys.AddPort(nodeID, exp.Name, exp.Type, exp.Dir.Reversed())
	}
}

func (e *elaborator) buildFlows() error {
	type binKey struct{ inst, iface, lp string }
	bins := make(map[binKey][]int)
	var order []binKey
	for idx, link := range e.sys.Links {
		k := binKey{link.Src.Instance, link.Src.Interface, link.Src.Linkpoint}
		if _, seen := bins[k]; !seen {
			order = append(order, k)
		}
		bins[k] = append(bins[k], idx)
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].inst != order[j].inst {
			return order[i].inst < order[j].inst
		}
		if order[i].iface != order[j].iface {
			return order[i].iface < order[j].iface
		}
		return order[i].lp < order[j].lp
	})

	for _, k := range order {
		linkIdxs := bins[k]
		srcPort, srcLP, err := e.resolveTarget(e.sys.Links[linkIdxs[0]].Src)
		if err != nil {
			return compiler.SpecError("resolving link source", err)
		}
		if srcLP.Type == ir.Unicast && len(linkIdxs) > 1 {
			return compiler.TopologyError(
				fmt.Sprintf("unicast linkpoint %s.%s.%s drives %d links", k.inst, k.iface, k.lp, len(linkIdxs)), nil)
		}
		if srcLP.Type == ir.Broadcast {
			flowID := e.sys.AddFlow(ir.FlowTarget{Port: srcPort, Link: linkIdxs[0]})
			e.sys.AttachFlow(flowID, srcPort)
			e.sys.Port(srcPort).AddLink(linkIdxs[0])
			flow := e.sys.Flow(flowID)
			for _, li := range linkIdxs {
				dstPort, _, err := e.resolveTarget(e.sys.Links[li].Dst)
				if err != nil {
					return compiler.SpecError("resolving link destination", err)
				}
				flow.Sinks = append(flow.Sinks, ir.FlowTarget{Port: dstPort, Link: li})
				e.sys.AttachFlow(flowID, dstPort)
				e.sys.Port(dstPort).AddLink(li)
			}
		} else {
			li := linkIdxs[0]
			flowID := e.sys.AddFlow(ir.FlowTarget{Port: srcPort, Link: li})
			e.sys.AttachFlow(flowID, srcPort)
			e.sys.Port(srcPort).AddLink(li)
			dstPort, _, err := e.resolveTarget(e.sys.Links[li].Dst)
			if err != nil {
				return compiler.SpecError("resolving link destination", err)
			}
			flow := e.sys.Flow(flowID)
			flow.Sinks = append(flow.Sinks, ir.FlowTarget{Port: dstPort, Link: li})
			e.sys.AttachFlow(flowID, dstPort)
			e.sys.Port(dstPort).AddLink(li)
		}
	}
	return nil
}

// resolveTarget finds the concrete Port for a LinkTarget, plus the
// Linkpoint definition if the target names an instance interface (the
// Export side has no Linkpoint).
func (e *elaborator) resolveTarget(t ir.LinkTarget) (ir.PortID, ir.Linkpoint, error) {
	if t.Instance == "" {
		nodeID, ok := e.sys.NodeByName("export")
		if !ok {
			return ir.NoPort, ir.Linkpoint{}, fmt.Errorf("BadReference: export node missing")
		}
		pid, ok := e.sys.Node(nodeID).PortByName(e.sys, t.Interface)
		if !ok {
			return ir.NoPort, ir.Linkpoint{}, fmt.Errorf("BadReference: unknown export %q", t.Interface)
		}
		return pid, ir.Linkpoint{}, nil
	}
	nodeID, ok := e.sys.NodeByName(t.Instance)
	if !ok {
		return ir.NoPort, ir.Linkpoint{}, fmt.Errorf("BadReference: unknown instance %q", t.Instance)
	}
	pid, ok := e.sys.Node(nodeID).PortByName(e.sys, t.Interface)
	if !ok {
		return ir.NoPort, ir.Linkpoint{}, fmt.Errorf("BadReference: unknown interface %q on instance %q", t.Interface, t.Instance)
	}
	comp, err := e.reg.MustLookup(e.sys.Node(nodeID).Component)
	if err != nil {
		return ir.NoPort, ir.Linkpoint{}, err
	}
	iface, ok := comp.Interface(t.Interface)
	if !ok {
		return ir.NoPort, ir.Linkpoint{}, fmt.Errorf("BadReference: interface %q not on component %q", t.Interface, comp.Name)
	}
	lp, ok := iface.Linkpoint(t.Linkpoint)
	if !ok {
		return ir.NoPort, ir.Linkpoint{}, fmt.Errorf("BadReference: unknown linkpoint %q on %s.%s", t.Linkpoint, t.Instance, t.Interface)
	}
	return pid, lp, nil
}
