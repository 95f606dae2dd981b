// Package defaults resolves every logical field a sink protocol
// declares but never received a value for during carriage propagation:
// control fields default to a constant, flow_id defaults to the single
// Flow routed to that sink when unambiguous, and everything else is
// left to synthesize as a genuine wire (is_const=false).
package defaults

import (
	"go.uber.org/zap"

	"github.com/JonathanScottRose/GENIE-sub001/internal/ir"
)

func Run(sys *ir.System, log *zap.Logger) error {
	for _, conn := range sys.Connections() {
		src := sys.Port(conn.Src)
		if src.Protocol != nil {
			resolveReady(sys, src)
		}
		for _, sinkPID := range conn.Sinks {
			sink := sys.Port(sinkPID)
			if sink.Protocol == nil {
				continue
			}
			resolveForwardControls(sink)
			resolveFlowID(sink)
		}
	}
	log.Debug("default/const resolution complete")
	return nil
}

// resolveForwardControls defaults valid/sop/eop to a constant 1 at a
// sink whenever propagation never assigned them a physical location:
// a port that declares these fields but was never fed them by an
// upstream node is, by construction, always producing them itself.
func resolveForwardControls(sink *ir.Port) {
	for _, name := range []string{ir.FieldValid, ir.FieldSOP, ir.FieldEOP} {
		if !sink.Protocol.Has(name) {
			continue
		}
		st := sink.Protocol.State[name]
		if st.PhysField != "" {
			continue
		}
		setConst(sink.Protocol, name, st, 1)
	}
}

// resolveReady defaults ready (a reverse-sense field) to a constant 1
// at a source whenever the backward carriage walk never carried a real
// ready signal back to it: the source always accepts, unconditionally.
func resolveReady(sys *ir.System, src *ir.Port) {
	if !src.Protocol.Has(ir.FieldReady) {
		return
	}
	st := src.Protocol.State[ir.FieldReady]
	if st.PhysField != "" {
		return
	}
	setConst(src.Protocol, ir.FieldReady, st, 1)
}

// resolveFlowID defaults flow_id at a sink to a constant naming the one
// Flow routed there, when the sink receives exactly one Flow and
// propagation never carried a real flow_id field to it (a Split/Merge
// fan-in point with more than one Flow still needs the genuine wire).
func resolveFlowID(sink *ir.Port) {
	if !sink.Protocol.Has(ir.FieldFlowID) {
		return
	}
	st := sink.Protocol.State[ir.FieldFlowID]
	if st.PhysField != "" {
		return
	}
	if len(sink.Flows) != 1 {
		markNonConst(sink.Protocol, ir.FieldFlowID, st)
		return
	}
	setConst(sink.Protocol, ir.FieldFlowID, st, uint64(sink.Flows[0]))
}

func setConst(p *ir.Protocol, name string, st ir.FieldState, value uint64) {
	width := p.Logical[name].Width
	bv, err := ir.NewBitVal(width, value)
	if err != nil {
		// width 0 happens for an unsized control field on a component
		// that never declared its width explicitly; treat as non-const
		// rather than failing the whole compile.
		markNonConst(p, name, st)
		return
	}
	st.IsConst = true
	st.ConstValue = bv
	p.State[name] = st
}

func markNonConst(p *ir.Protocol, name string, st ir.FieldState) {
	st.IsConst = false
	p.State[name] = st
}
