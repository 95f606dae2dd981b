package ir

// Side tables carry per-node data that is specific to one pass and does
// not belong on every Node: tagged variants on each IR type plus named,
// typed side-tables when a pass needs to attach transient data.

// ConverterRow is one (linkpoint-encoding, flow-id) entry in a
// FlowConvert node's lookup table.
type ConverterRow struct {
	Encoding int
	FlowID   FlowID
}

// FlowConvertParams is the data a FlowConvert node is parameterized by.
type FlowConvertParams struct {
	LPToFlow bool // true: linkpoint-id -> flow-id; false: flow-id -> linkpoint-id
	InWidth  int
	OutWidth int
	Table    []ConverterRow
}

// System.FlowConvertParams is populated by internal/pass/convert.
func (s *System) SetFlowConvertParams(n NodeID, p FlowConvertParams) {
	if s.flowConvertParams == nil {
		s.flowConvertParams = make(map[NodeID]FlowConvertParams)
	}
	s.flowConvertParams[n] = p
}

func (s *System) FlowConvertParams(n NodeID) (FlowConvertParams, bool) {
	p, ok := s.flowConvertParams[n]
	return p, ok
}
