package ir

// FlowTarget is one endpoint (port + the declarative Link that produced
// it) of a Flow.
type FlowTarget struct {
	Port PortID
	Link int // index into System.Links
}

// Flow is the runtime traffic class derived from one or more Links that
// share a source linkpoint. A broadcast source produces exactly one
// Flow with many sinks; a unicast source produces one Flow per Link.
type Flow struct {
	ID     FlowID
	Source FlowTarget
	Sinks  []FlowTarget
}

func (f *Flow) LinkIndices() []int {
	idx := []int{f.Source.Link}
	for _, s := range f.Sinks {
		idx = append(idx, s.Link)
	}
	return idx
}
