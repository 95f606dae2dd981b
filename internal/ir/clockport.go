package ir

// AddClockSinkPort creates the single clock-sink port an interconnect
// node (Split, Merge, FlowConvert) needs before
// any of its data ports can name an associated clock port, since the
// clock-domain assigner expects every data port already bound to one.
func (s *System) AddClockSinkPort(nodeID NodeID) PortID {
	return s.AddPort(nodeID, "clk", IfClock, DirIn)
}

// BindClock sets dataPort's associated clock port, establishing the
// invariant that every data port has exactly one clock port on the same
// node.
func (s *System) BindClock(dataPort, clockPort PortID) {
	s.Port(dataPort).ClockPort = clockPort
}
