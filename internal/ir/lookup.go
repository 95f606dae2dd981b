package ir

// FindPort resolves a LinkTarget to the concrete Port already created by
// elaboration. It does not validate linkpoints — that is
// the elaborator's job — it just locates the node/port pair.
func (s *System) FindPort(t LinkTarget) (PortID, bool) {
	name := t.Instance
	if name == "" {
		name = "export"
	}
	nodeID, ok := s.NodeByName(name)
	if !ok {
		return NoPort, false
	}
	return s.Node(nodeID).PortByName(s, t.Interface)
}
