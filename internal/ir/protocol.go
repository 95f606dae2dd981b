package ir

// LogicalField is a named, width-and-sense field a Port's Protocol
// carries at the logical level (valid, ready, sop, eop, a data bundle,
// flow_id, linkpoint-id, ...).
type LogicalField struct {
	Width int
	Sense Sense
}

// PhysicalField is a concrete bit-vector on the wire that may
// encapsulate several LogicalFields via bit-packing.
type PhysicalField struct {
	Width int
	Sense Sense
	// Fields is the set of logical field names this physical field
	// carries, in the order they were first recorded.
	Fields []string
	// CarriageSets records every concurrent field-set seen at this
	// physical field during carriage propagation; the packer consumes
	// this list to compute co-occurrence during bit packing.
	CarriageSets [][]string
}

func (pf *PhysicalField) hasField(name string) bool {
	for _, f := range pf.Fields {
		if f == name {
			return true
		}
	}
	return false
}

func (pf *PhysicalField) addField(name string) {
	if !pf.hasField(name) {
		pf.Fields = append(pf.Fields, name)
	}
}

// FieldState is the per-logical-field, per-port record of where a field
// lives physically and whether it is produced locally, carried
// pass-through, or defaulted to a constant.
type FieldState struct {
	PhysField    string
	PhysFieldLo  int // < 0 means unallocated
	IsLocal      bool
	IsConst      bool
	ConstValue   BitVal
}

// Protocol describes what a data Port carries after packing: its
// logical fields, the physical fields that encapsulate them, and the
// per-field placement/locality/constness record.
type Protocol struct {
	Logical  map[string]LogicalField
	Physical map[string]*PhysicalField
	State    map[string]FieldState
}

func NewProtocol() *Protocol {
	return &Protocol{
		Logical:  make(map[string]LogicalField),
		Physical: make(map[string]*PhysicalField),
		State:    make(map[string]FieldState),
	}
}

// Has reports whether a logical field is declared on this protocol.
func (p *Protocol) Has(name string) bool {
	_, ok := p.Logical[name]
	return ok
}

// DeclareLogical registers a logical field and initializes its state to
// unlocalized/unallocated if not already present.
func (p *Protocol) DeclareLogical(name string, width int, sense Sense) {
	if _, ok := p.Logical[name]; !ok {
		p.Logical[name] = LogicalField{Width: width, Sense: sense}
	}
	if _, ok := p.State[name]; !ok {
		p.State[name] = FieldState{PhysFieldLo: -1}
	}
}

// PhysicalFieldOrCreate returns (creating if necessary) the named physical field.
func (p *Protocol) PhysicalFieldOrCreate(name string, sense Sense) *PhysicalField {
	pf, ok := p.Physical[name]
	if !ok {
		pf = &PhysicalField{Sense: sense}
		p.Physical[name] = pf
	}
	return pf
}

// AssignLocal marks a logical field as produced/consumed at this node,
// placed inside the named physical field.
func (p *Protocol) AssignLocal(field, physField string) {
	st := p.State[field]
	st.PhysField = physField
	st.IsLocal = true
	p.State[field] = st
	p.PhysicalFieldOrCreate(physField, p.Logical[field].Sense).addField(field)
}

// CarryOnto records that `fields` must be carried (pass-through) on
// physField as one concurrent set, per the carriage propagation
// algorithm. Fields not yet declared locally are
// marked is_local=false.
func (p *Protocol) CarryOnto(physField string, fields []string, sense Sense) {
	if len(fields) == 0 {
		return
	}
	pf := p.PhysicalFieldOrCreate(physField, sense)
	set := append([]string(nil), fields...)
	pf.CarriageSets = append(pf.CarriageSets, set)
	for _, f := range fields {
		pf.addField(f)
		st, ok := p.State[f]
		if !ok {
			st = FieldState{PhysFieldLo: -1}
		}
		if st.PhysField == "" {
			st.PhysField = physField
			st.IsLocal = false
		}
		p.State[f] = st
	}
}

// CopyCarriage copies an upstream Protocol's physical-field entry (and
// every logical-field/field-state entry it contains) so that a
// downstream pass-through port's layout agrees bit-for-bit with what
// propagation already settled on upstream.
func (p *Protocol) CopyCarriage(upstream *Protocol, physField string) {
	srcPF, ok := upstream.Physical[physField]
	if !ok {
		return
	}
	dstPF := p.PhysicalFieldOrCreate(physField, srcPF.Sense)
	dstPF.Width = srcPF.Width
	for _, f := range srcPF.Fields {
		dstPF.addField(f)
		lf := upstream.Logical[f]
		p.Logical[f] = lf
		st := upstream.State[f]
		p.State[f] = st
	}
	dstPF.CarriageSets = append(dstPF.CarriageSets, srcPF.CarriageSets...)
}
