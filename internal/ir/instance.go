package ir

import "github.com/JonathanScottRose/GENIE-sub001/internal/expr"

// Instance is a use of a Component inside a System.
type Instance struct {
	Name      string
	Component string // name-only reference into the registry
	Params    map[string]expr.Node
}

// Export is a top-level port of the system. Dir is the direction as
// seen from OUTSIDE the system (the conventional way a top-level port
// is declared); the Export node's internal-facing Port reverses it
// (the Export node faces inward).
type Export struct {
	Name string
	Type InterfaceType
	Dir  Direction
}

// LinkTarget is the (instance, interface, linkpoint) triple a Link's
// endpoint names. Instance == "" denotes a top-level Export.
type LinkTarget struct {
	Instance  string
	Interface string
	Linkpoint string
}

// Link is a declarative directed connection at linkpoint granularity.
type Link struct {
	Label string // unique, optional
	Src   LinkTarget
	Dst   LinkTarget
}
