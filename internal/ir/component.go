package ir

import (
	"fmt"

	"github.com/JonathanScottRose/GENIE-sub001/internal/expr"
)

// Signal is one physical wire or wire-vector inside an Interface.
type Signal struct {
	Role    SignalRole
	Subtype string // free-form tag distinguishing multiple data/header bundles
	Width   expr.Node
}

func (s Signal) Sense() Sense { return SenseOf(s.Role) }

// Linkpoint is a logical endpoint within a data Interface. Many
// Linkpoints can share the same underlying physical signals,
// distinguished on the wire by Encoding.
type Linkpoint struct {
	Name     string
	Type     LinkpointType
	Encoding int
}

// Interface is a named group of signals belonging to one direction and
// one protocol family.
type Interface struct {
	Name      string
	Type      InterfaceType
	Dir       Direction
	ClockIntf string // name of the associated clock interface, for IfData
	Signals   []Signal
	Linkpoints []Linkpoint
}

func (i *Interface) Linkpoint(name string) (Linkpoint, bool) {
	for _, lp := range i.Linkpoints {
		if lp.Name == name {
			return lp, true
		}
	}
	return Linkpoint{}, false
}

// Parameter is a symbolic name a Component exposes for instance binding.
type Parameter struct {
	Name    string
	Default expr.Node // nil if no default
}

// Component is a reusable hardware block definition, interned once by
// a registry and referenced thereafter by name only.
type Component struct {
	Name       string
	Interfaces []Interface
	Parameters []Parameter
}

// Interface looks up a named interface, case-sensitively.
func (c *Component) Interface(name string) (*Interface, bool) {
	for i := range c.Interfaces {
		if c.Interfaces[i].Name == name {
			return &c.Interfaces[i], true
		}
	}
	return nil, false
}

// Validate checks the invariant that every data interface names an
// existing clock interface of the same component.
func (c *Component) Validate() error {
	for _, iface := range c.Interfaces {
		if iface.Type != IfData {
			continue
		}
		if iface.ClockIntf == "" {
			return fmt.Errorf("ir: data interface %s.%s has no associated clock interface", c.Name, iface.Name)
		}
		clk, ok := c.Interface(iface.ClockIntf)
		if !ok {
			return fmt.Errorf("ir: data interface %s.%s references unknown clock interface %q", c.Name, iface.Name, iface.ClockIntf)
		}
		if clk.Type != IfClock {
			return fmt.Errorf("ir: data interface %s.%s references non-clock interface %q", c.Name, iface.Name, iface.ClockIntf)
		}
	}
	return nil
}
