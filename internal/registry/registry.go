// Package registry holds the component definitions a System's instances
// reference by name. Components are interned once from
// the parsed specification and persist read-only for the rest of the
// compile. Unlike a global module registry, which registers
// modules into a package-level global at init() time, a Registry here is
// an explicit value threaded through the compile driver — consistent
// with the idea that primitive metadata (and, by the
// same reasoning, component metadata) be explicit data rather than
// hidden global registration.
package registry

import (
	"fmt"

	"github.com/JonathanScottRose/GENIE-sub001/internal/ir"
)

// Registry is a name -> *ir.Component table. Component names are
// case-sensitive; only parameter names are folded to canonical case
// (handled by internal/expr's resolver, not here).
type Registry struct {
	components map[string]*ir.Component
}

func New() *Registry {
	return &Registry{components: make(map[string]*ir.Component)}
}

// Intern adds a component definition. It is an error to redefine a name
// that is already present (duplicate definitions are a SpecError).
func (r *Registry) Intern(c *ir.Component) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, exists := r.components[c.Name]; exists {
		return fmt.Errorf("registry: duplicate component definition %q", c.Name)
	}
	r.components[c.Name] = c
	return nil
}

// Lookup finds a component by exact (case-sensitive) name.
func (r *Registry) Lookup(name string) (*ir.Component, bool) {
	c, ok := r.components[name]
	return c, ok
}

// MustLookup is the same as Lookup but returns a BadReference-style
// error, for callers (the elaborator) that want to propagate it as a
// SpecError without individually formatting "unknown component".
func (r *Registry) MustLookup(name string) (*ir.Component, error) {
	c, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("registry: unknown component %q", name)
	}
	return c, nil
}

// All returns every interned component in no particular order; callers
// that need determinism must sort by name themselves.
func (r *Registry) All() []*ir.Component {
	out := make([]*ir.Component, 0, len(r.components))
	for _, c := range r.components {
		out = append(out, c)
	}
	return out
}
