package expr

import "fmt"

// ParamCycle reports a cycle detected while recursively resolving named
// parameter references.
type ParamCycle struct {
	Chain []string
}

func (e *ParamCycle) Error() string {
	s := "expr: parameter cycle: "
	for i, n := range e.Chain {
		if i > 0 {
			s += " -> "
		}
		s += n
	}
	return s
}

// MapResolver is a simple Resolver backed by a name->Node map, folding
// lookups to the canonical (lower) case the way ir.ParamResolver folds
// parameter names on insertion and lookup.
type MapResolver struct {
	Defs map[string]Node
}

func NewMapResolver() *MapResolver {
	return &MapResolver{Defs: make(map[string]Node)}
}

func (r *MapResolver) Set(name string, n Node) {
	r.Defs[Canonical(name)] = n
}

func (r *MapResolver) Resolve(name string) (Node, bool) {
	n, ok := r.Defs[Canonical(name)]
	return n, ok
}

// Canonical folds a parameter name to the case-insensitive canonical
// form used for storage and lookup.
func Canonical(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// Eval evaluates n against res, detecting reference cycles across the
// whole recursive resolution (not just direct self-reference). This is
// the entry point production code should call instead of n.Eval directly,
// since it is what establishes the cycle-tracking chain that Ref.Eval
// relies on.
func Eval(n Node, res Resolver) (int, error) {
	return n.Eval(&tracker{base: res, seen: nil})
}

// tracker wraps a Resolver with the chain of parameter names currently
// being expanded, so a Ref encountered anywhere in the recursive
// evaluation can detect a cycle back to an ancestor.
type tracker struct {
	base Resolver
	seen []string
}

func (t *tracker) Resolve(name string) (Node, bool) { return t.base.Resolve(name) }

func evalRef(name string, res Resolver) (int, error) {
	t, ok := res.(*tracker)
	if !ok {
		t = &tracker{base: res}
	}
	canon := Canonical(name)
	for _, s := range t.seen {
		if s == canon {
			return 0, &ParamCycle{Chain: append(append([]string{}, t.seen...), canon)}
		}
	}
	def, ok := t.base.Resolve(name)
	if !ok {
		return 0, fmt.Errorf("expr: unresolved parameter %q", name)
	}
	next := &tracker{base: t.base, seen: append(append([]string{}, t.seen...), canon)}
	return def.Eval(next)
}
