package ir

import "github.com/JonathanScottRose/GENIE-sub001/internal/expr"

// chainResolver resolves a name against an ordered list of Resolvers,
// returning the first hit. Used to layer instance parameter bindings
// over component parameter defaults over system-global parameters.
type chainResolver struct {
	layers []expr.Resolver
}

func (c *chainResolver) Resolve(name string) (expr.Node, bool) {
	for _, l := range c.layers {
		if n, ok := l.Resolve(name); ok {
			return n, true
		}
	}
	return nil, false
}

type mapNodeResolver map[string]expr.Node

func (m mapNodeResolver) Resolve(name string) (expr.Node, bool) {
	n, ok := m[expr.Canonical(name)]
	return n, ok
}

func foldKeys(m map[string]expr.Node) mapNodeResolver {
	out := make(mapNodeResolver, len(m))
	for k, v := range m {
		out[expr.Canonical(k)] = v
	}
	return out
}

// ParamResolver builds the name-resolver for evaluating a Component's
// signal-width expressions in the context of one Instance: instance
// parameter bindings take precedence over the component's own parameter
// defaults, which take precedence over the system's global parameters.
func ParamResolver(sys *System, inst *Instance, comp *Component) expr.Resolver {
	compDefaults := make(map[string]expr.Node)
	for _, p := range comp.Parameters {
		if p.Default != nil {
			compDefaults[p.Name] = p.Default
		}
	}
	return &chainResolver{layers: []expr.Resolver{
		foldKeys(inst.Params),
		foldKeys(compDefaults),
		foldKeys(sys.Params),
	}}
}

// EvalWidth evaluates a signal/parameter width expression, defaulting a
// nil expression (no width declared) to 0.
func EvalWidth(n expr.Node, res expr.Resolver) (int, error) {
	if n == nil {
		return 0, nil
	}
	return expr.Eval(n, res)
}
