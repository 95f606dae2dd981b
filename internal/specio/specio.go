// Package specio is a reference ingestion adapter: it reads a YAML
// document describing a component library and one system, and builds
// the internal/registry and internal/ir values the compiler passes
// operate on. The real input format is out of scope for this compiler;
// this package exists only so the CLI and tests have a concrete Source
// to read, the way a production compiler ships several front-end
// adapters behind one interface.
package specio

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/JonathanScottRose/GENIE-sub001/internal/expr"
	"github.com/JonathanScottRose/GENIE-sub001/internal/ir"
	"github.com/JonathanScottRose/GENIE-sub001/internal/registry"
)

// Source is anything that can produce a registry and a system. Only
// yamlSource implements it today, but the CLI depends on this
// interface rather than the concrete type.
type Source interface {
	Load() (*registry.Registry, *ir.System, error)
}

// FromFile returns a Source reading the YAML document at path.
func FromFile(path string) Source {
	return &yamlSource{path: path}
}

// FromBytes returns a Source reading an in-memory YAML document, for
// tests that don't want a file on disk.
func FromBytes(content []byte) Source {
	return &yamlSource{raw: content}
}

type yamlSource struct {
	path string
	raw  []byte
}

func (s *yamlSource) Load() (*registry.Registry, *ir.System, error) {
	raw := s.raw
	if raw == nil {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return nil, nil, fmt.Errorf("specio: %w", err)
		}
		raw = b
	}
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("specio: parsing yaml: %w", err)
	}
	return doc.build()
}

// --- YAML document shape ---

type document struct {
	Components []yamlComponent `yaml:"components"`
	System     yamlSystem      `yaml:"system"`
}

type yamlComponent struct {
	Name       string            `yaml:"name"`
	Interfaces []yamlInterface   `yaml:"interfaces"`
	Parameters []yamlParameter   `yaml:"parameters"`
}

type yamlInterface struct {
	Name       string           `yaml:"name"`
	Type       string           `yaml:"type"`
	Dir        string           `yaml:"dir"`
	Clock      string           `yaml:"clock"`
	Signals    []yamlSignal     `yaml:"signals"`
	Linkpoints []yamlLinkpoint  `yaml:"linkpoints"`
}

type yamlSignal struct {
	Role    string `yaml:"role"`
	Subtype string `yaml:"subtype"`
	Width   string `yaml:"width"`
}

type yamlLinkpoint struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Encoding int    `yaml:"encoding"`
}

type yamlParameter struct {
	Name    string `yaml:"name"`
	Default string `yaml:"default"`
}

type yamlSystem struct {
	Name      string            `yaml:"name"`
	Instances []yamlInstance    `yaml:"instances"`
	Exports   []yamlExport      `yaml:"exports"`
	Links     []yamlLink        `yaml:"links"`
	Topology  *yamlTopology     `yaml:"topology"`
	Params    map[string]string `yaml:"params"`
	Queries   []yamlQuery       `yaml:"queries"`
}

// yamlTopology is the declarative routing graph: which source/split/
// merge vertices exist, and which directed edges between them carry
// which links. The real front end is out of scope; this lets a
// hand-written fixture still drive the topology realizer.
type yamlTopology struct {
	Nodes []yamlTopoNode `yaml:"nodes"`
	Edges []yamlTopoEdge `yaml:"edges"`
}

type yamlTopoNode struct {
	Name   string          `yaml:"name"`
	Kind   string          `yaml:"kind"` // "source", "split", "merge"
	Target *yamlLinkTarget `yaml:"target,omitempty"`
}

type yamlTopoEdge struct {
	From  string   `yaml:"from"`
	To    string   `yaml:"to"`
	Links []string `yaml:"links"` // link labels, resolved against System.Links
}

type yamlInstance struct {
	Name      string            `yaml:"name"`
	Component string            `yaml:"component"`
	Params    map[string]string `yaml:"params"`
}

type yamlExport struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Dir  string `yaml:"dir"`
}

type yamlLinkTarget struct {
	Instance  string `yaml:"instance"`
	Interface string `yaml:"interface"`
	Linkpoint string `yaml:"linkpoint"`
}

type yamlLink struct {
	Label string         `yaml:"label"`
	Src   yamlLinkTarget `yaml:"src"`
	Dst   yamlLinkTarget `yaml:"dst"`
}

type yamlQuery struct {
	LinkLabel string `yaml:"link_label"`
	ParamName string `yaml:"param_name"`
}

// --- building internal/ir values from the parsed document ---

func (d *document) build() (*registry.Registry, *ir.System, error) {
	reg := registry.New()
	for _, c := range d.Components {
		comp, err := c.toComponent()
		if err != nil {
			return nil, nil, fmt.Errorf("specio: component %q: %w", c.Name, err)
		}
		if err := reg.Intern(comp); err != nil {
			return nil, nil, fmt.Errorf("specio: %w", err)
		}
	}

	sys := ir.NewSystem(d.System.Name)
	for name, val := range d.System.Params {
		n, err := expr.Parse(val)
		if err != nil {
			return nil, nil, fmt.Errorf("specio: system param %q: %w", name, err)
		}
		sys.Params[name] = n
	}
	for _, inst := range d.System.Instances {
		params := make(map[string]expr.Node, len(inst.Params))
		for name, val := range inst.Params {
			n, err := expr.Parse(val)
			if err != nil {
				return nil, nil, fmt.Errorf("specio: instance %q param %q: %w", inst.Name, name, err)
			}
			params[name] = n
		}
		sys.Instances = append(sys.Instances, ir.Instance{Name: inst.Name, Component: inst.Component, Params: params})
	}
	for _, exp := range d.System.Exports {
		typ, err := parseInterfaceType(exp.Type)
		if err != nil {
			return nil, nil, fmt.Errorf("specio: export %q: %w", exp.Name, err)
		}
		dir, err := parseDirection(exp.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("specio: export %q: %w", exp.Name, err)
		}
		sys.Exports = append(sys.Exports, ir.Export{Name: exp.Name, Type: typ, Dir: dir})
	}
	linkIndexByLabel := make(map[string]int, len(d.System.Links))
	for _, l := range d.System.Links {
		idx := len(sys.Links)
		sys.Links = append(sys.Links, ir.Link{
			Label: l.Label,
			Src:   ir.LinkTarget{Instance: l.Src.Instance, Interface: l.Src.Interface, Linkpoint: l.Src.Linkpoint},
			Dst:   ir.LinkTarget{Instance: l.Dst.Instance, Interface: l.Dst.Interface, Linkpoint: l.Dst.Linkpoint},
		})
		if l.Label != "" {
			linkIndexByLabel[l.Label] = idx
		}
	}
	if d.System.Topology != nil {
		if err := buildTopology(sys, d.System.Topology, linkIndexByLabel); err != nil {
			return nil, nil, fmt.Errorf("specio: topology: %w", err)
		}
	}
	for _, q := range d.System.Queries {
		sys.Queries = append(sys.Queries, ir.LatencyQuery{LinkLabel: q.LinkLabel, ParamName: q.ParamName})
	}
	return reg, sys, nil
}

func (c *yamlComponent) toComponent() (*ir.Component, error) {
	comp := &ir.Component{Name: c.Name}
	for _, p := range c.Parameters {
		var def expr.Node
		if p.Default != "" {
			n, err := expr.Parse(p.Default)
			if err != nil {
				return nil, fmt.Errorf("parameter %q default: %w", p.Name, err)
			}
			def = n
		}
		comp.Parameters = append(comp.Parameters, ir.Parameter{Name: p.Name, Default: def})
	}
	for _, iface := range c.Interfaces {
		typ, err := parseInterfaceType(iface.Type)
		if err != nil {
			return nil, fmt.Errorf("interface %q: %w", iface.Name, err)
		}
		dir, err := parseDirection(iface.Dir)
		if err != nil {
			return nil, fmt.Errorf("interface %q: %w", iface.Name, err)
		}
		i := ir.Interface{Name: iface.Name, Type: typ, Dir: dir, ClockIntf: iface.Clock}
		for _, sig := range iface.Signals {
			role, err := parseSignalRole(sig.Role)
			if err != nil {
				return nil, fmt.Errorf("interface %q signal: %w", iface.Name, err)
			}
			var width expr.Node
			if sig.Width != "" {
				w, err := expr.Parse(sig.Width)
				if err != nil {
					return nil, fmt.Errorf("interface %q signal %q width: %w", iface.Name, sig.Role, err)
				}
				width = w
			}
			i.Signals = append(i.Signals, ir.Signal{Role: role, Subtype: sig.Subtype, Width: width})
		}
		for _, lp := range iface.Linkpoints {
			lpType := ir.Unicast
			if lp.Type == "broadcast" {
				lpType = ir.Broadcast
			}
			i.Linkpoints = append(i.Linkpoints, ir.Linkpoint{Name: lp.Name, Type: lpType, Encoding: lp.Encoding})
		}
		comp.Interfaces = append(comp.Interfaces, i)
	}
	return comp, nil
}

func buildTopology(sys *ir.System, t *yamlTopology, linkIndexByLabel map[string]int) error {
	nodeIdx := make(map[string]int, len(t.Nodes))
	for _, n := range t.Nodes {
		kind, err := parseTopoKind(n.Kind)
		if err != nil {
			return fmt.Errorf("node %q: %w", n.Name, err)
		}
		node := ir.TopoNode{Name: n.Name, Kind: kind}
		if n.Target != nil {
			node.Target = ir.LinkTarget{Instance: n.Target.Instance, Interface: n.Target.Interface, Linkpoint: n.Target.Linkpoint}
		}
		nodeIdx[n.Name] = sys.Topology.AddNode(node)
	}
	for _, e := range t.Edges {
		from, ok := nodeIdx[e.From]
		if !ok {
			return fmt.Errorf("edge references unknown node %q", e.From)
		}
		to, ok := nodeIdx[e.To]
		if !ok {
			return fmt.Errorf("edge references unknown node %q", e.To)
		}
		links := make([]int, 0, len(e.Links))
		for _, label := range e.Links {
			idx, ok := linkIndexByLabel[label]
			if !ok {
				return fmt.Errorf("edge %s->%s references unknown link label %q", e.From, e.To, label)
			}
			links = append(links, idx)
		}
		sys.Topology.AddEdge(from, to, links)
	}
	return nil
}

func parseTopoKind(s string) (ir.TopoNodeKind, error) {
	switch s {
	case "source":
		return ir.TopoSource, nil
	case "split":
		return ir.TopoSplit, nil
	case "merge":
		return ir.TopoMerge, nil
	default:
		return 0, fmt.Errorf("unknown topology node kind %q", s)
	}
}

func parseInterfaceType(s string) (ir.InterfaceType, error) {
	switch s {
	case "clock":
		return ir.IfClock, nil
	case "reset":
		return ir.IfReset, nil
	case "data":
		return ir.IfData, nil
	case "conduit":
		return ir.IfConduit, nil
	default:
		return 0, fmt.Errorf("unknown interface type %q", s)
	}
}

func parseDirection(s string) (ir.Direction, error) {
	switch s {
	case "in":
		return ir.DirIn, nil
	case "out":
		return ir.DirOut, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

func parseSignalRole(s string) (ir.SignalRole, error) {
	switch s {
	case "clock":
		return ir.RoleClock, nil
	case "reset":
		return ir.RoleReset, nil
	case "data":
		return ir.RoleData, nil
	case "header":
		return ir.RoleHeader, nil
	case "valid":
		return ir.RoleValid, nil
	case "ready":
		return ir.RoleReady, nil
	case "sop":
		return ir.RoleSOP, nil
	case "eop":
		return ir.RoleEOP, nil
	case "linkpoint-id":
		return ir.RoleLinkpointID, nil
	case "link-id":
		return ir.RoleLinkID, nil
	case "conduit-in":
		return ir.RoleConduitIn, nil
	case "conduit-out":
		return ir.RoleConduitOut, nil
	default:
		return 0, fmt.Errorf("unknown signal role %q", s)
	}
}
