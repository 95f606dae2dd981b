// Package primcat loads a primitive catalog from a TOML document: one
// table per primitive component naming its area and power.
//
//	[component.fifo_32x8]
//	area_um2 = 1024.5
//	power_mw = 3.2
package primcat

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/JonathanScottRose/GENIE-sub001/internal/primitive"
)

type document struct {
	Component map[string]entry `toml:"component"`
}

type entry struct {
	AreaUM2 float64 `toml:"area_um2"`
	PowerMW float64 `toml:"power_mw"`
}

// Load parses the TOML file at path into a *primitive.Catalog.
func Load(path string) (*primitive.Catalog, error) {
	var doc document
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("primcat: %w", err)
	}
	return buildCatalog(doc), nil
}

// LoadString parses TOML content directly, for tests that don't want a
// file on disk.
func LoadString(content string) (*primitive.Catalog, error) {
	var doc document
	if _, err := toml.Decode(content, &doc); err != nil {
		return nil, fmt.Errorf("primcat: %w", err)
	}
	return buildCatalog(doc), nil
}

func buildCatalog(doc document) *primitive.Catalog {
	names := make([]string, 0, len(doc.Component))
	for name := range doc.Component {
		names = append(names, name)
	}
	sort.Strings(names)

	infos := make([]primitive.Info, 0, len(names))
	for _, name := range names {
		e := doc.Component[name]
		infos = append(infos, primitive.Info{
			Component: name,
			AreaUM2:   e.AreaUM2,
			PowerMW:   e.PowerMW,
		})
	}
	return primitive.NewCatalog(infos)
}
