package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonathanScottRose/GENIE-sub001/internal/ir"
	"github.com/JonathanScottRose/GENIE-sub001/internal/registry"
)

func validComponent(name string) *ir.Component {
	return &ir.Component{
		Name: name,
		Interfaces: []ir.Interface{
			{Name: "clk", Type: ir.IfClock, Dir: ir.DirIn},
			{Name: "out", Type: ir.IfData, Dir: ir.DirOut, ClockIntf: "clk"},
		},
	}
}

func TestInternAndLookupRoundTrip(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Intern(validComponent("widget")))

	comp, ok := reg.Lookup("widget")
	require.True(t, ok)
	assert.Equal(t, "widget", comp.Name)

	_, ok = reg.Lookup("does-not-exist")
	assert.False(t, ok)
}

func TestInternRejectsDuplicateName(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Intern(validComponent("widget")))
	err := reg.Intern(validComponent("widget"))
	assert.Error(t, err)
}

func TestInternRejectsDataInterfaceWithoutClockReference(t *testing.T) {
	reg := registry.New()
	bad := &ir.Component{
		Name: "broken",
		Interfaces: []ir.Interface{
			{Name: "out", Type: ir.IfData, Dir: ir.DirOut},
		},
	}
	assert.Error(t, reg.Intern(bad))
}

func TestMustLookupWrapsMissingNameAsError(t *testing.T) {
	reg := registry.New()
	_, err := reg.MustLookup("ghost")
	assert.Error(t, err)
}
