package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonathanScottRose/GENIE-sub001/internal/ir"
)

func TestPackFieldNonOverlapping(t *testing.T) {
	pf := &ir.PhysicalField{
		Fields: []string{"data", "valid", "flow_id"},
		CarriageSets: [][]string{
			{"data", "valid", "flow_id"},
			{"data", "valid"},
		},
	}
	logical := map[string]ir.LogicalField{
		"data":    {Width: 8},
		"valid":   {Width: 1},
		"flow_id": {Width: 2},
	}
	placed := packField(pf, logical)
	require.Len(t, placed, 3)

	occupied := make(map[int]string)
	for name, lo := range placed {
		w := logical[name].Width
		for b := lo; b < lo+w; b++ {
			if other, taken := occupied[b]; taken {
				t.Fatalf("bit %d double-booked by %q and %q", b, other, name)
			}
			occupied[b] = name
		}
	}
	assert.GreaterOrEqual(t, pf.Width, 11)
}

func TestPackFieldDeterministic(t *testing.T) {
	pf := func() *ir.PhysicalField {
		return &ir.PhysicalField{
			Fields:       []string{"a", "b", "c"},
			CarriageSets: [][]string{{"a", "b"}, {"b", "c"}, {"a", "c"}},
		}
	}
	logical := map[string]ir.LogicalField{
		"a": {Width: 2}, "b": {Width: 3}, "c": {Width: 1},
	}
	first := packField(pf(), logical)
	for i := 0; i < 5; i++ {
		again := packField(pf(), logical)
		assert.Equal(t, first, again)
	}
}

func TestCopyPassThroughOnlyExcludesLocals(t *testing.T) {
	src := ir.NewProtocol()
	src.DeclareLogical("flow_id", 2, ir.Forward)
	src.AssignLocal("flow_id", ir.XData)
	src.DeclareLogical("data", 8, ir.Forward)
	src.CarryOnto(ir.XData, []string{"data"}, ir.Forward)

	dst := ir.NewProtocol()
	dst.DeclareLogical("linkpoint_id", 1, ir.Forward)
	dst.AssignLocal("linkpoint_id", ir.XData)

	copyPassThroughOnly(dst, src, ir.XData)

	assert.True(t, dst.Has("data"))
	assert.False(t, dst.State["data"].IsLocal)
	assert.False(t, dst.Has("flow_id"), "locally-produced field on src must not leak into dst")
	assert.True(t, dst.State["linkpoint_id"].IsLocal, "dst's own local field must survive untouched")
}

func TestEnsureLocalSetsUnionsIntoExistingSets(t *testing.T) {
	sys := ir.NewSystem("t")
	nodeID := sys.AddNode(ir.Node{Name: "n", Kind: ir.KindInstance})
	pid := sys.AddPort(nodeID, "p", ir.IfData, ir.DirOut)
	port := sys.Port(pid)
	port.Protocol.DeclareLogical("valid", 1, ir.Forward)
	port.Protocol.AssignLocal("valid", ir.XData)
	port.Protocol.CarryOnto(ir.XData, []string{"data"}, ir.Forward)
	port.Protocol.DeclareLogical("data", 8, ir.Forward)

	ensureLocalSets(sys)

	pf := port.Protocol.Physical[ir.XData]
	require.Len(t, pf.CarriageSets, 1)
	assert.ElementsMatch(t, []string{"data", "valid"}, pf.CarriageSets[0])
}
