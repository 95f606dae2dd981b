package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JonathanScottRose/GENIE-sub001/internal/ir"
	"github.com/JonathanScottRose/GENIE-sub001/internal/primcat"
)

func TestSummarizeSumsKnownInstancesAndTracksMissing(t *testing.T) {
	sys := ir.NewSystem("t")
	sys.Instances = []ir.Instance{
		{Name: "a0", Component: "fifo_32x8"},
		{Name: "a1", Component: "fifo_32x8"},
		{Name: "b0", Component: "unknown_widget"},
	}

	cat, err := primcat.LoadString(`
[component.fifo_32x8]
area_um2 = 10.0
power_mw = 1.0
`)
	assert.NoError(t, err)

	s := Summarize(sys, cat)
	assert.Equal(t, 20.0, s.TotalAreaUM2)
	assert.Equal(t, 2.0, s.TotalPowerMW)
	assert.Equal(t, []string{"unknown_widget"}, s.Missing)
	assert.Contains(t, s.String(), "unknown_widget")
}

func TestSummarizeEmptySystem(t *testing.T) {
	sys := ir.NewSystem("t")
	cat, err := primcat.LoadString("")
	assert.NoError(t, err)

	s := Summarize(sys, cat)
	assert.Equal(t, 0.0, s.TotalAreaUM2)
	assert.Empty(t, s.Missing)
}
