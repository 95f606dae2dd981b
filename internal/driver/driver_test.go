package driver_test

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonathanScottRose/GENIE-sub001/internal/driver"
	"github.com/JonathanScottRose/GENIE-sub001/internal/ir"
	"github.com/JonathanScottRose/GENIE-sub001/internal/logctx"
	"github.com/JonathanScottRose/GENIE-sub001/internal/specio"
)

const fixtureYAML = `
components:
  - name: producer
    interfaces:
      - name: clk
        type: clock
        dir: in
      - name: data_out
        type: data
        dir: out
        clock: clk
        signals:
          - {role: data, width: "8"}
          - {role: valid}
        linkpoints:
          - {name: out, type: unicast}
  - name: consumer
    interfaces:
      - name: clk
        type: clock
        dir: in
      - name: data_in
        type: data
        dir: in
        clock: clk
        signals:
          - {role: data, width: "8"}
          - {role: valid}
        linkpoints:
          - {name: in, type: unicast}
system:
  name: top
  instances:
    - {name: p1, component: producer}
    - {name: c1, component: consumer}
  links:
    - label: L0
      src: {instance: p1, interface: data_out, linkpoint: out}
      dst: {instance: c1, interface: data_in, linkpoint: in}
  topology:
    nodes:
      - {name: p1_out, kind: source, target: {instance: p1, interface: data_out}}
      - {name: c1_in, kind: source, target: {instance: c1, interface: data_in}}
    edges:
      - {from: p1_out, to: c1_in, links: [L0]}
  queries:
    - {link_label: L0, param_name: latency}
`

func compileFixture(t *testing.T) *ir.System {
	t.Helper()
	reg, sys, err := specio.FromBytes([]byte(fixtureYAML)).Load()
	require.NoError(t, err)
	require.NoError(t, driver.Run(sys, reg, driver.Options{}, logctx.Nop()))
	return sys
}

func TestCompileFixtureInsertsClockCrossingAndResolvesLatency(t *testing.T) {
	sys := compileFixture(t)

	var crossings, registers int
	for _, n := range sys.Nodes() {
		switch n.Kind {
		case ir.KindClockCross:
			crossings++
		case ir.KindRegister:
			registers++
		}
	}
	assert.Equal(t, 1, crossings, "producer and consumer are on distinct clock domains")
	assert.Equal(t, 0, registers, "no registers requested and no merge present")

	latency, ok := sys.Params["latency"]
	require.True(t, ok)
	val, err := latency.Eval(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, val)
}

// Same YAML, two independent compiles: every pass (clockassign's
// multiway cut, protocol's bit packer) must land on identical output
// given identical input, since nothing that reaches the netlist consults
// real time or randomness (the per-run build id only tags log lines).
// The netlist lives in the System's unexported arenas, so the diff has
// to compare unexported fields too.
func TestCompileIsDeterministic(t *testing.T) {
	prev := deep.CompareUnexportedFields
	deep.CompareUnexportedFields = true
	defer func() { deep.CompareUnexportedFields = prev }()

	first := compileFixture(t)
	second := compileFixture(t)

	if diff := deep.Equal(first, second); diff != nil {
		t.Fatalf("two compiles of the same input diverged: %v", diff)
	}
}
