// Package summary optionally sums primitive area/power metrics over a
// compiled system's instances, exposing the running totals as
// prometheus gauges — not served over HTTP (this is a batch CLI with no
// server component), just gathered once and rendered as text.
package summary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JonathanScottRose/GENIE-sub001/internal/ir"
	"github.com/JonathanScottRose/GENIE-sub001/internal/primitive"
)

// Summary is the result of summing a system's instances against a
// primitive catalog.
type Summary struct {
	TotalAreaUM2  float64
	TotalPowerMW  float64
	Missing       []string // instance components with no catalog entry
	PerComponent  map[string]primitive.Info
}

// Summarize walks sys.Instances, looks each one's component up in cat,
// and accumulates area/power into a fresh prometheus registry's gauges
// before returning the totals.
func Summarize(sys *ir.System, cat *primitive.Catalog) Summary {
	reg := prometheus.NewRegistry()
	area := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "genie_summary_area_um2_total",
		Help: "Total primitive area, in square micrometers, summed over instances.",
	})
	power := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "genie_summary_power_mw_total",
		Help: "Total primitive power, in milliwatts, summed over instances.",
	})
	reg.MustRegister(area, power)

	out := Summary{PerComponent: make(map[string]primitive.Info)}
	seenMissing := make(map[string]bool)
	for _, inst := range sys.Instances {
		info, ok := cat.Lookup(inst.Component)
		if !ok {
			if !seenMissing[inst.Component] {
				seenMissing[inst.Component] = true
				out.Missing = append(out.Missing, inst.Component)
			}
			continue
		}
		out.TotalAreaUM2 += info.AreaUM2
		out.TotalPowerMW += info.PowerMW
		out.PerComponent[inst.Component] = info
	}
	sort.Strings(out.Missing)
	area.Set(out.TotalAreaUM2)
	power.Set(out.TotalPowerMW)
	return out
}

// String renders a human-readable text summary, the form the CLI prints
// to stdout in place of serving the gauges over HTTP.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "total area: %.2f um^2\n", s.TotalAreaUM2)
	fmt.Fprintf(&b, "total power: %.2f mW\n", s.TotalPowerMW)
	if len(s.Missing) > 0 {
		fmt.Fprintf(&b, "no catalog entry for: %s\n", strings.Join(s.Missing, ", "))
	}
	return b.String()
}
