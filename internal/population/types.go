// Package population implements the population tracker (spec §4.E):
// per-(kind,subtype), per-relationship-kind, and per-pressure metrics with
// target deviation, EWMA trend, and a bounded history window.
package population

// Metric is one tracked quantity's current snapshot (spec §4.E). Value uses
// float64 uniformly so the same type serves integer entity/relationship
// counts and fractional pressure levels.
type Metric struct {
	Value     float64
	Target    float64
	Deviation float64   // (value - target) / target, 0 if target is 0
	Trend     float64   // EWMA of recent value deltas
	History   []float64 // last W values, oldest first
}

func entityKey(kind, subtype string) string {
	if subtype == "" {
		return kind
	}
	return kind + "/" + subtype
}
