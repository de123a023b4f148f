package coordgeo

// SaturationStrategy selects how a plane's saturation is measured for
// saturation-cascade placement (spec §4.C "saturation_cascade").
type SaturationStrategy string

const (
	StrategyCount    SaturationStrategy = "count"
	StrategyDensity  SaturationStrategy = "density"
	StrategyFailures SaturationStrategy = "failures"
)

// PlaneNode declares one plane's children (in cascade priority order) and
// the threshold at which it is considered saturated.
type PlaneNode struct {
	ID       string
	Children []string // cascade priority order

	Strategy SaturationStrategy

	CountThreshold    int     // StrategyCount
	DensityThreshold  float64 // StrategyDensity: entities per unit area
	PlaneArea         float64 // StrategyDensity: area used to compute density
	FailureThreshold  int     // StrategyFailures: consecutive placement failures
}

// ManifoldConfig declares a plane hierarchy and saturation strategy used by
// saturation_cascade placement (spec GLOSSARY "Manifold config").
type ManifoldConfig struct {
	Planes map[string]PlaneNode
}

// Saturated reports whether plane id is saturated given the current entity
// count on it, current density, and number of consecutive placement
// failures observed there. Planes not declared in the manifold are never
// saturated.
func (m ManifoldConfig) Saturated(planeID string, count int, density float64, failures int) bool {
	node, ok := m.Planes[planeID]
	if !ok {
		return false
	}
	switch node.Strategy {
	case StrategyDensity:
		return density >= node.DensityThreshold
	case StrategyFailures:
		return failures >= node.FailureThreshold
	default: // StrategyCount
		return count >= node.CountThreshold
	}
}
