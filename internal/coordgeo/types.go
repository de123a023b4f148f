// Package coordgeo implements the multi-space, 6-axis coordinate model and
// the distance/normalization math that the placement engine (package
// placement) builds on (spec §3.3, §4.C).
package coordgeo

import "math"

// Semantics selects how an axis value is interpreted and normalized.
type Semantics int

const (
	SemanticEnum Semantics = iota
	SemanticNumeric
	SemanticHierarchical
)

// AxisValue is a single axis's value: either a numeric scalar, a discrete
// enum identifier, or a hierarchy depth, tagged by which one applies.
type AxisValue struct {
	Semantics Semantics
	Numeric   float64 // SemanticNumeric
	Enum      string  // SemanticEnum (also used for Plane identity)
	Depth     int     // SemanticHierarchical
}

func Num(v float64) AxisValue  { return AxisValue{Semantics: SemanticNumeric, Numeric: v} }
func Enum(v string) AxisValue  { return AxisValue{Semantics: SemanticEnum, Enum: v} }
func Depth(d int) AxisValue    { return AxisValue{Semantics: SemanticHierarchical, Depth: d} }

// Coordinate is a point in one coordinate space: 6 axes as described in
// spec §3.3. Plane identifies which plane of the space the point lives in;
// the remaining five axes locate it within that plane.
type Coordinate struct {
	Plane   AxisValue
	SectorX AxisValue
	SectorY AxisValue
	CellX   AxisValue
	CellY   AxisValue
	ZBand   AxisValue
}

// AxisSpec binds one axis's semantics, numeric range, enum-to-[0,1] table,
// hierarchy depth, default value, and distance weight.
type AxisSpec struct {
	Semantics  Semantics
	Min, Max   float64            // SemanticNumeric range
	EnumValues map[string]float64 // SemanticEnum: value -> [0,1]
	MaxDepth   int                // SemanticHierarchical
	Default    AxisValue
	Weight     float64 // distance weight, 0 means "use 1"
}

func (a AxisSpec) weight() float64 {
	if a.Weight == 0 {
		return 1
	}
	return a.Weight
}

// SpaceConfig is one coordinate space's full axis binding (spec §3.3
// "coordinate space"), plus an optional cross-plane distance multiplier
// table keyed by an unordered pair of plane identifiers.
type SpaceConfig struct {
	ID                   string
	Plane, SectorX, SectorY, CellX, CellY, ZBand AxisSpec
	// CrossPlaneMultiplier maps an unordered plane-pair key (see PlanePairKey)
	// to a multiplier applied to the weighted sum when the two coordinates'
	// planes differ. A missing entry means cross-plane distance is +Inf.
	CrossPlaneMultiplier map[string]float64

	// DefaultsByKind gives the default coordinate for an entity kind that
	// carries no explicit placement in this space (spec §4.B "coordinate-space
	// definitions (per-kind → per-axis semantics)").
	DefaultsByKind map[string]Coordinate
}

// PlanePairKey builds the canonical (order-independent) lookup key for two
// plane identifiers.
func PlanePairKey(a, b string) string {
	if a <= b {
		return a + "|" + b
	}
	return b + "|" + a
}

// normalize maps an axis value into [0,1] per its spec: enum -> its table
// entry, numeric -> linear rescale, hierarchical -> depth/maxDepth.
func normalize(v AxisValue, spec AxisSpec) float64 {
	switch v.Semantics {
	case SemanticEnum:
		return spec.EnumValues[v.Enum]
	case SemanticHierarchical:
		if spec.MaxDepth <= 0 {
			return 0
		}
		return math.Max(0, math.Min(1, float64(v.Depth)/float64(spec.MaxDepth)))
	default: // SemanticNumeric
		if spec.Max <= spec.Min {
			return 0
		}
		n := (v.Numeric - spec.Min) / (spec.Max - spec.Min)
		if n < 0 {
			return 0
		}
		if n > 1 {
			return 1
		}
		return n
	}
}
