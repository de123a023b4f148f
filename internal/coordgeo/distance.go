package coordgeo

import "math"

// AxisWeights lets a caller override a space's default per-axis distance
// weights for a single call (spec §4.C "Axis weights default to 1 and may
// be overridden per space or per call").
type AxisWeights struct {
	SectorX, SectorY, CellX, CellY, ZBand float64
	set                                   bool
}

// Override returns an AxisWeights with the given values applied; zero
// fields left unset fall back to the space's own defaults.
func Override(sectorX, sectorY, cellX, cellY, zBand float64) AxisWeights {
	return AxisWeights{SectorX: sectorX, SectorY: sectorY, CellX: cellX, CellY: cellY, ZBand: zBand, set: true}
}

func (w AxisWeights) pick(axisDefault, override float64) float64 {
	if !w.set || override == 0 {
		return axisDefault
	}
	return override
}

// adjacent reports whether two sector-axis raw values are "the same or
// adjacent", the condition that gates inclusion of the finer cell-distance
// term (spec §4.C). Enum/hierarchical axes are only ever "adjacent" when
// equal; numeric axes (the common case: integer sector indices on a grid)
// are adjacent when their raw values differ by at most 1.
func adjacent(a, b AxisValue) bool {
	if a.Semantics != b.Semantics {
		return false
	}
	switch a.Semantics {
	case SemanticNumeric:
		return math.Abs(a.Numeric-b.Numeric) <= 1.0
	case SemanticEnum:
		return a.Enum == b.Enum
	default:
		return a.Depth == b.Depth
	}
}

// Distance computes the weighted distance between two coordinates in the
// same space (spec §4.C). Returns math.Inf(1) when the planes differ and no
// cross-plane multiplier is configured for that pair.
func Distance(c1, c2 Coordinate, space SpaceConfig, w AxisWeights) float64 {
	plane1, plane2 := c1.Plane.Enum, c2.Plane.Enum
	crossPlane := plane1 != plane2

	var multiplier float64 = 1
	if crossPlane {
		m, ok := space.CrossPlaneMultiplier[PlanePairKey(plane1, plane2)]
		if !ok {
			return math.Inf(1)
		}
		multiplier = m
	}

	sx1, sy1 := normalize(c1.SectorX, space.SectorX), normalize(c1.SectorY, space.SectorY)
	sx2, sy2 := normalize(c2.SectorX, space.SectorX), normalize(c2.SectorY, space.SectorY)
	wx := w.pick(space.SectorX.weight(), w.SectorX)
	wy := w.pick(space.SectorY.weight(), w.SectorY)
	dSectorX := wx * (sx1 - sx2)
	dSectorY := wy * (sy1 - sy2)
	sectorDist := math.Sqrt(dSectorX*dSectorX + dSectorY*dSectorY)

	total := sectorDist

	if adjacent(c1.SectorX, c2.SectorX) && adjacent(c1.SectorY, c2.SectorY) {
		cx1, cy1 := normalize(c1.CellX, space.CellX), normalize(c1.CellY, space.CellY)
		cx2, cy2 := normalize(c2.CellX, space.CellX), normalize(c2.CellY, space.CellY)
		wcx := w.pick(space.CellX.weight(), w.CellX)
		wcy := w.pick(space.CellY.weight(), w.CellY)
		dCellX := wcx * (cx1 - cx2)
		dCellY := wcy * (cy1 - cy2)
		total += math.Sqrt(dCellX*dCellX + dCellY*dCellY)
	}

	z1, z2 := normalize(c1.ZBand, space.ZBand), normalize(c2.ZBand, space.ZBand)
	wz := w.pick(space.ZBand.weight(), w.ZBand)
	total += math.Abs(wz * (z1 - z2))

	return total * multiplier
}

// Vector6 is a coordinate projected into [0,1]^6, axis order:
// [plane, sector_x, sector_y, cell_x, cell_y, z_band].
type Vector6 [6]float64

// NormalizeCoordinate projects c into [0,1]^6 for 6-D algorithms (spec
// §4.C "normalizeCoordinate").
func NormalizeCoordinate(c Coordinate, space SpaceConfig) Vector6 {
	return Vector6{
		normalize(c.Plane, space.Plane),
		normalize(c.SectorX, space.SectorX),
		normalize(c.SectorY, space.SectorY),
		normalize(c.CellX, space.CellX),
		normalize(c.CellY, space.CellY),
		normalize(c.ZBand, space.ZBand),
	}
}

// DenormalizeCoordinate inverts NormalizeCoordinate: enum axes resolve to
// the closest table entry, numeric axes rescale linearly, hierarchical axes
// round to the nearest integer depth (spec §4.C "denormalizeCoordinate").
func DenormalizeCoordinate(v Vector6, space SpaceConfig) Coordinate {
	return Coordinate{
		Plane:   denormalizeAxis(v[0], space.Plane),
		SectorX: denormalizeAxis(v[1], space.SectorX),
		SectorY: denormalizeAxis(v[2], space.SectorY),
		CellX:   denormalizeAxis(v[3], space.CellX),
		CellY:   denormalizeAxis(v[4], space.CellY),
		ZBand:   denormalizeAxis(v[5], space.ZBand),
	}
}

func denormalizeAxis(n float64, spec AxisSpec) AxisValue {
	switch spec.Semantics {
	case SemanticEnum:
		best, bestDist := "", math.Inf(1)
		for enumVal, enumN := range spec.EnumValues {
			d := math.Abs(enumN - n)
			if d < bestDist {
				bestDist, best = d, enumVal
			}
		}
		return Enum(best)
	case SemanticHierarchical:
		depth := int(math.Round(n * float64(spec.MaxDepth)))
		if depth < 0 {
			depth = 0
		}
		if depth > spec.MaxDepth {
			depth = spec.MaxDepth
		}
		return Depth(depth)
	default:
		return Num(spec.Min + n*(spec.Max-spec.Min))
	}
}
