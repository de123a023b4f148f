package placement

import "github.com/mrwong99/worldforge/internal/coordgeo"

// executeAnchor copies the anchor entity's coordinates exactly (spec §4.C
// "anchor_colocated"), distance 0.
func (e *Engine) executeAnchor(scheme Scheme) *Result {
	anchor, ok := e.resolveRef(scheme.Anchor)
	if !ok {
		return nil
	}
	zero := 0.0
	return &Result{Coordinates: anchor, DistanceFromReference: &zero, Diagnostics: Diagnostics{AttemptsUsed: 1}}
}

// executeCentroid averages sector/cell values across references, picks the
// modal z_band, and refuses if the references span multiple planes (spec
// §4.C "centroid_colocated").
func (e *Engine) executeCentroid(scheme Scheme) *Result {
	if len(scheme.References) == 0 {
		return nil
	}
	coords := make([]coordgeo.Coordinate, 0, len(scheme.References))
	for _, ref := range scheme.References {
		c, ok := e.resolveRef(ref)
		if !ok {
			return nil
		}
		coords = append(coords, c)
	}
	plane := coords[0].Plane.Enum
	for _, c := range coords[1:] {
		if c.Plane.Enum != plane {
			return nil
		}
	}

	var sx, sy, cx, cy float64
	zCounts := make(map[int]int)
	for _, c := range coords {
		sx += c.SectorX.Numeric
		sy += c.SectorY.Numeric
		cx += c.CellX.Numeric
		cy += c.CellY.Numeric
		zCounts[int(c.ZBand.Numeric)]++
	}
	n := float64(len(coords))

	modalZ, bestCount := 0, -1
	for z, count := range zCounts {
		if count > bestCount {
			bestCount, modalZ = count, z
		}
	}

	result := coordgeo.Coordinate{
		Plane:   coordgeo.Enum(plane),
		SectorX: coordgeo.Num(sx / n),
		SectorY: coordgeo.Num(sy / n),
		CellX:   coordgeo.Num(cx / n),
		CellY:   coordgeo.Num(cy / n),
		ZBand:   coordgeo.Num(float64(modalZ)),
	}
	return &Result{Coordinates: result, Diagnostics: Diagnostics{AttemptsUsed: 1}}
}
