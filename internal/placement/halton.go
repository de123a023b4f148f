package placement

import "github.com/mrwong99/worldforge/internal/coordgeo"

// vanDerCorput computes the van der Corput radical-inverse sequence value
// of index in the given base.
func vanDerCorput(index, base int) float64 {
	f := 1.0
	result := 0.0
	i := index
	for i > 0 {
		f /= float64(base)
		result += f * float64(i%base)
		i /= base
	}
	return result
}

// executeHalton places the entity at the next point of a deterministic
// Halton sequence (spec §4.C "halton_sequence"): index continuation using
// van der Corput with bases {2,3} by default, extensible via scheme.Bases.
// The index is startIndex + existingCount + 1, so the result depends only on
// how many entities this batch has already placed, never on the RNG.
func (e *Engine) executeHalton(scheme Scheme, existingBatch []coordgeo.Coordinate) *Result {
	bases := scheme.Bases
	if len(bases) < 2 {
		bases = []int{2, 3}
	}
	index := scheme.StartIndex + len(existingBatch) + 1 // Halton sequences conventionally start at index 1

	u := vanDerCorput(index, bases[0])
	v := vanDerCorput(index, bases[1])

	x := scheme.Bounds.MinX + u*scheme.Bounds.Width()
	y := scheme.Bounds.MinY + v*scheme.Bounds.Height()

	c := mk2D(scheme.Plane, x, y)
	c.ZBand = coordgeo.Num(e.zBand(scheme))
	return &Result{Coordinates: c, Diagnostics: Diagnostics{AttemptsUsed: 1}}
}
