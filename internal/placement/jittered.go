package placement

import "github.com/mrwong99/worldforge/internal/coordgeo"

// executeJitteredGrid divides the bounds into Gx x Gy cells and places the
// n-th entity of this batch in cell n (row-major), offset within
// [-j/2, j/2]^2 of one cell's size (spec §4.C "jittered_grid").
func (e *Engine) executeJitteredGrid(scheme Scheme, existingBatch []coordgeo.Coordinate) *Result {
	gx, gy := scheme.GridX, scheme.GridY
	if gx <= 0 {
		gx = 1
	}
	if gy <= 0 {
		gy = 1
	}
	n := len(existingBatch) % (gx * gy)
	col := n % gx
	row := (n / gx) % gy

	cellW := scheme.Bounds.Width() / float64(gx)
	cellH := scheme.Bounds.Height() / float64(gy)

	cx := scheme.Bounds.MinX + (float64(col)+0.5)*cellW
	cy := scheme.Bounds.MinY + (float64(row)+0.5)*cellH

	j := scheme.Jitter
	offX := e.Rnd.Range(-j/2, j/2) * cellW
	offY := e.Rnd.Range(-j/2, j/2) * cellH

	c := mk2D(scheme.Plane, cx+offX, cy+offY)
	c.ZBand = coordgeo.Num(e.zBand(scheme))
	return &Result{Coordinates: c, Diagnostics: Diagnostics{AttemptsUsed: 1}}
}
