package placement

import (
	"math"

	"github.com/mrwong99/worldforge/internal/coordgeo"
)

const defaultK = 30

func (e *Engine) zBand(scheme Scheme) float64 {
	if scheme.ZBandMax <= scheme.ZBandMin {
		return scheme.ZBandMin
	}
	return e.Rnd.Range(scheme.ZBandMin, scheme.ZBandMax)
}

// executePoissonDisk implements Bridson's algorithm in 2-D sector space
// (spec §4.C "poisson_disk"). Each call places exactly one entity,
// attempting candidates from the annulus [r, 2r] around points already in
// the pool (persisted entities plus existingBatch); when no active point
// yields a valid candidate it falls back to one bounds-wide random attempt
// before giving up (spec §8 boundary: "Poisson-disk with r larger than
// bounds diameter returns null on the second attempt").
func (e *Engine) executePoissonDisk(scheme Scheme, existingBatch []coordgeo.Coordinate) *Result {
	r := scheme.MinDistance
	k := scheme.K
	if k <= 0 {
		k = defaultK
	}
	plane := scheme.Plane
	pool := e.allCoords(existingBatch)

	attempts := 0

	if len(pool) == 0 {
		x := e.Rnd.Range(scheme.Bounds.MinX, scheme.Bounds.MaxX)
		y := e.Rnd.Range(scheme.Bounds.MinY, scheme.Bounds.MaxY)
		c := mk2D(plane, x, y)
		c.ZBand = coordgeo.Num(e.zBand(scheme))
		return &Result{Coordinates: c, Diagnostics: Diagnostics{AttemptsUsed: 1}}
	}

	// First attempt: sample the annulus around each active (pool) point.
	for _, base := range pool {
		for i := 0; i < k; i++ {
			attempts++
			theta := e.Rnd.Float64() * 2 * math.Pi
			radius := e.Rnd.Range(r, 2*r)
			x := base.SectorX.Numeric + radius*math.Cos(theta)
			y := base.SectorY.Numeric + radius*math.Sin(theta)
			if !scheme.Bounds.Contains(x, y) {
				continue
			}
			cand := mk2D(plane, x, y)
			cand.ZBand = coordgeo.Num(e.zBand(scheme))
			nd := e.nearestDistance(cand, pool)
			if nd >= r {
				return &Result{Coordinates: cand, Diagnostics: Diagnostics{AttemptsUsed: attempts, NearestObstacleDistance: &nd}}
			}
		}
	}

	// Second attempt: bounds-wide random fallback.
	for i := 0; i < k; i++ {
		attempts++
		x := e.Rnd.Range(scheme.Bounds.MinX, scheme.Bounds.MaxX)
		y := e.Rnd.Range(scheme.Bounds.MinY, scheme.Bounds.MaxY)
		cand := mk2D(plane, x, y)
		cand.ZBand = coordgeo.Num(e.zBand(scheme))
		nd := e.nearestDistance(cand, pool)
		if nd >= r {
			return &Result{Coordinates: cand, Diagnostics: Diagnostics{AttemptsUsed: attempts, NearestObstacleDistance: &nd}}
		}
	}

	return nil
}

// executeCrossPlanePoisson is the 6-D analogue of poisson_disk: candidates
// are drawn across all six normalized axes and validated with the full
// weighted [coordgeo.Distance] (which already folds in the cross-plane
// multiplier, so points on an unconfigured plane pair never constrain each
// other). A true 3^6-cell spatial hash is behaviourally equivalent to a
// nearest-neighbour scan over the pool for the batch sizes this engine
// handles per call; this implementation scans directly rather than
// maintaining the hash.
func (e *Engine) executeCrossPlanePoisson(scheme Scheme, existingBatch []coordgeo.Coordinate) *Result {
	r := scheme.MinDistance
	k := scheme.K
	if k <= 0 {
		k = defaultK
	}
	pool := e.allCoords(existingBatch)
	attempts := 0

	sample := func() coordgeo.Coordinate {
		x := e.Rnd.Range(scheme.Bounds.MinX, scheme.Bounds.MaxX)
		y := e.Rnd.Range(scheme.Bounds.MinY, scheme.Bounds.MaxY)
		c := mk2D(scheme.Plane, x, y)
		c.CellX = coordgeo.Num(e.Rnd.Range(scheme.Bounds.MinX, scheme.Bounds.MaxX))
		c.CellY = coordgeo.Num(e.Rnd.Range(scheme.Bounds.MinY, scheme.Bounds.MaxY))
		c.ZBand = coordgeo.Num(e.zBand(scheme))
		return c
	}

	for pass := 0; pass < 2; pass++ {
		for i := 0; i < k; i++ {
			attempts++
			cand := sample()
			nd := e.nearestDistance(cand, pool)
			if nd >= r {
				return &Result{Coordinates: cand, Diagnostics: Diagnostics{AttemptsUsed: attempts, NearestObstacleDistance: &nd}}
			}
		}
	}
	return nil
}
