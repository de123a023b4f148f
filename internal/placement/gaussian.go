package placement

import "github.com/mrwong99/worldforge/internal/coordgeo"

const defaultGaussianAttempts = 50

// executeGaussian samples around a center coordinate via Box-Muller,
// rejecting samples beyond an optional maxDistance or outside bounds (spec
// §4.C "gaussian_cluster").
func (e *Engine) executeGaussian(scheme Scheme, existingBatch []coordgeo.Coordinate) *Result {
	center, ok := e.resolveRef(scheme.Center)
	if !ok {
		return nil
	}
	maxAttempts := scheme.MaxDistance // unused, just to keep signature symmetric
	_ = maxAttempts
	attempts := defaultGaussianAttempts

	for i := 0; i < attempts; i++ {
		x := center.SectorX.Numeric + e.Rnd.Gaussian()*scheme.Sigma
		y := center.SectorY.Numeric + e.Rnd.Gaussian()*scheme.Sigma
		if !scheme.Bounds.Contains(x, y) {
			continue
		}
		cand := mk2D(scheme.Plane, x, y)
		cand.ZBand = coordgeo.Num(e.zBand(scheme))
		d := coordgeo.Distance(cand, center, e.Space, coordgeo.AxisWeights{})
		if scheme.MaxDistance != nil && d > *scheme.MaxDistance {
			continue
		}
		return &Result{Coordinates: cand, DistanceFromReference: &d, Diagnostics: Diagnostics{AttemptsUsed: i + 1}}
	}
	return nil
}
