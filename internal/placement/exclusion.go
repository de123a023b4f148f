package placement

import "github.com/mrwong99/worldforge/internal/coordgeo"

const defaultExclusionMaxAttempts = 40

// executeExclusionAware wraps scheme.Inner, re-attempting it until the
// candidate falls outside every static exclusion bound and respects every
// per-kind minimum distance from existing entities of that kind (spec §4.C
// "exclusion_aware").
func (e *Engine) executeExclusionAware(scheme Scheme, entityKind string, existingBatch []coordgeo.Coordinate) *Result {
	if scheme.Inner == nil {
		return nil
	}
	maxAttempts := scheme.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultExclusionMaxAttempts
	}

	totalAttempts := 0
	for attempt := 0; attempt < maxAttempts; attempt++ {
		res := e.Execute(*scheme.Inner, entityKind, existingBatch)
		if res == nil {
			continue
		}
		totalAttempts += res.Diagnostics.AttemptsUsed
		if res.Diagnostics.AttemptsUsed == 0 {
			totalAttempts++
		}

		x, y := res.Coordinates.SectorX.Numeric, res.Coordinates.SectorY.Numeric
		excluded := false
		for _, b := range scheme.StaticBounds {
			if b.Contains(x, y) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}

		if !e.respectsPerKindMinDistance(res.Coordinates, scheme.MinDistancePerKind) {
			continue
		}

		res.Diagnostics.AttemptsUsed = totalAttempts
		return res
	}
	return nil
}

func (e *Engine) respectsPerKindMinDistance(c coordgeo.Coordinate, minByKind map[string]float64) bool {
	if len(minByKind) == 0 {
		return true
	}
	for kind, minDist := range minByKind {
		for _, p := range e.Existing {
			if p.Kind != kind {
				continue
			}
			if coordgeo.Distance(c, p.Coord, e.Space, coordgeo.AxisWeights{}) < minDist {
				return false
			}
		}
	}
	return true
}
