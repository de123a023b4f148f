package placement

import (
	"math"

	"github.com/mrwong99/worldforge/internal/coordgeo"
	"github.com/mrwong99/worldforge/internal/rng"
)

// EntityPoint is a lightweight projection of a persisted entity's identity
// and coordinate in one space, passed in by the caller (package runtime) so
// this package has no dependency on package graph.
type EntityPoint struct {
	EntityID string
	Kind     string
	Coord    coordgeo.Coordinate
}

// Engine executes placement schemes against one coordinate space and a
// snapshot of already-placed entities (spec §4.C).
type Engine struct {
	Space    coordgeo.SpaceConfig
	Existing []EntityPoint
	Rnd      *rng.Source
}

// NewEngine constructs a placement Engine for one coordinate space.
func NewEngine(space coordgeo.SpaceConfig, existing []EntityPoint, rnd *rng.Source) *Engine {
	return &Engine{Space: space, Existing: existing, Rnd: rnd}
}

// Execute runs scheme and returns a Result, or nil on failure (spec §4.C
// "returns ... or null"). entityKind scopes per-kind exclusion distances.
// existingBatch lets a single template call accumulate exclusion context
// across multiple entities placed in the same growth tick (spec §4.C
// "Batches accumulate existingBatch").
func (e *Engine) Execute(scheme Scheme, entityKind string, existingBatch []coordgeo.Coordinate) *Result {
	switch scheme.Kind {
	case PoissonDisk:
		return e.executePoissonDisk(scheme, existingBatch)
	case CrossPlanePoisson:
		return e.executeCrossPlanePoisson(scheme, existingBatch)
	case HaltonSequence:
		return e.executeHalton(scheme, existingBatch)
	case JitteredGrid:
		return e.executeJitteredGrid(scheme, existingBatch)
	case GaussianCluster:
		return e.executeGaussian(scheme, existingBatch)
	case AnchorColocated:
		return e.executeAnchor(scheme)
	case CentroidColocated:
		return e.executeCentroid(scheme)
	case ExclusionAware:
		return e.executeExclusionAware(scheme, entityKind, existingBatch)
	case SaturationCascade:
		return e.executeSaturationCascade(scheme, entityKind, existingBatch)
	default:
		return nil
	}
}

// resolveRef resolves a CenterRef to a coordinate, either from Existing (by
// EntityID) or the literal value.
func (e *Engine) resolveRef(ref CenterRef) (coordgeo.Coordinate, bool) {
	if ref.Literal != nil {
		return *ref.Literal, true
	}
	for _, p := range e.Existing {
		if p.EntityID == ref.EntityID {
			return p.Coord, true
		}
	}
	return coordgeo.Coordinate{}, false
}

// allCoords concatenates persisted entities and the in-flight batch into a
// flat list of coordinates for exclusion checks.
func (e *Engine) allCoords(existingBatch []coordgeo.Coordinate) []coordgeo.Coordinate {
	out := make([]coordgeo.Coordinate, 0, len(e.Existing)+len(existingBatch))
	for _, p := range e.Existing {
		out = append(out, p.Coord)
	}
	out = append(out, existingBatch...)
	return out
}

func (e *Engine) nearestDistance(c coordgeo.Coordinate, pool []coordgeo.Coordinate) float64 {
	best := math.Inf(1)
	for _, p := range pool {
		d := coordgeo.Distance(c, p, e.Space, coordgeo.AxisWeights{})
		if d < best {
			best = d
		}
	}
	return best
}

func mk2D(plane string, x, y float64) coordgeo.Coordinate {
	return coordgeo.Coordinate{
		Plane:   coordgeo.Enum(plane),
		SectorX: coordgeo.Num(x),
		SectorY: coordgeo.Num(y),
		CellX:   coordgeo.Num(0),
		CellY:   coordgeo.Num(0),
		ZBand:   coordgeo.Num(0),
	}
}
