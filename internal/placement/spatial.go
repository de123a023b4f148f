package placement

import (
	"sort"

	"github.com/mrwong99/worldforge/internal/coordgeo"
)

// NearestOpts configures [Engine.FindNearest] / [Engine.FindWithinRadius].
type NearestOpts struct {
	Limit           int
	MaxDistance     *float64
	ConstrainPlanes []string
	Filter          func(EntityPoint) bool
}

// NearestResult pairs a candidate point with its distance from the query
// point.
type NearestResult struct {
	Point    EntityPoint
	Distance float64
}

func (e *Engine) candidates(kind string, opts NearestOpts) []EntityPoint {
	var planeSet map[string]bool
	if len(opts.ConstrainPlanes) > 0 {
		planeSet = make(map[string]bool, len(opts.ConstrainPlanes))
		for _, p := range opts.ConstrainPlanes {
			planeSet[p] = true
		}
	}
	var out []EntityPoint
	for _, p := range e.Existing {
		if kind != "" && p.Kind != kind {
			continue
		}
		if planeSet != nil && !planeSet[p.Coord.Plane.Enum] {
			continue
		}
		if opts.Filter != nil && !opts.Filter(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FindNearest returns entities of kind in spaceID sorted by ascending
// distance from point (spec §4.C "findNearest").
func (e *Engine) FindNearest(point coordgeo.Coordinate, kind string, opts NearestOpts) []NearestResult {
	pool := e.candidates(kind, opts)
	results := make([]NearestResult, 0, len(pool))
	for _, p := range pool {
		d := coordgeo.Distance(point, p.Coord, e.Space, coordgeo.AxisWeights{})
		if opts.MaxDistance != nil && d > *opts.MaxDistance {
			continue
		}
		results = append(results, NearestResult{Point: p, Distance: d})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}

// FindWithinRadius is the bounded variant of FindNearest: every entity of
// kind whose distance from point is <= radius.
func (e *Engine) FindWithinRadius(point coordgeo.Coordinate, kind string, radius float64, opts NearestOpts) []NearestResult {
	opts.MaxDistance = &radius
	opts.Limit = 0
	return e.FindNearest(point, kind, opts)
}

// IsWithinBounds reports whether a coordinate's sector axes fall within b.
func IsWithinBounds(c coordgeo.Coordinate, b Bounds) bool {
	return b.Contains(c.SectorX.Numeric, c.SectorY.Numeric)
}

// ComputeCentroid averages the sector/cell axes of points and picks the
// modal z_band, refusing (ok=false) if points is empty or spans multiple
// planes.
func ComputeCentroid(points []coordgeo.Coordinate) (coordgeo.Coordinate, bool) {
	if len(points) == 0 {
		return coordgeo.Coordinate{}, false
	}
	plane := points[0].Plane.Enum
	var sx, sy, cx, cy float64
	zCounts := make(map[int]int)
	for _, p := range points {
		if p.Plane.Enum != plane {
			return coordgeo.Coordinate{}, false
		}
		sx += p.SectorX.Numeric
		sy += p.SectorY.Numeric
		cx += p.CellX.Numeric
		cy += p.CellY.Numeric
		zCounts[int(p.ZBand.Numeric)]++
	}
	n := float64(len(points))
	modalZ, best := 0, -1
	for z, count := range zCounts {
		if count > best {
			best, modalZ = count, z
		}
	}
	return coordgeo.Coordinate{
		Plane:   coordgeo.Enum(plane),
		SectorX: coordgeo.Num(sx / n),
		SectorY: coordgeo.Num(sy / n),
		CellX:   coordgeo.Num(cx / n),
		CellY:   coordgeo.Num(cy / n),
		ZBand:   coordgeo.Num(float64(modalZ)),
	}, true
}
