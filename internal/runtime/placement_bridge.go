package runtime

import (
	"github.com/mrwong99/worldforge/internal/coordgeo"
	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/placement"
	"github.com/mrwong99/worldforge/internal/rng"
)

// buildPlacementEngine projects every entity's coordinate in spaceID into a
// [placement.EntityPoint] snapshot and constructs an Engine for one growth
// tick. Package placement deliberately has no dependency on package graph,
// so this projection is the seam between the two (see
// internal/placement/engine.go's EntityPoint doc).
func buildPlacementEngine(view graph.View, space coordgeo.SpaceConfig, spaceID string, rnd *rng.Source) *placement.Engine {
	entities := view.Entities()
	points := make([]placement.EntityPoint, 0, len(entities))
	for _, e := range entities {
		coord, ok := e.Coordinates[spaceID]
		if !ok {
			continue
		}
		points = append(points, placement.EntityPoint{EntityID: e.ID, Kind: e.Kind, Coord: coord})
	}
	return placement.NewEngine(space, points, rnd)
}

// resolveCoordinate computes a coordinate for a newly-created entity that
// carries none: the template's declared placement scheme if it has one,
// otherwise the domain's per-kind default for the space (spec §4.G step 3
// "compute them via the template's declared placement scheme or the domain
// default for its kind").
func resolveCoordinate(tmpl GrowthTemplate, e graph.Entity, space coordgeo.SpaceConfig, spaceID string, engine *placement.Engine, batch []coordgeo.Coordinate) (coordgeo.Coordinate, bool) {
	if declarer, ok := tmpl.(PlacementDeclarer); ok {
		if scheme, has := declarer.PlacementScheme(e.Kind); has {
			res := engine.Execute(scheme, e.Kind, batch)
			if res != nil {
				return res.Coordinates, true
			}
		}
	}
	def, ok := space.DefaultsByKind[e.Kind]
	return def, ok
}
