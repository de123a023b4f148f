package placement

import "github.com/mrwong99/worldforge/internal/coordgeo"

// executeSaturationCascade runs scheme.BaseScheme on the preferred plane;
// if that plane is saturated per scheme.Manifold's configured strategy, it
// cascades into the plane's declared children in priority order, trying
// each until one succeeds, and records the original plane in diagnostics
// (spec §4.C "saturation_cascade").
func (e *Engine) executeSaturationCascade(scheme Scheme, entityKind string, existingBatch []coordgeo.Coordinate) *Result {
	if scheme.BaseScheme == nil || scheme.Manifold == nil {
		return nil
	}

	plane := scheme.PreferredPlane
	saturated := scheme.Manifold.Saturated(plane, scheme.PlaneCounts[plane], scheme.PlaneDensities[plane], scheme.PlaneFailures[plane])
	if !saturated {
		s := *scheme.BaseScheme
		s.Plane = plane
		return e.Execute(s, entityKind, existingBatch)
	}

	node := scheme.Manifold.Planes[plane]
	for _, child := range node.Children {
		childSaturated := scheme.Manifold.Saturated(child, scheme.PlaneCounts[child], scheme.PlaneDensities[child], scheme.PlaneFailures[child])
		if childSaturated {
			continue
		}
		s := *scheme.BaseScheme
		s.Plane = child
		res := e.Execute(s, entityKind, existingBatch)
		if res != nil {
			res.Diagnostics.CascadedFrom = plane
			return res
		}
	}
	return nil
}
