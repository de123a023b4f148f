// Package placement implements the multi-space placement engine (spec
// §4.C): Poisson-disk, Halton, jittered-grid, Gaussian-cluster,
// anchor/centroid co-location, exclusion-aware wrapping, cross-plane
// Poisson, and saturation cascade, plus spatial query helpers.
//
// A [Scheme] is a tagged union (spec §9 "Placement scheme as tagged
// union"): one Go struct with a Kind discriminant and every scheme's
// parameters as optional fields, matched by [Engine.Execute]'s internal
// switch. ExclusionAware and SaturationCascade carry an inner/base Scheme,
// modeling composite variants.
package placement

import "github.com/mrwong99/worldforge/internal/coordgeo"

// SchemeKind discriminates which placement algorithm a [Scheme] describes.
type SchemeKind string

const (
	PoissonDisk       SchemeKind = "poisson_disk"
	HaltonSequence    SchemeKind = "halton_sequence"
	JitteredGrid      SchemeKind = "jittered_grid"
	GaussianCluster   SchemeKind = "gaussian_cluster"
	AnchorColocated   SchemeKind = "anchor_colocated"
	CentroidColocated SchemeKind = "centroid_colocated"
	ExclusionAware    SchemeKind = "exclusion_aware"
	CrossPlanePoisson SchemeKind = "cross_plane_poisson"
	SaturationCascade SchemeKind = "saturation_cascade"
)

// Bounds is a 2-D sector-space rectangle (or a per-axis bound, reused for
// z-band range checks via Min/Max).
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// Width/Height of the bounds.
func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Contains reports whether (x,y) falls within the bounds, inclusive.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// CenterRef names a reference point either by an existing entity's ID or a
// literal coordinate (used by gaussian_cluster, anchor_colocated, and
// centroid_colocated).
type CenterRef struct {
	EntityID string
	Literal  *coordgeo.Coordinate
}

// Scheme is the tagged-union placement request (spec §4.C).
type Scheme struct {
	Kind    SchemeKind
	SpaceID string

	// poisson_disk / cross_plane_poisson
	Plane          string
	MinDistance    float64
	K              int // candidates per active point, default 30
	Bounds         Bounds
	ConstrainPlane string
	ZBandMin       float64
	ZBandMax       float64

	// halton_sequence
	StartIndex int
	Bases      []int // default {2,3}

	// jittered_grid
	GridX, GridY int
	Jitter       float64

	// gaussian_cluster
	Center      CenterRef
	Sigma       float64
	MaxDistance *float64

	// anchor_colocated
	Anchor CenterRef

	// centroid_colocated
	References []CenterRef

	// exclusion_aware
	Inner              *Scheme
	StaticBounds       []Bounds
	MinDistancePerKind map[string]float64
	MaxAttempts        int

	// saturation_cascade
	BaseScheme     *Scheme
	PreferredPlane string
	Manifold       *coordgeo.ManifoldConfig
	PlaneCounts    map[string]int
	PlaneDensities map[string]float64
	PlaneFailures  map[string]int
}

// Diagnostics reports how a placement call arrived at its result (spec
// §4.C "execute(...) returns ... diagnostics").
type Diagnostics struct {
	AttemptsUsed            int
	NearestObstacleDistance *float64
	CascadedFrom            string
}

// Result is the successful outcome of [Engine.Execute].
type Result struct {
	Coordinates           coordgeo.Coordinate
	DistanceFromReference *float64
	Diagnostics           Diagnostics
}
