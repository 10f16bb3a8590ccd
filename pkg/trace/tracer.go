package trace

import (
	"math"

	"github.com/ilyagrishkov/raytracer/pkg/bvh"
	"github.com/ilyagrishkov/raytracer/pkg/core"
)

const (
	// MaxDepth is the maximum reflection recursion.
	MaxDepth = 5
	// RayLength is the default ray segment budget, a scene diameter scalar.
	RayLength = 10.0
)

// Stats accumulates the work done by one or more traced rays. Workers keep
// their own and merge afterwards; nothing here is global.
type Stats struct {
	PrimaryRays   int
	ShadowRays    int
	TriangleTests int
	Traversal     bvh.TraversalStats
}

// Merge folds other into s.
func (s *Stats) Merge(other Stats) {
	s.PrimaryRays += other.PrimaryRays
	s.ShadowRays += other.ShadowRays
	s.TriangleTests += other.TriangleTests
	s.Traversal.BoxTests += other.Traversal.BoxTests
	s.Traversal.BoxHits += other.Traversal.BoxHits
}

// Tracer resolves rays against a mesh: nearest hit, Phong shading with
// hard shadows, and mirror recursion. Immutable after construction and
// safe for concurrent use.
type Tracer struct {
	tree       *bvh.Tree
	faces      []core.Face
	materials  []core.Material
	lights     []core.Vec3
	background core.Vec3
}

// NewTracer creates a tracer over a built BVH. tree may be nil for an
// empty scene; every ray then returns the background color.
func NewTracer(tree *bvh.Tree, materials []core.Material, lights []core.Vec3, background core.Vec3) *Tracer {
	t := &Tracer{
		tree:       tree,
		materials:  materials,
		lights:     lights,
		background: background,
	}
	if tree != nil {
		t.faces = tree.Faces()
	}
	return t
}

// Background returns the miss color.
func (t *Tracer) Background() core.Vec3 {
	return t.background
}

// Lights returns the light positions the tracer shades with.
func (t *Tracer) Lights() []core.Vec3 {
	return t.lights
}

// TraceRay traces the ray defined by origin and a second point dest, with
// lengthRay as the remaining segment budget. Returns an RGB color with
// every channel in [0, 1].
func (t *Tracer) TraceRay(origin, dest core.Vec3, lengthRay float64, stats *Stats) core.Vec3 {
	return t.trace(origin, dest, lengthRay, 0, stats, nil)
}

// TracePath traces like TraceRay but reports each hit along the
// reflection chain to visit, for the debug-ray probe.
func (t *Tracer) TracePath(origin, dest core.Vec3, lengthRay float64, visit func(Hit)) core.Vec3 {
	return t.trace(origin, dest, lengthRay, 0, nil, visit)
}

func (t *Tracer) trace(origin, dest core.Vec3, lengthRay float64, depth int, stats *Stats, visit func(Hit)) core.Vec3 {
	// An exhausted budget is an immediate miss.
	if lengthRay <= 0 {
		return t.background
	}

	direction := dest.Subtract(origin).Normalize()
	if direction.IsZero() {
		return t.background
	}
	if stats != nil && depth == 0 {
		stats.PrimaryRays++
	}

	hit, ok := t.nearestHit(origin, dest, direction, lengthRay, stats)
	if !ok {
		return t.background
	}
	if visit != nil {
		visit(hit)
	}

	local := t.shade(hit, origin, stats)

	mat := core.MaterialOrDefault(t.materials, hit.MaterialID)
	if depth >= MaxDepth || mat.Ks.NearZero(Epsilon) {
		return local
	}

	// Spawn the mirror ray with the budget reduced by the distance
	// already travelled.
	reflected := direction.Reflect(hit.Normal).Normalize()
	bounceOrigin := hit.Point.Add(hit.Normal.Multiply(ShadowBias))
	bounceDest := bounceOrigin.Add(reflected)
	bounced := t.trace(bounceOrigin, bounceDest, lengthRay-hit.T, depth+1, stats, visit)

	return local.Add(mat.Ks.MultiplyVec(bounced)).Clamp(0, 1)
}

// nearestHit tests every candidate face the BVH yields for the segment and
// keeps the smallest positive t. Ties are broken by face order.
func (t *Tracer) nearestHit(origin, dest, direction core.Vec3, maxDist float64, stats *Stats) (Hit, bool) {
	if t.tree == nil {
		return Hit{}, false
	}

	var traversal *bvh.TraversalStats
	if stats != nil {
		traversal = &stats.Traversal
	}

	// The traversal wants the far endpoint of the segment, not just a
	// direction: extend to the full remaining budget.
	far := origin.Add(direction.Multiply(maxDist))
	candidates := t.tree.Candidates(origin, far, traversal)

	best := Hit{T: math.Inf(1), FaceIndex: -1}
	found := false
	for _, fi := range candidates {
		if stats != nil {
			stats.TriangleTests++
		}
		hit, ok := IntersectFace(origin, direction, &t.faces[fi], maxDist)
		if !ok {
			continue
		}
		hit.FaceIndex = int(fi)
		if hit.T < best.T || (hit.T == best.T && hit.FaceIndex < best.FaceIndex) {
			best = hit
			found = true
		}
	}
	return best, found
}
