package trace

import (
	"math"

	"github.com/ilyagrishkov/raytracer/pkg/bvh"
	"github.com/ilyagrishkov/raytracer/pkg/core"
)

// ShadowBias offsets shadow and reflection origins along the surface
// normal so a face cannot occlude itself through floating-point drift.
const ShadowBias = 1e-4

// shade computes the Phong color at a hit: ambient once, then diffuse and
// specular per visible light. The result is clamped to [0, 1] per channel.
func (t *Tracer) shade(hit Hit, viewOrigin core.Vec3, stats *Stats) core.Vec3 {
	mat := core.MaterialOrDefault(t.materials, hit.MaterialID)

	color := mat.Ka
	view := viewOrigin.Subtract(hit.Point).Normalize()

	for _, light := range t.lights {
		if t.occluded(hit.Point, hit.Normal, light, stats) {
			continue
		}

		lightDir := light.Subtract(hit.Point).Normalize()

		diffuse := math.Max(0, hit.Normal.Dot(lightDir))
		color = color.Add(mat.Kd.Multiply(diffuse))

		// R = 2(N·L)N − L
		reflect := hit.Normal.Multiply(2 * hit.Normal.Dot(lightDir)).Subtract(lightDir).Normalize()
		specular := math.Pow(math.Max(0, reflect.Dot(view)), mat.Shininess)
		color = color.Add(mat.Ks.Multiply(specular))
	}

	return color.Clamp(0, 1)
}

// occluded reports whether any triangle blocks the segment from the
// surface point to the light, strictly between the biased endpoints. It
// short-circuits on the first occluder.
func (t *Tracer) occluded(point, normal, light core.Vec3, stats *Stats) bool {
	if t.tree == nil {
		return false
	}

	origin := point.Add(normal.Multiply(ShadowBias))
	toLight := light.Subtract(origin)
	dist := toLight.Length()
	if dist <= ShadowBias {
		return false
	}
	direction := toLight.Divide(dist)

	if stats != nil {
		stats.ShadowRays++
	}
	var traversal *bvh.TraversalStats
	if stats != nil {
		traversal = &stats.Traversal
	}

	for _, fi := range t.tree.Candidates(origin, light, traversal) {
		if stats != nil {
			stats.TriangleTests++
		}
		if _, ok := IntersectFace(origin, direction, &t.faces[fi], dist-ShadowBias); ok {
			return true
		}
	}
	return false
}
