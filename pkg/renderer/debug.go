package renderer

import (
	"github.com/ilyagrishkov/raytracer/pkg/core"
	"github.com/ilyagrishkov/raytracer/pkg/trace"
)

// DebugRay is a one-ray visual probe: the polyline a single traced ray
// followed through the scene, for interactive annotation.
type DebugRay struct {
	Points []core.Vec3 // eye, then each hit point, then the escape endpoint
	Hits   []trace.Hit // hits in bounce order; empty for a clean miss
}

// ProbeRay traces exactly one ray through the pixel under the cursor and
// records its reflection chain. The shaded color is discarded.
func (r *Renderer) ProbeRay(mouse core.Vec2) DebugRay {
	origin := r.camera.Eye()
	dest := r.camera.ScreenToWorld(mouse)

	probe := DebugRay{Points: []core.Vec3{origin}}
	r.tracer.TracePath(origin, dest, r.config.RayLength, func(h trace.Hit) {
		probe.Hits = append(probe.Hits, h)
		probe.Points = append(probe.Points, h.Point)
	})

	// Extend the final segment so a miss (or the last bounce) is visible.
	last := origin
	towards := dest
	if n := len(probe.Hits); n > 0 {
		last = probe.Hits[n-1].Point
		direction := core.Vec3{}
		if n > 1 {
			direction = last.Subtract(probe.Hits[n-2].Point)
		} else {
			direction = last.Subtract(origin)
		}
		towards = last.Add(direction.Reflect(probe.Hits[n-1].Normal))
	}
	escape := last.Add(towards.Subtract(last).Normalize().Multiply(r.config.RayLength))
	probe.Points = append(probe.Points, escape)
	return probe
}
