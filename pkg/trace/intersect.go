package trace

import (
	"math"

	"github.com/ilyagrishkov/raytracer/pkg/core"
)

// Epsilon gates both triangle degeneracy and the self-hit reject at the
// origin end of a ray.
const Epsilon = 1e-6

// Hit describes a ray/triangle intersection
type Hit struct {
	T          float64   // distance along the ray direction
	Point      core.Vec3 // origin + T·direction
	Normal     core.Vec3 // the triangle's stored unit normal
	Bary       core.Vec3 // barycentric weights (1−u−v, u, v)
	MaterialID int       // copied from the face
	FaceIndex  int       // index into the mesh face list
}

// IntersectFace runs the Möller–Trumbore test of the ray (origin,
// direction) against a face. direction must be unit length; hits farther
// than maxDist, behind the origin, or within Epsilon of it are rejected.
// Degenerate (zero-area) triangles never hit.
func IntersectFace(origin, direction core.Vec3, f *core.Face, maxDist float64) (Hit, bool) {
	ab := f.V1.Subtract(f.V0)
	ac := f.V2.Subtract(f.V0)

	pvec := direction.Cross(ac)
	det := ab.Dot(pvec)
	if math.Abs(det) < Epsilon {
		return Hit{}, false
	}

	invDet := 1.0 / det
	tvec := origin.Subtract(f.V0)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return Hit{}, false
	}

	qvec := tvec.Cross(ab)
	v := direction.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return Hit{}, false
	}

	t := ac.Dot(qvec) * invDet
	if t <= Epsilon || t > maxDist {
		return Hit{}, false
	}

	return Hit{
		T:          t,
		Point:      origin.Add(direction.Multiply(t)),
		Normal:     f.Normal,
		Bary:       core.NewVec3(1-u-v, u, v),
		MaterialID: f.MaterialID,
	}, true
}
