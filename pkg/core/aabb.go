package core

import "math"

// aabbEpsilon fattens the segment direction in the cross-axis tests so that
// segments running parallel to a box face are not rejected by rounding.
const aabbEpsilon = 1e-9

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB creates an inverted AABB that any point expansion will overwrite
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: Vec3{X: inf, Y: inf, Z: inf},
		Max: Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB()
	for _, point := range points {
		box = box.ExpandPoint(point)
	}
	return box
}

// NewAABBAroundFaces creates an AABB enclosing every vertex of every face
func NewAABBAroundFaces(faces []Face) AABB {
	box := EmptyAABB()
	for i := range faces {
		box = box.ExpandFace(&faces[i])
	}
	return box
}

// ExpandPoint grows the box to include the given point
func (aabb AABB) ExpandPoint(p Vec3) AABB {
	return AABB{
		Min: Vec3{
			X: math.Min(aabb.Min.X, p.X),
			Y: math.Min(aabb.Min.Y, p.Y),
			Z: math.Min(aabb.Min.Z, p.Z),
		},
		Max: Vec3{
			X: math.Max(aabb.Max.X, p.X),
			Y: math.Max(aabb.Max.Y, p.Y),
			Z: math.Max(aabb.Max.Z, p.Z),
		},
	}
}

// ExpandFace grows the box to include all three vertices of the face
func (aabb AABB) ExpandFace(f *Face) AABB {
	return aabb.ExpandPoint(f.V0).ExpandPoint(f.V1).ExpandPoint(f.V2)
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return aabb.ExpandPoint(other.Min).ExpandPoint(other.Max)
}

// IsEmpty returns true if the box contains no points (min > max on some axis)
func (aabb AABB) IsEmpty() bool {
	return aabb.Min.X > aabb.Max.X ||
		aabb.Min.Y > aabb.Max.Y ||
		aabb.Min.Z > aabb.Max.Z
}

// Contains reports whether the point lies inside the box, boundary inclusive
func (aabb AABB) Contains(p Vec3) bool {
	return p.X >= aabb.Min.X && p.X <= aabb.Max.X &&
		p.Y >= aabb.Min.Y && p.Y <= aabb.Max.Y &&
		p.Z >= aabb.Min.Z && p.Z <= aabb.Max.Z
}

// ContainsFace reports whether all three vertices of the face lie inside the box
func (aabb AABB) ContainsFace(f *Face) bool {
	return aabb.Contains(f.V0) && aabb.Contains(f.V1) && aabb.Contains(f.V2)
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}

// IntersectSegment tests the segment p→q against the box using the
// separating-axis test for segments from Ericson, Real-Time Collision
// Detection §5.3.3. False positives for grazing segments are fine; the
// triangle test downstream is authoritative.
func (aabb AABB) IntersectSegment(p, q Vec3) bool {
	e := aabb.Max.Subtract(aabb.Min)
	d := q.Subtract(p)
	m := p.Add(q).Subtract(aabb.Min).Subtract(aabb.Max)

	// Try world axes as separating axes
	adx := math.Abs(d.X)
	if math.Abs(m.X) > e.X+adx {
		return false
	}
	ady := math.Abs(d.Y)
	if math.Abs(m.Y) > e.Y+ady {
		return false
	}
	adz := math.Abs(d.Z)
	if math.Abs(m.Z) > e.Z+adz {
		return false
	}

	// Counteract arithmetic error when segment is near parallel to an axis
	adx += aabbEpsilon
	ady += aabbEpsilon
	adz += aabbEpsilon

	// Try cross products of segment direction with world axes
	if math.Abs(m.Y*d.Z-m.Z*d.Y) > e.Y*adz+e.Z*ady {
		return false
	}
	if math.Abs(m.Z*d.X-m.X*d.Z) > e.X*adz+e.Z*adx {
		return false
	}
	if math.Abs(m.X*d.Y-m.Y*d.X) > e.X*ady+e.Y*adx {
		return false
	}

	return true
}
