package core

// Face is a single mesh triangle. Immutable after construction: three
// vertices, a unit-length face normal (zero for a degenerate face), and an
// index into the material table. A negative index selects the default
// material.
type Face struct {
	V0, V1, V2 Vec3
	Normal     Vec3
	MaterialID int
}

// NewFace creates a face, computing the geometric normal from the winding
func NewFace(v0, v1, v2 Vec3, materialID int) Face {
	normal := v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	return Face{V0: v0, V1: v1, V2: v2, Normal: normal, MaterialID: materialID}
}

// NewFaceWithNormal creates a face with a precomputed normal
func NewFaceWithNormal(v0, v1, v2, normal Vec3, materialID int) Face {
	return Face{V0: v0, V1: v1, V2: v2, Normal: normal.Normalize(), MaterialID: materialID}
}

// Centroid returns the barycenter of the triangle
func (f *Face) Centroid() Vec3 {
	return f.V0.Add(f.V1).Add(f.V2).Divide(3)
}

// Material holds the Phong coefficients of a surface
type Material struct {
	Ka        Vec3    // ambient color
	Kd        Vec3    // diffuse color
	Ks        Vec3    // specular color
	Shininess float64 // specular exponent
}

// DefaultMaterial is substituted for faces whose material index is
// negative or outside the material table.
var DefaultMaterial = Material{
	Ka:        Vec3{X: 0.3, Y: 0.3, Z: 0.3},
	Kd:        Vec3{X: 0.8, Y: 0.5, Z: 0.1},
	Ks:        Vec3{X: 1, Y: 1, Z: 1},
	Shininess: 10,
}

// MaterialOrDefault resolves a face's material index against the table
func MaterialOrDefault(materials []Material, id int) Material {
	if id < 0 || id >= len(materials) {
		return DefaultMaterial
	}
	return materials[id]
}
