// Package scene binds a mesh, its materials, lights and render settings
// into the immutable state a raytrace runs over.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/ilyagrishkov/raytracer/pkg/bvh"
	"github.com/ilyagrishkov/raytracer/pkg/core"
	"github.com/ilyagrishkov/raytracer/pkg/loaders"
)

// Scene holds everything a render reads: the face list, the material
// table, the BVH over the faces, the light positions and the background
// color. Faces, materials and the tree are immutable after Load; lights
// and background may change between renders (never during one).
type Scene struct {
	Faces      []core.Face
	Materials  []core.Material
	Tree       *bvh.Tree
	Lights     []core.Vec3
	Background core.Vec3
}

// Load reads the mesh named by the description, builds the BVH and
// applies the description's lights and background.
func Load(desc *Description) (*Scene, error) {
	faces, materials, err := loaders.LoadOBJ(desc.Mesh)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	tree, err := bvh.NewTree(faces)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	s := &Scene{
		Faces:      faces,
		Materials:  materials,
		Tree:       tree,
		Background: core.NewVec3(desc.Background[0], desc.Background[1], desc.Background[2]),
	}
	for _, l := range desc.Lights {
		s.Lights = append(s.Lights, core.NewVec3(l[0], l[1], l[2]))
	}
	return s, nil
}

// AddLight appends a point light at the given world position.
func (s *Scene) AddLight(position core.Vec3) {
	s.Lights = append(s.Lights, position)
}

// ClearLights removes all light sources.
func (s *Scene) ClearLights() {
	s.Lights = nil
}

// CameraPose returns the description's camera placement as mgl32 values.
func (d *Description) CameraPose() (position mgl32.Vec3, yaw, pitch float32) {
	p := d.Camera.Position
	return mgl32.Vec3{float32(p[0]), float32(p[1]), float32(p[2])},
		float32(d.Camera.Yaw), float32(d.Camera.Pitch)
}
