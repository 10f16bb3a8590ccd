package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilyagrishkov/raytracer/pkg/core"
)

const quadOBJ = `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`

func TestLoad(t *testing.T) {
	desc := DefaultDescription()
	desc.Mesh = writeTempFile(t, "quad.obj", quadOBJ)
	desc.Lights = [][3]float64{{0, 0, 5}}
	desc.Background = [3]float64{0, 0, 1}

	s, err := Load(desc)
	require.NoError(t, err)

	assert.Len(t, s.Faces, 2, "quad fan-triangulates into two faces")
	require.NotNil(t, s.Tree)
	assert.Len(t, s.Lights, 1)
	assert.True(t, s.Background.Equals(core.NewVec3(0, 0, 1)))

	// The tree was built over exactly the loaded faces
	assert.Equal(t, len(s.Faces), len(s.Tree.Faces()))
}

func TestLoad_MissingMesh(t *testing.T) {
	desc := DefaultDescription()
	desc.Mesh = "does-not-exist.obj"
	_, err := Load(desc)
	assert.Error(t, err)
}

func TestScene_LightManagement(t *testing.T) {
	desc := DefaultDescription()
	desc.Mesh = writeTempFile(t, "quad.obj", quadOBJ)

	s, err := Load(desc)
	require.NoError(t, err)
	assert.Empty(t, s.Lights)

	s.AddLight(core.NewVec3(1, 2, 3))
	s.AddLight(core.NewVec3(4, 5, 6))
	assert.Len(t, s.Lights, 2)

	s.ClearLights()
	assert.Empty(t, s.Lights)
}

func TestBackgroundPalette(t *testing.T) {
	palette := []core.Vec3{
		BackgroundRed, BackgroundGreen, BackgroundBlue, BackgroundWhite, BackgroundBlack,
	}
	assert.True(t, palette[0].Equals(core.NewVec3(1, 0, 0)))
	assert.True(t, palette[3].Equals(core.NewVec3(1, 1, 1)))
	assert.True(t, palette[4].IsZero())
}
