package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Description is the user-facing scene file: which mesh to load, where
// the camera starts, the initial lights, the background color and the
// render settings. All fields are optional except the mesh path.
type Description struct {
	Mesh   string `yaml:"mesh"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	Camera struct {
		Position [3]float64 `yaml:"position"`
		Yaw      float64    `yaml:"yaw"`
		Pitch    float64    `yaml:"pitch"`
	} `yaml:"camera"`

	Lights     [][3]float64 `yaml:"lights"`
	Background [3]float64   `yaml:"background"`

	RayLength float64 `yaml:"ray_length"`
	Workers   int     `yaml:"workers"`
}

// DefaultDescription returns the settings used when no scene file is
// given: a 400x400 viewport from the origin looking down −Z.
func DefaultDescription() *Description {
	d := &Description{
		Width:  400,
		Height: 400,
	}
	d.Camera.Yaw = -90
	return d
}

// LoadDescription reads a YAML scene file, filling unset fields with the
// defaults.
func LoadDescription(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	desc := DefaultDescription()
	if err := yaml.Unmarshal(data, desc); err != nil {
		return nil, fmt.Errorf("failed to parse scene file: %w", err)
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("scene file %s: non-positive image dimensions %dx%d", path, desc.Width, desc.Height)
	}
	return desc, nil
}
