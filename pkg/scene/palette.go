package scene

import "github.com/ilyagrishkov/raytracer/pkg/core"

// Background palette cycled by the interactive controls.
var (
	BackgroundRed   = core.NewVec3(1, 0, 0)
	BackgroundGreen = core.NewVec3(0, 1, 0)
	BackgroundBlue  = core.NewVec3(0, 0, 1)
	BackgroundWhite = core.NewVec3(1, 1, 1)
	BackgroundBlack = core.NewVec3(0, 0, 0)
)
