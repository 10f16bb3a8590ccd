// Package camera provides a perspective fly camera: free translation in
// its local frame plus yaw/pitch rotation, with the pixel-to-world
// mapping the renderer needs to build primary rays.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/ilyagrishkov/raytracer/pkg/core"
)

const (
	defaultFovY = 60.0 // degrees
	defaultNear = 0.1
	defaultFar  = 100.0
	maxPitch    = 89.0
)

// Flycamera is a perspective camera positioned with yaw/pitch Euler
// angles. It implements core.Camera.
type Flycamera struct {
	position mgl32.Vec3
	yaw      float32 // degrees; -90 looks down −Z
	pitch    float32 // degrees

	fovY          float32 // vertical field of view in degrees
	near, far     float32
	width, height int

	home mgl32.Vec3 // pose restored by Reset
}

// New creates a fly camera at the origin looking down −Z over a viewport
// of the given pixel size.
func New(width, height int) *Flycamera {
	return &Flycamera{
		yaw:    -90,
		fovY:   defaultFovY,
		near:   defaultNear,
		far:    defaultFar,
		width:  width,
		height: height,
	}
}

// SetPose places the camera and records the position as its reset home.
// The orientation is not recorded; Reset restores the default one.
func (c *Flycamera) SetPose(position mgl32.Vec3, yaw, pitch float32) {
	c.position = position
	c.yaw = yaw
	c.pitch = clampPitch(pitch)
	c.home = position
}

// Reset returns the camera to its home position and default orientation.
func (c *Flycamera) Reset() {
	c.position = c.home
	c.yaw = -90
	c.pitch = 0
}

// Resize updates the viewport dimensions.
func (c *Flycamera) Resize(width, height int) {
	c.width = width
	c.height = height
}

// Viewport returns the pixel rectangle covered by the camera.
func (c *Flycamera) Viewport() (x0, y0, x1, y1 int) {
	return 0, 0, c.width, c.height
}

// Eye returns the world-space camera position.
func (c *Flycamera) Eye() core.Vec3 {
	return core.FromMgl32(c.position)
}

// ScreenToWorld maps a pixel coordinate to the world-space point on the
// near plane, via the inverse view-projection. Window y grows downward;
// GL's grows upward, so the coordinate is flipped before unprojection.
func (c *Flycamera) ScreenToWorld(pixel core.Vec2) core.Vec3 {
	win := mgl32.Vec3{
		float32(pixel.X),
		float32(c.height) - float32(pixel.Y),
		0, // near plane
	}
	world, err := mgl32.UnProject(win, c.ViewMatrix(), c.ProjectionMatrix(), 0, 0, c.width, c.height)
	if err != nil {
		return core.FromMgl32(c.position)
	}
	return core.FromMgl32(world)
}

// ViewMatrix returns the world-to-camera transform.
func (c *Flycamera) ViewMatrix() mgl32.Mat4 {
	front := c.front()
	return mgl32.LookAtV(c.position, c.position.Add(front), mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns the perspective projection.
func (c *Flycamera) ProjectionMatrix() mgl32.Mat4 {
	aspect := float32(c.width) / float32(c.height)
	return mgl32.Perspective(mgl32.DegToRad(c.fovY), aspect, c.near, c.far)
}

// Translate moves the camera in its local frame: dx strafes, dy rises
// along world up, dz moves along the view direction.
func (c *Flycamera) Translate(dx, dy, dz float32) {
	front := c.front()
	up := mgl32.Vec3{0, 1, 0}
	right := front.Cross(up).Normalize()
	c.position = c.position.
		Add(right.Mul(dx)).
		Add(up.Mul(dy)).
		Add(front.Mul(dz))
}

// Rotate adjusts yaw and pitch by the given deltas in degrees, keeping
// pitch away from the poles.
func (c *Flycamera) Rotate(dYaw, dPitch float32) {
	c.yaw += dYaw
	c.pitch = clampPitch(c.pitch + dPitch)
}

func (c *Flycamera) front() mgl32.Vec3 {
	yawRad := float64(mgl32.DegToRad(c.yaw))
	pitchRad := float64(mgl32.DegToRad(c.pitch))
	return mgl32.Vec3{
		float32(math.Cos(yawRad) * math.Cos(pitchRad)),
		float32(math.Sin(pitchRad)),
		float32(math.Sin(yawRad) * math.Cos(pitchRad)),
	}.Normalize()
}

func clampPitch(pitch float32) float32 {
	if pitch > maxPitch {
		return maxPitch
	}
	if pitch < -maxPitch {
		return -maxPitch
	}
	return pitch
}
