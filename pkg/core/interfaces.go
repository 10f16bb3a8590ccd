package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Camera supplies the viewport and the pixel-to-world mapping used to
// build primary rays. Implemented by pkg/camera; consumed by the renderer.
type Camera interface {
	// Viewport returns the pixel rectangle (x0, y0, x1, y1)
	Viewport() (x0, y0, x1, y1 int)
	// Eye returns the world-space camera position
	Eye() Vec3
	// ScreenToWorld maps a pixel coordinate to a world-space point on the
	// near plane, so that dest − eye defines the primary ray direction
	ScreenToWorld(pixel Vec2) Vec3
}
