// Interactive viewer: an OpenGL preview of the mesh with a fly camera,
// from which the user can raytrace the current view, drop debug rays and
// place lights.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/ilyagrishkov/raytracer/pkg/camera"
	"github.com/ilyagrishkov/raytracer/pkg/core"
	"github.com/ilyagrishkov/raytracer/pkg/loaders"
	"github.com/ilyagrishkov/raytracer/pkg/renderer"
	"github.com/ilyagrishkov/raytracer/pkg/scene"
	"github.com/ilyagrishkov/raytracer/pkg/trace"
)

const (
	windowWidth  = 400
	windowHeight = 400
	moveSpeed    = 2.0 // world units per second
)

func init() {
	// GLFW event handling and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

// App owns the interactive state: scene, camera, preview and the latest
// debug ray.
type App struct {
	scene    *scene.Scene
	cam      *camera.Flycamera
	preview  *Preview
	debugRay *renderer.DebugRay
	logger   core.Logger

	mouseX, mouseY float64
	dragging       bool
	lastFrame      time.Time
}

func main() {
	scenePath := flag.String("scene", "", "YAML scene file")
	meshPath := flag.String("obj", "", "OBJ mesh path (overrides the scene file)")
	flag.Parse()

	desc := scene.DefaultDescription()
	if *scenePath != "" {
		loaded, err := scene.LoadDescription(*scenePath)
		if err != nil {
			fmt.Printf("Error reading scene: %v\n", err)
			os.Exit(1)
		}
		desc = loaded
	}
	if *meshPath != "" {
		desc.Mesh = *meshPath
	}
	if desc.Mesh == "" {
		fmt.Println("No mesh given: set -obj or the scene file's mesh field")
		os.Exit(1)
	}

	sceneObj, err := scene.Load(desc)
	if err != nil {
		fmt.Printf("Error loading scene: %v\n", err)
		os.Exit(1)
	}

	if err := glfw.Init(); err != nil {
		fmt.Printf("Failed to init glfw: %v\n", err)
		os.Exit(1)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, "Ray Tracer", nil, nil)
	if err != nil {
		fmt.Printf("Failed to create the GLFW window: %v\n", err)
		os.Exit(1)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		fmt.Printf("Failed to init OpenGL: %v\n", err)
		os.Exit(1)
	}

	cam := camera.New(windowWidth, windowHeight)
	cam.SetPose(desc.CameraPose())

	preview, err := NewPreview(sceneObj)
	if err != nil {
		fmt.Printf("Failed to build preview: %v\n", err)
		os.Exit(1)
	}
	defer preview.Delete()

	app := &App{
		scene:     sceneObj,
		cam:       cam,
		preview:   preview,
		logger:    renderer.NewDefaultLogger(),
		lastFrame: time.Now(),
	}

	window.SetKeyCallback(app.keyCallback)
	window.SetMouseButtonCallback(app.mouseButtonCallback)
	window.SetCursorPosCallback(app.cursorPosCallback)
	window.SetInputMode(glfw.StickyKeysMode, glfw.True)

	printUsage()

	for !window.ShouldClose() {
		app.handleMovement(window)

		eye := app.cam.Eye().ToMgl32()
		app.preview.Draw(app.cam.ViewMatrix(), app.cam.ProjectionMatrix(), eye,
			app.scene.Lights, app.scene.Background, app.debugRay)

		window.SwapBuffers()
		glfw.PollEvents()
	}
}

func printUsage() {
	fmt.Println()
	fmt.Println(" ************ usage ************** ")
	fmt.Println("R    : Reset camera.")
	fmt.Println("WASD : Move camera along the view direction and sideways.")
	fmt.Println("QEZC : Move camera along y axis.")
	fmt.Println("SPACE: Shoot debug ray from mouse cursor position.")
	fmt.Println("L    : Add new light source at current camera position.")
	fmt.Println("K    : Reset the lighting on the scene.")
	fmt.Println("T    : Ray trace the scene.")
	fmt.Println("Y    : BG Color = Red")
	fmt.Println("U    : BG Color = Green")
	fmt.Println("I    : BG Color = Blue")
	fmt.Println("O    : BG Color = White")
	fmt.Println("P    : BG Color = Black")
	fmt.Println("Esc  : Close application.")
	fmt.Println(" ********************************* ")
}

// handleMovement applies held movement keys scaled by frame time.
func (a *App) handleMovement(window *glfw.Window) {
	now := time.Now()
	dt := float32(now.Sub(a.lastFrame).Seconds())
	a.lastFrame = now

	step := moveSpeed * dt
	move := func(key glfw.Key, dx, dy, dz float32) {
		if window.GetKey(key) == glfw.Press {
			a.cam.Translate(dx*step, dy*step, dz*step)
		}
	}
	move(glfw.KeyW, 0, 0, 1)
	move(glfw.KeyS, 0, 0, -1)
	move(glfw.KeyA, -1, 0, 0)
	move(glfw.KeyD, 1, 0, 0)
	move(glfw.KeyQ, 0, 1, 0)
	move(glfw.KeyE, 0, 1, 0)
	move(glfw.KeyZ, 0, -1, 0)
	move(glfw.KeyC, 0, -1, 0)
}

func (a *App) keyCallback(window *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyEscape:
		window.SetShouldClose(true)
	case glfw.KeyR:
		a.cam.Reset()
	case glfw.KeySpace:
		a.shootDebugRay()
	case glfw.KeyL:
		a.scene.AddLight(a.cam.Eye())
		a.logger.Printf("Added light at %v (%d total)\n", a.cam.Eye(), len(a.scene.Lights))
	case glfw.KeyK:
		a.scene.ClearLights()
		a.logger.Printf("Cleared lights\n")
	case glfw.KeyT:
		a.raytrace()
	case glfw.KeyY:
		a.scene.Background = scene.BackgroundRed
	case glfw.KeyU:
		a.scene.Background = scene.BackgroundGreen
	case glfw.KeyI:
		a.scene.Background = scene.BackgroundBlue
	case glfw.KeyO:
		a.scene.Background = scene.BackgroundWhite
	case glfw.KeyP:
		a.scene.Background = scene.BackgroundBlack
	}
}

func (a *App) mouseButtonCallback(window *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button == glfw.MouseButtonLeft {
		a.dragging = action == glfw.Press
	}
}

func (a *App) cursorPosCallback(window *glfw.Window, xpos, ypos float64) {
	if a.dragging {
		a.cam.Rotate(float32(xpos-a.mouseX)*0.2, float32(a.mouseY-ypos)*0.2)
	}
	a.mouseX, a.mouseY = xpos, ypos
}

// newRenderer builds a renderer over the scene's current lights and
// background.
func (a *App) newRenderer() *renderer.Renderer {
	tracer := trace.NewTracer(a.scene.Tree, a.scene.Materials, a.scene.Lights, a.scene.Background)
	return renderer.NewRenderer(tracer, a.cam, renderer.Config{}, a.logger)
}

// shootDebugRay probes the pixel under the mouse cursor and keeps the
// resulting polyline for the preview to draw.
func (a *App) shootDebugRay() {
	probe := a.newRenderer().ProbeRay(core.NewVec2(a.mouseX, a.mouseY))
	a.debugRay = &probe
	a.logger.Printf("Debug ray: %d bounces\n", len(probe.Hits))
}

// raytrace renders the current view to a timestamped PPM file.
func (a *App) raytrace() {
	a.logger.Printf("Raytracing %dx%d with %d lights...\n", windowWidth, windowHeight, len(a.scene.Lights))
	start := time.Now()

	img, stats, err := a.newRenderer().Render(context.Background())
	if err != nil {
		a.logger.Printf("Raytrace failed: %v\n", err)
		return
	}

	path := fmt.Sprintf("render_%s.ppm", time.Now().Format("20060102_150405"))
	if err := loaders.SavePPM(path, img); err != nil {
		a.logger.Printf("Failed to save image: %v\n", err)
		return
	}
	a.logger.Printf("Render completed in %v (%d primary rays), saved as %s\n",
		time.Since(start), stats.PrimaryRays, path)
}
