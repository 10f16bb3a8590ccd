package trace

import (
	"math"
	"testing"

	"github.com/ilyagrishkov/raytracer/pkg/bvh"
	"github.com/ilyagrishkov/raytracer/pkg/core"
)

func buildTracer(t *testing.T, faces []core.Face, materials []core.Material, lights []core.Vec3, background core.Vec3) *Tracer {
	t.Helper()
	tree, err := bvh.NewTree(faces)
	if err != nil {
		t.Fatalf("failed to build BVH: %v", err)
	}
	return NewTracer(tree, materials, lights, background)
}

func TestTraceRay_SingleTriangle(t *testing.T) {
	// Axis-aligned camera at the origin, red triangle at z=-5, light at
	// the eye. The center ray shades red; a ray past the triangle's edge
	// returns background.
	red := core.Material{
		Ka:        core.NewVec3(1, 0, 0),
		Kd:        core.NewVec3(1, 0, 0),
		Ks:        core.NewVec3(1, 0, 0),
		Shininess: 1,
	}
	faces := []core.Face{
		core.NewFace(core.NewVec3(-1, -1, -5), core.NewVec3(1, -1, -5), core.NewVec3(0, 1, -5), 0),
	}
	background := core.NewVec3(0, 0, 0.25)
	tracer := buildTracer(t, faces, []core.Material{red}, []core.Vec3{{X: 0, Y: 0, Z: 0}}, background)

	center := tracer.TraceRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), RayLength, nil)
	if center.X < 0.99 {
		t.Errorf("center ray red channel = %f, want ~1", center.X)
	}
	if center.Y != 0 || center.Z != 0 {
		t.Errorf("center ray = %v, want pure red", center)
	}

	corner := tracer.TraceRay(core.NewVec3(0, 0, 0), core.NewVec3(2, 2, -1), RayLength, nil)
	if !corner.Equals(background) {
		t.Errorf("corner ray = %v, want background %v", corner, background)
	}
}

func TestTraceRay_HardShadow(t *testing.T) {
	// A large triangle at z=-3 sits between the light at the origin and
	// the rear triangle at z=-5: the rear hit shades with ambient only.
	material := core.Material{
		Ka:        core.NewVec3(0.1, 0.2, 0.3),
		Kd:        core.NewVec3(1, 1, 1),
		Ks:        core.NewVec3(0, 0, 0),
		Shininess: 10,
	}
	faces := []core.Face{
		core.NewFace(core.NewVec3(-2, -2, -5), core.NewVec3(2, -2, -5), core.NewVec3(0, 2, -5), 0),
		core.NewFace(core.NewVec3(-2, -2, -3), core.NewVec3(2, -2, -3), core.NewVec3(0, 2, -3), 0),
	}
	tracer := buildTracer(t, faces, []core.Material{material}, []core.Vec3{{X: 0, Y: 0, Z: 0}}, core.Vec3{})

	// Camera behind the rear triangle looking towards the light
	color := tracer.TraceRay(core.NewVec3(0, 0, -10), core.NewVec3(0, 0, -9), RayLength, nil)
	if !color.Equals(material.Ka) {
		t.Errorf("shadowed hit = %v, want ambient %v", color, material.Ka)
	}
}

func TestTraceRay_UnshadowedDiffuse(t *testing.T) {
	// Same geometry without the blocker: the diffuse term arrives
	material := core.Material{
		Ka:        core.NewVec3(0.1, 0.2, 0.3),
		Kd:        core.NewVec3(0.5, 0.5, 0.5),
		Ks:        core.NewVec3(0, 0, 0),
		Shininess: 10,
	}
	faces := []core.Face{
		core.NewFace(core.NewVec3(-2, -2, -5), core.NewVec3(2, -2, -5), core.NewVec3(0, 2, -5), 0),
	}
	light := core.NewVec3(0, 0, 0)
	tracer := buildTracer(t, faces, []core.Material{material}, []core.Vec3{light}, core.Vec3{})

	color := tracer.TraceRay(core.NewVec3(0, 0, -10), core.NewVec3(0, 0, -9), RayLength, nil)

	// Normal (0,0,1), light dir (0,0,1): full diffuse on top of ambient.
	// The view direction is opposite the light, so the specular lobe
	// contributes nothing.
	want := material.Ka.Add(material.Kd)
	if !color.Equals(want) {
		t.Errorf("lit hit = %v, want %v", color, want)
	}
}

func TestTraceRay_MirrorReflection(t *testing.T) {
	// A 45° mirror bounces the center ray into a green wall off to the
	// side; the returned sample is tinted green.
	mirror := core.Material{
		Ka:        core.NewVec3(0, 0, 0),
		Kd:        core.NewVec3(0, 0, 0),
		Ks:        core.NewVec3(1, 1, 1),
		Shininess: 1000,
	}
	green := core.Material{
		Ka:        core.NewVec3(0, 0.1, 0),
		Kd:        core.NewVec3(0, 1, 0),
		Ks:        core.NewVec3(0, 0, 0),
		Shininess: 1,
	}
	faces := []core.Face{
		// Mirror in the plane x+z=-2, normal (1,0,1)/√2
		core.NewFace(core.NewVec3(0, -2, -2), core.NewVec3(0, 2, -2), core.NewVec3(-2, 0, 0), 0),
		// Green wall in the plane x=3, normal (-1,0,0)
		core.NewFace(core.NewVec3(3, -2, -4), core.NewVec3(3, -2, 0), core.NewVec3(3, 2, -2), 1),
	}
	tracer := buildTracer(t, faces, []core.Material{mirror, green},
		[]core.Vec3{{X: 0, Y: 0, Z: 0}}, core.Vec3{})

	color := tracer.TraceRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), RayLength, nil)
	if color.Y < 0.5 {
		t.Errorf("green channel = %f, want > 0.5", color.Y)
	}
	if color.X > 1e-9 || color.Z > 1e-9 {
		t.Errorf("reflection sample = %v, want pure green tint", color)
	}
}

func TestTraceRay_DepthCap(t *testing.T) {
	// Two facing mirrors would reflect forever; the recursion stops at
	// MaxDepth and the result is the geometric series of the ambient
	// term scaled by ks per bounce.
	mirror := core.Material{
		Ka:        core.NewVec3(0.2, 0, 0),
		Kd:        core.NewVec3(0, 0, 0),
		Ks:        core.NewVec3(0.5, 0.5, 0.5),
		Shininess: 1,
	}
	faces := []core.Face{
		core.NewFace(core.NewVec3(-10, -10, -1), core.NewVec3(10, -10, -1), core.NewVec3(0, 10, -1), 0),
		core.NewFace(core.NewVec3(-10, -10, 1), core.NewVec3(0, 10, 1), core.NewVec3(10, -10, 1), 0),
	}
	tracer := buildTracer(t, faces, []core.Material{mirror}, nil, core.Vec3{})

	color := tracer.TraceRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), 1000, nil)

	// Σ 0.2·0.5^k for k = 0..MaxDepth
	want := 0.0
	for k := 0; k <= MaxDepth; k++ {
		want += 0.2 * math.Pow(0.5, float64(k))
	}
	if math.Abs(color.X-want) > 1e-9 {
		t.Errorf("depth-capped red channel = %f, want %f", color.X, want)
	}
	if color.Y != 0 || color.Z != 0 {
		t.Errorf("depth-capped color = %v, want red only", color)
	}
}

func TestTraceRay_LengthBudget(t *testing.T) {
	faces := []core.Face{
		core.NewFace(core.NewVec3(-1, -1, -5), core.NewVec3(1, -1, -5), core.NewVec3(0, 1, -5), -1),
	}
	background := core.NewVec3(0.5, 0.5, 0.5)
	tracer := buildTracer(t, faces, nil, nil, background)

	origin := core.NewVec3(0, 0, 0)
	dest := core.NewVec3(0, 0, -1)

	// Budget shorter than the hit distance: miss
	if got := tracer.TraceRay(origin, dest, 3, nil); !got.Equals(background) {
		t.Errorf("short budget = %v, want background", got)
	}
	// Non-positive budget: immediate miss
	if got := tracer.TraceRay(origin, dest, 0, nil); !got.Equals(background) {
		t.Errorf("zero budget = %v, want background", got)
	}
	// Enough budget: hit with the default material
	if got := tracer.TraceRay(origin, dest, 10, nil); got.Equals(background) {
		t.Error("expected a hit with sufficient budget")
	}
}

func TestTraceRay_ZeroDirection(t *testing.T) {
	faces := []core.Face{
		core.NewFace(core.NewVec3(-1, -1, -5), core.NewVec3(1, -1, -5), core.NewVec3(0, 1, -5), -1),
	}
	background := core.NewVec3(0.1, 0.1, 0.1)
	tracer := buildTracer(t, faces, nil, nil, background)

	p := core.NewVec3(1, 2, 3)
	if got := tracer.TraceRay(p, p, 10, nil); !got.Equals(background) {
		t.Errorf("zero-direction ray = %v, want background", got)
	}
}

func TestTraceRay_EmptySceneTracer(t *testing.T) {
	// A nil tree is a legal empty scene: everything misses
	background := core.NewVec3(0, 1, 0)
	tracer := NewTracer(nil, nil, nil, background)
	if got := tracer.TraceRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), 10, nil); !got.Equals(background) {
		t.Errorf("empty scene = %v, want background", got)
	}
}

func TestTraceRay_EmptyLightsAmbientOnly(t *testing.T) {
	material := core.Material{
		Ka:        core.NewVec3(0.25, 0.5, 0.75),
		Kd:        core.NewVec3(1, 1, 1),
		Ks:        core.NewVec3(0, 0, 0),
		Shininess: 5,
	}
	faces := []core.Face{
		core.NewFace(core.NewVec3(-1, -1, -5), core.NewVec3(1, -1, -5), core.NewVec3(0, 1, -5), 0),
	}
	tracer := buildTracer(t, faces, []core.Material{material}, nil, core.Vec3{})

	got := tracer.TraceRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), 10, nil)
	if !got.Equals(material.Ka) {
		t.Errorf("no-light shading = %v, want ambient %v", got, material.Ka)
	}
}

func TestTraceRay_ClampedChannels(t *testing.T) {
	hot := core.Material{
		Ka:        core.NewVec3(1, 1, 1),
		Kd:        core.NewVec3(1, 1, 1),
		Ks:        core.NewVec3(1, 1, 1),
		Shininess: 1,
	}
	faces := []core.Face{
		core.NewFace(core.NewVec3(-1, -1, -5), core.NewVec3(1, -1, -5), core.NewVec3(0, 1, -5), 0),
	}
	lights := []core.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: -1, Y: 1, Z: 0}}
	tracer := buildTracer(t, faces, []core.Material{hot}, lights, core.Vec3{})

	got := tracer.TraceRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), 10, nil)
	for _, channel := range []float64{got.X, got.Y, got.Z} {
		if channel < 0 || channel > 1 {
			t.Errorf("channel %f outside [0,1]", channel)
		}
	}
}

func TestTraceRay_DegenerateFaceInMesh(t *testing.T) {
	// A zero-area face shares the mesh with a real one; it is never hit
	// and does not disturb the result for a ray through its location.
	faces := []core.Face{
		core.NewFace(core.NewVec3(0, 0, -4), core.NewVec3(0, 0, -4), core.NewVec3(1, 1, -4), -1),
		core.NewFace(core.NewVec3(-1, -1, -5), core.NewVec3(1, -1, -5), core.NewVec3(0, 1, -5), -1),
	}
	background := core.NewVec3(0, 0, 0)
	tracer := buildTracer(t, faces, nil, nil, background)

	var first *Hit
	tracer.TracePath(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), 10, func(h Hit) {
		if first == nil {
			hh := h
			first = &hh
		}
	})
	if first == nil {
		t.Fatal("expected the real face to be hit")
	}
	if first.FaceIndex != 1 {
		t.Errorf("FaceIndex = %d, want 1 (the non-degenerate face)", first.FaceIndex)
	}
	if math.Abs(first.T-5) > 1e-12 {
		t.Errorf("T = %f, want 5", first.T)
	}
}

func TestNearestHit_TieBrokenByFaceOrder(t *testing.T) {
	// Two identical triangles: the lower face index wins the tie
	tri := func() core.Face {
		return core.NewFace(core.NewVec3(-1, -1, -5), core.NewVec3(1, -1, -5), core.NewVec3(0, 1, -5), -1)
	}
	tracer := buildTracer(t, []core.Face{tri(), tri()}, nil, nil, core.Vec3{})

	direction := core.NewVec3(0, 0, -1)
	hit, ok := tracer.nearestHit(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), direction, 10, nil)
	if !ok {
		t.Fatal("expected hit")
	}
	if hit.FaceIndex != 0 {
		t.Errorf("FaceIndex = %d, want 0", hit.FaceIndex)
	}
}

func TestTraceRay_StatsAccumulate(t *testing.T) {
	faces := []core.Face{
		core.NewFace(core.NewVec3(-1, -1, -5), core.NewVec3(1, -1, -5), core.NewVec3(0, 1, -5), -1),
	}
	tracer := buildTracer(t, faces, nil, []core.Vec3{{X: 0, Y: 0, Z: 0}}, core.Vec3{})

	var stats Stats
	tracer.TraceRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), 10, &stats)
	if stats.PrimaryRays == 0 {
		t.Error("expected primary rays counted")
	}
	if stats.ShadowRays == 0 {
		t.Error("expected shadow rays counted")
	}
	if stats.TriangleTests == 0 {
		t.Error("expected triangle tests counted")
	}

	var merged Stats
	merged.Merge(stats)
	merged.Merge(stats)
	if merged.TriangleTests != 2*stats.TriangleTests {
		t.Errorf("Merge: %d, want %d", merged.TriangleTests, 2*stats.TriangleTests)
	}
}
