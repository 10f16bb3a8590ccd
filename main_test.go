package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ilyagrishkov/raytracer/pkg/core"
	"github.com/ilyagrishkov/raytracer/pkg/renderer"
)

func TestBuildDescription_FlagOverrides(t *testing.T) {
	config := Config{
		MeshPath: "models/cube.obj",
		Width:    320,
		Height:   240,
	}

	desc, err := buildDescription(config)
	if err != nil {
		t.Fatalf("buildDescription failed: %v", err)
	}
	if desc.Mesh != "models/cube.obj" {
		t.Errorf("Mesh = %s", desc.Mesh)
	}
	if desc.Width != 320 || desc.Height != 240 {
		t.Errorf("size = %dx%d", desc.Width, desc.Height)
	}
}

func TestBuildDescription_RequiresMesh(t *testing.T) {
	if _, err := buildDescription(Config{}); err == nil {
		t.Error("expected error when no mesh is given")
	}
}

func TestBuildDescription_SceneFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	content := "mesh: room.obj\nwidth: 640\nheight: 480\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	desc, err := buildDescription(Config{ScenePath: path, Width: 100})
	if err != nil {
		t.Fatalf("buildDescription failed: %v", err)
	}
	if desc.Mesh != "room.obj" {
		t.Errorf("Mesh = %s", desc.Mesh)
	}
	// Flags win over the scene file
	if desc.Width != 100 {
		t.Errorf("Width = %d, want flag override 100", desc.Width)
	}
	if desc.Height != 480 {
		t.Errorf("Height = %d, want scene file value 480", desc.Height)
	}
}

func TestSaveImage_Formats(t *testing.T) {
	img := renderer.NewImage(2, 2)
	img.Set(0, 0, core.NewVec3(1, 0, 0))

	dir := t.TempDir()
	if err := saveImage(Config{OutputDir: dir, Format: "both"}, img); err != nil {
		t.Fatalf("saveImage failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var havePPM, havePNG bool
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".ppm") {
			havePPM = true
		}
		if strings.HasSuffix(e.Name(), ".png") {
			havePNG = true
		}
	}
	if !havePPM || !havePNG {
		t.Errorf("expected both formats, got ppm=%v png=%v", havePPM, havePNG)
	}
}
