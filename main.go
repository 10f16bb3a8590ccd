package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/ilyagrishkov/raytracer/pkg/camera"
	"github.com/ilyagrishkov/raytracer/pkg/loaders"
	"github.com/ilyagrishkov/raytracer/pkg/renderer"
	"github.com/ilyagrishkov/raytracer/pkg/scene"
	"github.com/ilyagrishkov/raytracer/pkg/trace"
)

// Config holds all the configuration for the raytracer
type Config struct {
	ScenePath  string
	MeshPath   string
	Width      int
	Height     int
	NumWorkers int
	OutputDir  string
	Format     string
	Help       bool
	CPUProfile string
}

func main() {
	config := parseFlags()
	if config.Help {
		showHelp()
		return
	}

	if config.CPUProfile != "" {
		f, err := os.Create(config.CPUProfile)
		if err != nil {
			fmt.Printf("Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Printf("Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	desc, err := buildDescription(config)
	if err != nil {
		fmt.Printf("Error reading scene: %v\n", err)
		os.Exit(1)
	}

	logger := renderer.NewDefaultLogger()
	logger.Printf("Loading mesh %s...\n", desc.Mesh)

	sceneObj, err := scene.Load(desc)
	if err != nil {
		fmt.Printf("Error loading scene: %v\n", err)
		os.Exit(1)
	}
	treeStats := sceneObj.Tree.Stats()
	logger.Printf("Loaded %d faces, %d materials; BVH: %d nodes, %d leaves, depth %d\n",
		len(sceneObj.Faces), len(sceneObj.Materials), treeStats.Nodes, treeStats.Leaves, treeStats.MaxDepth)

	cam := camera.New(desc.Width, desc.Height)
	cam.SetPose(desc.CameraPose())

	tracer := trace.NewTracer(sceneObj.Tree, sceneObj.Materials, sceneObj.Lights, sceneObj.Background)
	rt := renderer.NewRenderer(tracer, cam, renderer.Config{
		NumWorkers: desc.Workers,
		RayLength:  desc.RayLength,
	}, logger)

	logger.Printf("Raytracing %dx%d with %d lights...\n", desc.Width, desc.Height, len(sceneObj.Lights))
	startTime := time.Now()

	img, stats, err := rt.Render(context.Background())
	if err != nil {
		fmt.Printf("Error during render: %v\n", err)
		os.Exit(1)
	}

	logger.Printf("Render completed in %v\n", time.Since(startTime))
	logger.Printf("Rays: %d primary, %d shadow; %d triangle tests, %d/%d box hits\n",
		stats.PrimaryRays, stats.ShadowRays, stats.TriangleTests,
		stats.Traversal.BoxHits, stats.Traversal.BoxTests)

	if err := saveImage(config, img); err != nil {
		fmt.Printf("Error saving image: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags parses command line flags and returns configuration
func parseFlags() Config {
	config := Config{}
	flag.StringVar(&config.ScenePath, "scene", "", "YAML scene file")
	flag.StringVar(&config.MeshPath, "obj", "", "OBJ mesh path (overrides the scene file)")
	flag.IntVar(&config.Width, "width", 0, "Image width in pixels (overrides the scene file)")
	flag.IntVar(&config.Height, "height", 0, "Image height in pixels (overrides the scene file)")
	flag.IntVar(&config.NumWorkers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	flag.StringVar(&config.OutputDir, "output", "output", "Output directory")
	flag.StringVar(&config.Format, "format", "ppm", "Output format: 'ppm', 'png' or 'both'")
	flag.BoolVar(&config.Help, "help", false, "Show help information")
	flag.StringVar(&config.CPUProfile, "cpuprofile", "", "Write CPU profile to file")
	flag.Parse()
	return config
}

// showHelp displays help information
func showHelp() {
	fmt.Println("BVH Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  raytracer --obj=models/bunny.obj")
	fmt.Println("  raytracer --scene=scenes/room.yaml --format=both")
	fmt.Println("  raytracer --obj=models/bunny.obj --width=800 --height=600 --workers=4")
	fmt.Println()
	fmt.Println("Output will be saved to <output>/render_<timestamp>.<format>")
	fmt.Println("For the interactive viewer, run the viewer binary instead.")
}

// buildDescription combines the scene file (if any) with flag overrides
func buildDescription(config Config) (*scene.Description, error) {
	desc := scene.DefaultDescription()
	if config.ScenePath != "" {
		loaded, err := scene.LoadDescription(config.ScenePath)
		if err != nil {
			return nil, err
		}
		desc = loaded
	}
	if config.MeshPath != "" {
		desc.Mesh = config.MeshPath
	}
	if config.Width > 0 {
		desc.Width = config.Width
	}
	if config.Height > 0 {
		desc.Height = config.Height
	}
	if config.NumWorkers > 0 {
		desc.Workers = config.NumWorkers
	}
	if desc.Mesh == "" {
		return nil, fmt.Errorf("no mesh given: set -obj or the scene file's mesh field")
	}
	return desc, nil
}

// saveImage writes the rendered image in the configured formats
func saveImage(config Config, img *renderer.Image) error {
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return err
	}
	timestamp := time.Now().Format("20060102_150405")
	base := filepath.Join(config.OutputDir, fmt.Sprintf("render_%s", timestamp))

	if config.Format == "ppm" || config.Format == "both" {
		path := base + ".ppm"
		if err := loaders.SavePPM(path, img); err != nil {
			return err
		}
		fmt.Printf("Render saved as %s\n", path)
	}
	if config.Format == "png" || config.Format == "both" {
		path := base + ".png"
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := png.Encode(f, img.ToRGBA()); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("Render saved as %s\n", path)
	}
	return nil
}
