package renderer

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/ilyagrishkov/raytracer/pkg/core"
	"github.com/ilyagrishkov/raytracer/pkg/trace"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Config holds orchestrator settings.
type Config struct {
	NumWorkers int     // 0 = use CPU count
	RayLength  float64 // initial segment budget; 0 = trace.RayLength
}

// Renderer casts one primary ray per viewport pixel and fills an image.
// The tracer and camera are read-only during a render; rows are the unit
// of parallelism and of cancellation.
type Renderer struct {
	tracer *trace.Tracer
	camera core.Camera
	config Config
	logger core.Logger
}

// NewRenderer creates a renderer over an immutable tracer and camera.
func NewRenderer(tracer *trace.Tracer, camera core.Camera, config Config, logger core.Logger) *Renderer {
	if config.NumWorkers <= 0 {
		config.NumWorkers = runtime.NumCPU()
	}
	if config.RayLength <= 0 {
		config.RayLength = trace.RayLength
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &Renderer{tracer: tracer, camera: camera, config: config, logger: logger}
}

// Render traces the full viewport and returns the image. Cancelling the
// context stops between rows; the partial image is discarded and the
// context error returned.
func (r *Renderer) Render(ctx context.Context) (*Image, trace.Stats, error) {
	x0, y0, x1, y1 := r.camera.Viewport()
	width, height := x1-x0, y1-y0
	if width <= 0 || height <= 0 {
		return nil, trace.Stats{}, fmt.Errorf("renderer: non-positive image dimensions %dx%d", width, height)
	}

	img := NewImage(width, height)
	origin := r.camera.Eye()

	rows := make(chan int, height)
	for j := 0; j < height; j++ {
		rows <- j
	}
	close(rows)

	workerStats := make([]trace.Stats, r.config.NumWorkers)
	var wg sync.WaitGroup
	for w := 0; w < r.config.NumWorkers; w++ {
		wg.Add(1)
		go func(stats *trace.Stats) {
			defer wg.Done()
			for j := range rows {
				if ctx.Err() != nil {
					return
				}
				r.renderRow(img, origin, x0, y0, j, stats)
			}
		}(&workerStats[w])
	}
	wg.Wait()

	var total trace.Stats
	for i := range workerStats {
		total.Merge(workerStats[i])
	}

	if err := ctx.Err(); err != nil {
		return nil, total, err
	}
	return img, total, nil
}

// renderRow traces every pixel of one image row. Rows never overlap, so
// workers write the shared image without coordination.
func (r *Renderer) renderRow(img *Image, origin core.Vec3, x0, y0, j int, stats *trace.Stats) {
	for i := 0; i < img.Width; i++ {
		pixel := core.NewVec2(float64(x0+i), float64(y0+j))
		dest := r.camera.ScreenToWorld(pixel)
		img.Set(i, j, r.tracer.TraceRay(origin, dest, r.config.RayLength, stats))
	}
}
