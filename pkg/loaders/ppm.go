package loaders

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/ilyagrishkov/raytracer/pkg/renderer"
)

// WritePPM emits the image as ASCII PPM (P3): a header of the lines "P3",
// "<W> <H>" and "255", then one "r g b" line per pixel, rows top to
// bottom, pixels left to right.
func WritePPM(w io.Writer, img *renderer.Image) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", img.Width, img.Height); err != nil {
		return err
	}
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := img.At(x, y).Clamp(0, 1)
			_, err := fmt.Fprintf(bw, "%d %d %d\n",
				int(math.Round(255*c.X)),
				int(math.Round(255*c.Y)),
				int(math.Round(255*c.Z)))
			if err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// SavePPM writes the image to a PPM file.
func SavePPM(path string, img *renderer.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create PPM file: %w", err)
	}
	defer f.Close()

	if err := WritePPM(f, img); err != nil {
		return fmt.Errorf("failed to write PPM file: %w", err)
	}
	return nil
}
