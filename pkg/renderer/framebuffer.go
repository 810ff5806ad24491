// Package renderer drives the bee/ant pixel pipeline: it enumerates
// screen pixels into tasks, runs the path-tracing kernel across worker
// goroutines, and writes the averaged, gamma-corrected result into a
// framebuffer while persisting each pixel's path records.
package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/amberhive/beeant-tracer/pkg/core"
)

// gamma is the exponent applied to each clamped linear channel before
// quantizing to a byte: channel_byte = 255 * clamp(channel, 0, 1)^gamma.
const gamma = 0.6

// Framebuffer is a dense Width*Height array of linear-radiance RGB
// cells. Each cell is written exactly once by the ant, so no per-cell
// lock is needed; the pipeline guarantees no two bees ever target the
// same pixel.
type Framebuffer struct {
	Width, Height int
	pixels        []core.Vec3
}

// NewFramebuffer allocates a zeroed framebuffer of the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{Width: width, Height: height, pixels: make([]core.Vec3, width*height)}
}

// Set writes the linear radiance for pixel (col, row).
func (f *Framebuffer) Set(col, row int, radiance core.Vec3) {
	f.pixels[row*f.Width+col] = radiance
}

// At returns the linear radiance previously written to (col, row).
func (f *Framebuffer) At(col, row int) core.Vec3 {
	return f.pixels[row*f.Width+col]
}

// gammaByte clamps a single linear channel to [0,1] and raises it to the
// power gamma via core.Vec3's own Clamp/GammaCorrect (GammaCorrect(g)
// raises to 1/g, so it's called here with 1/gamma).
func gammaByte(channel float64) byte {
	v := core.Vec3{X: channel}.Clamp(0, 1).GammaCorrect(1.0 / gamma)
	return byte(255 * v.X)
}

// ImageSink writes a Framebuffer out in some image format. PPMSink and
// PNGSink wrap WritePPM and WritePNG so a caller can hold either behind
// the same interface.
type ImageSink interface {
	Write(f *Framebuffer, w io.Writer) error
}

// PPMSink writes the exact PPM (P6) byte layout specified in §6.
type PPMSink struct{}

// Write implements ImageSink.
func (PPMSink) Write(f *Framebuffer, w io.Writer) error { return f.WritePPM(w) }

// PNGSink writes a gamma-corrected PNG for quick inspection.
type PNGSink struct{}

// Write implements ImageSink.
func (PNGSink) Write(f *Framebuffer, w io.Writer) error { return f.WritePNG(w) }

// WritePPM writes the framebuffer as a binary PPM (P6): header
// "P6\n<width> <height>\n255\n" followed by width*height*3 raw bytes,
// row-major top-to-bottom, left-to-right, R,G,B per pixel.
func (f *Framebuffer) WritePPM(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", f.Width, f.Height); err != nil {
		return err
	}

	buf := make([]byte, len(f.pixels)*3)
	for i, p := range f.pixels {
		buf[i*3+0] = gammaByte(p.X)
		buf[i*3+1] = gammaByte(p.Y)
		buf[i*3+2] = gammaByte(p.Z)
	}
	_, err := w.Write(buf)
	return err
}

// WritePNG writes the framebuffer as a gamma-corrected PNG, for quick
// inspection in tools that don't read PPM.
func (f *Framebuffer) WritePNG(w io.Writer) error {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for row := 0; row < f.Height; row++ {
		for col := 0; col < f.Width; col++ {
			p := f.At(col, row)
			img.SetRGBA(col, row, color.RGBA{R: gammaByte(p.X), G: gammaByte(p.Y), B: gammaByte(p.Z), A: 255})
		}
	}
	return png.Encode(w, img)
}
