package presenter

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/jsummers/gobmp"
)

// frameToImage copies a raw 280x192x3 RGB frame buffer, pixel by
// pixel, into a new opaque RGBA image.
func frameToImage(pixels []byte) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, frameWidth, frameHeight))
	for y := 0; y < frameHeight; y++ {
		for x := 0; x < frameWidth; x++ {
			i := (y*frameWidth + x) * 3
			img.Set(x, y, color.RGBA{R: pixels[i], G: pixels[i+1], B: pixels[i+2], A: 255})
		}
	}
	return img
}

// saveScreenshot dumps the machine's current frame to a BMP file, a
// debug convenience for bug reports and golden-frame capture.
func (p *Presenter) saveScreenshot(path string) error {
	pixels := p.machine.DrawFrame(p.frameRate)
	if len(pixels) != frameWidth*frameHeight*3 {
		return fmt.Errorf("frame buffer size mismatch: got %d bytes", len(pixels))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating screenshot file %s: %w", path, err)
	}
	defer f.Close()

	if err := gobmp.Encode(f, frameToImage(pixels)); err != nil {
		return fmt.Errorf("encoding screenshot: %w", err)
	}
	return nil
}
