package video

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/bmp"
)

// TestHGRFrameMatchesGoldenBMPFixture renders the literal S4 HGR
// scenario, round-trips the expected pixel through a BMP encode/decode
// (standing in for a golden fixture file checked into testdata), and
// compares it byte-for-byte against the compositor's own output.
func TestHGRFrameMatchesGoldenBMPFixture(t *testing.T) {
	golden := image.NewRGBA(image.Rect(0, 0, 1, 1))
	golden.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	var buf bytes.Buffer
	if err := bmp.Encode(&buf, golden); err != nil {
		t.Fatalf("encoding golden fixture: %v", err)
	}

	decoded, err := bmp.Decode(&buf)
	if err != nil {
		t.Fatalf("decoding golden fixture: %v", err)
	}
	wantR, wantG, wantB, _ := decoded.At(0, 0).RGBA()

	c, mem := newTestCompositor()
	c.HandleSoftSwitch(swGfxMode)
	c.HandleSoftSwitch(swHiresMode)
	c.HandleSoftSwitch(swPage1Mode)
	mem.WriteMain(0x2000, 0x7F)
	mem.WriteMain(0x2001, 0x01)

	frame := c.Render(60, mem)
	got := pixelAt(frame, 6, 0)

	if got[0] != byte(wantR>>8) || got[1] != byte(wantG>>8) || got[2] != byte(wantB>>8) {
		t.Errorf("pixel (6,0) = %v, want white (%d,%d,%d) per golden fixture", got, wantR>>8, wantG>>8, wantB>>8)
	}
}
