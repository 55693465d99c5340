package presenter

import "testing"

func TestFrameToImagePreservesPixels(t *testing.T) {
	pixels := make([]byte, frameWidth*frameHeight*3)
	pixels[0], pixels[1], pixels[2] = 0x12, 0x34, 0x56 // pixel (0,0)

	lastPixel := (frameHeight*frameWidth - 1) * 3
	pixels[lastPixel], pixels[lastPixel+1], pixels[lastPixel+2] = 0xAA, 0xBB, 0xCC

	img := frameToImage(pixels)
	bounds := img.Bounds()
	if bounds.Dx() != frameWidth || bounds.Dy() != frameHeight {
		t.Fatalf("got %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), frameWidth, frameHeight)
	}

	r, g, b, _ := img.At(0, 0).RGBA()
	if byte(r>>8) != 0x12 || byte(g>>8) != 0x34 || byte(b>>8) != 0x56 {
		t.Errorf("pixel (0,0): got (%02X,%02X,%02X)", r>>8, g>>8, b>>8)
	}

	r, g, b, _ = img.At(frameWidth-1, frameHeight-1).RGBA()
	if byte(r>>8) != 0xAA || byte(g>>8) != 0xBB || byte(b>>8) != 0xCC {
		t.Errorf("pixel (%d,%d): got (%02X,%02X,%02X)", frameWidth-1, frameHeight-1, r>>8, g>>8, b>>8)
	}
}
