package video

import (
	"testing"

	"apple2/internal/memory"
)

func newTestCompositor() (*Compositor, *memory.Bus) {
	rom := make([]byte, charROMSize)
	return NewCompositor(rom), memory.NewBus()
}

func pixelAt(buf []byte, x, y int) [3]byte {
	idx := y*hgrBytesPerRow + x*bytesPerPixel
	return [3]byte{buf[idx], buf[idx+1], buf[idx+2]}
}

// TestHGRWhiteCoalescing covers scenario S4: adjacent on-dots across a
// byte boundary must render white.
func TestHGRWhiteCoalescing(t *testing.T) {
	c, mem := newTestCompositor()
	c.HandleSoftSwitch(swGfxMode)
	c.HandleSoftSwitch(swHiresMode)
	c.HandleSoftSwitch(swPage1Mode)

	mem.WriteMain(0x2000, 0x7F)
	mem.WriteMain(0x2001, 0x01)

	buf := c.Render(60, mem)
	got := pixelAt(buf, 6, 0)
	if got != colorWhite {
		t.Errorf("pixel (6,0) = %v, want white", got)
	}
}

func TestHGRInvariantWhiteHasOnNeighbor(t *testing.T) {
	c, mem := newTestCompositor()
	c.HandleSoftSwitch(swGfxMode)
	c.HandleSoftSwitch(swHiresMode)
	c.HandleSoftSwitch(swPage1Mode)

	for col := 0; col < 40; col++ {
		mem.WriteMain(uint16(0x2000+col), byte(0x55+col%3))
	}

	buf := c.Render(60, mem)

	var bits [DispWidth]byte
	for col := 0; col < 40; col++ {
		val := mem.ReadMain(uint16(0x2000 + col))
		for dot := 0; dot < cellWidth; dot++ {
			bits[col*cellWidth+dot] = bitAt(val, uint(dot))
		}
	}

	for x := 0; x < DispWidth; x++ {
		if pixelAt(buf, x, 0) == colorWhite {
			left := byte(0)
			right := byte(0)
			if x > 0 {
				left = bits[x-1]
			}
			if x < DispWidth-1 {
				right = bits[x+1]
			}
			if bits[x] != 1 || (left != 1 && right != 1) {
				t.Errorf("white pixel at x=%d has no on-dot neighbor", x)
			}
		}
	}
}

func TestMixedModeOverHGRPreservesTopRows(t *testing.T) {
	c, mem := newTestCompositor()
	c.HandleSoftSwitch(swGfxMode)
	c.HandleSoftSwitch(swHiresMode)
	c.HandleSoftSwitch(swMixedMode)
	c.HandleSoftSwitch(swPage1Mode)

	mem.WriteMain(0x2000, 0x7F) // on-dot pattern in top (HGR) region
	mem.WriteMain(0x2001, 0x01)

	buf := c.Render(60, mem)
	if pixelAt(buf, 6, 0) != colorWhite {
		t.Error("mixed mode should not overwrite the top 20 rows of HGR output")
	}
}

func TestTextModeRendersGlyphAsWhiteOnBlack(t *testing.T) {
	c, mem := newTestCompositor()
	c.charROM[0] = 0x7F // solid bar across all 7 columns for glyph 0
	mem.WriteMain(0x400, 0x80) // bit7 set: normal (non-inverted) style, char index 0

	buf := c.Render(60, mem)
	if pixelAt(buf, 0, 0) != colorWhite {
		t.Error("expected glyph row 0 to render white dots for a solid char ROM row")
	}
}

func TestLoresRendersPaletteColors(t *testing.T) {
	c, mem := newTestCompositor()
	c.HandleSoftSwitch(swGfxMode) // leaves text mode, enters LORES by default
	mem.WriteMain(0x400, 0xFF)    // both nibbles = 15 = white

	buf := c.Render(60, mem)
	if pixelAt(buf, 0, 0) != colorWhite {
		t.Errorf("expected LORES cell value 0xFF to render white, got %v", pixelAt(buf, 0, 0))
	}
}

func TestFlashTogglesEveryQuarterSecond(t *testing.T) {
	c, mem := newTestCompositor()
	frameRate := 60
	initial := c.flash
	for i := 0; i < frameRate/flashRate; i++ {
		c.Render(frameRate, mem)
	}
	if c.flash == initial {
		t.Error("flash phase should have toggled after frame_rate/4 frames")
	}
}
