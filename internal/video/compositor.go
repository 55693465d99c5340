// Package video implements the Video Compositor (C4): rendering the
// Apple II's text, LORES, and HGR screen pages out of main memory into
// an RGB pixel buffer.
package video

import (
	"apple2/internal/debug"
	"apple2/internal/memory"
)

const (
	// DispWidth and DispHeight are the compositor's fixed output
	// dimensions; there is no interlace or scan-line timing.
	DispWidth  = 280
	DispHeight = 192

	cellCols   = 40
	cellRows   = 24
	cellWidth  = 7
	cellHeight = 8

	charROMSize = 0x800
	flashRate   = 4

	bytesPerPixel  = 3
	bytesPerRow    = cellCols * cellWidth * bytesPerPixel
	hgrBytesPerRow = DispWidth * bytesPerPixel
)

// Soft-switch addresses for video mode selection, 0xC050-0xC057.
const (
	swGfxMode    = 0xC050
	swTxtMode    = 0xC051
	swSingleMode = 0xC052
	swMixedMode  = 0xC053
	swPage1Mode  = 0xC054
	swPage2Mode  = 0xC055
	swLoresMode  = 0xC056
	swHiresMode  = 0xC057
)

// loresPalette is the 16-entry LORES/text-block color table, indexed
// by a cell nibble.
var loresPalette = [16][3]byte{
	{0x00, 0x00, 0x00}, {0x90, 0x17, 0x40}, {0x40, 0x2C, 0xA5}, {0xD0, 0x43, 0xE5},
	{0x00, 0x69, 0x40}, {0x80, 0x80, 0x80}, {0x2F, 0x95, 0xE5}, {0xBF, 0xAB, 0xFF},
	{0x40, 0x54, 0x00}, {0xD0, 0x6A, 0x1A}, {0x80, 0x80, 0x80}, {0xFF, 0x96, 0xBF},
	{0x2F, 0xBC, 0x1A}, {0xBF, 0xD3, 0x5A}, {0x6F, 0xE8, 0xBF}, {0xFF, 0xFF, 0xFF},
}

var (
	colorWhite = [3]byte{0xFF, 0xFF, 0xFF}
	colorBlack = [3]byte{0x00, 0x00, 0x00}

	// hgrPaletteLow is {violet, green} for bit7=0; hgrPaletteHigh is
	// {blue, orange} for bit7=1. Index 0 is the "even column" color,
	// index 1 is the "odd column" color.
	hgrPaletteLow  = [2][3]byte{{0x8A, 0x2B, 0xE5}, {0x1A, 0xC9, 0x44}}
	hgrPaletteHigh = [2][3]byte{{0x2B, 0x6B, 0xE5}, {0xE5, 0x7A, 0x1A}}
)

// Compositor renders the current screen page(s) into an RGB frame
// buffer once per wall-clock frame.
type Compositor struct {
	charROM [charROMSize]byte

	frameBuf [DispWidth * DispHeight * bytesPerPixel]byte

	frameCount int
	flash      bool

	textMode  bool
	hiresMode bool
	mixedMode bool
	usePage2  bool

	logger *debug.Logger
}

// NewCompositor creates a compositor with the given character
// generator ROM (2,048 bytes: 256 glyphs x 8 bytes, low 7 bits used).
func NewCompositor(charROM []byte) *Compositor {
	c := &Compositor{textMode: true}
	copy(c.charROM[:], charROM)
	return c
}

// SetLogger attaches a debug logger; nil disables logging.
func (c *Compositor) SetLogger(logger *debug.Logger) {
	c.logger = logger
}

// HandleSoftSwitch applies the side effect of a video-mode soft-switch
// touch, if address falls in 0xC050-0xC057.
func (c *Compositor) HandleSoftSwitch(address uint16) {
	switch address {
	case swGfxMode:
		c.textMode = false
	case swTxtMode:
		c.textMode = true
	case swSingleMode:
		c.mixedMode = false
	case swMixedMode:
		c.mixedMode = true
	case swPage1Mode:
		c.usePage2 = false
	case swPage2Mode:
		c.usePage2 = true
	case swLoresMode:
		c.hiresMode = false
	case swHiresMode:
		c.hiresMode = true
	}
}

func cellToBufIndex(cellIdx int) int {
	row := cellIdx / cellCols
	col := cellIdx % cellCols
	return row*(cellHeight*bytesPerRow) + col*(cellWidth*bytesPerPixel)
}

func (c *Compositor) drawPixel(idx int, color [3]byte) {
	c.frameBuf[idx] = color[0]
	c.frameBuf[idx+1] = color[1]
	c.frameBuf[idx+2] = color[2]
}

// drawChar renders one 7x8 text glyph at the cell index. Bit 7 clear +
// bit 6 clear is inverse; bit 7 clear + bit 6 set is flashing; bit 7
// set is normal.
func (c *Compositor) drawChar(val byte, cellIdx int) {
	charAddr := int(val&0x3F) * cellHeight
	pbufIdx := cellToBufIndex(cellIdx)

	inverse := val&(1<<7) == 0 && (val&(1<<6) == 0 || c.flash)

	for i := 0; i < cellHeight; i++ {
		idx := pbufIdx
		row := c.charROM[charAddr+i]
		if inverse {
			row ^= 0xFF
		}
		row <<= 1 // drop the unused MSB

		for x := 0; x < cellWidth; x++ {
			if row&(1<<7) != 0 {
				c.drawPixel(idx, colorWhite)
			} else {
				c.drawPixel(idx, colorBlack)
			}
			row <<= 1
			idx += bytesPerPixel
		}
		pbufIdx += bytesPerRow
	}
}

// drawLores renders one cell's two 7x4 color blocks.
func (c *Compositor) drawLores(val byte, cellIdx int) {
	upper := loresPalette[val&0xF]
	lower := loresPalette[val>>4]

	pbufIdx := cellToBufIndex(cellIdx)
	for row := 0; row < cellHeight; row++ {
		idx := pbufIdx
		color := lower
		if row < cellHeight/2 {
			color = upper
		}
		for x := 0; x < cellWidth; x++ {
			c.drawPixel(idx, color)
			idx += bytesPerPixel
		}
		pbufIdx += bytesPerRow
	}
}

// textLoresStartAddrs returns the three section base addresses for
// the 24-row interleaved text/LORES page layout.
func (c *Compositor) textLoresStartAddrs() [3]int {
	if c.usePage2 {
		return [3]int{0x800, 0x828, 0x850}
	}
	return [3]int{0x400, 0x428, 0x450}
}

func (c *Compositor) renderTextLores(mem *memory.Bus) {
	starts := c.textLoresStartAddrs()
	cellIdx := 0
	for section, start := range starts {
		for j := 0; j < cellRows/3; j++ {
			for i := 0; i < cellCols; i++ {
				addr := start + 0x80*j + i
				row := section*8 + j
				val := mem.ReadMain(uint16(addr))

				if c.textMode || (row >= 20 && c.mixedMode) {
					c.drawChar(val, cellIdx)
				} else {
					c.drawLores(val, cellIdx)
				}
				cellIdx++
			}
		}
	}
}

// renderMixedText draws only the bottom 4 of 24 text rows, used when
// mixed mode is active over a HGR page so the already-rendered
// graphics in the top 20 rows are not overwritten.
func (c *Compositor) renderMixedText(mem *memory.Bus) {
	starts := c.textLoresStartAddrs()
	for section, start := range starts {
		for j := 0; j < cellRows/3; j++ {
			row := section*8 + j
			if row < 20 {
				continue
			}
			cellIdx := row * cellCols
			for i := 0; i < cellCols; i++ {
				addr := start + 0x80*j + i
				val := mem.ReadMain(uint16(addr))
				c.drawChar(val, cellIdx+i)
			}
		}
	}
}

// bitAt returns bit position `pos` (0 = LSB) of b.
func bitAt(b byte, pos uint) byte {
	return (b >> pos) & 1
}

// hgrDotColor resolves the rendered color of one HGR dot per the
// coalescing-to-white and column-parity rules: an on dot adjacent to
// another on dot is white; otherwise it takes the palette color for
// its column parity (selected by byte bit 7), with a fringe
// approximation when only its right neighbor is on.
func hgrDotColor(bit, leftNeighbor, rightNeighbor byte, colIsOdd bool, highPalette bool) [3]byte {
	palette := hgrPaletteLow
	if highPalette {
		palette = hgrPaletteHigh
	}

	if bit == 1 {
		if leftNeighbor == 1 || rightNeighbor == 1 {
			return colorWhite
		}
		if colIsOdd {
			return palette[1]
		}
		return palette[0]
	}

	if rightNeighbor == 1 {
		// Fringe: approximate NTSC bleed with the opposite-parity
		// color of the same palette. Open question per the external
		// spec: real hardware fringe behaviour for isolated single
		// dots is ambiguous; this is the documented approximation.
		if colIsOdd {
			return palette[0]
		}
		return palette[1]
	}

	return colorBlack
}

// renderHGR renders one of the two HGR pages: 280 dots per scan line,
// 7 dots per byte, 8 interleaved scan-line sub-rows per section at a
// stride of 0x400, three sections of 8 text-rows each (as the
// text/LORES layout) at a row stride of 0x80.
func (c *Compositor) renderHGR(mem *memory.Bus) {
	base := 0x2000
	if c.usePage2 {
		base = 0x4000
	}
	sectionStarts := [3]int{0x000, 0x028, 0x050}

	for section, sectionStart := range sectionStarts {
		for subRow := 0; subRow < 8; subRow++ {
			screenRow := section*8 + subRow
			if c.mixedMode && screenRow >= 20 {
				continue // bottom 4 text rows are drawn by renderMixedText
			}
			c.renderHGRRow(mem, base, sectionStart, subRow, screenRow)
		}
	}
}

// renderHGRRow renders one full 280-dot scan line. Dot neighbours are
// resolved across the whole row rather than per-byte, so a dot at a
// byte boundary correctly sees the adjacent byte's edge bit.
func (c *Compositor) renderHGRRow(mem *memory.Bus, base, sectionStart, subRow, screenRow int) {
	var bits [DispWidth]byte
	var highPalette [cellCols]bool

	for col := 0; col < cellCols; col++ {
		addr := base + sectionStart + subRow*0x400 + col
		val := mem.ReadMain(uint16(addr))
		highPalette[col] = val&(1<<7) != 0
		for dot := 0; dot < cellWidth; dot++ {
			bits[col*cellWidth+dot] = bitAt(val, uint(dot))
		}
	}

	rowIdx := screenRow * hgrBytesPerRow
	for x := 0; x < DispWidth; x++ {
		var left, right byte
		if x > 0 {
			left = bits[x-1]
		}
		if x < DispWidth-1 {
			right = bits[x+1]
		}
		color := hgrDotColor(bits[x], left, right, x%2 == 1, highPalette[x/cellWidth])
		c.drawPixel(rowIdx+x*bytesPerPixel, color)
	}
}

func (c *Compositor) handleFlash(frameRate int) {
	c.frameCount++
	if c.frameCount >= frameRate/flashRate {
		c.flash = !c.flash
		c.frameCount = 0
	}
}

// Render draws the current screen page(s) from main memory into the
// frame buffer and returns it. Called once per wall-clock frame.
func (c *Compositor) Render(frameRate int, mem *memory.Bus) []byte {
	if c.hiresMode {
		c.renderHGR(mem)
		if c.mixedMode {
			c.renderMixedText(mem)
		}
	} else {
		c.renderTextLores(mem)
	}

	c.handleFlash(frameRate)

	out := make([]byte, len(c.frameBuf))
	copy(out, c.frameBuf[:])
	return out
}

// TextMode, HiresMode, MixedMode, and UsePage2 expose the current
// video mode state for presenter/debug consumers.
func (c *Compositor) TextMode() bool  { return c.textMode }
func (c *Compositor) HiresMode() bool { return c.hiresMode }
func (c *Compositor) MixedMode() bool { return c.mixedMode }
func (c *Compositor) UsePage2() bool  { return c.usePage2 }

// IsSoftSwitchAddress reports whether address is a video mode switch.
func IsSoftSwitchAddress(address uint16) bool {
	return address >= swGfxMode && address <= swHiresMode
}
