package video

import (
	"bytes"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// NewDebugCharROM builds a 2048-byte character-ROM stand-in out of a
// printable-ASCII blob (e.g. text a test supplies in place of a real
// character generator dump). It is never a substitute for a real ROM
// in a boot scenario — only for exercising the compositor without one
// on disk.
//
// standIn is decoded from ISO-8859-1 into UTF-8 (so each byte
// 0x80-0xFF becomes two bytes), then padded with '?' or truncated to
// exactly charROMSize bytes. The result has no real glyph shapes; it
// only guarantees the compositor has 256 well-formed 8-byte cells to
// index into.
func NewDebugCharROM(standIn []byte) []byte {
	decoder := charmap.ISO8859_1.NewDecoder()
	normalized, _, err := transform.Bytes(decoder, standIn)
	if err != nil {
		normalized = bytes.Map(func(r rune) rune {
			if r > 0xFF {
				return '?'
			}
			return r
		}, standIn)
	}

	rom := make([]byte, charROMSize)
	copy(rom, normalized)
	for i := len(normalized); i < len(rom); i++ {
		rom[i] = byte('?')
	}
	return rom
}
