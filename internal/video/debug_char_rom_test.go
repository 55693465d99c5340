package video

import "testing"

func TestNewDebugCharROMPadsToFullSize(t *testing.T) {
	rom := NewDebugCharROM([]byte("short"))
	if len(rom) != charROMSize {
		t.Fatalf("len(rom) = %d, want %d", len(rom), charROMSize)
	}
}

func TestNewDebugCharROMTruncatesOversizedInput(t *testing.T) {
	big := make([]byte, charROMSize*2)
	for i := range big {
		big[i] = 'A'
	}
	rom := NewDebugCharROM(big)
	if len(rom) != charROMSize {
		t.Fatalf("len(rom) = %d, want %d", len(rom), charROMSize)
	}
}

func TestCompositorAcceptsDebugCharROM(t *testing.T) {
	rom := NewDebugCharROM([]byte("Apple ][+"))
	c := NewCompositor(rom)
	if c == nil {
		t.Fatal("expected a compositor built from the debug char ROM stand-in")
	}
}
