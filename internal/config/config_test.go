package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadTOMLProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	contents := `
frame_rate = 60
scale = 2
rom = "firmware.rom"
disk = "game.woz"
log = true
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing profile: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.FrameRate != 60 || p.Scale != 2 || p.ROMPath != "firmware.rom" || p.DiskPath != "game.woz" || !p.LogEnabled {
		t.Errorf("unexpected profile: %+v", p)
	}
}

func TestLoadYAMLProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	contents := "frame_rate: 50\nscale: 4\nchar_rom: chargen.rom\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing profile: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.FrameRate != 50 || p.Scale != 4 || p.CharROMPath != "chargen.rom" {
		t.Errorf("unexpected profile: %+v", p)
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.ini")
	os.WriteFile(path, []byte("frame_rate=60"), 0o644)

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unrecognized profile extension")
	}
}

func TestLoadRejectsOutOfRangeScale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	os.WriteFile(path, []byte("frame_rate = 60\nscale = 9\n"), 0o644)

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a scale outside 1-6")
	}
}

func TestWatchDeliversReloadOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	os.WriteFile(path, []byte("frame_rate = 60\nscale = 1\n"), 0o644)

	w, err := Watch(path, nil)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	os.WriteFile(path, []byte("frame_rate = 60\nscale = 5\n"), 0o644)

	select {
	case p := <-w.Updates():
		if p.Scale != 5 {
			t.Errorf("got scale %d, want 5", p.Scale)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}
