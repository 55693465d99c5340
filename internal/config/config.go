// Package config loads an optional on-disk machine profile (frame
// rate, display scale, ROM paths, slot-6 disk path) and can watch it
// for live edits while the presenter is running.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"apple2/internal/apperr"
)

// Profile is the on-disk machine configuration. Flags passed on the
// command line override the matching field after a profile loads.
type Profile struct {
	FrameRate   int    `toml:"frame_rate" yaml:"frame_rate"`
	Scale       int    `toml:"scale" yaml:"scale"`
	ROMPath     string `toml:"rom" yaml:"rom"`
	DiskROMPath string `toml:"disk_rom" yaml:"disk_rom"`
	CharROMPath string `toml:"char_rom" yaml:"char_rom"`
	DiskPath    string `toml:"disk" yaml:"disk"`
	LogEnabled   bool   `toml:"log" yaml:"log"`
	LogComponent string `toml:"log_component" yaml:"log_component"`
}

// Default returns the profile a freshly started machine uses absent
// any config file or flags.
func Default() Profile {
	return Profile{
		FrameRate: 60,
		Scale:     3,
	}
}

// Load reads a profile from path, dispatching on its extension:
// ".toml" decodes with BurntSushi/toml, ".yaml"/".yml" with yaml.v3.
// Any other extension is an ErrConfiguration.
func Load(path string) (Profile, error) {
	p := Default()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &p); err != nil {
			return Profile{}, fmt.Errorf("decoding toml profile %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Profile{}, fmt.Errorf("reading yaml profile %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &p); err != nil {
			return Profile{}, fmt.Errorf("decoding yaml profile %s: %w", path, err)
		}
	default:
		return Profile{}, fmt.Errorf("unrecognized profile extension %q: %w", ext, apperr.ErrConfiguration)
	}

	if p.FrameRate <= 0 {
		return Profile{}, fmt.Errorf("frame_rate must be positive, got %d: %w", p.FrameRate, apperr.ErrConfiguration)
	}
	if p.Scale < 1 || p.Scale > 6 {
		return Profile{}, fmt.Errorf("scale must be between 1 and 6, got %d: %w", p.Scale, apperr.ErrConfiguration)
	}

	return p, nil
}
