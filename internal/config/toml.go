// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Drill DrillConfig `toml:"drill"`
}

// DrillConfig maps drill-related settings. Absent keys stay nil.
type DrillConfig struct {
	Drill         *string   `toml:"drill"`
	Tuning        *string   `toml:"tuning"`
	MinString     *int      `toml:"min-string"`
	MaxString     *int      `toml:"max-string"`
	MinFret       *int      `toml:"min-fret"`
	MaxFret       *int      `toml:"max-fret"`
	FastThreshold *Duration `toml:"fast-threshold"`
	FocusWeak     *bool     `toml:"focus-weak"`
	WeakFactor    *float64  `toml:"weak-factor"`
	FlashFrames   *int      `toml:"flash-frames"`
	AdvanceDelay  *Duration `toml:"advance-delay"`
	LogFile       *string   `toml:"log-file"`
}

// Duration decodes Go duration strings such as "1.5s" or "600ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration. A nil receiver yields zero.
func (d *Duration) Std() time.Duration {
	if d == nil {
		return 0
	}
	return time.Duration(*d)
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
