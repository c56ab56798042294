package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the file name looked up in the config directories.
const ConfigFile = "ascent.yaml"

// LoadAscent loads the game configuration.
// Search order: customPath -> ~/.ascent/configs/ascent.yaml -> ./configs/ascent.yaml -> embedded default.
// Values missing from a file keep their defaults.
func LoadAscent(customPath string) (AscentConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultAscentConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return DefaultAscentConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(ConfigFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", ConfigFile)); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultAscentYAML)
	if err != nil {
		return DefaultAscentConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func parse(data []byte) (AscentConfig, error) {
	cfg := DefaultAscentConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
func (c AscentConfig) Validate() error {
	var errs []error
	if c.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("tile_size must be positive, got %d", c.TileSize))
	}
	p := c.Physics
	if p.MaxXSpeed <= 0 || p.MaxYSpeed <= 0 {
		errs = append(errs, errors.New("physics: speed caps must be positive"))
	}
	if p.SuperMaxXSpeed < p.MaxXSpeed {
		errs = append(errs, errors.New("physics: super_max_x_speed must not be below max_x_speed"))
	}
	if p.Acceleration < 0 || p.Acceleration >= 1 || p.Deceleration < 0 || p.Deceleration >= 1 {
		errs = append(errs, errors.New("physics: acceleration and deceleration must be in [0, 1)"))
	}
	if p.SetbackFrames <= 0 {
		errs = append(errs, errors.New("physics: setback_frames must be positive"))
	}
	if c.Spikes.Width <= 0 || c.Spikes.Width > 1 || c.Spikes.Height <= 0 || c.Spikes.Height > 1 {
		errs = append(errs, errors.New("spikes: width and height must be in (0, 1]"))
	}
	return errors.Join(errs...)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ascent", "configs", filename)
}
