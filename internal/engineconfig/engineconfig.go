package engineconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"physics-engine/internal/physics"
)

// EngineConfigPath is the path to the engine config file, relative to the process working directory.
const EngineConfigPath = "config/engine.yaml"

// ErrInvalidConfig is wrapped by Load and ApplyEnv when a value cannot be used.
var ErrInvalidConfig = errors.New("engineconfig: invalid config")

// EnginePrefs holds the physics settings and the sandbox preferences. Persisted across runs.
type EnginePrefs struct {
	Physics physics.Settings `yaml:"physics"`

	ShowFPS      bool   `yaml:"show_fps"`
	ShowStats    bool   `yaml:"show_stats"`
	ShowBVH      bool   `yaml:"show_bvh"`
	ShowContacts bool   `yaml:"show_contacts"`
	Scene        string `yaml:"scene"`
	MetricsAddr  string `yaml:"metrics_addr,omitempty"`
}

// Default returns default engine preferences (FPS and stats on, pyramid scene).
func Default() EnginePrefs {
	return EnginePrefs{
		Physics:     physics.DefaultSettings(),
		ShowFPS:     true,
		ShowStats:   true,
		Scene:       "pyramid",
		MetricsAddr: "127.0.0.1:9464",
	}
}

// Load reads engine preferences from path. A missing file yields Default().
// Values present in the file are laid over the defaults; the result is validated.
func Load(path string) (EnginePrefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("engineconfig: read %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses YAML preferences over Default(). Keys absent from data keep
// their default value.
func Decode(data []byte) (EnginePrefs, error) {
	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := p.Physics.Validate(); err != nil {
		return Default(), fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return p, nil
}

// ApplyEnv overrides p from the environment. Unset variables leave p unchanged.
func ApplyEnv(p *EnginePrefs) error {
	if v, ok := os.LookupEnv("PHYSICS_ITERATIONS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PHYSICS_ITERATIONS=%q", ErrInvalidConfig, v)
		}
		p.Physics.Iterations = n
	}
	if v, ok := os.LookupEnv("PHYSICS_FRICTION"); ok {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("%w: PHYSICS_FRICTION=%q", ErrInvalidConfig, v)
		}
		p.Physics.Friction = float32(f)
	}
	if v, ok := os.LookupEnv("PHYSICS_BROADPHASE"); ok {
		m, err := physics.ParseBroadphase(v)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		p.Physics.Broadphase = m
	}
	if v, ok := os.LookupEnv("PHYSICS_SCENE"); ok && v != "" {
		p.Scene = v
	}
	if v, ok := os.LookupEnv("METRICS_ADDR"); ok {
		p.MetricsAddr = v
	}
	return p.Physics.Validate()
}

// Save writes engine preferences to path, creating the directory if needed.
func Save(path string, p EnginePrefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
