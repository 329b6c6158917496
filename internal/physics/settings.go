package physics

import (
	"errors"
	"fmt"
	"strings"
)

// BroadphaseMode selects how candidate pairs are produced.
type BroadphaseMode string

const (
	// BroadphaseBVH queries the dynamic tree. Default.
	BroadphaseBVH BroadphaseMode = "bvh"
	// BroadphaseBruteForce tests every pair. Kept to validate the tree.
	BroadphaseBruteForce BroadphaseMode = "brute"
)

// ParseBroadphase accepts "bvh" or "brute" (case-insensitive).
func ParseBroadphase(s string) (BroadphaseMode, error) {
	switch m := BroadphaseMode(strings.ToLower(strings.TrimSpace(s))); m {
	case BroadphaseBVH, BroadphaseBruteForce:
		return m, nil
	default:
		return "", fmt.Errorf("physics: unknown broadphase %q", s)
	}
}

// MaxIterations bounds the runtime iteration knob.
const MaxIterations = 20

// Settings are the world's tunables and capacity limits. Units are centimeters
// (UnitsPerMeter = 100) and Z is up.
type Settings struct {
	Iterations      int            `yaml:"iterations"`
	TimeStep        float32        `yaml:"time_step"`
	UnitsPerMeter   float32        `yaml:"units_per_meter"`
	Gravity         [3]float32     `yaml:"gravity"` // m/s^2
	Friction        float32        `yaml:"friction"`
	BiasFactor      float32        `yaml:"bias_factor"`
	Slop            float32        `yaml:"slop"`
	WarmStartFactor float32        `yaml:"warm_start_factor"`
	EdgeBias        float32        `yaml:"edge_bias"`
	GrowFactor      float32        `yaml:"grow_factor"`
	Broadphase      BroadphaseMode `yaml:"broadphase"`

	MaxEntities     int `yaml:"max_entities"`
	MaxNodes        int `yaml:"max_nodes"`
	ArbiterCapacity int `yaml:"arbiter_capacity"`
	MaxArbiterLinks int `yaml:"max_arbiter_links"`
	MaxPairs        int `yaml:"max_pairs"`
}

// DefaultSettings returns the tuning the demo scenes are built for.
func DefaultSettings() Settings {
	return Settings{
		Iterations:      5,
		TimeStep:        0.01,
		UnitsPerMeter:   100,
		Gravity:         [3]float32{0, 0, -9.8},
		Friction:        0.5,
		BiasFactor:      0.2,
		Slop:            0.01,
		WarmStartFactor: 1,
		EdgeBias:        1,
		GrowFactor:      1.2,
		Broadphase:      BroadphaseBVH,
		MaxEntities:     1024,
		MaxNodes:        2048,
		ArbiterCapacity: 2048,
		MaxArbiterLinks: 2048,
		MaxPairs:        4096,
	}
}

var errSettings = errors.New("physics: invalid settings")

// Validate reports the first setting the world cannot run with.
func (s Settings) Validate() error {
	switch {
	case s.Iterations < 1 || s.Iterations > MaxIterations:
		return fmt.Errorf("%w: iterations %d outside 1..%d", errSettings, s.Iterations, MaxIterations)
	case s.TimeStep <= 0:
		return fmt.Errorf("%w: time step %v", errSettings, s.TimeStep)
	case s.UnitsPerMeter <= 0:
		return fmt.Errorf("%w: units per meter %v", errSettings, s.UnitsPerMeter)
	case s.Friction < 0:
		return fmt.Errorf("%w: friction %v", errSettings, s.Friction)
	case s.BiasFactor < 0 || s.BiasFactor > 1:
		return fmt.Errorf("%w: bias factor %v outside [0, 1]", errSettings, s.BiasFactor)
	case s.GrowFactor < 1:
		return fmt.Errorf("%w: grow factor %v below 1", errSettings, s.GrowFactor)
	case s.MaxEntities < 2:
		return fmt.Errorf("%w: max entities %d", errSettings, s.MaxEntities)
	case s.MaxNodes < 2*s.MaxEntities:
		return fmt.Errorf("%w: max nodes %d cannot hold %d entities", errSettings, s.MaxNodes, s.MaxEntities)
	case s.ArbiterCapacity <= 0 || s.ArbiterCapacity&(s.ArbiterCapacity-1) != 0:
		return fmt.Errorf("%w: arbiter capacity %d is not a power of two", errSettings, s.ArbiterCapacity)
	case s.MaxArbiterLinks < 0:
		return fmt.Errorf("%w: max arbiter links %d", errSettings, s.MaxArbiterLinks)
	case s.MaxPairs < 1:
		return fmt.Errorf("%w: max pairs %d", errSettings, s.MaxPairs)
	}
	if _, err := ParseBroadphase(string(s.Broadphase)); err != nil {
		return fmt.Errorf("%w: %w", errSettings, err)
	}
	return nil
}
