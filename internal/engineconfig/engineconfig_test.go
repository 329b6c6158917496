package engineconfig

import (
	"errors"
	"path/filepath"
	"testing"

	"physics-engine/internal/physics"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "engine.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if p != Default() {
		t.Errorf("got %+v, want defaults", p)
	}
}

func TestDecodeKeepsAbsentKeys(t *testing.T) {
	p, err := Decode([]byte(`
scene: stack
show_fps: false
physics:
  iterations: 12
  broadphase: brute
`))
	if err != nil {
		t.Fatal(err)
	}
	if p.Scene != "stack" || p.ShowFPS || !p.ShowStats {
		t.Errorf("prefs: got scene %q fps %v stats %v", p.Scene, p.ShowFPS, p.ShowStats)
	}
	if p.Physics.Iterations != 12 || p.Physics.Broadphase != physics.BroadphaseBruteForce {
		t.Errorf("physics: got %d iterations, broadphase %q", p.Physics.Iterations, p.Physics.Broadphase)
	}
	def := physics.DefaultSettings()
	if p.Physics.Friction != def.Friction || p.Physics.Gravity != def.Gravity || p.Physics.ArbiterCapacity != def.ArbiterCapacity {
		t.Errorf("absent physics keys changed: %+v", p.Physics)
	}
}

func TestDecodeRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "physics: [1, 2"},
		{"arbiter capacity", "physics:\n  arbiter_capacity: 1000\n"},
		{"iterations", "physics:\n  iterations: -3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.data)); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("got %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "engine.yaml")
	want := Default()
	want.Scene = "terrain"
	want.ShowBVH = true
	want.Physics.Iterations = 8
	want.Physics.Gravity = [3]float32{0, 0, -3.7}
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PHYSICS_ITERATIONS", "9")
	t.Setenv("PHYSICS_FRICTION", "0.8")
	t.Setenv("PHYSICS_BROADPHASE", "BRUTE")
	t.Setenv("PHYSICS_SCENE", "stack")
	t.Setenv("METRICS_ADDR", ":9000")

	p := Default()
	if err := ApplyEnv(&p); err != nil {
		t.Fatal(err)
	}
	if p.Physics.Iterations != 9 || p.Physics.Friction != 0.8 || p.Physics.Broadphase != physics.BroadphaseBruteForce {
		t.Errorf("physics: got %+v", p.Physics)
	}
	if p.Scene != "stack" || p.MetricsAddr != ":9000" {
		t.Errorf("prefs: got scene %q addr %q", p.Scene, p.MetricsAddr)
	}
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	t.Setenv("PHYSICS_ITERATIONS", "lots")
	p := Default()
	if err := ApplyEnv(&p); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("got %v, want ErrInvalidConfig", err)
	}
}
