package scene

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"

	"physics-engine/internal/geom"
	"physics-engine/internal/mapgen"
	"physics-engine/internal/physics"
)

// ErrUnknownPreset is returned by Lookup for a name that is neither built in
// nor a readable preset file.
var ErrUnknownPreset = errors.New("scene: unknown preset")

// BodySpec describes one box body. Size is width (X), depth (Y) and height
// (Z). A mass of 0 makes the body static. The rotation is Angle degrees about
// Axis; a zero axis means no rotation.
type BodySpec struct {
	Name     string     `yaml:"name,omitempty"`
	Size     [3]float32 `yaml:"size"`
	Mass     float32    `yaml:"mass"`
	Position [3]float32 `yaml:"position"`
	Axis     [3]float32 `yaml:"axis,omitempty"`
	Angle    float32    `yaml:"angle,omitempty"`
	Friction float32    `yaml:"friction,omitempty"`
}

// Pose returns the spawn transform of the body.
func (b BodySpec) Pose() geom.Transform {
	rot := mgl32.QuatIdent()
	if axis := mgl32.Vec3(b.Axis); !geom.IsZero(axis) && b.Angle != 0 {
		rot = mgl32.QuatRotate(geom.Radians(b.Angle), axis.Normalize())
	}
	return geom.Transform{Position: b.Position, Rotation: rot}
}

// Preset is a named list of bodies plus the camera framing it.
type Preset struct {
	Name   string     `yaml:"name"`
	Target [3]float32 `yaml:"target"`
	Radius float32    `yaml:"radius"`
	Bodies []BodySpec `yaml:"bodies"`
}

// Clone returns a deep copy, so the copy's body list can grow without
// touching p.
func (p Preset) Clone() (Preset, error) {
	var out Preset
	if err := copier.CopyWithOption(&out, &p, copier.Option{DeepCopy: true}); err != nil {
		return Preset{}, fmt.Errorf("scene: clone %s: %w", p.Name, err)
	}
	return out, nil
}

func ground() BodySpec {
	return BodySpec{Name: "ground", Size: [3]float32{512, 512, 16}}
}

// Pyramid is a ground plate tilted 20 degrees about X with two staggered
// 4x4 layers of boxes dropped onto it.
func Pyramid() Preset {
	g := ground()
	g.Axis = [3]float32{1, 0, 0}
	g.Angle = 20
	p := Preset{Name: "pyramid", Target: [3]float32{72, 72, 64}, Radius: 900, Bodies: []BodySpec{g}}
	for i := range 4 {
		for j := range 4 {
			p.Bodies = append(p.Bodies, BodySpec{
				Size:     [3]float32{32, 32, 24},
				Mass:     16,
				Position: [3]float32{float32(i) * 48, float32(j) * 48, 256},
			})
		}
	}
	for i := range 4 {
		for j := range 4 {
			p.Bodies = append(p.Bodies, BodySpec{
				Size:     [3]float32{32, 40, 32},
				Mass:     16,
				Position: [3]float32{16 + float32(i)*48, float32(j) * 48, 320},
			})
		}
	}
	return p
}

// Stack is a column of n equal boxes resting on a flat ground.
func Stack(n int) Preset {
	p := Preset{Name: "stack", Target: [3]float32{0, 0, 12 * float32(n)}, Radius: 400, Bodies: []BodySpec{ground()}}
	const height, gap = 24, 0.5
	z := float32(8)
	for range n {
		z += height/2 + gap
		p.Bodies = append(p.Bodies, BodySpec{
			Size:     [3]float32{32, 32, height},
			Mass:     16,
			Position: [3]float32{0, 0, z},
		})
		z += height / 2
	}
	return p
}

// Terrain turns a noise height field into static columns and drops a 3x3
// grid of boxes above it.
func Terrain(opts mapgen.HeightMapOptions) Preset {
	p := Preset{Name: "terrain", Radius: 1000}
	for _, c := range mapgen.GenerateColumns(opts) {
		p.Bodies = append(p.Bodies, BodySpec{
			Size:     [3]float32{c.Size, c.Size, c.Height},
			Position: c.Center(),
		})
	}
	top := opts.HeightScale + 120
	for i := -1; i <= 1; i++ {
		for j := -1; j <= 1; j++ {
			p.Bodies = append(p.Bodies, BodySpec{
				Size:     [3]float32{28, 28, 28},
				Mass:     16,
				Position: [3]float32{float32(i) * 64, float32(j) * 64, top},
				Axis:     [3]float32{1, 1, 0},
				Angle:    float32(15 * (i + j + 2)),
			})
		}
	}
	p.Target = [3]float32{0, 0, opts.HeightScale / 2}
	return p
}

var builtin = map[string]func() Preset{
	"pyramid": Pyramid,
	"stack":   func() Preset { return Stack(6) },
	"terrain": func() Preset { return Terrain(mapgen.DefaultHeightMapOptions()) },
}

// Names returns the built-in preset names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a built-in preset by name, or loads a preset file when name
// ends in .yaml or .yml.
func Lookup(name string) (Preset, error) {
	if mk, ok := builtin[strings.ToLower(name)]; ok {
		return mk(), nil
	}
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		return LoadPreset(name)
	}
	return Preset{}, fmt.Errorf("%w: %q (have %s)", ErrUnknownPreset, name, strings.Join(Names(), ", "))
}

// LoadPreset reads a YAML preset file.
func LoadPreset(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("scene: read preset: %w", err)
	}
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(path, ".yaml")
	}
	for i, b := range p.Bodies {
		if b.Size[0] <= 0 || b.Size[1] <= 0 || b.Size[2] <= 0 {
			return Preset{}, fmt.Errorf("scene: %s body %d: size %v must be positive", path, i, b.Size)
		}
		if b.Mass < 0 {
			return Preset{}, fmt.Errorf("scene: %s body %d: negative mass", path, i)
		}
	}
	return p, nil
}

// SavePreset writes p as YAML.
func SavePreset(path string, p Preset) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Spawn creates the bodies of p in w and returns their handles in order.
// Bodies of equal size share one shape.
func Spawn(w *physics.World, p Preset) ([]physics.Handle, error) {
	if free := w.Settings().MaxEntities - 1 - w.Len(); len(p.Bodies) > free {
		return nil, fmt.Errorf("scene: preset %s has %d bodies, world has room for %d", p.Name, len(p.Bodies), free)
	}
	shapes := make(map[[3]float32]*physics.Shape)
	handles := make([]physics.Handle, 0, len(p.Bodies))
	for _, b := range p.Bodies {
		shape, ok := shapes[b.Size]
		if !ok {
			shape = physics.NewBoxShape(b.Size[0], b.Size[1], b.Size[2])
			shapes[b.Size] = shape
		}
		h := w.CreateEntity(shape, b.Mass, b.Pose())
		if b.Friction > 0 {
			if err := w.SetFriction(h, b.Friction); err != nil {
				return handles, err
			}
		}
		handles = append(handles, h)
	}
	return handles, nil
}
