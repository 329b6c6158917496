package scene

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"physics-engine/internal/mapgen"
	"physics-engine/internal/physics"
	"physics-engine/internal/render"
)

// step is exact in binary so accumulator arithmetic has no rounding.
const step = 1.0 / 64

func newScene(t *testing.T, p Preset) *Scene {
	t.Helper()
	s := physics.DefaultSettings()
	s.TimeStep = step
	w, err := physics.NewWorld(s)
	if err != nil {
		t.Fatal(err)
	}
	scn, err := New(w, p, nil)
	if err != nil {
		t.Fatal(err)
	}
	return scn
}

func TestPyramidLayout(t *testing.T) {
	p := Pyramid()
	if len(p.Bodies) != 33 {
		t.Fatalf("got %d bodies, want 33", len(p.Bodies))
	}
	g := p.Bodies[0]
	if g.Mass != 0 || g.Size != [3]float32{512, 512, 16} || g.Angle != 20 {
		t.Errorf("ground: got %+v", g)
	}
	if b := p.Bodies[16]; b.Position != [3]float32{144, 144, 256} || b.Size != [3]float32{32, 32, 24} {
		t.Errorf("last box of the first layer: got %+v", b)
	}
	if b := p.Bodies[17]; b.Position != [3]float32{16, 0, 320} || b.Size != [3]float32{32, 40, 32} {
		t.Errorf("first box of the second layer: got %+v", b)
	}

	scn := newScene(t, p)
	if scn.World.Len() != 33 {
		t.Errorf("spawned %d bodies", scn.World.Len())
	}
	ground := scn.World.Body(1)
	if ground.Type != physics.BodyStatic {
		t.Errorf("ground is %v", ground.Type)
	}
	want := mgl32.QuatRotate(mgl32.DegToRad(20), mgl32.Vec3{1, 0, 0})
	if !ground.Orientation.ApproxEqual(want) {
		t.Errorf("ground orientation: got %v, want %v", ground.Orientation, want)
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := Stack(3)
	c, err := p.Clone()
	if err != nil {
		t.Fatal(err)
	}
	c.Bodies[1].Mass = 99
	c.Bodies = append(c.Bodies, BodySpec{Size: [3]float32{1, 1, 1}})
	if p.Bodies[1].Mass != 16 || len(p.Bodies) != 4 {
		t.Errorf("clone aliases its source: mass %v, %d bodies", p.Bodies[1].Mass, len(p.Bodies))
	}
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		p, err := Lookup(name)
		if err != nil || len(p.Bodies) == 0 {
			t.Errorf("%s: %d bodies, %v", name, len(p.Bodies), err)
		}
	}
	if _, err := Lookup("moon"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("unknown preset: got %v", err)
	}

	path := filepath.Join(t.TempDir(), "ramp.yaml")
	want := Preset{Name: "ramp", Radius: 300, Bodies: []BodySpec{
		{Name: "ramp", Size: [3]float32{200, 100, 10}, Axis: [3]float32{0, 1, 0}, Angle: 30},
		{Size: [3]float32{10, 10, 10}, Mass: 2, Position: [3]float32{0, 0, 100}, Friction: 0.9},
	}}
	if err := SavePreset(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := Lookup(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "ramp" || len(got.Bodies) != 2 || got.Bodies[0] != want.Bodies[0] || got.Bodies[1] != want.Bodies[1] {
		t.Errorf("round trip: got %+v", got)
	}

	scn := newScene(t, got)
	if mu := scn.World.Body(2).Friction; mu != 0.9 {
		t.Errorf("friction override: got %v", mu)
	}
}

func TestSpawnRejectsOversizedPreset(t *testing.T) {
	s := physics.DefaultSettings()
	s.MaxEntities = 8
	s.MaxNodes = 16
	w, err := physics.NewWorld(s)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Spawn(w, Pyramid()); err == nil {
		t.Error("Spawn accepted 33 bodies into a world of 7")
	}
	if w.Len() != 0 {
		t.Errorf("partial spawn left %d bodies", w.Len())
	}
}

func TestTerrainColumnsAreStatic(t *testing.T) {
	opts := mapgen.DefaultHeightMapOptions()
	opts.Width, opts.Depth = 4, 3
	p := Terrain(opts)
	if len(p.Bodies) != 12+9 {
		t.Fatalf("got %d bodies, want 21", len(p.Bodies))
	}
	for i, b := range p.Bodies {
		if static := i < 12; static != (b.Mass == 0) {
			t.Errorf("body %d: mass %v", i, b.Mass)
		}
	}
}

func TestAdvanceRunsFixedSteps(t *testing.T) {
	scn := newScene(t, Stack(2))
	if n := scn.Advance(3 * step); n != 3 {
		t.Errorf("got %d ticks, want 3", n)
	}
	if n := scn.Advance(step / 2); n != 0 {
		t.Errorf("half a step ran %d ticks", n)
	}
	if n := scn.Advance(step / 2); n != 1 {
		t.Errorf("remainder not carried: got %d ticks", n)
	}
	if n := scn.Advance(10); n != int(maxFrameTime/step) {
		t.Errorf("long frame: got %d ticks, want %d", n, int(maxFrameTime/step))
	}
	if n := scn.Advance(-1); n != 0 {
		t.Errorf("negative frame time ran %d ticks", n)
	}
}

func TestPauseStepAndReset(t *testing.T) {
	scn := newScene(t, Stack(2))
	var ticks int
	scn.OnTick = func(physics.Stats, time.Duration) { ticks++ }

	if n := scn.Update(Input{Pause: true, FrameTime: 0.1}); n != 0 || !scn.Paused {
		t.Fatalf("pause: ran %d ticks, paused %v", n, scn.Paused)
	}
	if n := scn.Update(Input{FrameTime: 0.1}); n != 0 {
		t.Errorf("paused scene ran %d ticks", n)
	}
	if n := scn.Update(Input{Step: true, FrameTime: 0.1}); n != 1 || scn.World.Ticks() != 1 || ticks != 1 {
		t.Errorf("step: ran %d ticks, world at %d, hook saw %d", n, scn.World.Ticks(), ticks)
	}

	scn.Update(Input{Drop: true})
	if scn.World.Len() != 4 {
		t.Fatalf("drop: got %d bodies", scn.World.Len())
	}
	if len(scn.Preset().Bodies) != 3 {
		t.Error("drop changed the pristine preset")
	}
	scn.Update(Input{Reset: true})
	if scn.World.Len() != 3 || scn.World.Ticks() != 0 {
		t.Errorf("reset: %d bodies after %d ticks", scn.World.Len(), scn.World.Ticks())
	}
}

func TestIterationControls(t *testing.T) {
	scn := newScene(t, Stack(1))
	base := scn.World.Settings().Iterations
	scn.Update(Input{IterationsUp: true})
	if got := scn.World.Settings().Iterations; got != base+1 {
		t.Errorf("up: got %d", got)
	}
	for range 2 * physics.MaxIterations {
		scn.Update(Input{IterationsDown: true})
	}
	if got := scn.World.Settings().Iterations; got != 1 {
		t.Errorf("down: got %d, want 1", got)
	}
}

func TestBuildQueue(t *testing.T) {
	scn := newScene(t, Stack(2))
	q := render.NewQueue(64)
	scn.Build(q)
	if q.Count(render.KindBox) != 3 || q.Len() != 3 {
		t.Errorf("bodies only: got %d commands, %d boxes", q.Len(), q.Count(render.KindBox))
	}

	scn.Update(Input{ToggleBVH: true, ToggleContacts: true})
	for range 100 {
		scn.Advance(step)
	}
	scn.Build(q)
	if got, want := q.Count(render.KindAABB), 2*scn.World.BVH().Len()-1; got != want {
		t.Errorf("BVH boxes: got %d, want %d", got, want)
	}
	points := q.Count(render.KindPoint)
	if points == 0 || q.Count(render.KindLine) != points {
		t.Errorf("contacts: got %d points and %d normals", points, q.Count(render.KindLine))
	}
}

func TestOrbitCamera(t *testing.T) {
	c := NewOrbitCamera(mgl32.Vec3{10, 0, 5}, 200)
	if d := c.Eye().Sub(c.Target).Len(); math32.Abs(d-200) > 1e-3 {
		t.Errorf("eye distance: got %v", d)
	}
	c.Update(Input{MouseDown: true, MouseDelta: [2]float32{0, 10000}})
	if c.Latitude != orbitMaxLatitude {
		t.Errorf("latitude: got %v, want clamped to %v", c.Latitude, orbitMaxLatitude)
	}
	c.Update(Input{MouseDelta: [2]float32{400, 0}})
	if c.Longitude != -60 {
		t.Errorf("camera moved without a drag: longitude %v", c.Longitude)
	}
	c.Update(Input{Wheel: 5})
	if c.Radius != 100 {
		t.Errorf("zoom: got radius %v, want 100", c.Radius)
	}
	if eye := c.Eye(); eye.Z() <= c.Target.Z() {
		t.Errorf("eye %v below target", eye)
	}
}
