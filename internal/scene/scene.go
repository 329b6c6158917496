// Package scene drives a physics world for the interactive sandbox: presets,
// the fixed-step clock, the orbit camera and the render queue.
package scene

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"physics-engine/internal/bvh"
	"physics-engine/internal/physics"
	"physics-engine/internal/render"
)

const (
	// maxFrameTime caps how much wall time one frame may feed the clock.
	maxFrameTime = 0.25
	dropHeight   = 400
	contactSize  = 1.5
	normalLength = 12
)

// Scene owns the world's contents. Update runs once per frame; Build fills
// the render queue for the backend.
type Scene struct {
	World        *physics.World
	Camera       OrbitCamera
	Paused       bool
	ShowBVH      bool
	ShowContacts bool

	// OnTick, when set, is called after every world tick.
	OnTick func(physics.Stats, time.Duration)

	preset      Preset
	working     Preset
	accumulator float32
	log         physics.Logger
}

// New spawns p into w. The world should be empty.
func New(w *physics.World, p Preset, log physics.Logger) (*Scene, error) {
	s := &Scene{
		World:  w,
		Camera: NewOrbitCamera(p.Target, p.Radius),
		preset: p,
		log:    log,
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Preset returns the pristine preset the scene was built from.
func (s *Scene) Preset() Preset {
	return s.preset
}

// Reset empties the world and respawns the preset.
func (s *Scene) Reset() error {
	working, err := s.preset.Clone()
	if err != nil {
		return err
	}
	s.working = working
	s.World.Reset()
	s.accumulator = 0
	if _, err := Spawn(s.World, s.working); err != nil {
		return err
	}
	s.logf("scene: %s spawned %d bodies", s.working.Name, s.World.Len())
	return nil
}

// Drop adds one more box above the camera target.
func (s *Scene) Drop() error {
	spec := BodySpec{
		Size:     [3]float32{24, 24, 24},
		Mass:     16,
		Position: s.Camera.Target.Add(mgl32.Vec3{0, 0, dropHeight}),
		Axis:     [3]float32{1, 1, 1},
		Angle:    float32(len(s.working.Bodies) * 37 % 360),
	}
	if _, err := Spawn(s.World, Preset{Name: s.working.Name, Bodies: []BodySpec{spec}}); err != nil {
		return err
	}
	s.working.Bodies = append(s.working.Bodies, spec)
	return nil
}

// Update applies the frame's controls, moves the camera and advances the
// clock. It returns the number of ticks run.
func (s *Scene) Update(in Input) int {
	s.Camera.Update(in)
	if in.ToggleBVH {
		s.ShowBVH = !s.ShowBVH
	}
	if in.ToggleContacts {
		s.ShowContacts = !s.ShowContacts
	}
	if in.IterationsUp || in.IterationsDown {
		n := s.World.Settings().Iterations
		if in.IterationsUp {
			n++
		} else {
			n--
		}
		s.logf("scene: solver iterations %d", s.World.SetIterations(n))
	}
	if in.Pause {
		s.Paused = !s.Paused
	}
	if in.Reset {
		if err := s.Reset(); err != nil {
			s.logf("scene: reset: %v", err)
		}
		return 0
	}
	if in.Drop {
		if err := s.Drop(); err != nil {
			s.logf("scene: drop: %v", err)
		}
	}
	if s.Paused {
		if in.Step {
			s.tick()
			return 1
		}
		return 0
	}
	return s.Advance(in.FrameTime)
}

// Advance feeds elapsed seconds into the fixed-step clock and runs every
// whole step that fits. The remainder carries to the next call.
func (s *Scene) Advance(elapsed float32) int {
	dt := s.World.Settings().TimeStep
	s.accumulator += min(max(elapsed, 0), maxFrameTime)
	n := 0
	for s.accumulator >= dt {
		s.tick()
		s.accumulator -= dt
		n++
	}
	return n
}

func (s *Scene) tick() {
	start := time.Now()
	s.World.Tick(s.World.Settings().TimeStep)
	if s.OnTick != nil {
		s.OnTick(s.World.Stats(), time.Since(start))
	}
}

// Build queues the bodies and, when enabled, the BVH boxes and contacts.
func (s *Scene) Build(q *render.Queue) {
	q.Reset()
	s.World.ForEachBody(func(_ physics.Handle, b *physics.Body) {
		c := render.Orange
		if b.Type == physics.BodyStatic {
			c = render.Gray
		}
		q.Box(b.ModelMatrix, b.Shape.Size, c, false)
	})
	if s.ShowBVH {
		s.World.BVH().Walk(func(n bvh.Node) {
			c := render.Yellow
			if n.Kind == bvh.KindLeaf {
				c = render.Green
			}
			q.AABB(n.Box.Min, n.Box.Max, c)
		})
	}
	if s.ShowContacts {
		s.World.ForEachArbiter(func(arb *physics.Arbiter) {
			tip := arb.Manifold.Normal.Mul(normalLength)
			for _, c := range arb.Manifold.Contacts() {
				q.Point(c.Position, contactSize, render.Red)
				q.Line(c.Position, c.Position.Add(tip), render.Yellow)
			}
		})
	}
}

func (s *Scene) logf(format string, args ...any) {
	if s.log != nil {
		s.log.Logf(format, args...)
	}
}
