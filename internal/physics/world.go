package physics

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"physics-engine/internal/arena"
	"physics-engine/internal/bvh"
	"physics-engine/internal/collide"
	"physics-engine/internal/geom"
)

// ErrInvalidHandle is returned for the null handle or a handle the world never
// issued.
var ErrInvalidHandle = errors.New("physics: invalid body handle")

// Logger receives the world's diagnostic lines.
type Logger interface {
	Logf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Logf(string, ...any) {}

// Option configures a World.
type Option func(*World)

// WithLogger routes world diagnostics to l.
func WithLogger(l Logger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// Pose is a body's placement as seen from outside the engine.
type Pose struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Bounds      geom.AABB
}

// World owns the bodies, the broadphase tree, the arbiter cache and the two
// allocation scopes. It is not safe for concurrent use.
type World struct {
	settings Settings
	log      Logger

	persistent *arena.Scope
	frame      *arena.Scope

	bodies   []Body
	count    Handle
	tree     *bvh.Tree
	arbiters *ArbiterTable

	pairs     *arena.Buffer[bvh.Pair]
	colliding *arena.Buffer[*Arbiter]
	scratch   *collide.Scratch

	stats Stats
	ticks uint64
}

// NewWorld validates s and allocates every fixed-capacity structure.
func NewWorld(s Settings, opts ...Option) (*World, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	w := &World{
		settings:   s,
		log:        nopLogger{},
		persistent: arena.NewScope("persistent", 0),
		frame:      arena.NewScope("frame", 0),
		count:      1,
	}
	for _, opt := range opts {
		opt(w)
	}

	w.bodies = arena.MakeSlice[Body](w.persistent, s.MaxEntities)
	w.tree = bvh.New(w.persistent, w.frame, s.MaxNodes, s.GrowFactor)
	w.arbiters = NewArbiterTable(w.persistent, s.ArbiterCapacity, s.MaxArbiterLinks)
	w.pairs = arena.NewBuffer[bvh.Pair](w.frame, "candidate pairs", s.MaxPairs)
	w.colliding = arena.NewBuffer[*Arbiter](w.frame, "colliding pairs", s.MaxPairs)
	w.scratch = collide.NewScratch(w.frame, 16)
	w.scratch.EdgeBias = s.EdgeBias

	w.log.Logf("physics: world ready (%d entities, %d nodes, %d arbiter slots, broadphase %s, %d iterations)",
		s.MaxEntities, s.MaxNodes, s.ArbiterCapacity, s.Broadphase, s.Iterations)
	return w, nil
}

// Settings returns the active settings.
func (w *World) Settings() Settings {
	return w.settings
}

// SetIterations changes the solver iteration count, clamped to 1..MaxIterations.
func (w *World) SetIterations(n int) int {
	w.settings.Iterations = geom.Clamp(n, 1, MaxIterations)
	return w.settings.Iterations
}

// SetBroadphase switches the pair source.
func (w *World) SetBroadphase(m BroadphaseMode) {
	w.settings.Broadphase = m
}

// CreateEntity adds a body with the given shape and pose. A mass of 0 makes the
// body static; a negative or NaN mass is fatal, as is running out of entity
// slots.
func (w *World) CreateEntity(shape *Shape, mass float32, pose geom.Transform) Handle {
	geom.Assert(mass >= 0, "body mass %v must not be negative", mass)
	if int(w.count) == len(w.bodies) {
		panic(fmt.Errorf("%w: entity pool full (%d)", arena.ErrCapacityExhausted, len(w.bodies)-1))
	}
	h := w.count
	w.count++

	b := &w.bodies[h]
	*b = Body{
		Type:        BodyStatic,
		Shape:       shape,
		Position:    pose.Position,
		Orientation: pose.Rotation,
	}
	if b.Orientation == (mgl32.Quat{}) {
		b.Orientation = mgl32.QuatIdent()
	}
	if mass > 0 {
		b.Type = BodyDynamic
		b.Mass = mass
		b.InverseMass = 1 / mass
		b.Inertia = shape.Inertia(mass)
		b.InverseInertia = b.Inertia.Inv()
	}
	b.Recalculate()
	b.RecalculateModelMatrix()
	b.Leaf = w.tree.Insert(b.Bounds, int32(h))

	if int(w.count) == len(w.bodies) {
		w.log.Logf("physics: entity pool full at %d bodies", h)
	}
	return h
}

func (w *World) body(h Handle) (*Body, error) {
	if h <= 0 || h >= w.count {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	return &w.bodies[h], nil
}

// Body returns the body for h, or nil for an invalid handle.
func (w *World) Body(h Handle) *Body {
	b, err := w.body(h)
	if err != nil {
		return nil
	}
	return b
}

// Len returns the number of bodies.
func (w *World) Len() int {
	return int(w.count) - 1
}

// SetStatic turns h into an immovable body.
func (w *World) SetStatic(h Handle) error {
	b, err := w.body(h)
	if err != nil {
		return err
	}
	b.makeStatic()
	return nil
}

// SetMomentum overwrites the momenta of a dynamic body.
func (w *World) SetMomentum(h Handle, linear, angular mgl32.Vec3) error {
	b, err := w.body(h)
	if err != nil {
		return err
	}
	if b.Type != BodyDynamic {
		return fmt.Errorf("physics: body %d is static", h)
	}
	b.LinearMomentum = linear
	b.AngularMomentum = angular
	b.Recalculate()
	return nil
}

// SetFriction overrides the world friction for h. 0 restores the default.
func (w *World) SetFriction(h Handle, mu float32) error {
	b, err := w.body(h)
	if err != nil {
		return err
	}
	if mu < 0 {
		return fmt.Errorf("physics: negative friction %v", mu)
	}
	b.Friction = mu
	return nil
}

// QueryEntityPose returns the position, orientation and world bounds of h.
func (w *World) QueryEntityPose(h Handle) (Pose, error) {
	b, err := w.body(h)
	if err != nil {
		return Pose{}, err
	}
	return Pose{Position: b.Position, Orientation: b.Orientation, Bounds: b.Bounds}, nil
}

// ForEachBody calls fn for every body in handle order.
func (w *World) ForEachBody(fn func(Handle, *Body)) {
	for h := Handle(1); h < w.count; h++ {
		fn(h, &w.bodies[h])
	}
}

// ForEachArbiter calls fn for every pair that was touching in the last tick.
func (w *World) ForEachArbiter(fn func(*Arbiter)) {
	w.arbiters.ForEach(fn)
}

// Arbiter returns the live arbiter of (a, b) or nil.
func (w *World) Arbiter(a, b Handle) *Arbiter {
	return w.arbiters.Find(a, b)
}

// Pairs returns the pairs that were touching in the last tick, sorted by the
// arbiter table order.
func (w *World) Pairs() []bvh.Pair {
	var out []bvh.Pair
	w.arbiters.ForEach(func(arb *Arbiter) {
		out = append(out, bvh.Pair{A: int32(arb.A), B: int32(arb.B)})
	})
	return out
}

// BVH exposes the broadphase tree for inspection.
func (w *World) BVH() *bvh.Tree {
	return w.tree
}

// Stats returns the counters of the last tick.
func (w *World) Stats() Stats {
	return w.stats
}

// Ticks returns how many ticks ran since the last reset.
func (w *World) Ticks() uint64 {
	return w.ticks
}

// Tick advances the simulation by dt: forces, broadphase and narrow phase,
// warm start, solver iterations and integration.
func (w *World) Tick(dt float32) {
	w.frame.Reset()
	w.stats = Stats{}

	w.applyForces(dt)
	w.detectCollisions()
	w.warmStart()
	for range w.settings.Iterations {
		for _, arb := range w.colliding.Items() {
			w.applyImpulses(arb, dt)
		}
	}
	w.integrate(dt)

	w.stats.Bodies = w.Len()
	w.stats.Arbiters = w.colliding.Len()
	w.stats.FrameBytes = w.frame.Used()
	w.ticks++
}

// Reset destroys every body and arbiter.
func (w *World) Reset() {
	clear(w.bodies[:w.count])
	w.count = 1
	w.tree.Reset()
	w.arbiters.Reset()
	w.frame.Reset()
	w.stats = Stats{}
	w.ticks = 0
	w.log.Logf("physics: world reset")
}
