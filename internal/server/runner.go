// Package server exposes a running simulation over HTTP.
package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"physics-engine/internal/physics"
	"physics-engine/internal/scene"
)

// Snapshot is the JSON view of the last tick.
type Snapshot struct {
	Scene      string        `json:"scene"`
	Tick       uint64        `json:"tick"`
	Iterations int           `json:"iterations"`
	Broadphase string        `json:"broadphase"`
	BVHCost    float32       `json:"bvh_cost"`
	BVHHeight  int           `json:"bvh_height"`
	Stats      physics.Stats `json:"stats"`
}

// BodyState is the JSON view of one body.
type BodyState struct {
	Handle      physics.Handle `json:"handle"`
	Type        string         `json:"type"`
	Position    [3]float32     `json:"position"`
	Orientation [4]float32     `json:"orientation"` // w, x, y, z
	Min         [3]float32     `json:"min"`
	Max         [3]float32     `json:"max"`
}

// Runner advances a scene in real time and serializes access to it.
type Runner struct {
	mu    sync.Mutex
	scene *scene.Scene
}

// NewRunner wraps s. s must not be touched directly afterwards.
func NewRunner(s *scene.Scene) *Runner {
	return &Runner{scene: s}
}

// Run feeds wall time into the scene every interval until ctx is done.
func (r *Runner) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			r.Step(float32(now.Sub(last).Seconds()))
			last = now
		}
	}
}

// Step advances the scene by elapsed seconds and returns the ticks run.
func (r *Runner) Step(elapsed float32) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scene.Advance(elapsed)
}

// Reset respawns the scene's preset.
func (r *Runner) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scene.Reset()
}

// Snapshot returns the counters of the last tick.
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	w := r.scene.World
	s := w.Settings()
	return Snapshot{
		Scene:      r.scene.Preset().Name,
		Tick:       w.Ticks(),
		Iterations: s.Iterations,
		Broadphase: string(s.Broadphase),
		BVHCost:    w.BVH().Cost(),
		BVHHeight:  w.BVH().Height(),
		Stats:      w.Stats(),
	}
}

// Bodies returns every body in handle order.
func (r *Runner) Bodies() []BodyState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]BodyState, 0, r.scene.World.Len())
	r.scene.World.ForEachBody(func(h physics.Handle, b *physics.Body) {
		out = append(out, bodyState(h, b))
	})
	return out
}

// Body returns one body.
func (r *Runner) Body(h physics.Handle) (BodyState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := r.scene.World.Body(h)
	if b == nil {
		return BodyState{}, fmt.Errorf("%w: %d", physics.ErrInvalidHandle, h)
	}
	return bodyState(h, b), nil
}

func bodyState(h physics.Handle, b *physics.Body) BodyState {
	q := b.Orientation
	return BodyState{
		Handle:      h,
		Type:        b.Type.String(),
		Position:    b.Position,
		Orientation: [4]float32{q.W, q.V[0], q.V[1], q.V[2]},
		Min:         b.Bounds.Min,
		Max:         b.Bounds.Max,
	}
}
