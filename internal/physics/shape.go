package physics

import (
	"github.com/go-gl/mathgl/mgl32"
	"physics-engine/internal/geom"
)

// Shape is collision geometry shared between bodies.
type Shape struct {
	Hull   *geom.Hull
	Bounds geom.AABB // local, tight
	Size   mgl32.Vec3
}

// NewBoxShape returns a box centered on the origin. Width runs along X, depth
// along Y and height along Z.
func NewBoxShape(width, depth, height float32) *Shape {
	size := mgl32.Vec3{width, depth, height}
	hull := geom.NewBoxHullExtents(size)
	return &Shape{Hull: hull, Bounds: hull.Bounds(), Size: size}
}

// Inertia is the solid box inertia tensor for the given mass.
func (s *Shape) Inertia(mass float32) mgl32.Mat3 {
	w, d, h := s.Size[0], s.Size[1], s.Size[2]
	k := mass / 12
	return mgl32.Diag3(mgl32.Vec3{
		k * (geom.Square(h) + geom.Square(d)),
		k * (geom.Square(w) + geom.Square(d)),
		k * (geom.Square(w) + geom.Square(h)),
	})
}
