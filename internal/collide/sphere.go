package collide

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"physics-engine/internal/geom"
)

// Sphere is a world-space sphere.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// Spheres tests two spheres and writes a single-point manifold with the normal
// pointing from a to b. Concentric spheres use +Z as the normal.
func Spheres(a, b Sphere, m *Manifold) bool {
	m.Reset()
	diff := b.Center.Sub(a.Center)
	dist := diff.Len()
	pen := dist - a.Radius - b.Radius
	if pen > 0 {
		return false
	}
	normal := mgl32.Vec3{0, 0, 1}
	if dist > geom.Epsilon {
		normal = diff.Mul(1 / dist)
	}
	m.PointCount = 1
	m.Points[0] = ContactPoint{
		Position:    a.Center.Add(normal.Mul(a.Radius - math32.Abs(pen)/2)),
		Penetration: pen,
	}
	m.Normal = normal
	return true
}

// SphereAABB tests a sphere (A) against a box (B). The normal points from the
// sphere into the box.
//
// When the sphere center lies inside the box the closest-point formulation has
// no direction, so the sphere is pushed out through the nearest face instead:
// the normal is that face's inward axis and the penetration includes the
// distance from the center to the face.
func SphereAABB(s Sphere, box geom.AABB, m *Manifold) bool {
	m.Reset()
	if box.ContainsPoint(s.Center) {
		sphereInsideAABB(s, box, m)
		return true
	}

	closest := box.ClosestPoint(s.Center)
	diff := s.Center.Sub(closest)
	dist := diff.Len()
	pen := dist - s.Radius
	if pen > 0 {
		return false
	}
	m.PointCount = 1
	m.Points[0] = ContactPoint{Position: closest, Penetration: pen}
	m.Normal = diff.Mul(-1 / dist)
	return true
}

func sphereInsideAABB(s Sphere, box geom.AABB, m *Manifold) {
	axis, sign := 0, float32(1)
	depth := float32(math.MaxFloat32)
	for i := 0; i < 3; i++ {
		if d := box.Max[i] - s.Center[i]; d < depth {
			axis, sign, depth = i, 1, d
		}
		if d := s.Center[i] - box.Min[i]; d < depth {
			axis, sign, depth = i, -1, d
		}
	}
	// Outward face normal is sign*e_axis; the contact normal points into the box.
	var normal mgl32.Vec3
	normal[axis] = -sign
	face := s.Center
	if sign > 0 {
		face[axis] = box.Max[axis]
	} else {
		face[axis] = box.Min[axis]
	}
	m.PointCount = 1
	m.Points[0] = ContactPoint{Position: face, Penetration: -(depth + s.Radius)}
	m.Normal = normal
}
