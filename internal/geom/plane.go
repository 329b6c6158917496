package geom

import "github.com/go-gl/mathgl/mgl32"

// Plane is the set of points p with Dot(Normal, p) == Distance.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// Side classifies a point against a plane.
type Side uint8

const (
	SideOn Side = iota
	SideFront
	SideBack
)

// PlaneFromPoints builds the plane through a, b, c with counter-clockwise winding.
func PlaneFromPoints(a, b, c mgl32.Vec3) Plane {
	n := Normalize(b.Sub(a).Cross(c.Sub(a)))
	return Plane{Normal: n, Distance: n.Dot(a)}
}

// PlaneFromNormal builds the plane with normal direction n through p.
func PlaneFromNormal(n, p mgl32.Vec3) Plane {
	n = Normalize(n)
	return Plane{Normal: n, Distance: n.Dot(p)}
}

// SignedDistance is positive in front of the plane.
func (p Plane) SignedDistance(v mgl32.Vec3) float32 {
	return p.Normal.Dot(v) - p.Distance
}

// Project moves v onto the plane along the normal.
func (p Plane) Project(v mgl32.Vec3) mgl32.Vec3 {
	return v.Sub(p.Normal.Mul(p.SignedDistance(v)))
}

// Classify places v in front of, behind or on the plane using PlaneThickness.
func (p Plane) Classify(v mgl32.Vec3) Side {
	d := p.SignedDistance(v)
	switch {
	case d > PlaneThickness:
		return SideFront
	case d < -PlaneThickness:
		return SideBack
	default:
		return SideOn
	}
}
