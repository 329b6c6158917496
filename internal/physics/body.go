package physics

import (
	"github.com/go-gl/mathgl/mgl32"
	"physics-engine/internal/geom"
)

// Handle identifies a body in its world. 0 is the null body.
type Handle int32

// BodyType tells the solver whether a body responds to impulses.
type BodyType uint8

const (
	BodyStatic BodyType = iota
	BodyDynamic
)

func (t BodyType) String() string {
	if t == BodyDynamic {
		return "dynamic"
	}
	return "static"
}

// Body is a rigid body. Momentum is the integrated state; velocities, the model
// matrix and the world bounds are derived from it by Recalculate and
// RecalculateModelMatrix.
type Body struct {
	Type  BodyType
	Shape *Shape

	Position    mgl32.Vec3
	Orientation mgl32.Quat
	ModelMatrix mgl32.Mat4
	Bounds      geom.AABB // world, tight

	LinearMomentum  mgl32.Vec3
	AngularMomentum mgl32.Vec3
	LinearVelocity  mgl32.Vec3
	AngularVelocity mgl32.Vec3

	Mass           float32
	InverseMass    float32
	Inertia        mgl32.Mat3 // local
	InverseInertia mgl32.Mat3 // local
	Friction       float32    // 0 uses the world default

	Leaf int32 // BVH leaf
}

// Transform returns the body pose.
func (b *Body) Transform() geom.Transform {
	return geom.Transform{Position: b.Position, Rotation: b.Orientation}
}

// Recalculate derives the velocities from the momenta and renormalizes the
// orientation.
func (b *Body) Recalculate() {
	b.Orientation = b.Orientation.Normalize()
	b.LinearVelocity = b.LinearMomentum.Mul(b.InverseMass)
	b.AngularVelocity = b.WorldInverseInertia().Mul3x1(b.AngularMomentum)
}

// RecalculateModelMatrix rebuilds the model matrix and the world bounds.
func (b *Body) RecalculateModelMatrix() {
	b.ModelMatrix = mgl32.Translate3D(b.Position[0], b.Position[1], b.Position[2]).Mul4(b.Orientation.Mat4())
	b.Bounds = b.Shape.Bounds.Transform(b.ModelMatrix)
}

// WorldInverseInertia is R * I^-1 * R^T.
func (b *Body) WorldInverseInertia() mgl32.Mat3 {
	r := b.Orientation.Mat4().Mat3()
	return r.Mul3(b.InverseInertia).Mul3(r.Transpose())
}

// CenterOfMass is the hull centroid in world space.
func (b *Body) CenterOfMass() mgl32.Vec3 {
	return b.Transform().ToWorld(b.Shape.Hull.Centroid)
}

// VelocityAtPoint returns the velocity of the world point p moving with the body.
func (b *Body) VelocityAtPoint(p mgl32.Vec3) mgl32.Vec3 {
	return b.LinearVelocity.Add(b.AngularVelocity.Cross(p.Sub(b.CenterOfMass())))
}

// ApplyImpulse adds impulse at offset r from the center of mass. Static bodies
// are left untouched.
func (b *Body) ApplyImpulse(impulse, r mgl32.Vec3) {
	if b.Type != BodyDynamic {
		return
	}
	b.LinearMomentum = b.LinearMomentum.Add(impulse)
	b.AngularMomentum = b.AngularMomentum.Add(r.Cross(impulse))
	b.Recalculate()
}

// integrate advances the pose by dt using the current velocities.
func (b *Body) integrate(dt float32) {
	b.Position = b.Position.Add(b.LinearVelocity.Mul(dt))
	spin := mgl32.Quat{W: 0, V: b.AngularVelocity}
	b.Orientation = b.Orientation.Add(spin.Mul(b.Orientation).Scale(0.5 * dt))
}

// makeStatic drops the mass properties so impulses no longer move the body.
func (b *Body) makeStatic() {
	b.Type = BodyStatic
	b.Mass = 0
	b.InverseMass = 0
	b.Inertia = mgl32.Mat3{}
	b.InverseInertia = mgl32.Mat3{}
	b.LinearMomentum = mgl32.Vec3{}
	b.AngularMomentum = mgl32.Vec3{}
	b.Recalculate()
}
