package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"physics-engine/internal/geom"
)

// applyForces adds gravity to every dynamic body and refreshes the derived
// state of all bodies.
func (w *World) applyForces(dt float32) {
	g := mgl32.Vec3(w.settings.Gravity).Mul(w.settings.UnitsPerMeter)
	for i := Handle(1); i < w.count; i++ {
		b := &w.bodies[i]
		if b.Type == BodyDynamic {
			b.LinearMomentum = b.LinearMomentum.Add(g.Mul(b.Mass * dt))
		}
		b.Recalculate()
		b.RecalculateModelMatrix()
	}
}

// warmStart applies the normal impulse each contact carried over from the
// previous tick, so the iterations start from last tick's solution. Friction
// directions follow the tangential velocity and change between ticks, so the
// friction accumulators restart from zero.
func (w *World) warmStart() {
	for _, arb := range w.colliding.Items() {
		a, b := &w.bodies[arb.A], &w.bodies[arb.B]
		n := arb.Manifold.Normal
		for i := range arb.Manifold.Contacts() {
			c := &arb.Manifold.Points[i]
			c.FrictionImpulse = 0
			c.TangentImpulse = 0
			if c.NormalImpulse == 0 {
				continue
			}
			p := n.Mul(c.NormalImpulse)
			a.ApplyImpulse(p.Mul(-1), c.Position.Sub(a.CenterOfMass()))
			b.ApplyImpulse(p, c.Position.Sub(b.CenterOfMass()))
		}
	}
}

// friction combines the two bodies' coefficients.
func (w *World) friction(a, b *Body) float32 {
	fa, fb := a.Friction, b.Friction
	if fa <= 0 {
		fa = w.settings.Friction
	}
	if fb <= 0 {
		fb = w.settings.Friction
	}
	return math32.Sqrt(fa * fb)
}

// effectiveMass is the inverse of the impulse response of both bodies at the
// contact offsets along dir.
func effectiveMass(a, b *Body, ia, ib mgl32.Mat3, ra, rb, dir mgl32.Vec3) float32 {
	k := a.InverseMass + b.InverseMass
	k += ia.Mul3x1(ra.Cross(dir).Cross(ra)).Add(ib.Mul3x1(rb.Cross(dir).Cross(rb))).Dot(dir)
	if k <= 0 {
		return 0
	}
	return 1 / k
}

func relativeVelocity(a, b *Body, ra, rb mgl32.Vec3) mgl32.Vec3 {
	vb := b.LinearVelocity.Add(b.AngularVelocity.Cross(rb))
	va := a.LinearVelocity.Add(a.AngularVelocity.Cross(ra))
	return vb.Sub(va)
}

// applyImpulses runs one sequential-impulse pass over one arbiter: a normal
// impulse with Baumgarte bias, then friction along the tangential velocity and
// along its cross product with the normal. Accumulated impulses are clamped,
// only the change is applied.
func (w *World) applyImpulses(arb *Arbiter, dt float32) {
	a, b := &w.bodies[arb.A], &w.bodies[arb.B]
	s := &w.settings
	mu := w.friction(a, b)
	normal := arb.Manifold.Normal
	geom.Assert(!geom.IsZero(normal), "arbiter (%d, %d) has a zero normal", arb.A, arb.B)
	normal = normal.Normalize()

	apply := func(p, ra, rb mgl32.Vec3) {
		a.ApplyImpulse(p.Mul(-1), ra)
		b.ApplyImpulse(p, rb)
	}

	for i := range arb.Manifold.Contacts() {
		c := &arb.Manifold.Points[i]
		ra := c.Position.Sub(a.CenterOfMass())
		rb := c.Position.Sub(b.CenterOfMass())
		ia, ib := a.WorldInverseInertia(), b.WorldInverseInertia()

		{
			dv := relativeVelocity(a, b, ra, rb)
			vn := dv.Dot(normal)
			bias := -s.BiasFactor / dt * min(0, c.Penetration+s.Slop)
			lambda := effectiveMass(a, b, ia, ib, ra, rb, normal) * (-vn + bias)
			old := c.NormalImpulse
			c.NormalImpulse = max(old+lambda, 0)
			apply(normal.Mul(c.NormalImpulse-old), ra, rb)
		}

		dv := relativeVelocity(a, b, ra, rb)
		tangent := dv.Sub(normal.Mul(dv.Dot(normal)))
		if geom.IsZero(tangent) {
			continue
		}
		tangent = tangent.Normalize()
		applyFriction(a, b, ia, ib, ra, rb, tangent, mu*c.NormalImpulse, &c.FrictionImpulse, apply)
		applyFriction(a, b, ia, ib, ra, rb, tangent.Cross(normal), mu*c.NormalImpulse, &c.TangentImpulse, apply)
	}
}

func applyFriction(a, b *Body, ia, ib mgl32.Mat3, ra, rb, dir mgl32.Vec3, limit float32, acc *float32, apply func(p, ra, rb mgl32.Vec3)) {
	vt := relativeVelocity(a, b, ra, rb).Dot(dir)
	lambda := effectiveMass(a, b, ia, ib, ra, rb, dir) * -vt
	old := *acc
	*acc = geom.Clamp(old+lambda, -limit, limit)
	apply(dir.Mul(*acc-old), ra, rb)
}

// integrate moves every dynamic body by its velocity.
func (w *World) integrate(dt float32) {
	for i := Handle(1); i < w.count; i++ {
		b := &w.bodies[i]
		if b.Type != BodyDynamic {
			continue
		}
		b.integrate(dt)
		b.Recalculate()
		b.RecalculateModelMatrix()
	}
}
