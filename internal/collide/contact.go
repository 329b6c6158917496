package collide

import "github.com/go-gl/mathgl/mgl32"

// MaxContactPoints is the manifold point cap.
const MaxContactPoints = 4

// FeatureKind tells which pair of features produced a contact.
type FeatureKind uint64

const (
	FeatureNone FeatureKind = iota
	FeatureEdge
	FeatureFace  // reference face on A
	FeatureFaceB // reference face on B
)

// FeatureID identifies a contact across ticks. It is compared for equality only.
// The top two bits hold the FeatureKind, followed by three 20-bit feature indices.
type FeatureID uint64

const featureIndexBits = 20
const featureIndexMask = 1<<featureIndexBits - 1

// clipPlaneTag offsets reference-face indices used as clip features so they
// never collide with incident half-edge indices (which fit in 16 bits).
const clipPlaneTag = 1 << 16

func makeFeatureID(kind FeatureKind, a, b, c int) FeatureID {
	return FeatureID(uint64(kind)<<62 |
		(uint64(a)&featureIndexMask)<<(2*featureIndexBits) |
		(uint64(b)&featureIndexMask)<<featureIndexBits |
		uint64(c)&featureIndexMask)
}

// FaceFeature keys a face contact by reference face and the two polygon sides
// meeting at the contact vertex. Sides are incident half-edges or, offset by
// clipPlaneTag, side faces of the reference hull.
func FaceFeature(reference, in, out int) FeatureID {
	return makeFeatureID(FeatureFace, reference, in, out)
}

// FaceFeatureB is FaceFeature for manifolds whose reference face is on B.
func FaceFeatureB(reference, in, out int) FeatureID {
	return makeFeatureID(FeatureFaceB, reference, in, out)
}

// EdgeFeature keys an edge contact by the two witness edges.
func EdgeFeature(edgeA, edgeB int) FeatureID {
	return makeFeatureID(FeatureEdge, edgeA, edgeB, 0)
}

// Kind returns the feature pair type.
func (id FeatureID) Kind() FeatureKind {
	return FeatureKind(id >> 62)
}

// ContactPoint is one point of a manifold plus the solver state that is
// carried across ticks while its feature ID keeps matching.
type ContactPoint struct {
	Position    mgl32.Vec3
	Penetration float32 // negative while penetrating

	NormalImpulse   float32
	FrictionImpulse float32
	TangentImpulse  float32
	BiasImpulse     float32

	ID FeatureID
}

// ClearImpulses drops the accumulated solver state.
func (c *ContactPoint) ClearImpulses() {
	c.NormalImpulse = 0
	c.FrictionImpulse = 0
	c.TangentImpulse = 0
	c.BiasImpulse = 0
}

// Manifold is the contact set between two bodies. Normal points from A to B.
type Manifold struct {
	Points     [MaxContactPoints]ContactPoint
	PointCount int
	Normal     mgl32.Vec3
}

// Contacts returns the live points.
func (m *Manifold) Contacts() []ContactPoint {
	return m.Points[:m.PointCount]
}

// Reset empties the manifold.
func (m *Manifold) Reset() {
	*m = Manifold{}
}

// Deepest returns the most negative penetration, or 0 for an empty manifold.
func (m *Manifold) Deepest() float32 {
	var d float32
	for _, p := range m.Contacts() {
		d = min(d, p.Penetration)
	}
	return d
}
