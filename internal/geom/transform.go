package geom

import "github.com/go-gl/mathgl/mgl32"

// Transform is a rigid pose: rotation followed by translation.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// Identity returns the identity pose.
func Identity() Transform {
	return Transform{Rotation: mgl32.QuatIdent()}
}

// ToWorld maps a local point to world space.
func (t Transform) ToWorld(p mgl32.Vec3) mgl32.Vec3 {
	return t.Rotation.Rotate(p).Add(t.Position)
}

// ToLocal maps a world point into the local space of t.
func (t Transform) ToLocal(p mgl32.Vec3) mgl32.Vec3 {
	return t.Rotation.Inverse().Rotate(p.Sub(t.Position))
}

// DirToWorld rotates a local direction into world space.
func (t Transform) DirToWorld(d mgl32.Vec3) mgl32.Vec3 {
	return t.Rotation.Rotate(d)
}

// DirToLocal rotates a world direction into the local space of t.
func (t Transform) DirToLocal(d mgl32.Vec3) mgl32.Vec3 {
	return t.Rotation.Inverse().Rotate(d)
}

// Matrix returns the model matrix Translation * Rotation.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2]).Mul4(t.Rotation.Mat4())
}

// PointAToB maps a point in the local space of a into the local space of b.
func PointAToB(p mgl32.Vec3, a, b Transform) mgl32.Vec3 {
	return b.ToLocal(a.ToWorld(p))
}

// DirAToB maps a direction in the local space of a into the local space of b.
func DirAToB(d mgl32.Vec3, a, b Transform) mgl32.Vec3 {
	return b.DirToLocal(a.DirToWorld(d))
}
