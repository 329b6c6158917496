package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Union returns the smallest box containing a and b.
func Union(a, b AABB) AABB {
	var r AABB
	for i := 0; i < 3; i++ {
		r.Min[i] = min(a.Min[i], b.Min[i])
		r.Max[i] = max(a.Max[i], b.Max[i])
	}
	return r
}

// SurfaceArea is the SAH cost metric 2*(dx*dy+dy*dz+dz*dx).
func (b AABB) SurfaceArea() float32 {
	d := b.Max.Sub(b.Min)
	return 2 * (d[0]*d[1] + d[1]*d[2] + d[2]*d[0])
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extents returns Max-Min.
func (b AABB) Extents() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Intersects reports whether a and b overlap; touching boxes count as overlapping.
func (b AABB) Intersects(o AABB) bool {
	for i := 0; i < 3; i++ {
		if b.Max[i] < o.Min[i] || b.Min[i] > o.Max[i] {
			return false
		}
	}
	return true
}

// Inside reports whether b lies strictly inside o.
func (b AABB) Inside(o AABB) bool {
	for i := 0; i < 3; i++ {
		if !(b.Min[i] > o.Min[i] && b.Max[i] < o.Max[i]) {
			return false
		}
	}
	return true
}

// Contains reports whether o lies inside b, borders included.
func (b AABB) Contains(o AABB) bool {
	for i := 0; i < 3; i++ {
		if o.Min[i] < b.Min[i] || o.Max[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Grow scales the box about its center so each side becomes factor times longer.
func (b AABB) Grow(factor float32) AABB {
	var r AABB
	for i := 0; i < 3; i++ {
		length := b.Max[i] - b.Min[i]
		add := (length*factor - length) * 0.5
		r.Min[i] = b.Min[i] - add
		r.Max[i] = b.Max[i] + add
	}
	return r
}

// Transform returns the world box enclosing b after applying the affine model
// matrix m (Arvo's method).
func (b AABB) Transform(m mgl32.Mat4) AABB {
	var r AABB
	for i := 0; i < 3; i++ {
		r.Min[i] = m.At(i, 3)
		r.Max[i] = m.At(i, 3)
		for j := 0; j < 3; j++ {
			e := m.At(i, j) * b.Min[j]
			f := m.At(i, j) * b.Max[j]
			r.Min[i] += min(e, f)
			r.Max[i] += max(e, f)
		}
	}
	return r
}

// ClosestPoint clamps p onto the box.
func (b AABB) ClosestPoint(p mgl32.Vec3) mgl32.Vec3 {
	var r mgl32.Vec3
	for i := 0; i < 3; i++ {
		r[i] = Clamp(p[i], b.Min[i], b.Max[i])
	}
	return r
}

// ContainsPoint reports whether p is inside b, borders included.
func (b AABB) ContainsPoint(p mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Overlap returns the per-axis overlap of two boxes; negative components mean
// the boxes are separated along that axis.
func Overlap(a, b AABB) mgl32.Vec3 {
	var r mgl32.Vec3
	for i := 0; i < 3; i++ {
		r[i] = math32.Min(a.Max[i], b.Max[i]) - math32.Max(a.Min[i], b.Min[i])
	}
	return r
}
