package geom

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/constraints"
)

// Epsilon is the tolerance used for degenerate lengths and axes.
const Epsilon = 1.1920929e-07

// PlaneThickness is the half-width of the "on plane" band used by ClassifyPoint.
const PlaneThickness = 0.001

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Float | constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Square returns v*v.
func Square[T constraints.Float](v T) T {
	return v * v
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

// IsZero reports whether every component of v is within Epsilon of zero.
func IsZero(v mgl32.Vec3) bool {
	return math32.Abs(v[0]) <= Epsilon && math32.Abs(v[1]) <= Epsilon && math32.Abs(v[2]) <= Epsilon
}

// Normalize returns v scaled to unit length. A zero vector is an invariant
// violation.
func Normalize(v mgl32.Vec3) mgl32.Vec3 {
	l := math32.Sqrt(v.Dot(v))
	Assert(l > 0, "normalize zero-length vector")
	return v.Mul(1 / l)
}

// Assert panics when cond is false. Invariant checks stay enabled in every
// build; a failing check means corrupted topology or state.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("invariant violated: "+format, args...))
	}
}
