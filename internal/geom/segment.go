package geom

import "github.com/go-gl/mathgl/mgl32"

// ClosestPointsSegments returns the closest points c1 on p1q1 and c2 on p2q2.
// Zero-length segments are treated as points.
func ClosestPointsSegments(p1, q1, p2, q2 mgl32.Vec3) (c1, c2 mgl32.Vec3) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	if a <= Epsilon && e <= Epsilon {
		return p1, p2
	}

	var s, t float32
	if a <= Epsilon {
		t = Clamp(f/e, 0, 1)
	} else {
		c := d1.Dot(r)
		if e <= Epsilon {
			s = Clamp(-c/a, 0, 1)
		} else {
			b := d1.Dot(d2)
			if denom := a*e - b*b; denom != 0 {
				s = Clamp((b*f-c*e)/denom, 0, 1)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = Clamp(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = Clamp((b-c)/a, 0, 1)
			}
		}
	}
	return p1.Add(d1.Mul(s)), p2.Add(d2.Mul(t))
}
