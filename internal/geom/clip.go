package geom

import "github.com/go-gl/mathgl/mgl32"

// PolygonVertex is a clip-polygon vertex tagged with the features of the two
// polygon sides meeting at it: In arrives at the vertex and Out leaves it. The
// caller picks the tag space (incident edges, clip planes); a convex polygon
// never has two corners with the same pair, so the pair identifies the vertex
// across ticks.
type PolygonVertex struct {
	Position mgl32.Vec3
	In       int
	Out      int
}

// edgePlaneIntersection returns the point where segment ab crosses p.
func edgePlaneIntersection(a, b mgl32.Vec3, p Plane) mgl32.Vec3 {
	ab := b.Sub(a)
	t := (p.Distance - p.Normal.Dot(a)) / p.Normal.Dot(ab)
	return a.Add(ab.Mul(Clamp(t, 0, 1)))
}

// ClipPolygonBack clips the closed polygon in against plane p, keeping the half
// space behind it (Sutherland-Hodgman). Vertices created by the clip have
// feature as one side and the clipped segment as the other. Output is
// appended to out[:0] and returned; out must have room for len(in)+2 vertices.
func ClipPolygonBack(in []PolygonVertex, p Plane, feature int, out []PolygonVertex) []PolygonVertex {
	out = out[:0]
	if len(in) == 0 {
		return out
	}
	a := in[len(in)-1]
	aSide := p.Classify(a.Position)
	for _, b := range in {
		bSide := p.Classify(b.Position)
		switch {
		case bSide == SideFront:
			if aSide == SideBack {
				// Leaving the kept half space along a.Out.
				out = append(out, PolygonVertex{edgePlaneIntersection(a.Position, b.Position, p), a.Out, feature})
			}
		case bSide == SideBack:
			if aSide == SideFront {
				out = append(out, PolygonVertex{edgePlaneIntersection(a.Position, b.Position, p), feature, a.Out})
			} else if aSide == SideOn {
				out = append(out, a)
			}
			out = append(out, b)
		case aSide == SideBack:
			out = append(out, b)
		}
		a, aSide = b, bSide
	}
	return out
}
