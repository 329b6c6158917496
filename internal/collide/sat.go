package collide

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"physics-engine/internal/geom"
)

// FaceQuery is the best face axis of one hull against another.
type FaceQuery struct {
	Index      int
	Normal     mgl32.Vec3 // world space
	Separation float32
}

// EdgeQuery is the best edge-pair axis between two hulls.
type EdgeQuery struct {
	EdgeA      int
	EdgeB      int
	Normal     mgl32.Vec3 // world space, pointing from A to B
	Separation float32
}

// parallelTolerance is the squared sine below which two edges count as parallel.
const parallelTolerance = 1e-8

// QueryFaces tests every face plane of a as a separating axis against b and
// returns the one with the largest separation. The work is done in b's local
// space so b's support mapping needs no transform.
func QueryFaces(a *geom.Hull, ta geom.Transform, b *geom.Hull, tb geom.Transform) FaceQuery {
	q := FaceQuery{Index: -1, Separation: -math.MaxFloat32}
	for i, plane := range a.Planes {
		n := geom.DirAToB(plane.Normal, ta, tb)
		va := geom.PointAToB(a.Vertices[a.Edges[a.Faces[i].Edge].Origin], ta, tb)
		vb := b.SupportPoint(n.Mul(-1))
		if sep := n.Dot(vb.Sub(va)); sep > q.Separation {
			q.Index = i
			q.Separation = sep
			q.Normal = ta.DirToWorld(plane.Normal)
		}
	}
	return q
}

// QueryEdges tests the cross product of every edge pair as a separating axis.
// Each twin pair is visited once. Parallel edges are skipped.
func QueryEdges(a *geom.Hull, ta geom.Transform, b *geom.Hull, tb geom.Transform) EdgeQuery {
	q := EdgeQuery{EdgeA: -1, EdgeB: -1, Separation: -math.MaxFloat32}
	centroid := geom.PointAToB(a.Centroid, ta, tb)

	for i := 0; i < len(a.Edges); i += 2 {
		p1, q1 := a.EdgeSegment(i)
		p1 = geom.PointAToB(p1, ta, tb)
		q1 = geom.PointAToB(q1, ta, tb)
		e1 := q1.Sub(p1)

		for j := 0; j < len(b.Edges); j += 2 {
			p2, q2 := b.EdgeSegment(j)
			e2 := q2.Sub(p2)
			axis := e1.Cross(e2)
			if axis.Dot(axis) <= parallelTolerance*e1.Dot(e1)*e2.Dot(e2) {
				continue
			}
			if axis.Dot(p1.Sub(centroid)) < 0 {
				axis = axis.Mul(-1)
			}
			axis = geom.Normalize(axis)

			va := geom.PointAToB(a.SupportPoint(geom.DirAToB(axis, tb, ta)), ta, tb)
			vb := b.SupportPoint(axis.Mul(-1))
			if sep := axis.Dot(vb.Sub(va)); sep > q.Separation {
				q.EdgeA = i
				q.EdgeB = j
				q.Separation = sep
				q.Normal = tb.DirToWorld(axis)
			}
		}
	}
	return q
}
