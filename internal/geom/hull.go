package geom

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// HalfEdge is one directed side of an edge. Twins are stored next to each other
// (2k and 2k+1) so edge pairs can be visited by stepping by 2.
type HalfEdge struct {
	Next   uint16
	Twin   uint16
	Origin uint16
	Face   uint16
}

// Face references one half-edge of its boundary cycle.
type Face struct {
	Edge uint16
}

// Hull is an immutable convex polyhedron in half-edge form. Planes[i] is the
// outward plane of Faces[i].
type Hull struct {
	Centroid mgl32.Vec3
	Vertices []mgl32.Vec3
	Edges    []HalfEdge
	Faces    []Face
	Planes   []Plane
}

// boxFaceEdges lists the half-edges of each box face in cycle order.
var boxFaceEdges = [6][4]uint16{
	{0, 2, 4, 6}, {11, 23, 19, 15},
	{7, 8, 10, 12}, {5, 21, 22, 9},
	{3, 17, 18, 20}, {1, 13, 14, 16},
}

var boxEdgeOrigins = [24]uint16{
	0, 1, 1, 2, 2, 3, 3, 0,
	3, 6, 6, 5, 5, 0, 5, 4,
	4, 1, 4, 7, 7, 2, 7, 6,
}

// NewBoxHull builds the 8-vertex, 12-edge, 6-face hull of the box [min, max].
func NewBoxHull(lo, hi mgl32.Vec3) *Hull {
	h := &Hull{
		Centroid: lo.Mul(0.5).Add(hi.Mul(0.5)),
		Vertices: []mgl32.Vec3{
			lo,
			{lo[0], hi[1], lo[2]},
			{hi[0], hi[1], lo[2]},
			{hi[0], lo[1], lo[2]},
			{lo[0], hi[1], hi[2]},
			{lo[0], lo[1], hi[2]},
			{hi[0], lo[1], hi[2]},
			hi,
		},
		Edges:  make([]HalfEdge, 24),
		Faces:  make([]Face, 6),
		Planes: make([]Plane, 6),
	}

	for f, cycle := range boxFaceEdges {
		for i, e := range cycle {
			twin := e + 1
			if e%2 == 1 {
				twin = e - 1
			}
			h.Edges[e] = HalfEdge{
				Next:   cycle[(i+1)%4],
				Twin:   twin,
				Origin: boxEdgeOrigins[e],
				Face:   uint16(f),
			}
		}
		h.Faces[f].Edge = cycle[0]
		e := h.Edges[cycle[0]]
		a := h.Vertices[e.Origin]
		e = h.Edges[e.Next]
		b := h.Vertices[e.Origin]
		e = h.Edges[e.Next]
		c := h.Vertices[e.Origin]
		h.Planes[f] = PlaneFromPoints(a, b, c)
	}
	return h
}

// NewBoxHullExtents builds a box hull centered on the origin with the given
// full side lengths.
func NewBoxHullExtents(size mgl32.Vec3) *Hull {
	half := size.Mul(0.5)
	return NewBoxHull(half.Mul(-1), half)
}

// Support returns the index of the vertex furthest along dir. Ties keep the
// first vertex found.
func (h *Hull) Support(dir mgl32.Vec3) int {
	best := 0
	bestProj := float32(-math.MaxFloat32)
	for i, v := range h.Vertices {
		if p := v.Dot(dir); p > bestProj {
			bestProj = p
			best = i
		}
	}
	return best
}

// SupportPoint is Support returning the vertex itself.
func (h *Hull) SupportPoint(dir mgl32.Vec3) mgl32.Vec3 {
	return h.Vertices[h.Support(dir)]
}

// FaceVertexCount walks the edge cycle of face f.
func (h *Hull) FaceVertexCount(f int) int {
	start := h.Faces[f].Edge
	n := 1
	for e := h.Edges[start].Next; e != start; e = h.Edges[e].Next {
		n++
	}
	return n
}

// EdgeSegment returns the endpoints of half-edge e in local space.
func (h *Hull) EdgeSegment(e int) (mgl32.Vec3, mgl32.Vec3) {
	edge := h.Edges[e]
	return h.Vertices[edge.Origin], h.Vertices[h.Edges[edge.Twin].Origin]
}

// Bounds returns the tight local AABB of the vertices.
func (h *Hull) Bounds() AABB {
	b := AABB{Min: h.Vertices[0], Max: h.Vertices[0]}
	for _, v := range h.Vertices[1:] {
		for i := 0; i < 3; i++ {
			b.Min[i] = min(b.Min[i], v[i])
			b.Max[i] = max(b.Max[i], v[i])
		}
	}
	return b
}

// Validate checks the half-edge invariants: twins point back at each other and
// share endpoints, every face cycle returns to its seed edge, and every plane is
// a unit outward normal with all vertices on or behind it.
func (h *Hull) Validate() error {
	if len(h.Edges)%2 != 0 {
		return fmt.Errorf("hull: odd half-edge count %d", len(h.Edges))
	}
	for i, e := range h.Edges {
		if int(e.Twin) >= len(h.Edges) || int(h.Edges[e.Twin].Twin) != i {
			return fmt.Errorf("hull: edge %d twin %d does not point back", i, e.Twin)
		}
		if i%2 == 0 && int(e.Twin) != i+1 {
			return fmt.Errorf("hull: edge %d twin %d is not adjacent", i, e.Twin)
		}
		if h.Edges[e.Twin].Origin != h.Edges[e.Next].Origin {
			return fmt.Errorf("hull: edge %d twin does not start at the edge's end", i)
		}
	}
	for f, face := range h.Faces {
		e := face.Edge
		for steps := 0; ; steps++ {
			if steps > len(h.Edges) {
				return fmt.Errorf("hull: face %d cycle does not return to seed edge %d", f, face.Edge)
			}
			if int(h.Edges[e].Face) != f {
				return fmt.Errorf("hull: edge %d in cycle of face %d belongs to face %d", e, f, h.Edges[e].Face)
			}
			e = h.Edges[e].Next
			if e == face.Edge {
				break
			}
		}
		p := h.Planes[f]
		if l := p.Normal.Len(); math32.Abs(l-1) > 1e-4 {
			return fmt.Errorf("hull: plane %d normal length %v", f, l)
		}
		for vi, v := range h.Vertices {
			if p.SignedDistance(v) > PlaneThickness {
				return fmt.Errorf("hull: vertex %d in front of plane %d", vi, f)
			}
		}
	}
	return nil
}
