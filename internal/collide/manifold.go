package collide

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"physics-engine/internal/arena"
	"physics-engine/internal/geom"
)

// DefaultEdgeBias is how much deeper (less separated) the edge axis must be
// than both face axes before an edge contact is built.
const DefaultEdgeBias = 1.0

// faceBias keeps A's face as the reference while B's face is only marginally
// less separated, so resting contacts do not alternate between the two.
const faceBias = geom.PlaneThickness

// Scratch holds the per-tick clip polygons and candidate contact points. It is
// allocated once from the frame scope and emptied whenever that scope resets.
type Scratch struct {
	polyA    *arena.Buffer[geom.PolygonVertex]
	polyB    *arena.Buffer[geom.PolygonVertex]
	points   *arena.Buffer[ContactPoint]
	EdgeBias float32
}

// NewScratch reserves clip storage for incident faces of up to maxPolygon
// vertices. Each clip plane can add at most two vertices, so the buffers are
// sized for a generous number of side planes.
func NewScratch(frame *arena.Scope, maxPolygon int) *Scratch {
	room := 2*maxPolygon + 16
	return &Scratch{
		polyA:    arena.NewBuffer[geom.PolygonVertex](frame, "clip polygon A", room),
		polyB:    arena.NewBuffer[geom.PolygonVertex](frame, "clip polygon B", room),
		points:   arena.NewBuffer[ContactPoint](frame, "clip contacts", room),
		EdgeBias: DefaultEdgeBias,
	}
}

// Hulls runs the SAT between two posed hulls. It returns false when a
// separating axis exists; otherwise m holds a manifold with the normal pointing
// from a to b.
func Hulls(a *geom.Hull, ta geom.Transform, b *geom.Hull, tb geom.Transform, m *Manifold, s *Scratch) bool {
	m.Reset()

	faceA := QueryFaces(a, ta, b, tb)
	if faceA.Separation > 0 {
		return false
	}
	faceB := QueryFaces(b, tb, a, ta)
	if faceB.Separation > 0 {
		return false
	}
	edge := QueryEdges(a, ta, b, tb)
	if edge.Separation > 0 {
		return false
	}

	isEdgeContact := faceA.Separation < edge.Separation-s.EdgeBias &&
		faceB.Separation < edge.Separation-s.EdgeBias
	switch {
	case isEdgeContact:
		buildEdgeContact(edge, a, ta, b, tb, m)
	case faceA.Separation+faceBias >= faceB.Separation:
		buildFaceContact(faceA, a, ta, b, tb, m, s, FeatureFace)
	default:
		buildFaceContact(faceB, b, tb, a, ta, m, s, FeatureFaceB)
		m.Normal = m.Normal.Mul(-1)
	}
	return m.PointCount > 0
}

// buildFaceContact clips the incident face of inc against the side planes of
// the reference face of ref. Clipping happens in ref's local space so the
// reference planes are used untransformed.
func buildFaceContact(q FaceQuery, ref *geom.Hull, tRef geom.Transform, inc *geom.Hull, tInc geom.Transform, m *Manifold, s *Scratch, kind FeatureKind) {
	m.Normal = q.Normal
	refPlane := ref.Planes[q.Index]
	refNormal := geom.DirAToB(refPlane.Normal, tRef, tInc)

	incident := -1
	minProj := float32(math.MaxFloat32)
	for i, p := range inc.Planes {
		if proj := p.Normal.Dot(refNormal); proj < minProj {
			incident = i
			minProj = proj
		}
	}

	n := inc.FaceVertexCount(incident)
	poly := s.polyA.Reserve(n)
	start := inc.Faces[incident].Edge
	e := start
	for i := 0; i < n; i++ {
		edge := inc.Edges[e]
		poly = append(poly, geom.PolygonVertex{
			Position: geom.PointAToB(inc.Vertices[edge.Origin], tInc, tRef),
			Out:      int(e),
		})
		e = edge.Next
	}
	for i := range poly {
		poly[i].In = poly[(i+n-1)%n].Out
	}

	spare := s.polyB
	start = ref.Faces[q.Index].Edge
	e = start
	for {
		edge := ref.Edges[e]
		clipFace := int(ref.Edges[edge.Twin].Face)
		out := spare.Reserve(len(poly) + 2)
		poly = geom.ClipPolygonBack(poly, ref.Planes[clipFace], clipPlaneTag+clipFace, out)
		if spare == s.polyB {
			spare = s.polyA
		} else {
			spare = s.polyB
		}
		e = edge.Next
		if e == start {
			break
		}
	}

	points := s.points.Reserve(len(poly))
	deepest := -1
	maxDepth := float32(math.MaxFloat32)
	for _, v := range poly {
		depth := refPlane.SignedDistance(v.Position)
		if depth > 0 {
			continue
		}
		if depth < maxDepth {
			maxDepth = depth
			deepest = len(points)
		}
		points = append(points, ContactPoint{
			Position:    refPlane.Project(v.Position),
			Penetration: depth,
			ID:          makeFeatureID(kind, q.Index, v.In, v.Out),
		})
	}

	if len(points) > MaxContactPoints {
		reduceContacts(points, deepest, refPlane.Normal, &m.Points)
		m.PointCount = MaxContactPoints
	} else {
		m.PointCount = copy(m.Points[:], points)
	}
	for i := range m.Contacts() {
		m.Points[i].Position = tRef.ToWorld(m.Points[i].Position)
	}
}

// reduceContacts picks four of points approximating the largest-area
// quadrilateral: the deepest point, the point furthest from it, the point
// forming the largest triangle with those two and the point that adds the most
// area outside that triangle. points is consumed.
func reduceContacts(points []ContactPoint, deepest int, normal mgl32.Vec3, out *[MaxContactPoints]ContactPoint) {
	take := func(i int) ContactPoint {
		p := points[i]
		points[i] = points[len(points)-1]
		points = points[:len(points)-1]
		return p
	}

	out[0] = take(deepest)
	a := out[0].Position

	best := 0
	bestDist := float32(-math.MaxFloat32)
	for i, p := range points {
		ab := p.Position.Sub(a)
		if d := ab.Dot(ab); d > bestDist {
			best = i
			bestDist = d
		}
	}
	out[1] = take(best)
	b := out[1].Position

	best = 0
	bestArea := float32(-math.MaxFloat32)
	for i, p := range points {
		if area := triangleArea(a, b, p.Position, normal); area > bestArea {
			best = i
			bestArea = area
		}
	}
	out[2] = take(best)
	c := out[2].Position

	best = 0
	bestArea = float32(math.MaxFloat32)
	for i, p := range points {
		d := p.Position
		for _, area := range [3]float32{
			triangleArea(a, b, d, normal),
			triangleArea(b, c, d, normal),
			triangleArea(c, a, d, normal),
		} {
			if area < bestArea {
				best = i
				bestArea = area
			}
		}
	}
	out[3] = take(best)
}

// triangleArea is the signed area of (a, b, c) seen along normal.
func triangleArea(a, b, c, normal mgl32.Vec3) float32 {
	ca := a.Sub(c)
	cb := b.Sub(c)
	return 0.5 * ca.Cross(cb).Dot(normal)
}

// buildEdgeContact places a single contact halfway between the closest points
// of the two witness edges.
func buildEdgeContact(q EdgeQuery, a *geom.Hull, ta geom.Transform, b *geom.Hull, tb geom.Transform, m *Manifold) {
	p1, q1 := a.EdgeSegment(q.EdgeA)
	p1 = geom.PointAToB(p1, ta, tb)
	q1 = geom.PointAToB(q1, ta, tb)
	p2, q2 := b.EdgeSegment(q.EdgeB)

	c1, c2 := geom.ClosestPointsSegments(p1, q1, p2, q2)
	mid := c1.Add(c2.Sub(c1).Mul(0.5))

	m.PointCount = 1
	m.Points[0] = ContactPoint{
		Position:    tb.ToWorld(mid),
		Penetration: q.Separation,
		ID:          EdgeFeature(q.EdgeA, q.EdgeB),
	}
	m.Normal = q.Normal
}
