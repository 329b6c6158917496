package geom

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b float32) bool {
	return math32.Abs(a-b) < 1e-4
}

func nearVec(a, b mgl32.Vec3) bool {
	return near(a[0], b[0]) && near(a[1], b[1]) && near(a[2], b[2])
}

func TestBoxHullTopology(t *testing.T) {
	h := NewBoxHull(mgl32.Vec3{-1, -2, -3}, mgl32.Vec3{1, 2, 3})
	if err := h.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(h.Vertices) != 8 || len(h.Edges) != 24 || len(h.Faces) != 6 {
		t.Fatalf("got %d vertices, %d edges, %d faces", len(h.Vertices), len(h.Edges), len(h.Faces))
	}
	for f := range h.Faces {
		if n := h.FaceVertexCount(f); n != 4 {
			t.Errorf("face %d: got %d vertices, want 4", f, n)
		}
	}
	if !nearVec(h.Centroid, mgl32.Vec3{}) {
		t.Errorf("centroid: got %v", h.Centroid)
	}
	b := h.Bounds()
	if !nearVec(b.Min, mgl32.Vec3{-1, -2, -3}) || !nearVec(b.Max, mgl32.Vec3{1, 2, 3}) {
		t.Errorf("bounds: got %v", b)
	}
}

func TestValidateDetectsBrokenTwin(t *testing.T) {
	h := NewBoxHullExtents(mgl32.Vec3{1, 1, 1})
	h.Edges[3].Twin = 5
	if err := h.Validate(); err == nil {
		t.Fatal("expected error for broken twin link")
	}
}

func TestSupportFirstMaximumWins(t *testing.T) {
	h := NewBoxHullExtents(mgl32.Vec3{2, 2, 2})
	// Every vertex with z = +1 ties along +Z; vertex 4 is the first of them.
	if got := h.Support(mgl32.Vec3{0, 0, 1}); got != 4 {
		t.Errorf("Support(+Z): got %d, want 4", got)
	}
	if got := h.SupportPoint(mgl32.Vec3{1, 1, 1}); !nearVec(got, mgl32.Vec3{1, 1, 1}) {
		t.Errorf("SupportPoint(1,1,1): got %v", got)
	}
}

func TestClipPolygonBack(t *testing.T) {
	square := []PolygonVertex{
		{mgl32.Vec3{-1, -1, 0}, 3, 0},
		{mgl32.Vec3{1, -1, 0}, 0, 1},
		{mgl32.Vec3{1, 1, 0}, 1, 2},
		{mgl32.Vec3{-1, 1, 0}, 2, 3},
	}
	const clipFeature = 13
	p := Plane{Normal: mgl32.Vec3{1, 0, 0}, Distance: 0.5}
	out := ClipPolygonBack(square, p, clipFeature, make([]PolygonVertex, 0, 6))
	if len(out) != 4 {
		t.Fatalf("got %d vertices, want 4", len(out))
	}
	clipped := 0
	seen := map[[2]int]bool{}
	for _, v := range out {
		if v.Position[0] > 0.5+PlaneThickness {
			t.Errorf("vertex %v in front of plane", v.Position)
		}
		key := [2]int{v.In, v.Out}
		if seen[key] {
			t.Errorf("duplicate feature pair %v", key)
		}
		seen[key] = true
		if v.In == clipFeature || v.Out == clipFeature {
			clipped++
			if !near(v.Position[0], 0.5) {
				t.Errorf("intersection vertex %v not on plane", v.Position)
			}
		}
	}
	if clipped != 2 {
		t.Errorf("got %d vertices tagged by the clip plane, want 2", clipped)
	}

	all := ClipPolygonBack(square, Plane{Normal: mgl32.Vec3{1, 0, 0}, Distance: -5}, 1, nil)
	if len(all) != 0 {
		t.Errorf("polygon fully in front: got %d vertices, want 0", len(all))
	}
}

func TestClosestPointsSegments(t *testing.T) {
	tests := []struct {
		name           string
		p1, q1, p2, q2 mgl32.Vec3
		c1, c2         mgl32.Vec3
	}{
		{
			name: "crossing",
			p1:   mgl32.Vec3{-1, 0, 0}, q1: mgl32.Vec3{1, 0, 0},
			p2: mgl32.Vec3{0, -1, 1}, q2: mgl32.Vec3{0, 1, 1},
			c1: mgl32.Vec3{0, 0, 0}, c2: mgl32.Vec3{0, 0, 1},
		},
		{
			name: "clamped ends",
			p1:   mgl32.Vec3{0, 0, 0}, q1: mgl32.Vec3{1, 0, 0},
			p2: mgl32.Vec3{2, 1, 0}, q2: mgl32.Vec3{3, 1, 0},
			c1: mgl32.Vec3{1, 0, 0}, c2: mgl32.Vec3{2, 1, 0},
		},
		{
			name: "both points",
			p1:   mgl32.Vec3{1, 2, 3}, q1: mgl32.Vec3{1, 2, 3},
			p2: mgl32.Vec3{4, 5, 6}, q2: mgl32.Vec3{4, 5, 6},
			c1: mgl32.Vec3{1, 2, 3}, c2: mgl32.Vec3{4, 5, 6},
		},
		{
			name: "first degenerate",
			p1:   mgl32.Vec3{0.5, 1, 0}, q1: mgl32.Vec3{0.5, 1, 0},
			p2: mgl32.Vec3{0, 0, 0}, q2: mgl32.Vec3{1, 0, 0},
			c1: mgl32.Vec3{0.5, 1, 0}, c2: mgl32.Vec3{0.5, 0, 0},
		},
		{
			name: "parallel",
			p1:   mgl32.Vec3{0, 0, 0}, q1: mgl32.Vec3{2, 0, 0},
			p2: mgl32.Vec3{0, 1, 0}, q2: mgl32.Vec3{2, 1, 0},
			c1: mgl32.Vec3{0, 0, 0}, c2: mgl32.Vec3{0, 1, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c1, c2 := ClosestPointsSegments(tt.p1, tt.q1, tt.p2, tt.q2)
			if !nearVec(c1, tt.c1) || !nearVec(c2, tt.c2) {
				t.Errorf("got %v %v, want %v %v", c1, c2, tt.c1, tt.c2)
			}
		})
	}
}

func TestAABB(t *testing.T) {
	a := AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 2, 3}}
	if got := a.SurfaceArea(); !near(got, 22) {
		t.Errorf("SurfaceArea: got %v, want 22", got)
	}
	fat := a.Grow(1.2)
	if !near(fat.Max[1]-fat.Min[1], 2.4) || !nearVec(fat.Center(), a.Center()) {
		t.Errorf("Grow: got %v", fat)
	}
	if !a.Inside(fat) || fat.Inside(a) {
		t.Error("Inside: fat box must strictly contain the tight box")
	}
	if a.Inside(a) {
		t.Error("Inside must be strict")
	}
	b := AABB{Min: mgl32.Vec3{1, 2, 3}, Max: mgl32.Vec3{4, 4, 4}}
	if !a.Intersects(b) {
		t.Error("touching boxes should intersect")
	}
	u := Union(a, b)
	if !u.Contains(a) || !u.Contains(b) {
		t.Errorf("Union %v does not contain inputs", u)
	}

	tr := Transform{Position: mgl32.Vec3{10, 0, 0}, Rotation: mgl32.QuatRotate(Radians(90), mgl32.Vec3{0, 0, 1})}
	w := AABB{Min: mgl32.Vec3{-1, -2, -3}, Max: mgl32.Vec3{1, 2, 3}}.Transform(tr.Matrix())
	if !nearVec(w.Min, mgl32.Vec3{8, -1, -3}) || !nearVec(w.Max, mgl32.Vec3{12, 1, 3}) {
		t.Errorf("Transform: got %v", w)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	a := Transform{Position: mgl32.Vec3{1, 2, 3}, Rotation: mgl32.QuatRotate(0.7, Normalize(mgl32.Vec3{1, 1, 0}))}
	b := Transform{Position: mgl32.Vec3{-4, 0, 2}, Rotation: mgl32.QuatRotate(-1.1, mgl32.Vec3{0, 0, 1})}
	p := mgl32.Vec3{0.3, -0.2, 5}
	if got := a.ToLocal(a.ToWorld(p)); !nearVec(got, p) {
		t.Errorf("ToLocal(ToWorld(p)): got %v, want %v", got, p)
	}
	if got := PointAToB(PointAToB(p, a, b), b, a); !nearVec(got, p) {
		t.Errorf("PointAToB round trip: got %v, want %v", got, p)
	}
	d := mgl32.Vec3{0, 1, 0}
	if got := DirAToB(DirAToB(d, a, b), b, a); !nearVec(got, d) {
		t.Errorf("DirAToB round trip: got %v, want %v", got, d)
	}
}
