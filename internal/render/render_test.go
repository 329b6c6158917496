package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestQueueKeepsOrderAndStorage(t *testing.T) {
	q := NewQueue(8)
	q.Box(mgl32.Ident4(), mgl32.Vec3{1, 2, 3}, Orange, false)
	q.AABB(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}, Green)
	q.Line(mgl32.Vec3{}, mgl32.Vec3{0, 0, 5}, Red)
	q.Point(mgl32.Vec3{0, 0, 5}, 0.5, Yellow)

	want := []Kind{KindBox, KindAABB, KindLine, KindPoint}
	if q.Len() != len(want) {
		t.Fatalf("Len: got %d", q.Len())
	}
	for i, c := range q.Commands() {
		if c.Kind != want[i] {
			t.Errorf("command %d: got %v, want %v", i, c.Kind, want[i])
		}
	}
	if !q.Commands()[1].Wire {
		t.Error("AABB commands are wireframes")
	}

	before := cap(q.cmds)
	q.Reset()
	q.Point(mgl32.Vec3{}, 1, White)
	if q.Len() != 1 || cap(q.cmds) != before {
		t.Errorf("Reset: got len %d cap %d, want 1 and %d", q.Len(), cap(q.cmds), before)
	}
	if q.Count(KindPoint) != 1 || q.Count(KindBox) != 0 {
		t.Errorf("Count: got %d points %d boxes", q.Count(KindPoint), q.Count(KindBox))
	}
}
