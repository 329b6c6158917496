// Package render describes what the sandbox draws each frame. The simulation
// side fills a Queue; the graphics backend consumes it.
package render

import "github.com/go-gl/mathgl/mgl32"

// Kind tags a Command.
type Kind uint8

const (
	KindBox Kind = iota
	KindAABB
	KindLine
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindAABB:
		return "aabb"
	case KindLine:
		return "line"
	case KindPoint:
		return "point"
	}
	return "unknown"
}

// Color is 8-bit RGBA.
type Color struct{ R, G, B, A uint8 }

var (
	White  = Color{245, 245, 245, 255}
	Gray   = Color{130, 130, 130, 255}
	Orange = Color{255, 161, 0, 255}
	Green  = Color{0, 228, 48, 255}
	Red    = Color{230, 41, 55, 255}
	Yellow = Color{253, 249, 0, 255}
)

// Command is one draw call. Which fields are meaningful depends on Kind:
//
//	KindBox   Model, Size
//	KindAABB  From (min), To (max)
//	KindLine  From, To
//	KindPoint From, Radius
type Command struct {
	Kind   Kind
	Model  mgl32.Mat4
	Size   mgl32.Vec3
	From   mgl32.Vec3
	To     mgl32.Vec3
	Radius float32
	Color  Color
	Wire   bool
}

// Queue collects the commands of one frame. The backing array is reused
// across frames.
type Queue struct {
	cmds []Command
}

// NewQueue returns a queue with room for n commands.
func NewQueue(n int) *Queue {
	return &Queue{cmds: make([]Command, 0, n)}
}

// Reset drops the queued commands and keeps the storage.
func (q *Queue) Reset() { q.cmds = q.cmds[:0] }

// Len returns the number of queued commands.
func (q *Queue) Len() int { return len(q.cmds) }

// Commands returns the queued commands in submission order.
func (q *Queue) Commands() []Command { return q.cmds }

// Box queues an oriented box of the given extents placed by model.
func (q *Queue) Box(model mgl32.Mat4, size mgl32.Vec3, c Color, wire bool) {
	q.cmds = append(q.cmds, Command{Kind: KindBox, Model: model, Size: size, Color: c, Wire: wire})
}

// AABB queues an axis-aligned wire box.
func (q *Queue) AABB(min, max mgl32.Vec3, c Color) {
	q.cmds = append(q.cmds, Command{Kind: KindAABB, From: min, To: max, Color: c, Wire: true})
}

// Line queues a segment.
func (q *Queue) Line(from, to mgl32.Vec3, c Color) {
	q.cmds = append(q.cmds, Command{Kind: KindLine, From: from, To: to, Color: c})
}

// Point queues a small sphere.
func (q *Queue) Point(at mgl32.Vec3, radius float32, c Color) {
	q.cmds = append(q.cmds, Command{Kind: KindPoint, From: at, Radius: radius, Color: c})
}

// Count returns how many queued commands have kind k.
func (q *Queue) Count(k Kind) int {
	n := 0
	for i := range q.cmds {
		if q.cmds[i].Kind == k {
			n++
		}
	}
	return n
}
