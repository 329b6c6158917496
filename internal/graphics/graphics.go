package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"physics-engine/internal/render"
	"physics-engine/internal/scene"
)

const (
	gridExtent     = 512
	gridMinorStep  = 32
	gridMajorStep  = 128
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220
)

// WindowConfig sizes the window. Zero Width or Height uses the monitor size.
type WindowConfig struct {
	Title      string
	Width      int32
	Height     int32
	Fullscreen bool
	TargetFPS  int32
}

// Run opens the window and runs the main loop. Each frame it calls update
// (input and simulation), then clears the screen and calls draw.
func Run(cfg WindowConfig, update, draw func()) {
	if cfg.Fullscreen {
		rl.SetConfigFlags(rl.FlagFullscreenMode | rl.FlagMsaa4xHint)
	} else {
		rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		cfg.Width, cfg.Height = int32(rl.GetMonitorWidth(0)), int32(rl.GetMonitorHeight(0))
	}
	rl.InitWindow(cfg.Width, cfg.Height, cfg.Title)
	defer rl.CloseWindow()

	rl.SetExitKey(rl.KeyEscape)
	if cfg.TargetFPS <= 0 {
		cfg.TargetFPS = 60
	}
	rl.SetTargetFPS(cfg.TargetFPS)

	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(24, 24, 28, 255))
		draw()
		rl.EndDrawing()
	}
}

// ReadInput samples this frame's mouse and keyboard state.
//
//	left drag  orbit        wheel  zoom
//	space      pause        enter  single step
//	r          reset        up/dn  solver iterations
//	b          BVH boxes    c      contacts
//	d          drop a box
func ReadInput() scene.Input {
	delta := rl.GetMouseDelta()
	return scene.Input{
		FrameTime:      rl.GetFrameTime(),
		MouseDown:      rl.IsMouseButtonDown(rl.MouseButtonLeft),
		MouseDelta:     [2]float32{delta.X, delta.Y},
		Wheel:          rl.GetMouseWheelMove(),
		Pause:          rl.IsKeyPressed(rl.KeySpace),
		Step:           rl.IsKeyPressed(rl.KeyEnter),
		Reset:          rl.IsKeyPressed(rl.KeyR),
		IterationsUp:   rl.IsKeyPressed(rl.KeyUp),
		IterationsDown: rl.IsKeyPressed(rl.KeyDown),
		ToggleBVH:      rl.IsKeyPressed(rl.KeyB),
		ToggleContacts: rl.IsKeyPressed(rl.KeyC),
		Drop:           rl.IsKeyPressed(rl.KeyD),
	}
}

// Draw renders the queue from cam. Call between BeginDrawing and EndDrawing,
// before any 2D overlay.
func Draw(cam scene.OrbitCamera, q *render.Queue) {
	rl.BeginMode3D(rl.Camera3D{
		Position:   vec(cam.Eye()),
		Target:     vec(cam.Target),
		Up:         vec(cam.Up()),
		Fovy:       cam.Fovy,
		Projection: rl.CameraPerspective,
	})
	drawGrid()
	for _, c := range q.Commands() {
		col := color(c.Color)
		switch c.Kind {
		case render.KindBox:
			rl.PushMatrix()
			rl.MultMatrixf(c.Model[:])
			if c.Wire {
				rl.DrawCubeWires(rl.Vector3{}, c.Size[0], c.Size[1], c.Size[2], col)
			} else {
				rl.DrawCube(rl.Vector3{}, c.Size[0], c.Size[1], c.Size[2], col)
				rl.DrawCubeWires(rl.Vector3{}, c.Size[0], c.Size[1], c.Size[2], rl.Black)
			}
			rl.PopMatrix()
		case render.KindAABB:
			rl.DrawBoundingBox(rl.BoundingBox{Min: vec(c.From), Max: vec(c.To)}, col)
		case render.KindLine:
			rl.DrawLine3D(vec(c.From), vec(c.To), col)
		case render.KindPoint:
			rl.DrawSphere(vec(c.From), c.Radius, col)
		}
	}
	rl.EndMode3D()
}

func vec(v mgl32.Vec3) rl.Vector3 {
	return rl.NewVector3(v[0], v[1], v[2])
}

func color(c render.Color) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

// drawGrid draws a grid on the XY plane (Z up) with major/minor lines and the
// X and Y axes.
func drawGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)

	var start, end rl.Vector3
	for i := -gridExtent; i <= gridExtent; i += gridMinorStep {
		c := major
		if i%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(i), -gridExtent, 0
		end.X, end.Y, end.Z = float32(i), gridExtent, 0
		rl.DrawLine3D(start, end, c)
		start.X, start.Y = -gridExtent, float32(i)
		end.X, end.Y = gridExtent, float32(i)
		rl.DrawLine3D(start, end, c)
	}
	rl.DrawLine3D(rl.NewVector3(-gridExtent, 0, 0), rl.NewVector3(gridExtent, 0, 0), rl.NewColor(220, 80, 80, axisLineAlpha))
	rl.DrawLine3D(rl.NewVector3(0, -gridExtent, 0), rl.NewVector3(0, gridExtent, 0), rl.NewColor(80, 220, 80, axisLineAlpha))
}
