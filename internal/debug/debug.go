package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"physics-engine/internal/physics"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: only refresh text every N frames to reduce allocations.
	updateInterval = 30
)

const help = "drag orbit  wheel zoom  space pause  enter step  r reset  up/down iterations  b bvh  c contacts  d drop"

// Status is what the overlay reports besides the tick counters.
type Status struct {
	Scene      string
	Iterations int
	Broadphase physics.BroadphaseMode
	Paused     bool
	Stats      physics.Stats
}

// Debug draws the FPS counter, memory use and physics counters at the
// top-right in green. All overlays are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowStats    bool
	ShowHelp     bool

	frameCount   uint32
	lines        []string
	lastMemStats runtime.MemStats
}

// New returns a Debug system with all overlays hidden.
func New() *Debug {
	return &Debug{}
}

func (d *Debug) refresh(st Status) {
	d.lines = d.lines[:0]
	if d.ShowFPS {
		d.lines = append(d.lines, fmt.Sprintf("FPS: %d", rl.GetFPS()))
	}
	if d.ShowMemAlloc {
		runtime.ReadMemStats(&d.lastMemStats)
		d.lines = append(d.lines,
			fmt.Sprintf("Mem: %.2f MiB", float64(d.lastMemStats.Alloc)/(1024*1024)),
			fmt.Sprintf("Frame scope: %d B", st.Stats.FrameBytes))
	}
	if d.ShowStats {
		s := st.Stats
		state := "running"
		if st.Paused {
			state = "paused"
		}
		d.lines = append(d.lines,
			fmt.Sprintf("%s (%s)", st.Scene, state),
			fmt.Sprintf("Bodies: %d", s.Bodies),
			fmt.Sprintf("Broadphase: %s, %d pairs, %d reinserts", st.Broadphase, s.CandidatePairs, s.Reinserts),
			fmt.Sprintf("SAT tests: %d", s.SATTests),
			fmt.Sprintf("Collisions: %d", s.Collisions),
			fmt.Sprintf("Contacts: %d reused, %d new", s.ReusedContacts, s.NewContacts),
			fmt.Sprintf("Iterations: %d", st.Iterations))
	}
}

// Draw renders the enabled overlays. Call after the 3D pass.
// Text is only recomputed every updateInterval frames to limit allocations.
func (d *Debug) Draw(st Status) {
	if d.frameCount%updateInterval == 0 {
		d.refresh(st)
	}
	d.frameCount++

	screenW := int32(rl.GetScreenWidth())
	y := int32(padding)
	for _, text := range d.lines {
		w := rl.MeasureText(text, fontSize)
		rl.DrawText(text, screenW-w-padding, y, fontSize, rl.Green)
		y += lineHeight
	}
	if d.ShowHelp {
		rl.DrawText(help, padding, int32(rl.GetScreenHeight())-lineHeight, fontSize-4, rl.LightGray)
	}
}
