package scene

// Input is one frame of user input, already decoded from the window backend.
type Input struct {
	FrameTime float32 // seconds since the previous frame

	MouseDown  bool
	MouseDelta [2]float32
	Wheel      float32

	Pause          bool
	Step           bool
	Reset          bool
	IterationsUp   bool
	IterationsDown bool
	ToggleBVH      bool
	ToggleContacts bool
	Drop           bool
}
