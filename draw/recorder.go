package draw

// Recorder is a headless Renderer that keeps the most recent frame.
// It is used by headless runs and tests.
type Recorder struct {
	Last   *Frame
	Frames int
	Opened bool
	Closed int
	Keep   bool // Deep-copy each frame so Last survives the next Reset
}

// Open marks the recorder as acquired.
func (r *Recorder) Open(width, height int) error {
	r.Opened = true
	return nil
}

// Render stores the frame.
func (r *Recorder) Render(f *Frame) {
	r.Frames++
	if r.Keep {
		r.Last = f.Clone()
		return
	}
	r.Last = f
}

// Close marks the recorder as released.
func (r *Recorder) Close() error {
	r.Opened = false
	r.Closed++
	return nil
}
