package scribble

// InjectPress queues a pointer press at canvas coordinates. Injected events
// are consumed one per frame at the start of Update, and replace real input
// for that frame.
func (s *Session) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, InputState{X: x, Y: y, Down: true, Pressed: true})
}

// InjectMove queues a pointer move with the button held. Use it between
// InjectPress and InjectRelease to draw.
func (s *Session) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, InputState{X: x, Y: y, Down: true})
}

// InjectRelease queues a pointer release at canvas coordinates.
func (s *Session) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, InputState{X: x, Y: y})
}

// InjectKey queues a single key press frame.
func (s *Session) InjectKey() {
	s.injectQueue = append(s.injectQueue, InputState{X: s.input.X, Y: s.input.Y, KeyPressed: true})
}

// InjectUndo queues a Ctrl+Z press.
func (s *Session) InjectUndo() {
	s.injectQueue = append(s.injectQueue, InputState{X: s.input.X, Y: s.input.Y, KeyPressed: true, Undo: true})
}

// InjectRotate queues frames that hold the left or right arrow. Positive
// frames rotate right, negative rotate left.
func (s *Session) InjectRotate(frames int) {
	right := frames > 0
	if frames < 0 {
		frames = -frames
	}
	for i := 0; i < frames; i++ {
		s.injectQueue = append(s.injectQueue, InputState{Right: right, Left: !right})
	}
	s.injectQueue = append(s.injectQueue, InputState{})
}

// InjectStroke queues a full stroke: press at (fromX, fromY), linearly
// interpolated moves over frames-2 intermediate frames, a move onto
// (toX, toY) and a release there. The stroke consumes frames+1 frames.
func (s *Session) InjectStroke(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectMove(toX, toY)
	s.InjectRelease(toX, toY)
}

// InjectPending returns the number of queued synthetic frames.
func (s *Session) InjectPending() int { return len(s.injectQueue) }

// processInjectedInput pops one queued frame and applies it. Returns true if
// an event was consumed.
func (s *Session) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
	s.HandleInput(evt)
	return true
}
