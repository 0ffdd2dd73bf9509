package scribble

// InputState is one frame of device input in canvas coordinates. The
// edge-triggered fields (Pressed, KeyPressed, Undo) are true only on the
// frame the press happened.
type InputState struct {
	X, Y float64
	// Down is true while the primary button or a single touch is held.
	Down bool
	// Pressed is true on the frame the pointer went down inside the canvas.
	Pressed bool
	// DX is the horizontal pointer travel since the previous frame.
	DX float64

	Space, Left, Right bool

	// KeyPressed is true when any key went down this frame.
	KeyPressed bool
	// Undo is true when Ctrl+Z or Cmd+Z went down this frame.
	Undo bool
}

// HandleInput applies one frame of input. Call it once per frame before
// Update. Key presses and canvas presses take effect immediately; held
// state is consumed by the next Update.
//
// Any key press or canvas press while a replay is running force-completes
// it. A canvas press then starts a new line.
func (s *Session) HandleInput(in InputState) {
	if in.DX == 0 && in.Down && s.input.Down {
		in.DX = in.X - s.input.X
	}
	s.input = in
	if !in.Down {
		s.drawing = false
	}

	if in.KeyPressed || in.Undo {
		if in.Undo {
			s.Undo()
		}
		s.replay.Finish()
	}

	if in.Pressed {
		s.replay.Finish()
		s.beginLine()
	}
}

// Input returns the input state the next Update will consume.
func (s *Session) Input() InputState { return s.input }
