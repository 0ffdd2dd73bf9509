package scribble

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Paper is the default background color.
var Paper = Color{R: 0.984, G: 0.976, B: 0.953, A: 1}

// RunConfig configures Run and NewGame.
type RunConfig struct {
	Title string
	// Width and Height are the window size. Zero uses the session canvas size.
	Width, Height int
	// Background fills the screen every frame. Zero uses Paper.
	Background Color
	ShowFPS    bool
	// Persistence enables Ctrl/Cmd+S saving. Optional.
	Persistence Persistence
	// ScreenshotDir receives screenshots. Defaults to "screenshots".
	ScreenshotDir string
	// TestRunner is played against the session when set. The game exits
	// once it is done.
	TestRunner *TestRunner
}

// Game adapts a Session to ebiten.Game. It reads devices into InputState,
// steps the session at the ebiten tick rate and draws through an
// EbitenCanvas.
type Game struct {
	session *Session
	cfg     RunConfig
	canvas  *EbitenCanvas
	fps     fpsOverlay
	ctx     context.Context

	screenshotQueue []string
	screenshotDir   string
	shots           int
	runner          *TestRunner
	touch           ebiten.TouchID
	touching        bool
}

// NewGame wraps s for use with ebiten.RunGame.
func NewGame(s *Session, cfg RunConfig) *Game {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width = int(s.config.Width)
		cfg.Height = int(s.config.Height)
	}
	if cfg.Background == (Color{}) {
		cfg.Background = Paper
	}
	dir := cfg.ScreenshotDir
	if dir == "" {
		dir = "screenshots"
	}
	return &Game{
		session:       s,
		cfg:           cfg,
		canvas:        NewEbitenCanvas(nil),
		ctx:           context.Background(),
		screenshotDir: dir,
		runner:        cfg.TestRunner,
	}
}

// Session returns the wrapped session.
func (g *Game) Session() *Session { return g.session }

// Update implements ebiten.Game.
func (g *Game) Update() error {
	s := g.session
	dt := 1 / float64(ebiten.TPS())

	if g.runner != nil {
		if g.runner.Done() {
			return ebiten.Termination
		}
		g.runner.Step(s, g.Screenshot)
	}
	if s.InjectPending() == 0 {
		s.HandleInput(g.readInput())
		g.shortcuts()
	}
	s.Update(dt)

	if g.cfg.ShowFPS {
		g.fps.update(dt, s)
	}
	return nil
}

// shortcuts handles the keys that drive the session rather than the stroke.
func (g *Game) shortcuts() {
	s := g.session
	mod := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	switch {
	case mod && inpututil.IsKeyJustPressed(ebiten.KeyS):
		if g.cfg.Persistence != nil {
			s.SaveAsync(g.ctx, g.cfg.Persistence)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		s.SetDashed(!s.Dashed())
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		s.SetVibration((s.Vibration() + 1) % 4)
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		s.SetThickness(max(s.Thickness()-1, 1))
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		s.SetThickness(s.Thickness() + 1)
	}
}

// readInput samples the mouse, the first touch and the keyboard.
func (g *Game) readInput() InputState {
	var in InputState
	mx, my := ebiten.CursorPosition()
	in.X, in.Y = float64(mx), float64(my)
	in.Down = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	in.Pressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)

	if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 && !g.touching {
		g.touch, g.touching = ids[0], true
		in.Pressed = true
	}
	if g.touching {
		if inpututil.IsTouchJustReleased(g.touch) {
			g.touching = false
		} else {
			tx, ty := ebiten.TouchPosition(g.touch)
			in.X, in.Y = float64(tx), float64(ty)
			in.Down = true
		}
	}
	if in.Pressed && !g.inside(in.X, in.Y) {
		in.Pressed = false
	}

	in.Space = ebiten.IsKeyPressed(ebiten.KeySpace)
	in.Left = ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	in.Right = ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	in.KeyPressed = len(inpututil.AppendJustPressedKeys(nil)) > 0
	mod := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	in.Undo = mod && inpututil.IsKeyJustPressed(ebiten.KeyZ)
	return in
}

func (g *Game) inside(x, y float64) bool {
	return x >= 0 && y >= 0 && x < g.session.config.Width && y < g.session.config.Height
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.Background.RGBA())
	g.canvas.SetTarget(screen)
	g.session.Draw(g.canvas)
	g.flushScreenshots(screen)
	if g.cfg.ShowFPS {
		g.fps.draw(screen)
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(_, _ int) (int, int) {
	return int(g.session.config.Width), int(g.session.config.Height)
}

// Run opens a window and runs s until the window closes or the test runner
// finishes.
func Run(s *Session, cfg RunConfig) error {
	g := NewGame(s, cfg)
	if g.cfg.Title != "" {
		ebiten.SetWindowTitle(g.cfg.Title)
	}
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
