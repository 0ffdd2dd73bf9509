package scribble

import "math"

// ReplayState is the phase of a Replay.
type ReplayState uint8

const (
	ReplayIdle      ReplayState = iota // nothing to replay
	ReplayReplaying                    // points are being fed back tick by tick
	ReplayFinishing                    // all points fed, perspective still easing
)

func (s ReplayState) String() string {
	switch s {
	case ReplayIdle:
		return "idle"
	case ReplayReplaying:
		return "replaying"
	case ReplayFinishing:
		return "finishing"
	}
	return "unknown"
}

const replayDustQuantity = 2

// Replay feeds a saved sketch back into a session a few points at a time so
// the drawing appears to draw itself. While line i is being fed, the
// session perspective eases toward that line's own perspective; once every
// point is in, it eases to the saved global perspective and the replay ends.
//
// All replay work happens on the session's frame timeline.
type Replay struct {
	session *Session
	state   ReplayState
	timer   replayTimer

	source   *Sketch
	line     int   // cursor: index into source.Lines
	point    int   // cursor: index into source.Lines[line].Points
	live     *Line // session line receiving the current source line
	total    int
	consumed int
	ticks    int

	current float64 // perspective of the line being replayed
	final   float64 // global perspective to settle on
}

func newReplay(s *Session) *Replay {
	return &Replay{
		session: s,
		timer:   replayTimer{interval: s.config.ReplayInterval},
	}
}

// State returns the current phase.
func (r *Replay) State() ReplayState {
	return r.state
}

// Active reports whether a replay is replaying or finishing.
func (r *Replay) Active() bool {
	return r.state != ReplayIdle
}

// Ticks returns the number of timer ticks the current replay has run.
func (r *Replay) Ticks() int {
	return r.ticks
}

// Remaining returns the number of source points not yet fed to the session.
func (r *Replay) Remaining() int {
	return r.total - r.consumed
}

// Progress returns the fraction of points fed so far, in [0, 1].
func (r *Replay) Progress() float64 {
	if r.total == 0 {
		return 1
	}
	return float64(r.consumed) / float64(r.total)
}

// Target returns the perspective the session is currently easing toward.
func (r *Replay) Target() float64 {
	return r.current
}

// Final returns the perspective the replay will settle on.
func (r *Replay) Final() float64 {
	return r.final
}

// Start replaces the session's lines with an empty set and begins feeding
// src back in. The session perspective and amplitude jump to the saved
// values immediately and the first tick runs synchronously.
func (r *Replay) Start(src *Sketch) {
	s := r.session
	r.timer.stop()

	r.source = src.Clone()
	r.line, r.point, r.live = 0, 0, nil
	r.total = r.source.PointCount()
	r.consumed = 0
	r.ticks = 0
	r.final = src.Perspective
	r.current = src.Perspective
	r.state = ReplayReplaying

	s.sketch.Lines = nil
	s.sketch.Perspective = src.Perspective
	s.sketch.Amplitude = src.Amplitude

	s.emit(Event{Type: EventReplayStarted, Line: -1, Perspective: src.Perspective})
	s.config.Logger.Info("replay started",
		"lines", len(r.source.Lines), "points", r.total, "perspective", src.Perspective)

	r.Tick()
}

// Drain feeds up to budget points, in line order, into the session and
// returns how many points remain. A budget of zero or less drains
// everything. Source lines are mirrored into the session lazily, when their
// first point is fed. When emitDust is set, every other line sheds a little
// dust per point.
func (r *Replay) Drain(budget int, emitDust bool) int {
	if r.source == nil {
		return 0
	}
	s := r.session
	drained := 0
	for r.line < len(r.source.Lines) {
		src := r.source.Lines[r.line]
		if r.point >= len(src.Points) {
			r.line++
			r.point = 0
			r.live = nil
			continue
		}
		if budget > 0 && drained >= budget {
			break
		}
		if r.live == nil {
			r.live = s.sketch.BeginLine(src.Thickness, src.Perspective, src.Dashed)
			r.current = src.Perspective
			s.emit(Event{Type: EventLineBegun, Line: len(s.sketch.Lines) - 1, Perspective: src.Perspective})
		}

		p := src.Points[r.point]
		r.point++
		r.live.Points = append(r.live.Points, p)
		r.consumed++
		drained++

		if emitDust && r.line%2 == 1 {
			s.dust.Emit(p.Position.X, p.Position.Y, replayDustQuantity, r.live.Perspective)
		}
		s.emit(Event{
			Type:        EventPointAppended,
			Line:        len(s.sketch.Lines) - 1,
			X:           p.Normal.X,
			Y:           p.Normal.Y,
			Perspective: r.live.Perspective,
		})
	}
	return r.Remaining()
}

// Tick runs one timer tick: it drains the per-tick budget and either
// re-arms the timer or moves on to finishing.
func (r *Replay) Tick() {
	if r.state != ReplayReplaying {
		return
	}
	r.ticks++
	if r.Drain(r.session.config.ReplayBudget, true) > 0 {
		r.timer.arm()
		return
	}
	r.state = ReplayFinishing
	r.current = r.final
	r.session.emit(Event{Type: EventReplayFinishing, Line: -1, Perspective: r.final})
}

// Finish force-completes the replay: every remaining point is fed in one
// pass without dust, and the perspective snaps to its final value. Reports
// whether a replay was active.
func (r *Replay) Finish() bool {
	if r.state == ReplayIdle {
		return false
	}
	r.timer.stop()
	r.Drain(0, false)
	r.current = r.final
	r.session.sketch.Perspective = r.final
	r.complete(EventReplayCancelled)
	return true
}

// update is called once per frame. It advances the replay timer and eases
// the session perspective toward the current target.
func (r *Replay) update(dt float64) {
	if r.state == ReplayIdle {
		return
	}
	// A long frame may cover several intervals; each gets its own tick.
	elapsed := secondsToDuration(dt)
	for r.state == ReplayReplaying && r.timer.advance(elapsed) {
		r.Tick()
		elapsed = 0
	}

	s := r.session
	g := s.sketch.Perspective
	g += (r.current - g) * s.config.PerspectiveEasing
	s.sketch.Perspective = g

	if r.state == ReplayFinishing && r.final == r.current &&
		math.Abs(g-r.current) < s.config.FinishEpsilon {
		s.sketch.Perspective = r.final
		r.complete(EventReplayFinished)
	}
}

func (r *Replay) complete(evt EventType) {
	r.state = ReplayIdle
	r.source = nil
	r.live = nil
	r.session.emit(Event{Type: evt, Line: -1, Perspective: r.final})
	r.session.config.Logger.Info("replay complete", "event", evt.String(), "ticks", r.ticks)
}
