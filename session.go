package scribble

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// Persistence is the part of the persistence service a session talks to.
// Implementations may block; the session never calls them on the frame
// timeline.
type Persistence interface {
	Save(ctx context.Context, serialized string) (string, error)
	Load(ctx context.Context, id string) (string, error)
}

// NoticeKind classifies a user-facing Notice.
type NoticeKind uint8

const (
	NoticeSaved NoticeKind = iota
	NoticeNothingToSave
	NoticeSaveFailed
	NoticeLoadFailed
	NoticeScreenshot
	NoticeScreenshotFailed
)

// Notice is a message meant for the person drawing. Failures never carry
// more than a generic message; the cause is in Err.
type Notice struct {
	Kind    NoticeKind
	Message string
	ID      string
	Path    string // written file, for screenshots
	Err     error
}

const (
	msgNothingToSave = "You need to draw something to save."
	msgSaved         = "All done! Your sketch has been saved."
	msgSaveFailed    = "Sorry, the sketch could not be saved."
	msgLoadFailed    = "There was an error loading your sketch."

	msgScreenshot       = "Screenshot saved."
	msgScreenshotFailed = "Sorry, the screenshot could not be saved."
)

// resultQueueSize bounds the number of finished persistence calls waiting
// for the next frame.
const resultQueueSize = 8

// Session owns one drawing: its sketch, replay controller, dust and input
// state. Every method must be called from the same goroutine, normally the
// one running the frame loop. Persistence calls run elsewhere and hand
// their results back through a queue drained by Update.
type Session struct {
	config  Config
	sketch  *Sketch
	replay  *Replay
	dust    *DustSystem
	compass compass
	rng     *rand.Rand
	sink    EventSink

	input     InputState
	drawing   bool
	velocity  float64
	thickness float64
	dashed    bool

	pointsDrawn int
	lastID      string

	results chan func()
	pending int

	injectQueue []InputState

	debug bool
	stats debugStats

	// Notify receives user-facing notices. Optional.
	Notify func(Notice)
}

// NewSession creates an empty session. Zero fields of cfg are filled from
// DefaultConfig, except Amplitude where zero means no vibration.
func NewSession(cfg Config) *Session {
	cfg = cfg.withDefaults()
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	s := &Session{
		config:    cfg,
		sketch:    NewSketch(cfg.Amplitude),
		rng:       rng,
		thickness: cfg.Thickness,
		results:   make(chan func(), resultQueueSize),
	}
	s.dust = newDustSystem(cfg.MaxDust, rng)
	s.replay = newReplay(s)
	return s
}

// Config returns the effective configuration.
func (s *Session) Config() Config { return s.config }

// Sketch returns the live sketch. It is owned by the session.
func (s *Session) Sketch() *Sketch { return s.sketch }

// Replay returns the replay controller.
func (s *Session) Replay() *Replay { return s.replay }

// Dust returns the dust system.
func (s *Session) Dust() *DustSystem { return s.dust }

// SetEventSink sets the optional event bridge.
func (s *Session) SetEventSink(sink EventSink) { s.sink = sink }

// SetDebugMode enables per-frame timing stats at debug level.
func (s *Session) SetDebugMode(enabled bool) { s.debug = enabled }

// SetThickness sets the brush width used for new lines.
func (s *Session) SetThickness(t float64) {
	if t > 0 {
		s.thickness = t
	}
}

// Thickness returns the brush width used for new lines.
func (s *Session) Thickness() float64 { return s.thickness }

// SetDashed toggles dashed mode for new lines.
func (s *Session) SetDashed(dashed bool) { s.dashed = dashed }

// Dashed reports whether new lines are dashed.
func (s *Session) Dashed() bool { return s.dashed }

// SetVibration selects a vibration level; the amplitude becomes
// DefaultAmplitude times level.
func (s *Session) SetVibration(level int) {
	if level < 0 {
		level = 0
	}
	s.sketch.Amplitude = DefaultAmplitude * float64(level)
}

// Vibration returns the vibration level matching the current amplitude.
func (s *Session) Vibration() int {
	return int(s.sketch.Amplitude/DefaultAmplitude + 0.5)
}

// PointsDrawn returns the number of points drawn by hand since the session
// started, was loaded or was last saved.
func (s *Session) PointsDrawn() int { return s.pointsDrawn }

// HasUnsavedWork reports whether discarding the session should be confirmed.
func (s *Session) HasUnsavedWork() bool { return s.pointsDrawn > unsavedPointsThreshold }

// LastID returns the identifier of the last successful save.
func (s *Session) LastID() string { return s.lastID }

// Pending returns the number of persistence calls still in flight.
func (s *Session) Pending() int { return s.pending }

// Undo removes the most recently started line.
func (s *Session) Undo() bool {
	if s.sketch.PopLine() == nil {
		return false
	}
	s.emit(Event{Type: EventLinePopped, Line: len(s.sketch.Lines)})
	return true
}

// Reset clears every line, any pending replay and all dust.
func (s *Session) Reset() {
	if s.replay.Active() {
		s.replay.timer.stop()
		s.replay.state = ReplayIdle
		s.replay.source = nil
		s.replay.live = nil
	}
	s.sketch.Lines = nil
	s.dust.Reset()
	s.drawing = false
	s.pointsDrawn = 0
	s.emit(Event{Type: EventReset, Line: -1})
}

// Encode prunes empty lines and serializes the sketch.
func (s *Session) Encode() ([]byte, error) {
	s.sketch.PruneEmpty()
	return Encode(s.sketch)
}

// Load decodes raw and starts replaying it. On failure the session is left
// untouched and the returned error is a *DecodeError.
func (s *Session) Load(raw []byte) error {
	src, err := Decode(raw)
	if err != nil {
		s.loadFailed(err)
		return err
	}
	s.pointsDrawn = 0
	s.replay.Start(src)
	return nil
}

func (s *Session) loadFailed(err error) {
	s.config.Logger.Warn("load failed", "err", err)
	s.emit(Event{Type: EventLoadFailed, Line: -1, Err: err})
	s.notify(Notice{Kind: NoticeLoadFailed, Message: msgLoadFailed, Err: err})
}

// SaveAsync serializes the sketch and stores it through p without blocking.
// The outcome is applied and announced during a later Update. Reports false
// when there was nothing to save.
func (s *Session) SaveAsync(ctx context.Context, p Persistence) bool {
	s.sketch.PruneEmpty()
	if len(s.sketch.Lines) == 0 {
		s.notify(Notice{Kind: NoticeNothingToSave, Message: msgNothingToSave})
		return false
	}
	data, err := Encode(s.sketch)
	if err != nil {
		s.saveFailed(err)
		return false
	}
	s.pending++
	go func() {
		id, err := p.Save(ctx, string(data))
		s.deliver(ctx, func() {
			s.pending--
			if err != nil {
				s.saveFailed(err)
				return
			}
			s.lastID = id
			s.pointsDrawn = 0
			s.config.Logger.Info("sketch saved", "id", id, "bytes", len(data))
			s.emit(Event{Type: EventSaved, Line: -1, ID: id})
			s.notify(Notice{Kind: NoticeSaved, Message: msgSaved, ID: id})
		})
	}()
	return true
}

func (s *Session) saveFailed(err error) {
	s.config.Logger.Warn("save failed", "err", err)
	s.emit(Event{Type: EventSaveFailed, Line: -1, Err: err})
	s.notify(Notice{Kind: NoticeSaveFailed, Message: msgSaveFailed, Err: err})
}

// LoadAsync fetches the sketch id through p without blocking and replays it
// once it arrives.
func (s *Session) LoadAsync(ctx context.Context, p Persistence, id string) {
	if id == "" {
		s.loadFailed(errors.New("empty sketch id"))
		return
	}
	s.pending++
	go func() {
		raw, err := p.Load(ctx, id)
		s.deliver(ctx, func() {
			s.pending--
			if err != nil {
				s.loadFailed(err)
				return
			}
			_ = s.Load([]byte(raw))
		})
	}()
}

// deliver queues fn for the next Update. A full queue only blocks until ctx
// ends, so a session that is no longer updated cannot strand the goroutine.
// Reports whether fn was queued.
func (s *Session) deliver(ctx context.Context, fn func()) bool {
	select {
	case s.results <- fn:
		return true
	default:
	}
	select {
	case s.results <- fn:
		return true
	case <-ctx.Done():
		s.config.Logger.Warn("persistence result dropped", "err", ctx.Err())
		return false
	}
}

// applyResults runs every finished persistence callback.
func (s *Session) applyResults() {
	for {
		select {
		case fn := <-s.results:
			fn()
		default:
			return
		}
	}
}

func (s *Session) emit(e Event) {
	if s.sink != nil {
		s.sink.EmitEvent(e)
	}
}

func (s *Session) notify(n Notice) {
	if s.Notify != nil {
		s.Notify(n)
	}
}

func secondsToDuration(dt float64) time.Duration {
	return time.Duration(dt * float64(time.Second))
}
