package scribble

import "time"

// debugStats holds per-frame timing and scene counts.
// Only populated when Session.debug is true.
type debugStats struct {
	updateTime time.Duration
	drawTime   time.Duration
	frames     int
}

// debugLogEvery is the number of frames between debug records.
const debugLogEvery = 60

// debugLog writes timing and scene counts at debug level, once every
// debugLogEvery drawn frames.
func (s *Session) debugLog() {
	if !s.debug {
		return
	}
	s.stats.frames++
	if s.stats.frames%debugLogEvery != 0 {
		return
	}
	s.config.Logger.Debug("frame",
		"update", s.stats.updateTime,
		"draw", s.stats.drawTime,
		"total", s.stats.updateTime+s.stats.drawTime,
		"lines", len(s.sketch.Lines),
		"points", s.sketch.PointCount(),
		"dust", s.dust.AliveCount(),
		"replay", s.replay.State().String(),
	)
	if n := s.sketch.PointCount(); n > debugMaxPoints {
		s.config.Logger.Warn("point count exceeds threshold", "points", n, "threshold", debugMaxPoints)
	}
}

// debugMaxPoints is the point count above which a frame may no longer fit
// the frame budget on slow machines.
const debugMaxPoints = 20000
