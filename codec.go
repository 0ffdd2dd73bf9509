package scribble

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// pointDelimiter separates the two coordinates of a stringified point.
const pointDelimiter = 'x'

// zeroPerspectiveMarker is written in place of a line perspective of exactly
// zero so that legacy readers can tell "zero" apart from "missing".
const zeroPerspectiveMarker = "0.0001"

// wireSketch is the compact short-key form written by Encode.
type wireSketch struct {
	P json.Number `json:"p"`
	A json.Number `json:"a"`
	L []wireLine  `json:"l"`
}

type wireLine struct {
	T      json.Number `json:"t"`
	P      json.Number `json:"p"`
	D      bool        `json:"d"`
	Points []string    `json:"points"`
}

// Encode serializes the sketch into its compact transport form. Only normal
// positions are written, rounded to whole pixels. Lines without points are
// skipped; the sketch itself is not modified.
func Encode(s *Sketch) ([]byte, error) {
	w := wireSketch{
		P: fixed6(s.Perspective),
		A: fixed6(s.Amplitude),
		L: make([]wireLine, 0, len(s.Lines)),
	}
	for _, l := range s.Lines {
		if l == nil || len(l.Points) == 0 {
			continue
		}
		wl := wireLine{
			T:      json.Number(strconv.FormatFloat(l.Thickness, 'f', -1, 64)),
			P:      fixed6(l.Perspective),
			D:      l.Dashed,
			Points: make([]string, len(l.Points)),
		}
		if l.Perspective == 0 {
			wl.P = zeroPerspectiveMarker
		}
		for i, p := range l.Points {
			wl.Points[i] = formatPoint(p.Normal)
		}
		w.L = append(w.L, wl)
	}
	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("encode sketch: %w", err)
	}
	return data, nil
}

func fixed6(v float64) json.Number {
	return json.Number(strconv.FormatFloat(v, 'f', 6, 64))
}

// formatPoint renders a coordinate pair as "<x>x<y>" with half-up rounding.
func formatPoint(v Vec2) string {
	var b strings.Builder
	b.WriteString(strconv.FormatFloat(roundHalfUp(v.X), 'f', 0, 64))
	b.WriteByte(pointDelimiter)
	b.WriteString(strconv.FormatFloat(roundHalfUp(v.Y), 'f', 0, 64))
	return b.String()
}

// roundHalfUp rounds toward positive infinity on ties, so -2.5 becomes -2.
func roundHalfUp(v float64) float64 {
	r := math.Floor(v + 0.5)
	if r == 0 {
		return 0
	}
	return r
}

// field lists the wire keys a value may be stored under, highest priority
// first. Older payloads used long names; current ones use single letters.
type field []string

var (
	fieldPerspective     = field{"p", "perspective"}
	fieldAmplitude       = field{"a", "amplitude"}
	fieldLines           = field{"l", "lines"}
	fieldThickness       = field{"t", "thickness"}
	fieldLinePerspective = field{"p", "perspective"}
	fieldDashed          = field{"d", "dashed"}
	fieldPoints          = field{"l", "points"}
)

// resolve returns the value of the first key that is present. A key counts
// as present when it exists and is not null; zero and false are present.
func (f field) resolve(obj map[string]json.RawMessage) (json.RawMessage, bool) {
	for _, k := range f {
		v, ok := obj[k]
		if ok && !isNull(v) {
			return v, true
		}
	}
	return nil, false
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// Decode parses a serialized sketch in either the short-key or the legacy
// long-key form. Points decode at rest (Position equals Normal) and lines
// left with fewer than two points are dropped. Any malformed input yields a
// *DecodeError.
func Decode(raw []byte) (*Sketch, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, decodeErrorf(err, "malformed payload")
	}
	if obj == nil {
		return nil, decodeErrorf(nil, "payload is not an object")
	}

	s := &Sketch{Amplitude: DefaultAmplitude}

	if v, ok := fieldPerspective.resolve(obj); ok {
		f, err := decodeNumber(v)
		if err != nil {
			return nil, decodeErrorf(err, "perspective")
		}
		s.Perspective = f
	}
	if v, ok := fieldAmplitude.resolve(obj); ok {
		f, err := decodeNumber(v)
		if err != nil {
			return nil, decodeErrorf(err, "amplitude")
		}
		if f < 0 {
			return nil, decodeErrorf(nil, "negative amplitude %v", f)
		}
		s.Amplitude = f
	}

	v, ok := fieldLines.resolve(obj)
	if !ok {
		return nil, decodeErrorf(nil, "missing lines")
	}
	var rawLines []json.RawMessage
	if err := json.Unmarshal(v, &rawLines); err != nil {
		return nil, decodeErrorf(err, "lines")
	}

	s.Lines = make([]*Line, 0, len(rawLines))
	for i, rl := range rawLines {
		l, err := decodeLine(rl)
		if err != nil {
			return nil, decodeErrorf(err, "line %d", i)
		}
		s.Lines = append(s.Lines, l)
	}
	s.prune(minLinePoints)
	return s, nil
}

func decodeLine(raw json.RawMessage) (*Line, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.New("not an object")
	}

	l := &Line{Thickness: DefaultThickness}
	if v, ok := fieldThickness.resolve(obj); ok {
		f, err := decodeNumber(v)
		if err != nil {
			return nil, fmt.Errorf("thickness: %w", err)
		}
		if f <= 0 {
			return nil, fmt.Errorf("thickness %v is not positive", f)
		}
		l.Thickness = f
	}
	if v, ok := fieldLinePerspective.resolve(obj); ok {
		f, err := decodeNumber(v)
		if err != nil {
			return nil, fmt.Errorf("perspective: %w", err)
		}
		l.Perspective = f
	}
	if v, ok := fieldDashed.resolve(obj); ok {
		b, err := decodeBool(v)
		if err != nil {
			return nil, fmt.Errorf("dashed: %w", err)
		}
		l.Dashed = b
	}

	v, ok := fieldPoints.resolve(obj)
	if !ok {
		return l, nil
	}
	var rawPoints []json.RawMessage
	if err := json.Unmarshal(v, &rawPoints); err != nil {
		return nil, fmt.Errorf("points: %w", err)
	}
	l.Points = make([]Point, 0, len(rawPoints))
	for j, rp := range rawPoints {
		p, err := decodePoint(rp)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", j, err)
		}
		l.Points = append(l.Points, NewPoint(p.X, p.Y))
	}
	return l, nil
}

// decodePoint accepts either the "<x>x<y>" string form or an {x, y} object.
func decodePoint(raw json.RawMessage) (Vec2, error) {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 {
		return Vec2{}, errors.New("empty point")
	}
	switch t[0] {
	case '"':
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return Vec2{}, err
		}
		return parsePoint(s)
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(t, &obj); err != nil {
			return Vec2{}, err
		}
		xv, okx := obj["x"]
		yv, oky := obj["y"]
		if !okx || !oky {
			return Vec2{}, errors.New("point object needs x and y")
		}
		x, err := decodeNumber(xv)
		if err != nil {
			return Vec2{}, fmt.Errorf("x: %w", err)
		}
		y, err := decodeNumber(yv)
		if err != nil {
			return Vec2{}, fmt.Errorf("y: %w", err)
		}
		return Vec2{X: x, Y: y}, nil
	}
	return Vec2{}, fmt.Errorf("unsupported point %s", t)
}

// parsePoint splits s on the first delimiter and parses both halves.
func parsePoint(s string) (Vec2, error) {
	i := strings.IndexByte(s, pointDelimiter)
	if i < 0 {
		return Vec2{}, fmt.Errorf("point %q has no delimiter", s)
	}
	x, err := parseFinite(s[:i])
	if err != nil {
		return Vec2{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := parseFinite(s[i+1:])
	if err != nil {
		return Vec2{}, fmt.Errorf("point %q: %w", s, err)
	}
	return Vec2{X: x, Y: y}, nil
}

// decodeNumber accepts a JSON number or a numeric string. Null is not a
// number.
func decodeNumber(raw json.RawMessage) (float64, error) {
	if isNull(raw) {
		return 0, errors.New("null is not a number")
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("%s is not a number", raw)
	}
	return parseFinite(s)
}

func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not finite", s)
	}
	return f, nil
}

// decodeBool accepts a JSON boolean or a number, where non-zero is true.
func decodeBool(raw json.RawMessage) (bool, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return false, fmt.Errorf("%s is not a boolean", raw)
	}
	return f != 0, nil
}
