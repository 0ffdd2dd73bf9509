package scribble

import "fmt"

// DecodeError reports a serialized sketch that could not be parsed. The
// in-memory session is never modified when decoding fails.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode sketch: %s: %v", e.Reason, e.Err)
	}
	return "decode sketch: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// decodeErrorf builds a DecodeError with a formatted reason.
func decodeErrorf(err error, format string, args ...any) *DecodeError {
	return &DecodeError{Reason: fmt.Sprintf(format, args...), Err: err}
}

// ValidationError reports a line with too few points to be kept. Lines like
// this are dropped silently; the error exists so callers can count them.
type ValidationError struct {
	Line   int
	Points int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("line %d has %d points, need at least %d", e.Line, e.Points, minLinePoints)
}
