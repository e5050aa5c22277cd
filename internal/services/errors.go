package services

import "fmt"

// ErrorKind classifies engine failures so handlers can pick the right
// HTTP status without string matching.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindOutOfRange   ErrorKind = "out_of_range"
	KindInvalidState ErrorKind = "invalid_state"
)

// Error is the engine's failure type: a kind plus a human-readable detail.
// Geofence rejections additionally carry the computed distance and the
// configured radius for the client-facing message.
type Error struct {
	Kind     ErrorKind
	Detail   string
	Distance float64 // meters, set for KindOutOfRange
	Radius   int     // meters, set for KindOutOfRange
}

func (e *Error) Error() string {
	return e.Detail
}

func notFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Detail: fmt.Sprintf(format, args...)}
}

func invalidState(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidState, Detail: fmt.Sprintf(format, args...)}
}

func outOfRange(distance float64, radius int) *Error {
	return &Error{
		Kind:     KindOutOfRange,
		Detail:   fmt.Sprintf("Too far from dealer location. Distance: %.0fm, allowed: %dm", distance, radius),
		Distance: distance,
		Radius:   radius,
	}
}
