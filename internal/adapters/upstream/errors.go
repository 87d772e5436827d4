package upstream

import "errors"

// Sentinel kinds for upstream errors. Callers distinguish "the tournament
// does not exist" from "the chess server is broken" from "the chess server
// is too slow" via errors.Is.
var (
	ErrNotFound = errors.New("tournament not found")
	ErrUpstream = errors.New("upstream request failed")
	ErrTimeout  = errors.New("upstream unresponsive")
	ErrBadKind  = errors.New("unknown tournament kind")
)
