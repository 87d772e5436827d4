package stream

import "errors"

// Sentinel kinds for streaming errors. ErrDecode marks a malformed feed line,
// which is fatal for the whole aggregation; ErrTransport marks a failure of
// the underlying byte stream and maps to an upstream fault, not a bad feed.
var (
	ErrDecode    = errors.New("feed line decode failed")
	ErrTransport = errors.New("feed transport failed")
)
