package rank

import "errors"

// Sentinel kinds for ranking errors.
var (
	// ErrNoData means no game produced an analyzable player: a caller
	// problem (nothing to analyze), not a server fault.
	ErrNoData = errors.New("no analyzed games")
)
