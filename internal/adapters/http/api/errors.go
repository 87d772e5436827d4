package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// Error codes carried in error responses so callers can distinguish "fix
// your input" from "try again later" from "nothing to analyze".
const (
	codeBadRequest      = "bad_request"
	codeNotFound        = "not_found"
	codeUpstreamFailed  = "upstream_failed"
	codeUpstreamTimeout = "upstream_timeout"
	codeDecodeFailed    = "decode_failed"
	codeNoData          = "no_data"
	codeInternal        = "internal_error"
)
