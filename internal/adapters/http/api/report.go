// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/okian/gambit/internal/adapters/upstream"
	"github.com/okian/gambit/internal/domain/rank"
	"github.com/okian/gambit/internal/domain/stream"
	"github.com/okian/gambit/pkg/metrics"
)

// tournamentIDPattern restricts ids before anything reaches the upstream.
var tournamentIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{4,16}$`)

// ReportDependencies defines the interface for report computation.
type ReportDependencies interface {
	Dependencies
}

// ReportHandler handles tournament report requests.
type ReportHandler struct {
	deps ReportDependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps ReportDependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

// HandleGetReport handles GET /report/{kind}/{id} requests.
func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	kind, id, err := parseReportPath(r.URL.Path)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		metrics.RecordReportFailed(codeBadRequest)
		return
	}

	report, err := h.deps.Report(r.Context(), kind, id)
	if err != nil {
		status, code := classifyReportError(err)
		writeError(w, status, code, err)
		metrics.RecordReportFailed(code)
		return
	}
	metrics.RecordReportServed()
	writeJSON(w, http.StatusOK, report)
}

// parseReportPath extracts and validates the kind and id path parameters.
func parseReportPath(path string) (upstream.Kind, string, error) {
	rest := strings.TrimPrefix(path, "/report/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: expected /report/{kind}/{id}", ErrBadRequest)
	}
	kind, err := upstream.ParseKind(parts[0])
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if !tournamentIDPattern.MatchString(parts[1]) {
		return "", "", fmt.Errorf("%w: malformed tournament id", ErrBadRequest)
	}
	return kind, parts[1], nil
}

// classifyReportError maps pipeline errors to a status and machine code.
func classifyReportError(err error) (int, string) {
	switch {
	case errors.Is(err, upstream.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, upstream.ErrTimeout):
		return http.StatusGatewayTimeout, codeUpstreamTimeout
	case errors.Is(err, stream.ErrDecode):
		return http.StatusBadGateway, codeDecodeFailed
	case errors.Is(err, upstream.ErrUpstream):
		return http.StatusBadGateway, codeUpstreamFailed
	case errors.Is(err, rank.ErrNoData):
		return http.StatusUnprocessableEntity, codeNoData
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
