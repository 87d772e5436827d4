// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/gambit/internal/adapters/upstream"
	"github.com/okian/gambit/internal/domain/aggregate"
	"github.com/okian/gambit/internal/domain/rank"
	"github.com/okian/gambit/internal/domain/stream"
	"github.com/okian/gambit/internal/domain/types"
	"github.com/okian/gambit/pkg/logger"
	"github.com/okian/gambit/pkg/metrics"
)

// Report mirrors the response shape returned to API callers.
type Report = types.Report

// TournamentInfo and PoolInfo are re-exported for callers shaping payloads.
type (
	TournamentInfo = types.TournamentInfo
	PoolInfo       = types.PoolInfo
)

// Service orchestrates one report per request: fetch metadata, open the game
// feed, drive the streaming pipeline and finalize the rankings. Requests
// share nothing but the upstream client; every pipeline owns its own
// counters and player map.
type Service struct {
	mu sync.RWMutex

	// Configuration
	upstreamBaseURL  string
	upstreamTimeout  time.Duration
	shortMoves       int
	minAnalyzedGames int
	minAnalyzedRatio float64

	// Core components
	client    *upstream.Client
	finalizer *rank.Finalizer

	// State
	started   bool
	startedAt time.Time

	// Runtime stats
	reportsServed atomic.Int64
	reportsFailed atomic.Int64
	lastReportMS  atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithUpstreamBaseURL sets the chess server API root.
func WithUpstreamBaseURL(base string) Option {
	return func(s *Service) {
		if base != "" {
			s.upstreamBaseURL = base
		}
	}
}

// WithUpstreamTimeout bounds each outbound call.
func WithUpstreamTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.upstreamTimeout = d
		}
	}
}

// WithShortMoveThreshold sets the short-game move cutoff.
func WithShortMoveThreshold(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.shortMoves = n
		}
	}
}

// WithMinAnalyzedGames sets the eligibility floor on analyzed games.
func WithMinAnalyzedGames(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minAnalyzedGames = n
		}
	}
}

// WithMinAnalyzedRatio sets the eligibility floor on analyzed/played ratio.
func WithMinAnalyzedRatio(r float64) Option {
	return func(s *Service) {
		if r > 0 && r <= 1 {
			s.minAnalyzedRatio = r
		}
	}
}

// WithClient replaces the upstream client; tests point it at a fake server.
func WithClient(c *upstream.Client) Option {
	return func(s *Service) {
		if c != nil {
			s.client = c
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		upstreamBaseURL:  "https://lichess.org",
		upstreamTimeout:  10 * time.Second,
		shortMoves:       10,
		minAnalyzedGames: 4,
		minAnalyzedRatio: 0.5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.client == nil {
		s.client = upstream.New(
			upstream.WithBaseURL(s.upstreamBaseURL),
			upstream.WithTimeout(s.upstreamTimeout),
		)
	}
	s.finalizer = rank.NewFinalizer(
		rank.WithMinAnalyzedGames(s.minAnalyzedGames),
		rank.WithMinAnalyzedRatio(s.minAnalyzedRatio),
	)
	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "report service started",
		logger.String("upstream", s.upstreamBaseURL))
	return nil
}

// Stop releases service resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
}

// Report computes the full performance report for one tournament.
func (s *Service) Report(ctx context.Context, kind upstream.Kind, id string) (*Report, error) {
	start := time.Now()
	rep, err := s.report(ctx, kind, id)
	elapsed := time.Since(start)
	s.lastReportMS.Store(elapsed.Milliseconds())
	metrics.RecordReportDuration(float64(elapsed.Milliseconds()))
	if err != nil {
		s.reportsFailed.Add(1)
		return nil, err
	}
	s.reportsServed.Add(1)
	return rep, nil
}

func (s *Service) report(ctx context.Context, kind upstream.Kind, id string) (*Report, error) {
	meta, err := s.client.Tournament(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	feed, err := s.client.Games(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = feed.Close() }()

	classifier := aggregate.NewClassifier(aggregate.WithShortMoveThreshold(s.shortMoves))
	aggregator := aggregate.NewAggregator()
	reader := stream.NewRecordReader(feed)
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, stream.ErrDecode) {
				metrics.RecordDecodeError()
				return nil, err
			}
			// A feed that dies mid-stream is an upstream fault; one
			// that dies because the deadline passed is a timeout.
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %w", upstream.ErrTimeout, err)
			}
			return nil, fmt.Errorf("%w: %w", upstream.ErrUpstream, err)
		}
		classifier.Observe(rec)
		aggregator.Observe(rec)
	}

	counters := classifier.Counters()
	metrics.AddGamesProcessed(counters.Total)
	metrics.ObservePlayersPerReport(aggregator.Len())
	if counters.Total == 0 {
		return nil, fmt.Errorf("%w: empty feed", rank.ErrNoData)
	}

	result, err := s.finalizer.Finalize(aggregator.Players())
	if err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "report computed",
		logger.String("tournament", id),
		logger.Int("games", counters.Total),
		logger.Int("players", aggregator.Len()))

	return &Report{
		Tournament: TournamentInfo{
			ID:      meta.ID,
			Name:    meta.Name(),
			Players: meta.NbPlayers,
		},
		Games: counters,
		Pool: PoolInfo{
			Size:         result.PoolSize,
			Eligible:     result.Eligible,
			WithAnalysis: result.WithAnalysis,
		},
		Superlatives: result.Superlatives,
		Players:      result.Players,
	}, nil
}

// GetStats returns current service statistics for the /stats endpoint.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	startedAt := s.startedAt
	base := s.upstreamBaseURL
	s.mu.RUnlock()

	uptime := time.Duration(0)
	if !startedAt.IsZero() {
		uptime = time.Since(startedAt)
	}
	return map[string]interface{}{
		"reportsServed":      s.reportsServed.Load(),
		"reportsFailed":      s.reportsFailed.Load(),
		"lastReportDuration": s.lastReportMS.Load(),
		"uptimeSeconds":      int64(uptime.Seconds()),
		"upstreamBaseURL":    base,
	}
}
