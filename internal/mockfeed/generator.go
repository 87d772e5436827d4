// Package mockfeed serves a synthetic chess server: tournament metadata and
// an NDJSON game feed with plausible analysis data, for local development
// and pipeline tests.
package mockfeed

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/okian/gambit/internal/domain/model"
)

// Constants for synthetic game generation.
const (
	defaultGameCount   = 120
	defaultPlayerCount = 16
	defaultRandomSeed  = 42

	maxInaccuracies = 8
	maxMistakes     = 5
	maxBlunders     = 3
	minAccuracy     = 55.0
	accuracyRange   = 44.0

	shortGameOdds   = 10 // one in N games is short/aborted
	oneSidedOdds    = 6  // one in N games has a single analyzed side
	anonymousOdds   = 12 // one in N sides plays anonymously
	minNormalMoves  = 20
	normalMoveRange = 80
)

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithGameCount sets how many games a feed contains.
func WithGameCount(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.gameCount = n
		}
	}
}

// WithPlayerCount sets how many distinct players appear in a feed.
func WithPlayerCount(n int) Option {
	return func(g *Generator) {
		if n > 1 {
			g.playerCount = n
		}
	}
}

// WithSeed fixes the random source for reproducible feeds.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic seed for reproducible feeds
	}
}

// Generator produces synthetic tournaments and game records.
type Generator struct {
	rng         *rand.Rand
	gameCount   int
	playerCount int
}

// NewGenerator creates a generator with configuration options.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		rng:         rand.New(rand.NewSource(defaultRandomSeed)), //nolint:gosec // deterministic seed for reproducible feeds
		gameCount:   defaultGameCount,
		playerCount: defaultPlayerCount,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Tournament returns synthetic metadata for id.
func (g *Generator) Tournament(id string) model.Tournament {
	return model.Tournament{
		ID:        id,
		FullName:  fmt.Sprintf("Mock Arena %s", id),
		NbPlayers: g.playerCount,
	}
}

// Games returns a full synthetic feed's worth of game records.
func (g *Generator) Games() []model.GameRecord {
	names := make([]string, g.playerCount)
	for i := range names {
		names[i] = fmt.Sprintf("player%02d", i+1)
	}
	teams := []string{"rooks", "knights", "bishops"}

	games := make([]model.GameRecord, g.gameCount)
	for i := range games {
		games[i] = g.game(names, teams)
	}
	return games
}

func (g *Generator) game(names, teams []string) model.GameRecord {
	white := g.rng.Intn(len(names))
	black := g.rng.Intn(len(names))
	for black == white {
		black = g.rng.Intn(len(names))
	}

	rec := model.GameRecord{
		ID:     uuid.New().String()[:8],
		Status: "mate",
		Players: model.Players{
			White: g.side(names[white], teams),
			Black: g.side(names[black], teams),
		},
	}

	switch {
	case g.rng.Intn(shortGameOdds) == 0:
		// Short or aborted game: few moves, no analysis.
		rec.Status = model.StatusAborted
		rec.Moves = g.moves(g.rng.Intn(6))
		rec.Players.White.Analysis = nil
		rec.Players.Black.Analysis = nil
	case g.rng.Intn(oneSidedOdds) == 0:
		// One analyzed side only.
		rec.Moves = g.moves(minNormalMoves + g.rng.Intn(normalMoveRange))
		rec.Players.Black.Analysis = nil
	default:
		rec.Moves = g.moves(minNormalMoves + g.rng.Intn(normalMoveRange))
	}
	return rec
}

func (g *Generator) side(name string, teams []string) model.Side {
	s := model.Side{
		Username: name,
		TeamID:   teams[g.rng.Intn(len(teams))],
		Analysis: g.analysis(),
	}
	if g.rng.Intn(anonymousOdds) == 0 {
		s.Username = ""
		s.TeamID = ""
	}
	return s
}

func (g *Generator) analysis() *model.AnalysisStats {
	acc := model.Percent(minAccuracy + g.rng.Float64()*accuracyRange)
	return &model.AnalysisStats{
		Inaccuracy: model.Count(g.rng.Intn(maxInaccuracies)),
		Mistake:    model.Count(g.rng.Intn(maxMistakes)),
		Blunder:    model.Count(g.rng.Intn(maxBlunders)),
		Accuracy:   &acc,
	}
}

// moves emits n placeholder move tokens; classification only counts them.
func (g *Generator) moves(n int) string {
	if n == 0 {
		return ""
	}
	out := make([]byte, 0, n*3)
	for i := 0; i < n; i++ {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, 'e', byte('1'+g.rng.Intn(8)))
	}
	return string(out)
}
