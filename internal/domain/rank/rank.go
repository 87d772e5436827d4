// Package rank converts raw player accumulators into derived metrics,
// chooses the ranking pool and computes the superlative results.
package rank

import (
	"math"
	"sort"

	"github.com/okian/gambit/internal/domain/aggregate"
)

// Default eligibility configuration constants.
const (
	defaultMinAnalyzedGames = 4
	defaultMinAnalyzedRatio = 0.5
	minEligiblePlayers      = 2
)

// Option applies a configuration option to the Finalizer.
type Option func(*Finalizer)

// WithMinAnalyzedGames sets the analyzed-game floor for eligibility.
func WithMinAnalyzedGames(n int) Option {
	return func(f *Finalizer) {
		if n > 0 {
			f.minAnalyzedGames = n
		}
	}
}

// WithMinAnalyzedRatio sets the analyzed/played ratio floor for eligibility.
func WithMinAnalyzedRatio(r float64) Option {
	return func(f *Finalizer) {
		if r > 0 && r <= 1 {
			f.minAnalyzedRatio = r
		}
	}
}

// PlayerMetric is a player's finalized statistics.
type PlayerMetric struct {
	Name          string  `json:"name"`
	Team          string  `json:"team,omitempty"`
	GamesPlayed   int     `json:"gamesPlayed"`
	AnalyzedGames int     `json:"analyzedGames"`
	Inaccuracies  int     `json:"inaccuracies"`
	Mistakes      int     `json:"mistakes"`
	Blunders      int     `json:"blunders"`
	Accuracy      float64 `json:"accuracy"`
}

// Superlative names one player and the value that earned the title.
type Superlative struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Superlatives holds the eight most/least/highest/lowest results.
type Superlatives struct {
	MostInaccuracies  Superlative `json:"mostInaccuracies"`
	LeastInaccuracies Superlative `json:"leastInaccuracies"`
	MostMistakes      Superlative `json:"mostMistakes"`
	LeastMistakes     Superlative `json:"leastMistakes"`
	MostBlunders      Superlative `json:"mostBlunders"`
	LeastBlunders     Superlative `json:"leastBlunders"`
	HighestAccuracy   Superlative `json:"highestAccuracy"`
	LowestAccuracy    Superlative `json:"lowestAccuracy"`
}

// Result is the full outcome of finalization.
type Result struct {
	Players      []PlayerMetric `json:"players"`
	WithAnalysis int            `json:"withAnalysis"`
	Eligible     int            `json:"eligible"`
	PoolSize     int            `json:"poolSize"`
	Superlatives Superlatives   `json:"superlatives"`
}

// Finalizer computes derived metrics and rankings from an accumulator set.
// Finalizing the same set twice yields identical results: every sort runs on
// a private copy and all tie-breaks bottom out at the player name.
type Finalizer struct {
	minAnalyzedGames int
	minAnalyzedRatio float64
}

// NewFinalizer creates a finalizer with configuration options.
func NewFinalizer(opts ...Option) *Finalizer {
	f := &Finalizer{
		minAnalyzedGames: defaultMinAnalyzedGames,
		minAnalyzedRatio: defaultMinAnalyzedRatio,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Finalize derives per-player metrics, selects the ranking pool and computes
// the superlatives. It returns ErrNoData when no player has an analyzed game.
func (f *Finalizer) Finalize(players []*aggregate.PlayerStats) (Result, error) {
	res := Result{Players: make([]PlayerMetric, 0, len(players))}

	var withAnalysis, eligible []PlayerMetric
	for _, p := range players {
		m := PlayerMetric{
			Name:          p.Name,
			Team:          p.Team,
			GamesPlayed:   p.GamesPlayed,
			AnalyzedGames: p.AnalyzedGames,
			Inaccuracies:  p.Inaccuracies,
			Mistakes:      p.Mistakes,
			Blunders:      p.Blunders,
			Accuracy:      meanAccuracy(p.AccuracySamples),
		}
		res.Players = append(res.Players, m)
		if m.AnalyzedGames > 0 {
			withAnalysis = append(withAnalysis, m)
		}
		if f.isEligible(m) {
			eligible = append(eligible, m)
		}
	}
	res.WithAnalysis = len(withAnalysis)
	res.Eligible = len(eligible)

	pool := eligible
	if len(eligible) < minEligiblePlayers {
		pool = withAnalysis
	}
	res.PoolSize = len(pool)
	if len(pool) == 0 {
		return Result{}, ErrNoData
	}

	res.Superlatives = Superlatives{
		MostInaccuracies:  mostOf(pool, func(m PlayerMetric) int { return m.Inaccuracies }),
		LeastInaccuracies: leastOf(pool, func(m PlayerMetric) int { return m.Inaccuracies }),
		MostMistakes:      mostOf(pool, func(m PlayerMetric) int { return m.Mistakes }),
		LeastMistakes:     leastOf(pool, func(m PlayerMetric) int { return m.Mistakes }),
		MostBlunders:      mostOf(pool, func(m PlayerMetric) int { return m.Blunders }),
		LeastBlunders:     leastOf(pool, func(m PlayerMetric) int { return m.Blunders }),
		HighestAccuracy:   accuracyOf(pool, true),
		LowestAccuracy:    accuracyOf(pool, false),
	}
	return res, nil
}

func (f *Finalizer) isEligible(m PlayerMetric) bool {
	if m.AnalyzedGames < f.minAnalyzedGames || m.GamesPlayed == 0 {
		return false
	}
	return float64(m.AnalyzedGames)/float64(m.GamesPlayed) >= f.minAnalyzedRatio
}

// meanAccuracy returns the sample mean rounded to one decimal, or 0 when no
// samples were collected.
func meanAccuracy(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return math.Round(sum/float64(len(samples))*10) / 10
}

// mostOf returns the player with the highest counter; ties resolve to the
// lexicographically smaller name.
func mostOf(pool []PlayerMetric, key func(PlayerMetric) int) Superlative {
	sorted := sortedCopy(pool, func(a, b PlayerMetric) bool {
		if key(a) != key(b) {
			return key(a) > key(b)
		}
		return a.Name < b.Name
	})
	return Superlative{Name: sorted[0].Name, Value: float64(key(sorted[0]))}
}

// leastOf returns the player with the lowest counter; among equals the
// higher accuracy wins, then the smaller name.
func leastOf(pool []PlayerMetric, key func(PlayerMetric) int) Superlative {
	sorted := sortedCopy(pool, func(a, b PlayerMetric) bool {
		if key(a) != key(b) {
			return key(a) < key(b)
		}
		if a.Accuracy != b.Accuracy {
			return a.Accuracy > b.Accuracy
		}
		return a.Name < b.Name
	})
	return Superlative{Name: sorted[0].Name, Value: float64(key(sorted[0]))}
}

func accuracyOf(pool []PlayerMetric, highest bool) Superlative {
	sorted := sortedCopy(pool, func(a, b PlayerMetric) bool {
		if a.Accuracy != b.Accuracy {
			if highest {
				return a.Accuracy > b.Accuracy
			}
			return a.Accuracy < b.Accuracy
		}
		return a.Name < b.Name
	})
	return Superlative{Name: sorted[0].Name, Value: sorted[0].Accuracy}
}

func sortedCopy(pool []PlayerMetric, less func(a, b PlayerMetric) bool) []PlayerMetric {
	out := make([]PlayerMetric, len(pool))
	copy(out, pool)
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
