package aggregate

import "github.com/okian/gambit/internal/domain/model"

// PlayerStats accumulates one player's running statistics across the pass.
// Created lazily on first sight of a name, mutated in place, never deleted.
type PlayerStats struct {
	Name            string
	Team            string
	GamesPlayed     int
	AnalyzedGames   int
	Inaccuracies    int
	Mistakes        int
	Blunders        int
	AccuracySamples []float64
}

// Aggregator maps player identity to running statistics, preserving
// first-seen order so the final listing is stable across runs.
type Aggregator struct {
	players map[string]*PlayerStats
	order   []string
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{players: make(map[string]*PlayerStats)}
}

// Observe updates both sides' accumulators for one game.
func (a *Aggregator) Observe(g *model.GameRecord) {
	a.observeSide(g.Players.White)
	a.observeSide(g.Players.Black)
}

func (a *Aggregator) observeSide(side model.Side) {
	name := side.Name()
	p, ok := a.players[name]
	if !ok {
		p = &PlayerStats{Name: name, Team: side.TeamID}
		a.players[name] = p
		a.order = append(a.order, name)
	}
	p.GamesPlayed++
	// First non-empty team wins and sticks for the rest of the stream.
	if p.Team == "" && side.TeamID != "" {
		p.Team = side.TeamID
	}
	an := side.Analysis
	if an == nil {
		return
	}
	p.AnalyzedGames++
	p.Inaccuracies += int(an.Inaccuracy)
	p.Mistakes += int(an.Mistake)
	p.Blunders += int(an.Blunder)
	if an.Accuracy != nil {
		p.AccuracySamples = append(p.AccuracySamples, float64(*an.Accuracy))
	}
}

// Players returns the accumulators in first-seen order.
func (a *Aggregator) Players() []*PlayerStats {
	out := make([]*PlayerStats, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, a.players[name])
	}
	return out
}

// Len returns the number of distinct players seen so far.
func (a *Aggregator) Len() int {
	return len(a.players)
}
