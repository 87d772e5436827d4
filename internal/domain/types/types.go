// Package types contains common types used across the application
package types

import (
	"github.com/okian/gambit/internal/domain/aggregate"
	"github.com/okian/gambit/internal/domain/rank"
)

// TournamentInfo carries the upstream tournament identity.
type TournamentInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Players int    `json:"players"`
}

// PoolInfo describes which players the superlatives were ranked over.
type PoolInfo struct {
	Size         int `json:"size"`
	Eligible     int `json:"eligible"`
	WithAnalysis int `json:"withAnalysis"`
}

// Report is the complete response payload for one tournament. All-or-nothing:
// a failed pipeline never produces a partial Report.
type Report struct {
	Tournament   TournamentInfo      `json:"tournament"`
	Games        aggregate.Counters  `json:"games"`
	Pool         PoolInfo            `json:"pool"`
	Superlatives rank.Superlatives   `json:"superlatives"`
	Players      []rank.PlayerMetric `json:"players"`
}
