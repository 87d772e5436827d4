// Package model contains domain models passed between layers.
package model

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Game statuses that mark a game as never really played.
const (
	StatusAborted = "aborted"
	StatusNoStart = "noStart"
)

// AnonymousName substitutes for a side that carries no username.
const AnonymousName = "Anonymous"

// Count is a non-negative counter decoded leniently: numbers are taken as-is,
// numeric strings are parsed, anything else collapses to zero. The upstream
// feed is not schema-guaranteed beyond basic shape, so a junk field must not
// poison the aggregate.
type Count int

// UnmarshalJSON never fails; malformed values coerce to zero.
func (c *Count) UnmarshalJSON(b []byte) error {
	*c = Count(coerceFloat(b))
	return nil
}

// Percent is an accuracy percentage decoded with the same lenience as Count.
type Percent float64

// UnmarshalJSON never fails; malformed values coerce to zero.
func (p *Percent) UnmarshalJSON(b []byte) error {
	*p = Percent(coerceFloat(b))
	return nil
}

func coerceFloat(b []byte) float64 {
	s := string(bytes.Trim(bytes.TrimSpace(b), `"`))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != f { // reject NaN
		return 0
	}
	if f < 0 {
		return 0
	}
	return f
}

// AnalysisStats is one side's engine analysis result. A nil *AnalysisStats on
// a Side means that side was not analyzed at all; a nil Accuracy means counts
// exist but no accuracy was computed.
type AnalysisStats struct {
	Inaccuracy Count    `json:"inaccuracy"`
	Mistake    Count    `json:"mistake"`
	Blunder    Count    `json:"blunder"`
	Accuracy   *Percent `json:"accuracy,omitempty"`
}

// Side is one of the two competitors in a game.
type Side struct {
	Username string         `json:"username,omitempty"`
	TeamID   string         `json:"teamId,omitempty"`
	Analysis *AnalysisStats `json:"analysis,omitempty"`
}

// Name returns the identity key for aggregation.
func (s Side) Name() string {
	if s.Username == "" {
		return AnonymousName
	}
	return s.Username
}

// Players groups the two sides of a game.
type Players struct {
	White Side `json:"white"`
	Black Side `json:"black"`
}

// GameRecord is one played game as decoded from a feed line. Immutable once
// decoded; it lives for one aggregation pass.
type GameRecord struct {
	ID      string  `json:"id"`
	Status  string  `json:"status,omitempty"`
	Moves   string  `json:"moves,omitempty"`
	Players Players `json:"players"`
}

// MoveCount returns the number of whitespace-separated move tokens.
func (g *GameRecord) MoveCount() int {
	if g.Moves == "" {
		return 0
	}
	return len(strings.Fields(g.Moves))
}

// HasMoves reports whether a move list was present on the record at all,
// which is distinct from an empty one for classification purposes.
func (g *GameRecord) HasMoves() bool {
	return g.Moves != ""
}

// Tournament is the upstream metadata for one tournament. Arena and swiss
// endpoints disagree on the name key, so both are accepted.
type Tournament struct {
	ID        string `json:"id"`
	FullName  string `json:"fullName,omitempty"`
	ShortName string `json:"name,omitempty"`
	NbPlayers int    `json:"nbPlayers"`
}

// Name returns whichever name field the upstream populated.
func (t Tournament) Name() string {
	if t.FullName != "" {
		return t.FullName
	}
	return t.ShortName
}

// compile-time check that lenient decoding stays wired to the JSON codec.
var (
	_ json.Unmarshaler = (*Count)(nil)
	_ json.Unmarshaler = (*Percent)(nil)
)
