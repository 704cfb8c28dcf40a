package domain

import (
	"time"
)

// Aggregate holds the cumulative counters of a player and the values derived
// from them. Player keeps the lifetime view, SeasonPlayer the season view.
type Aggregate struct {
	Played      int
	TotalWins   int
	TotalKills  int
	TotalRounds int

	AvgKills  float64
	KPR       float64
	AvgDamage int
	Winrate   int

	Inconsistency *float64 // nil until at least two matches are in scope
	TeamBalance   int

	// AverageMatchRating is the mean of per-match ratings, CompositeRating
	// the published rating built from it plus accumulated momentum.
	CompositeRating    float64
	BaselineRating     float64
	AverageMatchRating float64
}

type Player struct {
	ID         int64
	Name       string
	SeedRating float64
	Aggregate
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SeasonPlayer struct {
	ID       int64
	SeasonID int64
	PlayerID int64
	Name     string

	// SeedRating is the baseline carried in from the prior season (or from
	// the player when first seen) and restored when played drops to zero.
	SeedRating float64
	Aggregate
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Season struct {
	ID          int64
	GamesPlayed int
	PlayerCount int
	State       SeasonState
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Game struct {
	ID        int64
	SeasonID  int64
	MapName   string
	Rounds    int
	CreatedAt time.Time
}

type PlayerMatchStat struct {
	ID          int64
	GameID      int64
	SeasonID    int64
	PlayerID    int64
	Kills       int
	KPR         float64
	ADR         int
	Won         bool
	MatchRating float64
	Momentum    float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type EventKind string

const (
	EventGameSubmitted  EventKind = "game_submitted"
	EventGameDeleted    EventKind = "game_deleted"
	EventSeasonOpened   EventKind = "season_opened"
	EventSeasonClosed   EventKind = "season_closed"
	EventSeasonReopened EventKind = "season_reopened"
	EventSeasonRemoved  EventKind = "season_removed"
	EventSeasonRebuilt  EventKind = "season_rebuilt"
	EventPlayerAdded    EventKind = "player_added"
)

type LedgerEvent struct {
	ID        string // nanoid
	Kind      EventKind
	SeasonID  int64
	GameID    *int64
	Detail    string
	CreatedAt time.Time
}

// Participant is one of the ten primitive tuples of a match submission.
type Participant struct {
	PlayerID int64
	Kills    int
	Damage   int
	Won      bool
}
