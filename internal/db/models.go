package db

import (
	"database/sql"
	"time"
)

type Season struct {
	ID          int64
	GamesPlayed int64
	PlayerCount int64
	State       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Player struct {
	ID                 int64
	Name               string
	SeedRating         float64
	Played             int64
	TotalWins          int64
	TotalKills         int64
	TotalRounds        int64
	AvgKills           float64
	Kpr                float64
	AvgDamage          int64
	Winrate            int64
	Inconsistency      sql.NullFloat64
	TeamBalance        int64
	CompositeRating    float64
	BaselineRating     float64
	AverageMatchRating float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type SeasonPlayer struct {
	ID                 int64
	SeasonID           int64
	PlayerID           int64
	SeedRating         float64
	Played             int64
	TotalWins          int64
	TotalKills         int64
	TotalRounds        int64
	AvgKills           float64
	Kpr                float64
	AvgDamage          int64
	Winrate            int64
	Inconsistency      sql.NullFloat64
	TeamBalance        int64
	CompositeRating    float64
	BaselineRating     float64
	AverageMatchRating float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Game struct {
	ID        int64
	SeasonID  int64
	MapName   string
	Rounds    int64
	CreatedAt time.Time
}

type PlayerMatchStat struct {
	ID          int64
	GameID      int64
	SeasonID    int64
	PlayerID    int64
	Kills       int64
	Kpr         float64
	Adr         int64
	Won         bool
	MatchRating float64
	Momentum    float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type LedgerEvent struct {
	ID        string
	Kind      string
	SeasonID  int64
	GameID    sql.NullInt64
	Detail    string
	CreatedAt time.Time
}
