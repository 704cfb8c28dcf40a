package server

import (
	"time"

	"github.com/AshfaaqK/JLTV-rankngs/internal/domain"
	"github.com/AshfaaqK/JLTV-rankngs/internal/rating"
	"github.com/AshfaaqK/JLTV-rankngs/internal/service"
)

type aggregateView struct {
	Played             int      `json:"played"`
	TotalWins          int      `json:"total_wins"`
	TotalKills         int      `json:"total_kills"`
	TotalRounds        int      `json:"total_rounds"`
	AvgKills           float64  `json:"avg_kills"`
	KPR                float64  `json:"kpr"`
	AvgDamage          int      `json:"avg_damage"`
	Winrate            int      `json:"winrate"`
	Inconsistency      *float64 `json:"inconsistency"`
	TeamBalance        int      `json:"team_balance"`
	CompositeRating    float64  `json:"composite_rating"`
	BaselineRating     float64  `json:"baseline_rating"`
	AverageMatchRating float64  `json:"average_match_rating"`
}

func toAggregateView(a domain.Aggregate) aggregateView {
	return aggregateView{
		Played:             a.Played,
		TotalWins:          a.TotalWins,
		TotalKills:         a.TotalKills,
		TotalRounds:        a.TotalRounds,
		AvgKills:           a.AvgKills,
		KPR:                a.KPR,
		AvgDamage:          a.AvgDamage,
		Winrate:            a.Winrate,
		Inconsistency:      a.Inconsistency,
		TeamBalance:        a.TeamBalance,
		CompositeRating:    a.CompositeRating,
		BaselineRating:     a.BaselineRating,
		AverageMatchRating: a.AverageMatchRating,
	}
}

type playerView struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	SeedRating float64 `json:"seed_rating"`
	aggregateView
}

func toPlayerView(p domain.Player) playerView {
	return playerView{ID: p.ID, Name: p.Name, SeedRating: p.SeedRating, aggregateView: toAggregateView(p.Aggregate)}
}

type seasonPlayerView struct {
	ID         int64   `json:"id"`
	SeasonID   int64   `json:"season_id"`
	PlayerID   int64   `json:"player_id"`
	Name       string  `json:"name"`
	SeedRating float64 `json:"seed_rating"`
	aggregateView
}

func toSeasonPlayerView(sp domain.SeasonPlayer) seasonPlayerView {
	return seasonPlayerView{
		ID:            sp.ID,
		SeasonID:      sp.SeasonID,
		PlayerID:      sp.PlayerID,
		Name:          sp.Name,
		SeedRating:    sp.SeedRating,
		aggregateView: toAggregateView(sp.Aggregate),
	}
}

type seasonView struct {
	ID          int64  `json:"id"`
	GamesPlayed int    `json:"games_played"`
	PlayerCount int    `json:"player_count"`
	State       string `json:"state"`
}

func toSeasonView(s *domain.Season) *seasonView {
	if s == nil {
		return nil
	}
	return &seasonView{ID: s.ID, GamesPlayed: s.GamesPlayed, PlayerCount: s.PlayerCount, State: string(s.State)}
}

type gameView struct {
	ID        int64     `json:"id"`
	SeasonID  int64     `json:"season_id"`
	MapName   string    `json:"map_name"`
	Rounds    int       `json:"rounds"`
	CreatedAt time.Time `json:"created_at"`
}

func toGameView(g domain.Game) gameView {
	return gameView{ID: g.ID, SeasonID: g.SeasonID, MapName: g.MapName, Rounds: g.Rounds, CreatedAt: g.CreatedAt}
}

type statView struct {
	ID          int64   `json:"id"`
	GameID      int64   `json:"game_id"`
	PlayerID    int64   `json:"player_id"`
	Name        string  `json:"name,omitempty"`
	Kills       int     `json:"kills"`
	KPR         float64 `json:"kpr"`
	ADR         int     `json:"adr"`
	Won         bool    `json:"won"`
	MatchRating float64 `json:"match_rating"`
	Momentum    float64 `json:"momentum"`
}

func toStatView(s domain.PlayerMatchStat, name string) statView {
	return statView{
		ID:          s.ID,
		GameID:      s.GameID,
		PlayerID:    s.PlayerID,
		Name:        name,
		Kills:       s.Kills,
		KPR:         s.KPR,
		ADR:         s.ADR,
		Won:         s.Won,
		MatchRating: s.MatchRating,
		Momentum:    s.Momentum,
	}
}

type resultView struct {
	Season         *seasonView        `json:"season"`
	Game           gameView           `json:"game"`
	Stats          []statView         `json:"stats"`
	SeasonPlayers  []seasonPlayerView `json:"season_players"`
	Players        []playerView       `json:"players"`
	RolledOver     bool               `json:"rolled_over"`
	NextSeason     *seasonView        `json:"next_season,omitempty"`
	SeasonReopened bool               `json:"season_reopened"`
	SeasonRemoved  bool               `json:"season_removed"`
}

func toResultView(r *service.Result) resultView {
	v := resultView{
		Season:         toSeasonView(r.Season),
		Game:           toGameView(r.Game),
		Stats:          make([]statView, len(r.Stats)),
		SeasonPlayers:  make([]seasonPlayerView, len(r.SeasonPlayers)),
		Players:        make([]playerView, len(r.Players)),
		RolledOver:     r.RolledOver,
		NextSeason:     toSeasonView(r.NextSeason),
		SeasonReopened: r.SeasonReopened,
		SeasonRemoved:  r.SeasonRemoved,
	}
	for i, s := range r.Stats {
		v.Stats[i] = toStatView(s, "")
	}
	for i, sp := range r.SeasonPlayers {
		v.SeasonPlayers[i] = toSeasonPlayerView(sp)
	}
	for i, p := range r.Players {
		v.Players[i] = toPlayerView(p)
	}
	return v
}

type standingView struct {
	Rank     int         `json:"rank"`
	Tier     rating.Tier `json:"tier"`
	PlayerID int64       `json:"player_id"`
	Name     string      `json:"name"`
	aggregateView
}

type standingsView struct {
	Season  *seasonView    `json:"season,omitempty"`
	Games   int            `json:"games"`
	Entries []standingView `json:"entries"`
}

func toStandingsView(s *service.Standings) standingsView {
	v := standingsView{Season: toSeasonView(s.Season), Games: s.Games, Entries: make([]standingView, len(s.Entries))}
	for i, e := range s.Entries {
		v.Entries[i] = standingView{
			Rank:          e.Rank,
			Tier:          e.Tier,
			PlayerID:      e.PlayerID,
			Name:          e.Name,
			aggregateView: toAggregateView(e.Aggregate),
		}
	}
	return v
}

type gameSummaryView struct {
	gameView
	AverageRating float64  `json:"average_rating"`
	Winners       []string `json:"winners"`
}

type seasonLogView struct {
	Season seasonView        `json:"season"`
	Games  []gameSummaryView `json:"games"`
}

func toGameLogView(log []service.SeasonLog) []seasonLogView {
	out := make([]seasonLogView, len(log))
	for i, entry := range log {
		out[i] = seasonLogView{Season: *toSeasonView(&entry.Season), Games: make([]gameSummaryView, len(entry.Games))}
		for j, g := range entry.Games {
			out[i].Games[j] = gameSummaryView{gameView: toGameView(g.Game), AverageRating: g.AverageRating, Winners: g.Winners}
		}
	}
	return out
}

type gameDetailView struct {
	Game  gameView   `json:"game"`
	Stats []statView `json:"stats"`
}

type playerDetailView struct {
	Player playerView        `json:"player"`
	Tier   rating.Tier       `json:"tier"`
	Season *seasonPlayerView `json:"season,omitempty"`
}

type memberView struct {
	PlayerID        int64   `json:"player_id"`
	Name            string  `json:"name"`
	CompositeRating float64 `json:"composite_rating"`
}

type splitView struct {
	TeamA      []memberView `json:"team_a"`
	TeamB      []memberView `json:"team_b"`
	AverageA   float64      `json:"average_a"`
	AverageB   float64      `json:"average_b"`
	Difference float64      `json:"difference"`
}

func toMemberViews(ms []service.Member) []memberView {
	out := make([]memberView, len(ms))
	for i, m := range ms {
		out[i] = memberView{PlayerID: m.PlayerID, Name: m.Name, CompositeRating: m.CompositeRating}
	}
	return out
}

type eventView struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	SeasonID  int64     `json:"season_id"`
	GameID    *int64    `json:"game_id,omitempty"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

type addPlayerRequest struct {
	Name       string  `json:"name"`
	SeedRating float64 `json:"seed_rating"`
}

type participantRequest struct {
	PlayerID int64 `json:"player_id"`
	Kills    int   `json:"kills"`
	Damage   int   `json:"damage"`
	Won      bool  `json:"won"`
}

type submitMatchRequest struct {
	MapName      string               `json:"map_name"`
	Rounds       int                  `json:"rounds"`
	Participants []participantRequest `json:"participants"`
}

type balanceRequest struct {
	PlayerIDs []int64 `json:"player_ids"`
}

type errorView struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}
