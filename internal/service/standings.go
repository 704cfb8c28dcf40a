package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/AshfaaqK/JLTV-rankngs/internal/constants"
	"github.com/AshfaaqK/JLTV-rankngs/internal/domain"
	"github.com/AshfaaqK/JLTV-rankngs/internal/ledger"
	"github.com/AshfaaqK/JLTV-rankngs/internal/rating"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type StandingsService struct {
	store  ledger.Reader
	logger zerolog.Logger
}

func NewStandingsService(store ledger.Store, logger zerolog.Logger) *StandingsService {
	return &StandingsService{store: store, logger: logger}
}

type Standing struct {
	Rank     int
	Tier     rating.Tier
	PlayerID int64
	Name     string
	domain.Aggregate
}

// Standings is a ranked table. Season is nil for the lifetime table.
type Standings struct {
	Season  *domain.Season
	Games   int
	Entries []Standing
}

type Overview struct {
	Current  *Standings
	Lifetime *Standings
}

type GameSummary struct {
	domain.Game
	AverageRating float64
	Winners       []string
}

type SeasonLog struct {
	Season domain.Season
	Games  []GameSummary
}

type StatLine struct {
	domain.PlayerMatchStat
	Name string
}

type GameDetail struct {
	Game  domain.Game
	Stats []StatLine
}

type PlayerDetail struct {
	Player domain.Player
	Tier   rating.Tier
	// Season is the player's row in the latest season, nil if they have none.
	Season *domain.SeasonPlayer
}

// rank orders entries by composite rating, highest first, and drops anyone
// who has not played.
func rank(entries []Standing) []Standing {
	ranked := entries[:0]
	for _, e := range entries {
		if e.Played > 0 {
			ranked = append(ranked, e)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CompositeRating > ranked[j].CompositeRating
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
		ranked[i].Tier = rating.TierFor(ranked[i].CompositeRating, ranked[i].Played)
	}
	return ranked
}

// CurrentStandings shows the latest season that has games, so a season that
// just closed stays on the table until the next one gets its first game.
func (s *StandingsService) CurrentStandings(ctx context.Context) (*Standings, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	seasons, err := s.store.ListSeasons(ctx)
	if err != nil {
		return nil, err
	}
	if len(seasons) == 0 {
		return &Standings{}, nil
	}
	season := seasons[0]
	for _, candidate := range seasons {
		if candidate.GamesPlayed > 0 {
			season = candidate
			break
		}
	}
	return s.seasonStandings(ctx, &season)
}

func (s *StandingsService) SeasonStandings(ctx context.Context, seasonID int64) (*Standings, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	season, err := s.store.GetSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	return s.seasonStandings(ctx, season)
}

func (s *StandingsService) seasonStandings(ctx context.Context, season *domain.Season) (*Standings, error) {
	rows, err := s.store.ListSeasonPlayers(ctx, season.ID)
	if err != nil {
		return nil, err
	}

	entries := make([]Standing, len(rows))
	for i, sp := range rows {
		entries[i] = Standing{PlayerID: sp.PlayerID, Name: sp.Name, Aggregate: sp.Aggregate}
	}

	s.logger.Debug().Int64("season_id", season.ID).Int("rows", len(rows)).Msg("season standings loaded")
	return &Standings{Season: season, Games: season.GamesPlayed, Entries: rank(entries)}, nil
}

func (s *StandingsService) LifetimeStandings(ctx context.Context) (*Standings, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	games, err := s.store.CountGames(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Standing, len(players))
	for i, p := range players {
		entries[i] = Standing{PlayerID: p.ID, Name: p.Name, Aggregate: p.Aggregate}
	}
	return &Standings{Games: games, Entries: rank(entries)}, nil
}

// Overview loads the current and lifetime tables concurrently.
func (s *StandingsService) Overview(ctx context.Context) (*Overview, error) {
	g, gCtx := errgroup.WithContext(ctx)
	var out Overview

	g.Go(func() error {
		var err error
		out.Current, err = s.CurrentStandings(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		out.Lifetime, err = s.LifetimeStandings(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to load overview")
		return nil, fmt.Errorf("failed to load overview: %w", err)
	}
	return &out, nil
}

// GameLog lists every season newest first, each with its games newest first.
func (s *StandingsService) GameLog(ctx context.Context) ([]SeasonLog, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	seasons, err := s.store.ListSeasons(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.playerNames(ctx)
	if err != nil {
		return nil, err
	}

	log := make([]SeasonLog, 0, len(seasons))
	for _, season := range seasons {
		games, err := s.store.ListGames(ctx, season.ID)
		if err != nil {
			return nil, err
		}
		stats, err := s.store.ListSeasonStats(ctx, season.ID)
		if err != nil {
			return nil, err
		}
		byGame := make(map[int64][]domain.PlayerMatchStat, len(games))
		for _, stat := range stats {
			byGame[stat.GameID] = append(byGame[stat.GameID], stat)
		}

		entry := SeasonLog{Season: season, Games: make([]GameSummary, 0, len(games))}
		for i := len(games) - 1; i >= 0; i-- {
			entry.Games = append(entry.Games, summarize(games[i], byGame[games[i].ID], names))
		}
		log = append(log, entry)
	}
	return log, nil
}

func summarize(g domain.Game, stats []domain.PlayerMatchStat, names map[int64]string) GameSummary {
	sum := GameSummary{Game: g, Winners: []string{}}
	var total float64
	for _, stat := range stats {
		total += stat.MatchRating
		if stat.Won {
			sum.Winners = append(sum.Winners, names[stat.PlayerID])
		}
	}
	sum.AverageRating = rating.Round(total/constants.MatchSize, 1)
	return sum
}

func (s *StandingsService) Game(ctx context.Context, id int64) (*GameDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	game, err := s.store.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.store.ListGameStats(ctx, id)
	if err != nil {
		return nil, err
	}
	names, err := s.playerNames(ctx)
	if err != nil {
		return nil, err
	}

	detail := &GameDetail{Game: *game, Stats: make([]StatLine, len(stats))}
	for i, stat := range stats {
		detail.Stats[i] = StatLine{PlayerMatchStat: stat, Name: names[stat.PlayerID]}
	}
	// winners first, then by rating
	sort.SliceStable(detail.Stats, func(i, j int) bool {
		a, b := detail.Stats[i], detail.Stats[j]
		if a.Won != b.Won {
			return a.Won
		}
		return a.MatchRating > b.MatchRating
	})
	return detail, nil
}

func (s *StandingsService) Player(ctx context.Context, id int64) (*PlayerDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	player, err := s.store.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &PlayerDetail{Player: *player, Tier: rating.TierFor(player.CompositeRating, player.Played)}

	season, err := s.store.LatestSeason(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return detail, nil
	}
	if err != nil {
		return nil, err
	}
	sp, err := s.store.GetSeasonPlayer(ctx, season.ID, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		detail.Season = sp
	}
	return detail, nil
}

func (s *StandingsService) Events(ctx context.Context, limit int) ([]domain.LedgerEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if limit <= 0 || limit > constants.EventListLimit {
		limit = constants.EventListLimit
	}
	return s.store.ListEvents(ctx, limit)
}

func (s *StandingsService) playerNames(ctx context.Context) (map[int64]string, error) {
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	return names, nil
}
