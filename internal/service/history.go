package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/AshfaaqK/JLTV-rankngs/internal/constants"
	"github.com/AshfaaqK/JLTV-rankngs/internal/domain"
	"github.com/AshfaaqK/JLTV-rankngs/internal/ledger"
	"github.com/AshfaaqK/JLTV-rankngs/internal/metrics"
	"github.com/AshfaaqK/JLTV-rankngs/internal/rating"
	"github.com/AshfaaqK/JLTV-rankngs/internal/replay"

	"github.com/rs/zerolog"
)

// HistoryService owns every write to the ledger. Mutations are serialized by
// mu and each one runs in a single ledger transaction.
type HistoryService struct {
	mu      sync.Mutex
	store   ledger.Store
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewHistoryService(store ledger.Store, m *metrics.Metrics, logger zerolog.Logger) *HistoryService {
	return &HistoryService{store: store, metrics: m, logger: logger}
}

type Submission struct {
	MapName      string
	Rounds       int
	Participants []domain.Participant
}

func (s Submission) Validate() error {
	if strings.TrimSpace(s.MapName) == "" {
		return fmt.Errorf("%w: map name is required", domain.ErrValidation)
	}
	if !slices.Contains(constants.MapPool, s.MapName) {
		return fmt.Errorf("%w: unknown map %q", domain.ErrValidation, s.MapName)
	}
	if s.Rounds <= 0 {
		return fmt.Errorf("%w: rounds must be positive, got %d", domain.ErrValidation, s.Rounds)
	}
	if len(s.Participants) != constants.MatchSize {
		return fmt.Errorf("%w: %d participants, want %d", domain.ErrValidation, len(s.Participants), constants.MatchSize)
	}

	seen := make(map[int64]bool, len(s.Participants))
	winners := 0
	for _, p := range s.Participants {
		if seen[p.PlayerID] {
			return fmt.Errorf("%w: player %d listed twice", domain.ErrValidation, p.PlayerID)
		}
		seen[p.PlayerID] = true
		if p.Kills < 0 || p.Damage < 0 {
			return fmt.Errorf("%w: player %d has negative kills or damage", domain.ErrValidation, p.PlayerID)
		}
		if p.Won {
			winners++
		}
	}
	if winners != constants.TeamSize {
		return fmt.Errorf("%w: %d winners, want %d", domain.ErrValidation, winners, constants.TeamSize)
	}
	return nil
}

// Result is what a mutation hands back for display: the affected season, the
// game, and the participants' rows as they stand after commit.
type Result struct {
	Season        *domain.Season
	Game          domain.Game
	Stats         []domain.PlayerMatchStat
	SeasonPlayers []domain.SeasonPlayer
	Players       []domain.Player

	// RolledOver is set when the game closed its season; NextSeason is then
	// the season opened in its place.
	RolledOver bool
	NextSeason *domain.Season
	// SeasonReopened is set when deleting the game undid a rollover.
	SeasonReopened bool
	// SeasonRemoved is set when deleting the game emptied its season.
	SeasonRemoved bool
}

func (s *HistoryService) SubmitMatch(ctx context.Context, sub Submission) (*Result, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ctx = context.WithoutCancel(ctx)

	var res *Result
	err := s.store.Atomically(ctx, func(tx ledger.Tx) error {
		var err error
		res, err = s.submit(ctx, tx, sub)
		return err
	})
	s.metrics.Mutation("submit", err)
	if err != nil {
		s.logger.Error().Err(err).Str("map", sub.MapName).Msg("match submission failed")
		return nil, err
	}
	if res.RolledOver {
		s.metrics.Rollover()
	}

	s.logger.Info().
		Int64("game_id", res.Game.ID).
		Int64("season_id", res.Season.ID).
		Int("games_played", res.Season.GamesPlayed).
		Bool("rolled_over", res.RolledOver).
		Msg("match submitted")
	return res, nil
}

func (s *HistoryService) submit(ctx context.Context, tx ledger.Tx, sub Submission) (*Result, error) {
	season, err := s.currentSeason(ctx, tx)
	if err != nil {
		return nil, err
	}

	rows := make(map[int64]*domain.SeasonPlayer, len(sub.Participants))
	for _, p := range sub.Participants {
		sp, err := s.seasonPlayer(ctx, tx, season.ID, p.PlayerID)
		if err != nil {
			return nil, err
		}
		rows[p.PlayerID] = sp
	}

	game := &domain.Game{SeasonID: season.ID, MapName: sub.MapName, Rounds: sub.Rounds}
	stats := make([]*domain.PlayerMatchStat, len(sub.Participants))
	for i, p := range sub.Participants {
		stats[i] = &domain.PlayerMatchStat{
			SeasonID: season.ID,
			PlayerID: p.PlayerID,
			Kills:    p.Kills,
			KPR:      rating.MatchKPR(p.Kills, sub.Rounds),
			ADR:      p.Damage,
			Won:      p.Won,
		}
	}

	winAvg, loseAvg, err := replay.TeamAverages(stats, rows)
	if err != nil {
		return nil, err
	}

	if err := tx.CreateGame(ctx, game); err != nil {
		return nil, err
	}
	for _, stat := range stats {
		sp := rows[stat.PlayerID]
		own, opp := winAvg, loseAvg
		if !stat.Won {
			own, opp = loseAvg, winAvg
		}
		stat.GameID = game.ID
		stat.MatchRating = rating.MatchRating(stat.KPR, sp.Winrate, stat.ADR, opp, own)
		stat.Momentum = rating.Momentum(stat.KPR, stat.Won)
		if err := tx.CreateMatchStat(ctx, stat); err != nil {
			return nil, err
		}
		rating.MatchCounters(stat, game.Rounds).AddTo(&sp.Aggregate)
	}

	if err := s.deriveSeasonRates(ctx, tx, season.ID, rows); err != nil {
		return nil, err
	}

	season.GamesPlayed++
	if err := s.persistSeason(ctx, tx, season); err != nil {
		return nil, err
	}
	if err := s.replaySeason(ctx, tx, season.ID); err != nil {
		return nil, err
	}

	gameID := game.ID
	detail := fmt.Sprintf("%s, %d rounds", game.MapName, game.Rounds)
	if err := s.event(ctx, tx, domain.EventGameSubmitted, season.ID, &gameID, detail); err != nil {
		return nil, err
	}

	res := &Result{Game: *game}
	if season.Full() {
		next, err := s.rollover(ctx, tx, season)
		if err != nil {
			return nil, err
		}
		res.RolledOver = true
		res.NextSeason = next
	}

	if err := s.collect(ctx, tx, res, season, participantIDs(sub.Participants)); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *HistoryService) DeleteMatch(ctx context.Context, gameID int64) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx = context.WithoutCancel(ctx)

	var res *Result
	err := s.store.Atomically(ctx, func(tx ledger.Tx) error {
		var err error
		res, err = s.delete(ctx, tx, gameID)
		return err
	})
	s.metrics.Mutation("delete", err)
	if err != nil {
		s.logger.Error().Err(err).Int64("game_id", gameID).Msg("match deletion failed")
		return nil, err
	}
	if res.SeasonReopened {
		s.metrics.Rollback()
	}

	s.logger.Info().
		Int64("game_id", gameID).
		Int64("season_id", res.Game.SeasonID).
		Bool("season_removed", res.SeasonRemoved).
		Msg("match deleted")
	return res, nil
}

func (s *HistoryService) delete(ctx context.Context, tx ledger.Tx, gameID int64) (*Result, error) {
	game, err := tx.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	season, err := tx.GetSeason(ctx, game.SeasonID)
	if err != nil {
		return nil, err
	}

	follower, err := s.deletableFrom(ctx, tx, season)
	if err != nil {
		return nil, err
	}

	reopened := season.State == domain.SeasonClosed
	if reopened {
		if err := s.reverseRollover(ctx, tx, season, follower); err != nil {
			return nil, err
		}
	} else if follower != nil {
		return nil, fmt.Errorf("%w: season %d is %s but season %d follows it", domain.ErrConsistency, season.ID, season.State, follower.ID)
	}

	stats, err := tx.ListGameStats(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	if len(stats) != constants.MatchSize {
		return nil, fmt.Errorf("%w: game %d has %d stats", domain.ErrConsistency, game.ID, len(stats))
	}
	ids := make([]int64, len(stats))
	rows := make(map[int64]*domain.SeasonPlayer, len(stats))
	for i := range stats {
		sp, err := tx.GetSeasonPlayer(ctx, season.ID, stats[i].PlayerID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrConsistency, err)
		}
		rating.MatchCounters(&stats[i], game.Rounds).SubtractFrom(&sp.Aggregate)
		rows[sp.PlayerID] = sp
		ids[i] = sp.PlayerID
	}

	if err := tx.DeleteGameStats(ctx, game.ID); err != nil {
		return nil, err
	}
	if err := tx.DeleteGame(ctx, game.ID); err != nil {
		return nil, err
	}

	res := &Result{Game: *game, SeasonReopened: reopened}
	gid := game.ID
	if err := s.event(ctx, tx, domain.EventGameDeleted, season.ID, &gid, fmt.Sprintf("%s, %d rounds", game.MapName, game.Rounds)); err != nil {
		return nil, err
	}

	if season.GamesPlayed <= 1 {
		if err := s.removeSeason(ctx, tx, season.ID); err != nil {
			return nil, err
		}
		res.SeasonRemoved = true
		if err := s.collect(ctx, tx, res, nil, ids); err != nil {
			return nil, err
		}
		return res, nil
	}

	if err := s.deriveSeasonRates(ctx, tx, season.ID, rows); err != nil {
		return nil, err
	}
	season.GamesPlayed--
	if err := s.persistSeason(ctx, tx, season); err != nil {
		return nil, err
	}
	if err := s.replaySeason(ctx, tx, season.ID); err != nil {
		return nil, err
	}

	if err := s.collect(ctx, tx, res, season, ids); err != nil {
		return nil, err
	}
	return res, nil
}

// deletableFrom checks that no later season has games built on top of
// season. It returns the empty season that follows a closed one, if any.
func (s *HistoryService) deletableFrom(ctx context.Context, tx ledger.Tx, season *domain.Season) (*domain.Season, error) {
	seasons, err := tx.ListSeasons(ctx)
	if err != nil {
		return nil, err
	}
	if len(seasons) > 0 && seasons[0].ID == season.ID {
		return nil, nil
	}
	if len(seasons) > 1 && seasons[1].ID == season.ID && seasons[0].GamesPlayed == 0 {
		follower := seasons[0]
		return &follower, nil
	}
	return nil, fmt.Errorf("%w: %w: season %d has later games", domain.ErrValidation, domain.ErrSeasonSealed, season.ID)
}

func (s *HistoryService) RebuildSeason(ctx context.Context) (*domain.Season, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx = context.WithoutCancel(ctx)

	var season *domain.Season
	err := s.store.Atomically(ctx, func(tx ledger.Tx) error {
		var err error
		season, err = s.rebuild(ctx, tx)
		return err
	})
	s.metrics.Mutation("rebuild", err)
	if err != nil {
		s.logger.Error().Err(err).Msg("season rebuild failed")
		return nil, err
	}

	s.logger.Info().Int64("season_id", season.ID).Int("games_played", season.GamesPlayed).Msg("season rebuilt")
	return season, nil
}

// rebuild recomputes the latest season from its stats alone: counters,
// rates, then a full replay.
func (s *HistoryService) rebuild(ctx context.Context, tx ledger.Tx) (*domain.Season, error) {
	season, err := tx.LatestSeason(ctx)
	if err != nil {
		return nil, err
	}
	games, err := tx.ListGames(ctx, season.ID)
	if err != nil {
		return nil, err
	}
	stats, err := tx.ListSeasonStats(ctx, season.ID)
	if err != nil {
		return nil, err
	}
	players, err := tx.ListSeasonPlayers(ctx, season.ID)
	if err != nil {
		return nil, err
	}

	rounds := make(map[int64]int, len(games))
	for _, g := range games {
		rounds[g.ID] = g.Rounds
	}
	rows := make(map[int64]*domain.SeasonPlayer, len(players))
	for i := range players {
		sp := &players[i]
		sp.Played, sp.TotalWins, sp.TotalKills, sp.TotalRounds = 0, 0, 0, 0
		rows[sp.PlayerID] = sp
	}
	for i := range stats {
		sp, ok := rows[stats[i].PlayerID]
		if !ok {
			return nil, fmt.Errorf("%w: stat %d has no season row", domain.ErrConsistency, stats[i].ID)
		}
		rating.MatchCounters(&stats[i], rounds[stats[i].GameID]).AddTo(&sp.Aggregate)
	}

	if err := s.deriveSeasonRates(ctx, tx, season.ID, rows); err != nil {
		return nil, err
	}
	season.GamesPlayed = len(games)
	if err := s.persistSeason(ctx, tx, season); err != nil {
		return nil, err
	}
	if err := s.replaySeason(ctx, tx, season.ID); err != nil {
		return nil, err
	}

	if err := s.event(ctx, tx, domain.EventSeasonRebuilt, season.ID, nil, fmt.Sprintf("%d games", season.GamesPlayed)); err != nil {
		return nil, err
	}
	return season, nil
}

// AddPlayer registers a player. A zero seed rating falls back to the
// default. The player joins the open season straight away if there is one.
func (s *HistoryService) AddPlayer(ctx context.Context, name string, seed float64) (*domain.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: player name is required", domain.ErrValidation)
	}
	if seed < 0 {
		return nil, fmt.Errorf("%w: seed rating must not be negative", domain.ErrValidation)
	}
	if seed == 0 {
		seed = constants.DefaultSeedRating
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ctx = context.WithoutCancel(ctx)

	player := &domain.Player{Name: name, SeedRating: seed}
	player.BaselineRating = seed

	err := s.store.Atomically(ctx, func(tx ledger.Tx) error {
		if _, err := tx.GetPlayerByName(ctx, name); err == nil {
			return fmt.Errorf("%w: player %q already exists", domain.ErrValidation, name)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := tx.CreatePlayer(ctx, player); err != nil {
			return err
		}

		var seasonID int64
		season, err := tx.LatestSeason(ctx)
		switch {
		case errors.Is(err, domain.ErrNotFound):
		case err != nil:
			return err
		case season.AcceptsGames():
			seasonID = season.ID
			sp := &domain.SeasonPlayer{SeasonID: season.ID, PlayerID: player.ID, SeedRating: seed}
			sp.BaselineRating = seed
			if err := tx.CreateSeasonPlayer(ctx, sp); err != nil {
				return err
			}
		}
		return s.event(ctx, tx, domain.EventPlayerAdded, seasonID, nil, name)
	})
	s.metrics.Mutation("add_player", err)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to add player")
		return nil, err
	}

	s.logger.Info().Int64("player_id", player.ID).Str("name", name).Float64("seed_rating", seed).Msg("player added")
	return player, nil
}

// currentSeason returns the season the next game goes into, opening one when
// there is none or the latest is closed.
func (s *HistoryService) currentSeason(ctx context.Context, tx ledger.Tx) (*domain.Season, error) {
	latest, err := tx.LatestSeason(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		season := &domain.Season{State: domain.SeasonOpen}
		if err := tx.CreateSeason(ctx, season); err != nil {
			return nil, err
		}
		s.logger.Info().Int64("season_id", season.ID).Msg("first season opened")
		return season, s.event(ctx, tx, domain.EventSeasonOpened, season.ID, nil, "")
	}
	if err != nil {
		return nil, err
	}

	if latest.State == domain.SeasonClosed {
		return s.openNext(ctx, tx, latest)
	}
	if !latest.AcceptsGames() {
		return nil, fmt.Errorf("%w: season %d is %s with %d games", domain.ErrConsistency, latest.ID, latest.State, latest.GamesPlayed)
	}
	return latest, nil
}

// seasonPlayer returns the participant's season row, creating it from the
// player's current baseline the first time they play this season.
func (s *HistoryService) seasonPlayer(ctx context.Context, tx ledger.Tx, seasonID, playerID int64) (*domain.SeasonPlayer, error) {
	sp, err := tx.GetSeasonPlayer(ctx, seasonID, playerID)
	if err == nil {
		return sp, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	player, err := tx.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	sp = &domain.SeasonPlayer{
		SeasonID:   seasonID,
		PlayerID:   playerID,
		Name:       player.Name,
		SeedRating: player.BaselineRating,
	}
	sp.BaselineRating = player.BaselineRating
	if err := tx.CreateSeasonPlayer(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

// openNext opens the season after closed. Every row of the closed season is
// carried over with zero counters and its baseline as the new seed.
func (s *HistoryService) openNext(ctx context.Context, tx ledger.Tx, closed *domain.Season) (*domain.Season, error) {
	carried, err := tx.ListSeasonPlayers(ctx, closed.ID)
	if err != nil {
		return nil, err
	}

	next := &domain.Season{State: domain.SeasonOpen}
	if err := tx.CreateSeason(ctx, next); err != nil {
		return nil, err
	}
	for _, prev := range carried {
		sp := &domain.SeasonPlayer{SeasonID: next.ID, PlayerID: prev.PlayerID, SeedRating: prev.BaselineRating}
		sp.BaselineRating = prev.BaselineRating
		if err := tx.CreateSeasonPlayer(ctx, sp); err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Int64("season_id", next.ID).
		Int64("previous_season_id", closed.ID).
		Int("carried_players", len(carried)).
		Msg("season opened")
	return next, s.event(ctx, tx, domain.EventSeasonOpened, next.ID, nil, fmt.Sprintf("follows season %d", closed.ID))
}

// rollover closes a full season: every season row that played is added into
// its player's lifetime totals, then the next season is opened.
func (s *HistoryService) rollover(ctx context.Context, tx ledger.Tx, season *domain.Season) (*domain.Season, error) {
	if err := season.Transition(domain.SeasonClosing); err != nil {
		return nil, err
	}
	if err := tx.UpdateSeason(ctx, season); err != nil {
		return nil, err
	}

	rows, err := tx.ListSeasonPlayers(ctx, season.ID)
	if err != nil {
		return nil, err
	}
	var touched []*domain.Player
	for i := range rows {
		sp := &rows[i]
		if sp.Played == 0 {
			continue
		}
		player, err := tx.GetPlayer(ctx, sp.PlayerID)
		if err != nil {
			return nil, err
		}
		rating.CountersOf(&sp.Aggregate).AddTo(&player.Aggregate)
		touched = append(touched, player)
	}

	// lifetime ratings read closed-season stats, so close before deriving
	if err := season.Transition(domain.SeasonClosed); err != nil {
		return nil, err
	}
	if err := tx.UpdateSeason(ctx, season); err != nil {
		return nil, err
	}
	for _, player := range touched {
		if err := s.deriveLifetime(ctx, tx, player); err != nil {
			return nil, err
		}
	}

	s.logger.Info().Int64("season_id", season.ID).Int("players", len(touched)).Msg("season closed")
	if err := s.event(ctx, tx, domain.EventSeasonClosed, season.ID, nil, fmt.Sprintf("%d players rolled up", len(touched))); err != nil {
		return nil, err
	}

	return s.openNext(ctx, tx, season)
}

// reverseRollover undoes rollover for a closed season about to lose a game:
// the empty follower goes away, the season reopens and its totals leave the
// lifetime rows.
func (s *HistoryService) reverseRollover(ctx context.Context, tx ledger.Tx, season, follower *domain.Season) error {
	if follower != nil {
		if err := s.removeSeason(ctx, tx, follower.ID); err != nil {
			return err
		}
	}

	rows, err := tx.ListSeasonPlayers(ctx, season.ID)
	if err != nil {
		return err
	}
	var touched []*domain.Player
	for i := range rows {
		sp := &rows[i]
		if sp.Played == 0 {
			continue
		}
		player, err := tx.GetPlayer(ctx, sp.PlayerID)
		if err != nil {
			return err
		}
		rating.CountersOf(&sp.Aggregate).SubtractFrom(&player.Aggregate)
		touched = append(touched, player)
	}

	if err := season.Transition(domain.SeasonOpen); err != nil {
		return err
	}
	if err := tx.UpdateSeason(ctx, season); err != nil {
		return err
	}
	for _, player := range touched {
		if err := s.deriveLifetime(ctx, tx, player); err != nil {
			return err
		}
	}

	s.logger.Info().Int64("season_id", season.ID).Int("players", len(touched)).Msg("season reopened")
	return s.event(ctx, tx, domain.EventSeasonReopened, season.ID, nil, fmt.Sprintf("%d players rolled back", len(touched)))
}

func (s *HistoryService) removeSeason(ctx context.Context, tx ledger.Tx, seasonID int64) error {
	if err := tx.DeleteSeasonPlayers(ctx, seasonID); err != nil {
		return err
	}
	if err := tx.DeleteSeason(ctx, seasonID); err != nil {
		return err
	}
	s.logger.Info().Int64("season_id", seasonID).Msg("season removed")
	return s.event(ctx, tx, domain.EventSeasonRemoved, seasonID, nil, "")
}

// deriveLifetime recomputes a player's lifetime fields from its counters and
// every match of every closed season.
func (s *HistoryService) deriveLifetime(ctx context.Context, tx ledger.Tx, player *domain.Player) error {
	stats, err := tx.ListClosedSeasonStats(ctx, player.ID)
	if err != nil {
		return err
	}
	scope := make([]*domain.PlayerMatchStat, len(stats))
	adrs := make([]int, len(stats))
	for i := range stats {
		scope[i] = &stats[i]
		adrs[i] = stats[i].ADR
	}

	rating.DeriveRates(&player.Aggregate, player.SeedRating, adrs)
	ratings, momenta := rating.Series(scope)
	rating.DeriveRatings(&player.Aggregate, ratings, momenta)
	return tx.UpdatePlayer(ctx, player)
}

// deriveSeasonRates recomputes the rate fields of the given season rows from
// their counters and persists them.
func (s *HistoryService) deriveSeasonRates(ctx context.Context, tx ledger.Tx, seasonID int64, rows map[int64]*domain.SeasonPlayer) error {
	stats, err := tx.ListSeasonStats(ctx, seasonID)
	if err != nil {
		return err
	}
	adrs := make(map[int64][]int, len(rows))
	for _, stat := range stats {
		adrs[stat.PlayerID] = append(adrs[stat.PlayerID], stat.ADR)
	}

	for _, id := range sortedKeys(rows) {
		sp := rows[id]
		rating.DeriveRates(&sp.Aggregate, sp.SeedRating, adrs[id])
		if err := tx.UpdateSeasonPlayer(ctx, sp); err != nil {
			return err
		}
	}
	return nil
}

// persistSeason refreshes the player count and stores the season.
func (s *HistoryService) persistSeason(ctx context.Context, tx ledger.Tx, season *domain.Season) error {
	rows, err := tx.ListSeasonPlayers(ctx, season.ID)
	if err != nil {
		return err
	}
	season.PlayerCount = 0
	for _, sp := range rows {
		if sp.Played > 0 {
			season.PlayerCount++
		}
	}
	return tx.UpdateSeason(ctx, season)
}

// replaySeason folds the season from its first game and writes back every
// stat and season row.
func (s *HistoryService) replaySeason(ctx context.Context, tx ledger.Tx, seasonID int64) error {
	start := time.Now()
	defer s.metrics.ObserveReplay(start)

	games, err := tx.ListGames(ctx, seasonID)
	if err != nil {
		return err
	}
	stats, err := tx.ListSeasonStats(ctx, seasonID)
	if err != nil {
		return err
	}
	players, err := tx.ListSeasonPlayers(ctx, seasonID)
	if err != nil {
		return err
	}

	rs, err := replay.NewSeason(seasonID, games, stats, players)
	if err != nil {
		return err
	}
	if err := replay.Fold(rs); err != nil {
		return err
	}

	for _, g := range rs.Games {
		for _, stat := range g.Stats {
			if err := tx.UpdateMatchStat(ctx, stat); err != nil {
				return err
			}
		}
	}
	for _, id := range sortedKeys(rs.Players) {
		if err := tx.UpdateSeasonPlayer(ctx, rs.Players[id]); err != nil {
			return err
		}
	}

	s.logger.Debug().
		Int64("season_id", seasonID).
		Int("games", len(rs.Games)).
		Dur("took", time.Since(start)).
		Msg("season replayed")
	return nil
}

// collect fills res with the post-mutation rows of the given players.
// season is nil when the mutation removed it.
func (s *HistoryService) collect(ctx context.Context, tx ledger.Tx, res *Result, season *domain.Season, playerIDs []int64) error {
	if season != nil {
		fresh, err := tx.GetSeason(ctx, season.ID)
		if err != nil {
			return err
		}
		res.Season = fresh

		if !res.SeasonRemoved {
			stats, err := tx.ListGameStats(ctx, res.Game.ID)
			if err != nil {
				return err
			}
			res.Stats = stats
		}
	}

	for _, id := range playerIDs {
		if season != nil {
			sp, err := tx.GetSeasonPlayer(ctx, season.ID, id)
			if err != nil {
				return err
			}
			res.SeasonPlayers = append(res.SeasonPlayers, *sp)
		}
		player, err := tx.GetPlayer(ctx, id)
		if err != nil {
			return err
		}
		res.Players = append(res.Players, *player)
	}
	return nil
}

func (s *HistoryService) event(ctx context.Context, tx ledger.Tx, kind domain.EventKind, seasonID int64, gameID *int64, detail string) error {
	return tx.AppendEvent(ctx, &domain.LedgerEvent{
		Kind:     kind,
		SeasonID: seasonID,
		GameID:   gameID,
		Detail:   detail,
	})
}

func participantIDs(ps []domain.Participant) []int64 {
	ids := make([]int64, len(ps))
	for i, p := range ps {
		ids[i] = p.PlayerID
	}
	return ids
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
