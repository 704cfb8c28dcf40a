package repository

import (
	"context"
	"fmt"

	"github.com/AshfaaqK/JLTV-rankngs/internal/db"
	"github.com/AshfaaqK/JLTV-rankngs/internal/domain"
)

func toGame(g db.Game) domain.Game {
	return domain.Game{
		ID:        g.ID,
		SeasonID:  g.SeasonID,
		MapName:   g.MapName,
		Rounds:    int(g.Rounds),
		CreatedAt: g.CreatedAt,
	}
}

func toGames(rows []db.Game) []domain.Game {
	result := make([]domain.Game, len(rows))
	for i, row := range rows {
		result[i] = toGame(row)
	}
	return result
}

func toStats(rows []db.PlayerMatchStat) []domain.PlayerMatchStat {
	result := make([]domain.PlayerMatchStat, len(rows))
	for i, s := range rows {
		result[i] = domain.PlayerMatchStat{
			ID:          s.ID,
			GameID:      s.GameID,
			SeasonID:    s.SeasonID,
			PlayerID:    s.PlayerID,
			Kills:       int(s.Kills),
			KPR:         s.Kpr,
			ADR:         int(s.Adr),
			Won:         s.Won,
			MatchRating: s.MatchRating,
			Momentum:    s.Momentum,
			CreatedAt:   s.CreatedAt,
			UpdatedAt:   s.UpdatedAt,
		}
	}
	return result
}

func (s *store) GetGame(ctx context.Context, id int64) (*domain.Game, error) {
	row, err := s.q.GetGame(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "game", id)
	}
	g := toGame(row)
	return &g, nil
}

func (s *store) ListGames(ctx context.Context, seasonID int64) ([]domain.Game, error) {
	rows, err := s.q.ListGamesBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games of season %d: %w", seasonID, err)
	}
	return toGames(rows), nil
}

func (s *store) ListAllGames(ctx context.Context) ([]domain.Game, error) {
	rows, err := s.q.ListAllGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return toGames(rows), nil
}

func (s *store) CountGames(ctx context.Context) (int, error) {
	n, err := s.q.CountGames(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return int(n), nil
}

func (s *store) CreateGame(ctx context.Context, g *domain.Game) error {
	g.CreatedAt = now()
	id, err := s.q.CreateGame(ctx, db.CreateGameParams{
		SeasonID:  g.SeasonID,
		MapName:   g.MapName,
		Rounds:    int64(g.Rounds),
		CreatedAt: g.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	g.ID = id
	return nil
}

func (s *store) DeleteGame(ctx context.Context, id int64) error {
	if err := s.q.DeleteGame(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game %d: %w", id, err)
	}
	return nil
}

func (s *store) ListSeasonStats(ctx context.Context, seasonID int64) ([]domain.PlayerMatchStat, error) {
	rows, err := s.q.ListPlayerMatchStatsBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stats of season %d: %w", seasonID, err)
	}
	return toStats(rows), nil
}

func (s *store) ListGameStats(ctx context.Context, gameID int64) ([]domain.PlayerMatchStat, error) {
	rows, err := s.q.ListPlayerMatchStatsByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stats of game %d: %w", gameID, err)
	}
	return toStats(rows), nil
}

func (s *store) ListClosedSeasonStats(ctx context.Context, playerID int64) ([]domain.PlayerMatchStat, error) {
	rows, err := s.q.ListClosedSeasonStatsByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lifetime stats of player %d: %w", playerID, err)
	}
	return toStats(rows), nil
}

func (s *store) CreateMatchStat(ctx context.Context, stat *domain.PlayerMatchStat) error {
	ts := now()
	id, err := s.q.CreatePlayerMatchStat(ctx, db.CreatePlayerMatchStatParams{
		GameID:      stat.GameID,
		SeasonID:    stat.SeasonID,
		PlayerID:    stat.PlayerID,
		Kills:       int64(stat.Kills),
		Kpr:         stat.KPR,
		Adr:         int64(stat.ADR),
		Won:         stat.Won,
		MatchRating: stat.MatchRating,
		Momentum:    stat.Momentum,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	})
	if err != nil {
		return fmt.Errorf("failed to create stat for player %d in game %d: %w", stat.PlayerID, stat.GameID, err)
	}
	stat.ID = id
	stat.CreatedAt = ts
	stat.UpdatedAt = ts
	return nil
}

// UpdateMatchStat persists the derived columns. Kills, damage and the win
// flag are fixed at insert.
func (s *store) UpdateMatchStat(ctx context.Context, stat *domain.PlayerMatchStat) error {
	stat.UpdatedAt = now()
	err := s.q.UpdatePlayerMatchStatRating(ctx, db.UpdatePlayerMatchStatRatingParams{
		MatchRating: stat.MatchRating,
		Momentum:    stat.Momentum,
		UpdatedAt:   stat.UpdatedAt,
		ID:          stat.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to update stat %d: %w", stat.ID, err)
	}
	return nil
}

func (s *store) DeleteGameStats(ctx context.Context, gameID int64) error {
	if err := s.q.DeletePlayerMatchStatsByGame(ctx, gameID); err != nil {
		return fmt.Errorf("failed to delete stats of game %d: %w", gameID, err)
	}
	return nil
}
