package repository

import (
	"context"
	"fmt"

	"github.com/AshfaaqK/JLTV-rankngs/internal/db"
	"github.com/AshfaaqK/JLTV-rankngs/internal/domain"
)

func toPlayer(p db.Player) domain.Player {
	return domain.Player{
		ID:         p.ID,
		Name:       p.Name,
		SeedRating: p.SeedRating,
		Aggregate: domain.Aggregate{
			Played:             int(p.Played),
			TotalWins:          int(p.TotalWins),
			TotalKills:         int(p.TotalKills),
			TotalRounds:        int(p.TotalRounds),
			AvgKills:           p.AvgKills,
			KPR:                p.Kpr,
			AvgDamage:          int(p.AvgDamage),
			Winrate:            int(p.Winrate),
			Inconsistency:      floatPtr(p.Inconsistency),
			TeamBalance:        int(p.TeamBalance),
			CompositeRating:    p.CompositeRating,
			BaselineRating:     p.BaselineRating,
			AverageMatchRating: p.AverageMatchRating,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toSeasonPlayer(sp db.SeasonPlayerRow) domain.SeasonPlayer {
	return domain.SeasonPlayer{
		ID:         sp.ID,
		SeasonID:   sp.SeasonID,
		PlayerID:   sp.PlayerID,
		Name:       sp.Name,
		SeedRating: sp.SeedRating,
		Aggregate: domain.Aggregate{
			Played:             int(sp.Played),
			TotalWins:          int(sp.TotalWins),
			TotalKills:         int(sp.TotalKills),
			TotalRounds:        int(sp.TotalRounds),
			AvgKills:           sp.AvgKills,
			KPR:                sp.Kpr,
			AvgDamage:          int(sp.AvgDamage),
			Winrate:            int(sp.Winrate),
			Inconsistency:      floatPtr(sp.Inconsistency),
			TeamBalance:        int(sp.TeamBalance),
			CompositeRating:    sp.CompositeRating,
			BaselineRating:     sp.BaselineRating,
			AverageMatchRating: sp.AverageMatchRating,
		},
		CreatedAt: sp.CreatedAt,
		UpdatedAt: sp.UpdatedAt,
	}
}

func (s *store) GetPlayer(ctx context.Context, id int64) (*domain.Player, error) {
	row, err := s.q.GetPlayer(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "player", id)
	}
	p := toPlayer(row)
	return &p, nil
}

func (s *store) GetPlayerByName(ctx context.Context, name string) (*domain.Player, error) {
	row, err := s.q.GetPlayerByName(ctx, name)
	if err != nil {
		return nil, lookupErr(err, "player", name)
	}
	p := toPlayer(row)
	return &p, nil
}

func (s *store) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	rows, err := s.q.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	result := make([]domain.Player, len(rows))
	for i, row := range rows {
		result[i] = toPlayer(row)
	}
	return result, nil
}

func (s *store) CreatePlayer(ctx context.Context, p *domain.Player) error {
	ts := now()
	id, err := s.q.CreatePlayer(ctx, db.CreatePlayerParams{
		Name:           p.Name,
		SeedRating:     p.SeedRating,
		BaselineRating: p.BaselineRating,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	})
	if err != nil {
		return fmt.Errorf("failed to create player %s: %w", p.Name, err)
	}
	p.ID = id
	p.CreatedAt = ts
	p.UpdatedAt = ts
	return nil
}

func (s *store) UpdatePlayer(ctx context.Context, p *domain.Player) error {
	p.UpdatedAt = now()
	err := s.q.UpdatePlayer(ctx, db.UpdatePlayerParams{
		AggregateParams: aggregateParams(p.Aggregate),
		UpdatedAt:       p.UpdatedAt,
		ID:              p.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to update player %d: %w", p.ID, err)
	}
	return nil
}

func (s *store) ListSeasonPlayers(ctx context.Context, seasonID int64) ([]domain.SeasonPlayer, error) {
	rows, err := s.q.ListSeasonPlayers(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players of season %d: %w", seasonID, err)
	}
	result := make([]domain.SeasonPlayer, len(rows))
	for i, row := range rows {
		result[i] = toSeasonPlayer(row)
	}
	return result, nil
}

func (s *store) GetSeasonPlayer(ctx context.Context, seasonID, playerID int64) (*domain.SeasonPlayer, error) {
	row, err := s.q.GetSeasonPlayer(ctx, db.GetSeasonPlayerParams{
		SeasonID: seasonID,
		PlayerID: playerID,
	})
	if err != nil {
		return nil, lookupErr(err, "season player", fmt.Sprintf("%d/%d", seasonID, playerID))
	}
	sp := toSeasonPlayer(row)
	return &sp, nil
}

// CreateSeasonPlayer inserts a row with zero counters. Only the seed and
// baseline ratings are taken from sp.
func (s *store) CreateSeasonPlayer(ctx context.Context, sp *domain.SeasonPlayer) error {
	ts := now()
	id, err := s.q.CreateSeasonPlayer(ctx, db.CreateSeasonPlayerParams{
		SeasonID:       sp.SeasonID,
		PlayerID:       sp.PlayerID,
		SeedRating:     sp.SeedRating,
		BaselineRating: sp.BaselineRating,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	})
	if err != nil {
		return fmt.Errorf("failed to create season player %d/%d: %w", sp.SeasonID, sp.PlayerID, err)
	}
	sp.ID = id
	sp.CreatedAt = ts
	sp.UpdatedAt = ts
	return nil
}

func (s *store) UpdateSeasonPlayer(ctx context.Context, sp *domain.SeasonPlayer) error {
	sp.UpdatedAt = now()
	err := s.q.UpdateSeasonPlayer(ctx, db.UpdateSeasonPlayerParams{
		AggregateParams: aggregateParams(sp.Aggregate),
		UpdatedAt:       sp.UpdatedAt,
		ID:              sp.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to update season player %d: %w", sp.ID, err)
	}
	return nil
}

func (s *store) DeleteSeasonPlayers(ctx context.Context, seasonID int64) error {
	if err := s.q.DeleteSeasonPlayers(ctx, seasonID); err != nil {
		return fmt.Errorf("failed to delete players of season %d: %w", seasonID, err)
	}
	return nil
}
