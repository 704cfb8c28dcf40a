package repository

import (
	"context"
	"fmt"

	"github.com/AshfaaqK/JLTV-rankngs/internal/db"
	"github.com/AshfaaqK/JLTV-rankngs/internal/domain"
)

func toSeason(s db.Season) domain.Season {
	return domain.Season{
		ID:          s.ID,
		GamesPlayed: int(s.GamesPlayed),
		PlayerCount: int(s.PlayerCount),
		State:       domain.SeasonState(s.State),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (s *store) LatestSeason(ctx context.Context) (*domain.Season, error) {
	row, err := s.q.GetLatestSeason(ctx)
	if err != nil {
		return nil, lookupErr(err, "season", "latest")
	}
	season := toSeason(row)
	return &season, nil
}

func (s *store) GetSeason(ctx context.Context, id int64) (*domain.Season, error) {
	row, err := s.q.GetSeason(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "season", id)
	}
	season := toSeason(row)
	return &season, nil
}

func (s *store) ListSeasons(ctx context.Context) ([]domain.Season, error) {
	rows, err := s.q.ListSeasons(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	result := make([]domain.Season, len(rows))
	for i, row := range rows {
		result[i] = toSeason(row)
	}
	return result, nil
}

func (s *store) CreateSeason(ctx context.Context, season *domain.Season) error {
	ts := now()
	id, err := s.q.CreateSeason(ctx, db.CreateSeasonParams{
		GamesPlayed: int64(season.GamesPlayed),
		PlayerCount: int64(season.PlayerCount),
		State:       string(season.State),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	})
	if err != nil {
		return fmt.Errorf("failed to create season: %w", err)
	}
	season.ID = id
	season.CreatedAt = ts
	season.UpdatedAt = ts
	return nil
}

func (s *store) UpdateSeason(ctx context.Context, season *domain.Season) error {
	season.UpdatedAt = now()
	err := s.q.UpdateSeason(ctx, db.UpdateSeasonParams{
		GamesPlayed: int64(season.GamesPlayed),
		PlayerCount: int64(season.PlayerCount),
		State:       string(season.State),
		UpdatedAt:   season.UpdatedAt,
		ID:          season.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to update season %d: %w", season.ID, err)
	}
	return nil
}

// DeleteSeason removes the season row. Its games, stats and season players
// go with it through the foreign key cascade.
func (s *store) DeleteSeason(ctx context.Context, id int64) error {
	if err := s.q.DeleteSeason(ctx, id); err != nil {
		return fmt.Errorf("failed to delete season %d: %w", id, err)
	}
	return nil
}
