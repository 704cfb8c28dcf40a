package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AshfaaqK/JLTV-rankngs/internal/db"
	"github.com/AshfaaqK/JLTV-rankngs/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

func (s *store) AppendEvent(ctx context.Context, e *domain.LedgerEvent) error {
	if e.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
		e.ID = id
	}
	e.CreatedAt = now()

	var gameID sql.NullInt64
	if e.GameID != nil {
		gameID = sql.NullInt64{Int64: *e.GameID, Valid: true}
	}

	err := s.q.CreateLedgerEvent(ctx, db.CreateLedgerEventParams{
		ID:        e.ID,
		Kind:      string(e.Kind),
		SeasonID:  e.SeasonID,
		GameID:    gameID,
		Detail:    e.Detail,
		CreatedAt: e.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to append %s event: %w", e.Kind, err)
	}
	return nil
}

func (s *store) ListEvents(ctx context.Context, limit int) ([]domain.LedgerEvent, error) {
	rows, err := s.q.ListLedgerEvents(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	result := make([]domain.LedgerEvent, len(rows))
	for i, row := range rows {
		result[i] = domain.LedgerEvent{
			ID:        row.ID,
			Kind:      domain.EventKind(row.Kind),
			SeasonID:  row.SeasonID,
			Detail:    row.Detail,
			CreatedAt: row.CreatedAt,
		}
		if row.GameID.Valid {
			id := row.GameID.Int64
			result[i].GameID = &id
		}
	}
	return result, nil
}
