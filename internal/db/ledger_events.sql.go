package db

import (
	"context"
	"database/sql"
	"time"
)

const createLedgerEvent = `-- name: CreateLedgerEvent :exec
INSERT INTO ledger_events (id, kind, season_id, game_id, detail, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`

type CreateLedgerEventParams struct {
	ID        string
	Kind      string
	SeasonID  int64
	GameID    sql.NullInt64
	Detail    string
	CreatedAt time.Time
}

func (q *Queries) CreateLedgerEvent(ctx context.Context, arg CreateLedgerEventParams) error {
	_, err := q.db.ExecContext(ctx, createLedgerEvent,
		arg.ID,
		arg.Kind,
		arg.SeasonID,
		arg.GameID,
		arg.Detail,
		arg.CreatedAt,
	)
	return err
}

const listLedgerEvents = `-- name: ListLedgerEvents :many
SELECT id, kind, season_id, game_id, detail, created_at
FROM ledger_events
ORDER BY created_at DESC, rowid DESC
LIMIT ?
`

func (q *Queries) ListLedgerEvents(ctx context.Context, limit int64) ([]LedgerEvent, error) {
	rows, err := q.db.QueryContext(ctx, listLedgerEvents, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LedgerEvent
	for rows.Next() {
		var i LedgerEvent
		if err := rows.Scan(
			&i.ID,
			&i.Kind,
			&i.SeasonID,
			&i.GameID,
			&i.Detail,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
