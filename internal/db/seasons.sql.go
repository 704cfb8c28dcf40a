package db

import (
	"context"
	"time"
)

const createSeason = `-- name: CreateSeason :one
INSERT INTO seasons (games_played, player_count, state, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id
`

type CreateSeasonParams struct {
	GamesPlayed int64
	PlayerCount int64
	State       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreateSeason(ctx context.Context, arg CreateSeasonParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createSeason,
		arg.GamesPlayed,
		arg.PlayerCount,
		arg.State,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const deleteSeason = `-- name: DeleteSeason :exec
DELETE FROM seasons WHERE id = ?
`

func (q *Queries) DeleteSeason(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteSeason, id)
	return err
}

const getLatestSeason = `-- name: GetLatestSeason :one
SELECT id, games_played, player_count, state, created_at, updated_at
FROM seasons
ORDER BY id DESC
LIMIT 1
`

func (q *Queries) GetLatestSeason(ctx context.Context) (Season, error) {
	row := q.db.QueryRowContext(ctx, getLatestSeason)
	var i Season
	err := row.Scan(
		&i.ID,
		&i.GamesPlayed,
		&i.PlayerCount,
		&i.State,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getSeason = `-- name: GetSeason :one
SELECT id, games_played, player_count, state, created_at, updated_at
FROM seasons
WHERE id = ?
`

func (q *Queries) GetSeason(ctx context.Context, id int64) (Season, error) {
	row := q.db.QueryRowContext(ctx, getSeason, id)
	var i Season
	err := row.Scan(
		&i.ID,
		&i.GamesPlayed,
		&i.PlayerCount,
		&i.State,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listSeasons = `-- name: ListSeasons :many
SELECT id, games_played, player_count, state, created_at, updated_at
FROM seasons
ORDER BY id DESC
`

func (q *Queries) ListSeasons(ctx context.Context) ([]Season, error) {
	rows, err := q.db.QueryContext(ctx, listSeasons)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Season
	for rows.Next() {
		var i Season
		if err := rows.Scan(
			&i.ID,
			&i.GamesPlayed,
			&i.PlayerCount,
			&i.State,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const updateSeason = `-- name: UpdateSeason :exec
UPDATE seasons
SET games_played = ?, player_count = ?, state = ?, updated_at = ?
WHERE id = ?
`

type UpdateSeasonParams struct {
	GamesPlayed int64
	PlayerCount int64
	State       string
	UpdatedAt   time.Time
	ID          int64
}

func (q *Queries) UpdateSeason(ctx context.Context, arg UpdateSeasonParams) error {
	_, err := q.db.ExecContext(ctx, updateSeason,
		arg.GamesPlayed,
		arg.PlayerCount,
		arg.State,
		arg.UpdatedAt,
		arg.ID,
	)
	return err
}
