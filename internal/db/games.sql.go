package db

import (
	"context"
	"database/sql"
	"time"
)

func scanGames(rows *sql.Rows) ([]Game, error) {
	defer rows.Close()
	var items []Game
	for rows.Next() {
		var i Game
		if err := rows.Scan(
			&i.ID,
			&i.SeasonID,
			&i.MapName,
			&i.Rounds,
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

const countGames = `-- name: CountGames :one
SELECT COUNT(*) FROM games
`

func (q *Queries) CountGames(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countGames)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createGame = `-- name: CreateGame :one
INSERT INTO games (season_id, map_name, rounds, created_at)
VALUES (?, ?, ?, ?)
RETURNING id
`

type CreateGameParams struct {
	SeasonID  int64
	MapName   string
	Rounds    int64
	CreatedAt time.Time
}

func (q *Queries) CreateGame(ctx context.Context, arg CreateGameParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createGame,
		arg.SeasonID,
		arg.MapName,
		arg.Rounds,
		arg.CreatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const deleteGame = `-- name: DeleteGame :exec
DELETE FROM games WHERE id = ?
`

func (q *Queries) DeleteGame(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteGame, id)
	return err
}

const getGame = `-- name: GetGame :one
SELECT id, season_id, map_name, rounds, created_at
FROM games
WHERE id = ?
`

func (q *Queries) GetGame(ctx context.Context, id int64) (Game, error) {
	row := q.db.QueryRowContext(ctx, getGame, id)
	var i Game
	err := row.Scan(
		&i.ID,
		&i.SeasonID,
		&i.MapName,
		&i.Rounds,
		&i.CreatedAt,
	)
	return i, err
}

const listAllGames = `-- name: ListAllGames :many
SELECT id, season_id, map_name, rounds, created_at
FROM games
ORDER BY id DESC
`

func (q *Queries) ListAllGames(ctx context.Context) ([]Game, error) {
	rows, err := q.db.QueryContext(ctx, listAllGames)
	if err != nil {
		return nil, err
	}
	return scanGames(rows)
}

const listGamesBySeason = `-- name: ListGamesBySeason :many
SELECT id, season_id, map_name, rounds, created_at
FROM games
WHERE season_id = ?
ORDER BY id
`

func (q *Queries) ListGamesBySeason(ctx context.Context, seasonID int64) ([]Game, error) {
	rows, err := q.db.QueryContext(ctx, listGamesBySeason, seasonID)
	if err != nil {
		return nil, err
	}
	return scanGames(rows)
}
