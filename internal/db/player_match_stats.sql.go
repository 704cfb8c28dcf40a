package db

import (
	"context"
	"database/sql"
	"time"
)

func scanPlayerMatchStats(rows *sql.Rows) ([]PlayerMatchStat, error) {
	defer rows.Close()
	var items []PlayerMatchStat
	for rows.Next() {
		var i PlayerMatchStat
		if err := rows.Scan(
			&i.ID,
			&i.GameID,
			&i.SeasonID,
			&i.PlayerID,
			&i.Kills,
			&i.Kpr,
			&i.Adr,
			&i.Won,
			&i.MatchRating,
			&i.Momentum,
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

const createPlayerMatchStat = `-- name: CreatePlayerMatchStat :one
INSERT INTO player_match_stats (
    game_id, season_id, player_id, kills, kpr, adr, won,
    match_rating, momentum, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id
`

type CreatePlayerMatchStatParams struct {
	GameID      int64
	SeasonID    int64
	PlayerID    int64
	Kills       int64
	Kpr         float64
	Adr         int64
	Won         bool
	MatchRating float64
	Momentum    float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreatePlayerMatchStat(ctx context.Context, arg CreatePlayerMatchStatParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createPlayerMatchStat,
		arg.GameID,
		arg.SeasonID,
		arg.PlayerID,
		arg.Kills,
		arg.Kpr,
		arg.Adr,
		arg.Won,
		arg.MatchRating,
		arg.Momentum,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const deletePlayerMatchStatsByGame = `-- name: DeletePlayerMatchStatsByGame :exec
DELETE FROM player_match_stats WHERE game_id = ?
`

func (q *Queries) DeletePlayerMatchStatsByGame(ctx context.Context, gameID int64) error {
	_, err := q.db.ExecContext(ctx, deletePlayerMatchStatsByGame, gameID)
	return err
}

const listClosedSeasonStatsByPlayer = `-- name: ListClosedSeasonStatsByPlayer :many
SELECT pms.id, pms.game_id, pms.season_id, pms.player_id, pms.kills, pms.kpr,
       pms.adr, pms.won, pms.match_rating, pms.momentum, pms.created_at, pms.updated_at
FROM player_match_stats pms
JOIN seasons s ON s.id = pms.season_id
WHERE pms.player_id = ? AND s.state = 'closed'
ORDER BY pms.game_id
`

func (q *Queries) ListClosedSeasonStatsByPlayer(ctx context.Context, playerID int64) ([]PlayerMatchStat, error) {
	rows, err := q.db.QueryContext(ctx, listClosedSeasonStatsByPlayer, playerID)
	if err != nil {
		return nil, err
	}
	return scanPlayerMatchStats(rows)
}

const listPlayerMatchStatsByGame = `-- name: ListPlayerMatchStatsByGame :many
SELECT id, game_id, season_id, player_id, kills, kpr, adr, won,
       match_rating, momentum, created_at, updated_at
FROM player_match_stats
WHERE game_id = ?
ORDER BY id
`

func (q *Queries) ListPlayerMatchStatsByGame(ctx context.Context, gameID int64) ([]PlayerMatchStat, error) {
	rows, err := q.db.QueryContext(ctx, listPlayerMatchStatsByGame, gameID)
	if err != nil {
		return nil, err
	}
	return scanPlayerMatchStats(rows)
}

const listPlayerMatchStatsBySeason = `-- name: ListPlayerMatchStatsBySeason :many
SELECT id, game_id, season_id, player_id, kills, kpr, adr, won,
       match_rating, momentum, created_at, updated_at
FROM player_match_stats
WHERE season_id = ?
ORDER BY game_id, id
`

func (q *Queries) ListPlayerMatchStatsBySeason(ctx context.Context, seasonID int64) ([]PlayerMatchStat, error) {
	rows, err := q.db.QueryContext(ctx, listPlayerMatchStatsBySeason, seasonID)
	if err != nil {
		return nil, err
	}
	return scanPlayerMatchStats(rows)
}

const updatePlayerMatchStatRating = `-- name: UpdatePlayerMatchStatRating :exec
UPDATE player_match_stats
SET match_rating = ?, momentum = ?, updated_at = ?
WHERE id = ?
`

type UpdatePlayerMatchStatRatingParams struct {
	MatchRating float64
	Momentum    float64
	UpdatedAt   time.Time
	ID          int64
}

func (q *Queries) UpdatePlayerMatchStatRating(ctx context.Context, arg UpdatePlayerMatchStatRatingParams) error {
	_, err := q.db.ExecContext(ctx, updatePlayerMatchStatRating,
		arg.MatchRating,
		arg.Momentum,
		arg.UpdatedAt,
		arg.ID,
	)
	return err
}
