package db

import (
	"context"
	"time"
)

const seasonPlayerColumns = `sp.id, sp.season_id, sp.player_id, sp.seed_rating, sp.played,
sp.total_wins, sp.total_kills, sp.total_rounds, sp.avg_kills, sp.kpr,
sp.avg_damage, sp.winrate, sp.inconsistency, sp.team_balance,
sp.composite_rating, sp.baseline_rating, sp.average_match_rating,
sp.created_at, sp.updated_at, p.name`

// SeasonPlayerRow is a season_players row joined with the player's name.
type SeasonPlayerRow struct {
	SeasonPlayer
	Name string
}

func scanSeasonPlayer(row rowScanner) (SeasonPlayerRow, error) {
	var i SeasonPlayerRow
	err := row.Scan(
		&i.ID,
		&i.SeasonID,
		&i.PlayerID,
		&i.SeedRating,
		&i.Played,
		&i.TotalWins,
		&i.TotalKills,
		&i.TotalRounds,
		&i.AvgKills,
		&i.Kpr,
		&i.AvgDamage,
		&i.Winrate,
		&i.Inconsistency,
		&i.TeamBalance,
		&i.CompositeRating,
		&i.BaselineRating,
		&i.AverageMatchRating,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.Name,
	)
	return i, err
}

const createSeasonPlayer = `-- name: CreateSeasonPlayer :one
INSERT INTO season_players (season_id, player_id, seed_rating, baseline_rating, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id
`

type CreateSeasonPlayerParams struct {
	SeasonID       int64
	PlayerID       int64
	SeedRating     float64
	BaselineRating float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (q *Queries) CreateSeasonPlayer(ctx context.Context, arg CreateSeasonPlayerParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createSeasonPlayer,
		arg.SeasonID,
		arg.PlayerID,
		arg.SeedRating,
		arg.BaselineRating,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const deleteSeasonPlayers = `-- name: DeleteSeasonPlayers :exec
DELETE FROM season_players WHERE season_id = ?
`

func (q *Queries) DeleteSeasonPlayers(ctx context.Context, seasonID int64) error {
	_, err := q.db.ExecContext(ctx, deleteSeasonPlayers, seasonID)
	return err
}

const getSeasonPlayer = `-- name: GetSeasonPlayer :one
SELECT ` + seasonPlayerColumns + `
FROM season_players sp
JOIN players p ON p.id = sp.player_id
WHERE sp.season_id = ? AND sp.player_id = ?
`

type GetSeasonPlayerParams struct {
	SeasonID int64
	PlayerID int64
}

func (q *Queries) GetSeasonPlayer(ctx context.Context, arg GetSeasonPlayerParams) (SeasonPlayerRow, error) {
	return scanSeasonPlayer(q.db.QueryRowContext(ctx, getSeasonPlayer, arg.SeasonID, arg.PlayerID))
}

const listSeasonPlayers = `-- name: ListSeasonPlayers :many
SELECT ` + seasonPlayerColumns + `
FROM season_players sp
JOIN players p ON p.id = sp.player_id
WHERE sp.season_id = ?
ORDER BY sp.id
`

func (q *Queries) ListSeasonPlayers(ctx context.Context, seasonID int64) ([]SeasonPlayerRow, error) {
	rows, err := q.db.QueryContext(ctx, listSeasonPlayers, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SeasonPlayerRow
	for rows.Next() {
		i, err := scanSeasonPlayer(rows)
		if err != nil {
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

const updateSeasonPlayer = `-- name: UpdateSeasonPlayer :exec
UPDATE season_players
SET played = ?, total_wins = ?, total_kills = ?, total_rounds = ?,
    avg_kills = ?, kpr = ?, avg_damage = ?, winrate = ?, inconsistency = ?,
    team_balance = ?, composite_rating = ?, baseline_rating = ?,
    average_match_rating = ?, updated_at = ?
WHERE id = ?
`

type UpdateSeasonPlayerParams struct {
	AggregateParams
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) UpdateSeasonPlayer(ctx context.Context, arg UpdateSeasonPlayerParams) error {
	args := append(arg.AggregateParams.args(), arg.UpdatedAt, arg.ID)
	_, err := q.db.ExecContext(ctx, updateSeasonPlayer, args...)
	return err
}
