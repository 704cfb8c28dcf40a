package db

import (
	"context"
	"database/sql"
	"time"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const playerColumns = `id, name, seed_rating, played, total_wins, total_kills, total_rounds,
avg_kills, kpr, avg_damage, winrate, inconsistency, team_balance,
composite_rating, baseline_rating, average_match_rating, created_at, updated_at`

func scanPlayer(row rowScanner) (Player, error) {
	var i Player
	err := row.Scan(
		&i.ID,
		&i.Name,
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
	)
	return i, err
}

func scanPlayers(rows *sql.Rows) ([]Player, error) {
	defer rows.Close()
	var items []Player
	for rows.Next() {
		i, err := scanPlayer(rows)
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

const createPlayer = `-- name: CreatePlayer :one
INSERT INTO players (name, seed_rating, baseline_rating, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id
`

type CreatePlayerParams struct {
	Name           string
	SeedRating     float64
	BaselineRating float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (q *Queries) CreatePlayer(ctx context.Context, arg CreatePlayerParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createPlayer,
		arg.Name,
		arg.SeedRating,
		arg.BaselineRating,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getPlayer = `-- name: GetPlayer :one
SELECT ` + playerColumns + `
FROM players
WHERE id = ?
`

func (q *Queries) GetPlayer(ctx context.Context, id int64) (Player, error) {
	return scanPlayer(q.db.QueryRowContext(ctx, getPlayer, id))
}

const getPlayerByName = `-- name: GetPlayerByName :one
SELECT ` + playerColumns + `
FROM players
WHERE name = ?
`

func (q *Queries) GetPlayerByName(ctx context.Context, name string) (Player, error) {
	return scanPlayer(q.db.QueryRowContext(ctx, getPlayerByName, name))
}

const listPlayers = `-- name: ListPlayers :many
SELECT ` + playerColumns + `
FROM players
ORDER BY id
`

func (q *Queries) ListPlayers(ctx context.Context) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, listPlayers)
	if err != nil {
		return nil, err
	}
	return scanPlayers(rows)
}

const updatePlayer = `-- name: UpdatePlayer :exec
UPDATE players
SET played = ?, total_wins = ?, total_kills = ?, total_rounds = ?,
    avg_kills = ?, kpr = ?, avg_damage = ?, winrate = ?, inconsistency = ?,
    team_balance = ?, composite_rating = ?, baseline_rating = ?,
    average_match_rating = ?, updated_at = ?
WHERE id = ?
`

// AggregateParams carries the counter and derived columns shared by players
// and season_players.
type AggregateParams struct {
	Played             int64
	TotalWins          int64
	TotalKills         int64
	TotalRounds        int64
	AvgKills           float64
	Kpr                float64
	AvgDamage          int64
	Winrate            int64
	Inconsistency      sql.NullFloat64
	TeamBalance        int64
	CompositeRating    float64
	BaselineRating     float64
	AverageMatchRating float64
}

func (a AggregateParams) args() []interface{} {
	return []interface{}{
		a.Played,
		a.TotalWins,
		a.TotalKills,
		a.TotalRounds,
		a.AvgKills,
		a.Kpr,
		a.AvgDamage,
		a.Winrate,
		a.Inconsistency,
		a.TeamBalance,
		a.CompositeRating,
		a.BaselineRating,
		a.AverageMatchRating,
	}
}

type UpdatePlayerParams struct {
	AggregateParams
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) UpdatePlayer(ctx context.Context, arg UpdatePlayerParams) error {
	args := append(arg.AggregateParams.args(), arg.UpdatedAt, arg.ID)
	_, err := q.db.ExecContext(ctx, updatePlayer, args...)
	return err
}
