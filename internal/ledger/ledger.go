// Package ledger describes the ordered store the rating engine keeps its
// seasons, games, match stats and aggregates in.
//
// Lookups that find nothing return an error wrapping domain.ErrNotFound.
// List methods return rows in ascending id order unless stated otherwise.
package ledger

import (
	"context"

	"github.com/AshfaaqK/JLTV-rankngs/internal/domain"
)

type Reader interface {
	// LatestSeason returns the season with the highest id.
	LatestSeason(ctx context.Context) (*domain.Season, error)
	GetSeason(ctx context.Context, id int64) (*domain.Season, error)
	// ListSeasons returns seasons newest first.
	ListSeasons(ctx context.Context) ([]domain.Season, error)

	GetPlayer(ctx context.Context, id int64) (*domain.Player, error)
	GetPlayerByName(ctx context.Context, name string) (*domain.Player, error)
	ListPlayers(ctx context.Context) ([]domain.Player, error)

	ListSeasonPlayers(ctx context.Context, seasonID int64) ([]domain.SeasonPlayer, error)
	GetSeasonPlayer(ctx context.Context, seasonID, playerID int64) (*domain.SeasonPlayer, error)

	GetGame(ctx context.Context, id int64) (*domain.Game, error)
	ListGames(ctx context.Context, seasonID int64) ([]domain.Game, error)
	// ListAllGames returns every game newest first.
	ListAllGames(ctx context.Context) ([]domain.Game, error)
	CountGames(ctx context.Context) (int, error)

	ListSeasonStats(ctx context.Context, seasonID int64) ([]domain.PlayerMatchStat, error)
	ListGameStats(ctx context.Context, gameID int64) ([]domain.PlayerMatchStat, error)
	// ListClosedSeasonStats returns a player's stats from closed seasons in
	// game order.
	ListClosedSeasonStats(ctx context.Context, playerID int64) ([]domain.PlayerMatchStat, error)

	// ListEvents returns the most recent events first.
	ListEvents(ctx context.Context, limit int) ([]domain.LedgerEvent, error)
}

// Tx is a unit of work. Writes are visible to its own reads immediately and
// to everyone else only after the surrounding Atomically call returns nil.
type Tx interface {
	Reader

	// Create methods fill in the generated id and timestamps.
	CreateSeason(ctx context.Context, s *domain.Season) error
	UpdateSeason(ctx context.Context, s *domain.Season) error
	DeleteSeason(ctx context.Context, id int64) error

	CreatePlayer(ctx context.Context, p *domain.Player) error
	UpdatePlayer(ctx context.Context, p *domain.Player) error

	CreateSeasonPlayer(ctx context.Context, sp *domain.SeasonPlayer) error
	UpdateSeasonPlayer(ctx context.Context, sp *domain.SeasonPlayer) error
	DeleteSeasonPlayers(ctx context.Context, seasonID int64) error

	CreateGame(ctx context.Context, g *domain.Game) error
	DeleteGame(ctx context.Context, id int64) error

	CreateMatchStat(ctx context.Context, s *domain.PlayerMatchStat) error
	UpdateMatchStat(ctx context.Context, s *domain.PlayerMatchStat) error
	DeleteGameStats(ctx context.Context, gameID int64) error

	AppendEvent(ctx context.Context, e *domain.LedgerEvent) error
}

type Store interface {
	Reader
	// Atomically runs fn in one transaction, committing only if fn returns
	// nil. Any error rolls back every write fn made.
	Atomically(ctx context.Context, fn func(tx Tx) error) error
}
