// Package replay recomputes a season's derived ratings by folding its games
// in chronological order.
//
// A game's rating depends on the team strengths recorded on the season rows,
// so the fold always starts at the first game of the season. Baseline
// ratings and winrates are read, never written, during a fold.
package replay

import (
	"fmt"
	"sort"

	"github.com/AshfaaqK/JLTV-rankngs/internal/constants"
	"github.com/AshfaaqK/JLTV-rankngs/internal/domain"
	"github.com/AshfaaqK/JLTV-rankngs/internal/rating"
)

// Season is the context a fold runs over: one season's games in ascending id
// order and the season rows of everyone who appears in them.
type Season struct {
	ID      int64
	Games   []*Game
	Players map[int64]*domain.SeasonPlayer
}

type Game struct {
	domain.Game
	Stats []*domain.PlayerMatchStat
}

// NewSeason groups stats under their games and orders both by id.
func NewSeason(seasonID int64, games []domain.Game, stats []domain.PlayerMatchStat, players []domain.SeasonPlayer) (*Season, error) {
	s := &Season{
		ID:      seasonID,
		Games:   make([]*Game, 0, len(games)),
		Players: make(map[int64]*domain.SeasonPlayer, len(players)),
	}

	byID := make(map[int64]*Game, len(games))
	for i := range games {
		g := &Game{Game: games[i]}
		if g.SeasonID != seasonID {
			return nil, fmt.Errorf("%w: game %d belongs to season %d, not %d", domain.ErrConsistency, g.ID, g.SeasonID, seasonID)
		}
		byID[g.ID] = g
		s.Games = append(s.Games, g)
	}
	sort.Slice(s.Games, func(i, j int) bool { return s.Games[i].ID < s.Games[j].ID })

	for i := range stats {
		stat := &stats[i]
		g, ok := byID[stat.GameID]
		if !ok {
			return nil, fmt.Errorf("%w: stat %d references game %d outside season %d", domain.ErrConsistency, stat.ID, stat.GameID, seasonID)
		}
		g.Stats = append(g.Stats, stat)
	}
	for _, g := range s.Games {
		sort.Slice(g.Stats, func(i, j int) bool { return g.Stats[i].ID < g.Stats[j].ID })
	}

	for i := range players {
		sp := &players[i]
		s.Players[sp.PlayerID] = sp
	}
	return s, nil
}

// Fold recomputes every stat's match rating and every participant's season
// ratings, game by game. Each player's ratings are derived from their own
// matches up to and including the game being folded.
func Fold(s *Season) error {
	scope := make(map[int64][]*domain.PlayerMatchStat)

	var lastID int64
	for _, g := range s.Games {
		if g.ID <= lastID {
			return fmt.Errorf("%w: game %d replayed after game %d", domain.ErrConsistency, g.ID, lastID)
		}
		lastID = g.ID

		winAvg, loseAvg, err := TeamAverages(g.Stats, s.Players)
		if err != nil {
			return fmt.Errorf("game %d: %w", g.ID, err)
		}

		for _, stat := range g.Stats {
			sp := s.Players[stat.PlayerID]
			own, opp := winAvg, loseAvg
			if !stat.Won {
				own, opp = loseAvg, winAvg
			}
			stat.MatchRating = rating.MatchRating(stat.KPR, sp.Winrate, stat.ADR, opp, own)
		}

		for _, stat := range g.Stats {
			sp := s.Players[stat.PlayerID]
			scope[stat.PlayerID] = append(scope[stat.PlayerID], stat)
			ratings, momenta := rating.Series(scope[stat.PlayerID])
			rating.DeriveRatings(&sp.Aggregate, ratings, momenta)
		}
	}
	return nil
}

// TeamAverages returns the average baseline rating of the winning and the
// losing side of one game, read from the players' current season rows.
func TeamAverages(stats []*domain.PlayerMatchStat, players map[int64]*domain.SeasonPlayer) (winners, losers float64, err error) {
	if len(stats) != constants.MatchSize {
		return 0, 0, fmt.Errorf("%w: %d stats, want %d", domain.ErrConsistency, len(stats), constants.MatchSize)
	}

	var won, lost []float64
	seen := make(map[int64]bool, len(stats))
	for _, stat := range stats {
		if seen[stat.PlayerID] {
			return 0, 0, fmt.Errorf("%w: player %d appears twice", domain.ErrConsistency, stat.PlayerID)
		}
		seen[stat.PlayerID] = true

		sp, ok := players[stat.PlayerID]
		if !ok {
			return 0, 0, fmt.Errorf("%w: no season row for player %d", domain.ErrConsistency, stat.PlayerID)
		}
		if stat.Won {
			won = append(won, sp.BaselineRating)
		} else {
			lost = append(lost, sp.BaselineRating)
		}
	}
	if len(won) != constants.TeamSize || len(lost) != constants.TeamSize {
		return 0, 0, fmt.Errorf("%w: teams split %d/%d", domain.ErrConsistency, len(won), len(lost))
	}

	return rating.TeamAverage(won), rating.TeamAverage(lost), nil
}
