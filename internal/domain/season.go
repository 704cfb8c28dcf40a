package domain

import (
	"fmt"

	"github.com/AshfaaqK/JLTV-rankngs/internal/constants"
)

type SeasonState string

const (
	SeasonOpen    SeasonState = "open"
	SeasonClosing SeasonState = "closing"
	SeasonClosed  SeasonState = "closed"
)

// AcceptsGames reports whether another game may be appended to the season.
func (s *Season) AcceptsGames() bool {
	return s.State == SeasonOpen && s.GamesPlayed < constants.SeasonLength
}

// Full reports whether the season has reached its game limit.
func (s *Season) Full() bool {
	return s.GamesPlayed >= constants.SeasonLength
}

// Transition moves the season to the next lifecycle state.
//
//	open    -> closing  once the last game has been recorded
//	closing -> closed   after lifetime totals have been rolled up
//	closed  -> open     when the game that closed it is deleted
func (s *Season) Transition(to SeasonState) error {
	switch {
	case s.State == SeasonOpen && to == SeasonClosing:
		if s.GamesPlayed != constants.SeasonLength {
			return fmt.Errorf("%w: season %d cannot close with %d games", ErrConsistency, s.ID, s.GamesPlayed)
		}
	case s.State == SeasonClosing && to == SeasonClosed:
	case s.State == SeasonClosed && to == SeasonOpen:
		if s.GamesPlayed != constants.SeasonLength {
			return fmt.Errorf("%w: closed season %d has %d games", ErrConsistency, s.ID, s.GamesPlayed)
		}
	default:
		return fmt.Errorf("%w: season %d cannot move from %s to %s", ErrConsistency, s.ID, s.State, to)
	}
	s.State = to
	return nil
}
