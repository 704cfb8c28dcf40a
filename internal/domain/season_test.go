package domain

import (
	"errors"
	"testing"

	"github.com/AshfaaqK/JLTV-rankngs/internal/constants"
)

func TestSeasonTransition_Lifecycle(t *testing.T) {
	s := &Season{ID: 1, GamesPlayed: constants.SeasonLength, State: SeasonOpen}

	if s.AcceptsGames() {
		t.Error("full season should not accept games")
	}
	if err := s.Transition(SeasonClosing); err != nil {
		t.Fatalf("open -> closing: %v", err)
	}
	if err := s.Transition(SeasonClosed); err != nil {
		t.Fatalf("closing -> closed: %v", err)
	}
	if err := s.Transition(SeasonOpen); err != nil {
		t.Fatalf("closed -> open: %v", err)
	}
	if s.State != SeasonOpen {
		t.Errorf("State = %s, want open", s.State)
	}
}

func TestSeasonTransition_Guards(t *testing.T) {
	tests := []struct {
		name  string
		games int
		from  SeasonState
		to    SeasonState
	}{
		{"close early", 12, SeasonOpen, SeasonClosing},
		{"skip closing", constants.SeasonLength, SeasonOpen, SeasonClosed},
		{"reopen short season", 29, SeasonClosed, SeasonOpen},
		{"closing back to open", constants.SeasonLength, SeasonClosing, SeasonOpen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Season{ID: 4, GamesPlayed: tt.games, State: tt.from}
			err := s.Transition(tt.to)
			if !errors.Is(err, ErrConsistency) {
				t.Fatalf("Transition() error = %v, want ErrConsistency", err)
			}
			if s.State != tt.from {
				t.Errorf("State changed to %s on a rejected transition", s.State)
			}
		})
	}
}

func TestSeasonAcceptsGames(t *testing.T) {
	s := &Season{GamesPlayed: 29, State: SeasonOpen}
	if !s.AcceptsGames() {
		t.Error("open season with 29 games should accept games")
	}
	s.State = SeasonClosed
	if s.AcceptsGames() {
		t.Error("closed season should not accept games")
	}
}
