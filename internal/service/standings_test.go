package service

import (
	"context"
	"errors"
	"testing"

	"github.com/AshfaaqK/JLTV-rankngs/internal/constants"
	"github.com/AshfaaqK/JLTV-rankngs/internal/domain"
	"github.com/AshfaaqK/JLTV-rankngs/internal/rating"
	"github.com/google/go-cmp/cmp"
)

func TestRank(t *testing.T) {
	entries := []Standing{
		{PlayerID: 1, Aggregate: domain.Aggregate{Played: 3, CompositeRating: 12}},
		{PlayerID: 2, Aggregate: domain.Aggregate{Played: 0, CompositeRating: 30}},
		{PlayerID: 3, Aggregate: domain.Aggregate{Played: 12, CompositeRating: 20}},
		{PlayerID: 4, Aggregate: domain.Aggregate{Played: 3, CompositeRating: 12}},
	}

	got := rank(entries)

	var order []int64
	for _, e := range got {
		order = append(order, e.PlayerID)
	}
	if diff := cmp.Diff([]int64{3, 1, 4}, order); diff != "" {
		t.Errorf("rank order mismatch (-want +got):\n%s", diff)
	}
	if got[0].Rank != 1 || got[2].Rank != 3 {
		t.Errorf("ranks = %d..%d, want 1..3", got[0].Rank, got[2].Rank)
	}
	if got[1].Tier != rating.TierUnranked {
		t.Errorf("three games tier = %q, want unranked", got[1].Tier)
	}
}

func TestStandings_Empty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cur, err := f.standings.CurrentStandings(ctx)
	if err != nil {
		t.Fatalf("CurrentStandings() error: %v", err)
	}
	if cur.Season != nil || len(cur.Entries) != 0 {
		t.Errorf("CurrentStandings() = %+v, want empty", cur)
	}

	if _, err := f.standings.SeasonStandings(ctx, 7); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("SeasonStandings(7) error = %v, want ErrNotFound", err)
	}

	log, err := f.standings.GameLog(ctx)
	if err != nil {
		t.Fatalf("GameLog() error: %v", err)
	}
	if len(log) != 0 {
		t.Errorf("GameLog() has %d seasons, want 0", len(log))
	}
}

func TestStandings_AfterScenario(t *testing.T) {
	f := newFixture(t)
	ids := f.addPlayers(t, 10)
	res := f.submit(t, dustTwo(ids))
	ctx := context.Background()

	cur, err := f.standings.CurrentStandings(ctx)
	if err != nil {
		t.Fatalf("CurrentStandings() error: %v", err)
	}
	if cur.Season == nil || cur.Season.ID != res.Season.ID || cur.Games != 1 {
		t.Fatalf("CurrentStandings() season = %+v games = %d", cur.Season, cur.Games)
	}
	if len(cur.Entries) != 10 {
		t.Fatalf("got %d entries, want 10", len(cur.Entries))
	}
	for i, e := range cur.Entries {
		want := 16.28
		if i < 5 {
			want = 17.86
		}
		if e.CompositeRating != want {
			t.Errorf("entry %d (%s) composite = %v, want %v", i, e.Name, e.CompositeRating, want)
		}
		if e.Rank != i+1 || e.Tier != rating.TierUnranked {
			t.Errorf("entry %d rank = %d tier = %q", i, e.Rank, e.Tier)
		}
	}
	if cur.Entries[0].Name != "p1" {
		t.Errorf("leader = %s, want p1", cur.Entries[0].Name)
	}

	life, err := f.standings.LifetimeStandings(ctx)
	if err != nil {
		t.Fatalf("LifetimeStandings() error: %v", err)
	}
	if life.Season != nil || life.Games != 1 || len(life.Entries) != 0 {
		t.Errorf("LifetimeStandings() = %+v, want one game and no closed-season entries", life)
	}

	ov, err := f.standings.Overview(ctx)
	if err != nil {
		t.Fatalf("Overview() error: %v", err)
	}
	if len(ov.Current.Entries) != 10 || len(ov.Lifetime.Entries) != 0 {
		t.Errorf("Overview() entries = %d/%d, want 10/0", len(ov.Current.Entries), len(ov.Lifetime.Entries))
	}
}

func TestGameLog(t *testing.T) {
	f := newFixture(t)
	ids := f.addPlayers(t, 10)
	first := f.submit(t, dustTwo(ids))
	second := f.submit(t, varied(ids, 1))
	ctx := context.Background()

	log, err := f.standings.GameLog(ctx)
	if err != nil {
		t.Fatalf("GameLog() error: %v", err)
	}
	if len(log) != 1 || len(log[0].Games) != 2 {
		t.Fatalf("GameLog() = %+v, want one season with two games", log)
	}
	if log[0].Games[0].ID != second.Game.ID || log[0].Games[1].ID != first.Game.ID {
		t.Errorf("games not newest first: %d, %d", log[0].Games[0].ID, log[0].Games[1].ID)
	}

	stats, err := f.store.ListGameStats(ctx, first.Game.ID)
	if err != nil {
		t.Fatalf("ListGameStats() error: %v", err)
	}
	var total float64
	for _, s := range stats {
		total += s.MatchRating
	}
	summary := log[0].Games[1]
	if want := rating.Round(total/10, 1); summary.AverageRating != want {
		t.Errorf("AverageRating = %v, want %v", summary.AverageRating, want)
	}
	if diff := cmp.Diff([]string{"p1", "p2", "p3", "p4", "p5"}, summary.Winners); diff != "" {
		t.Errorf("winners mismatch (-want +got):\n%s", diff)
	}
}

func TestGameDetail(t *testing.T) {
	f := newFixture(t)
	ids := f.addPlayers(t, 10)
	res := f.submit(t, varied(ids, 1))
	ctx := context.Background()

	detail, err := f.standings.Game(ctx, res.Game.ID)
	if err != nil {
		t.Fatalf("Game() error: %v", err)
	}
	if len(detail.Stats) != 10 {
		t.Fatalf("got %d lines, want 10", len(detail.Stats))
	}
	for i, line := range detail.Stats {
		if line.Won != (i < 5) {
			t.Errorf("line %d won = %v, winners must come first", i, line.Won)
		}
		if line.Name == "" {
			t.Errorf("line %d has no name", i)
		}
		if i > 0 && line.Won == detail.Stats[i-1].Won && line.MatchRating > detail.Stats[i-1].MatchRating {
			t.Errorf("line %d out of rating order", i)
		}
	}

	if _, err := f.standings.Game(ctx, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Game(999) error = %v, want ErrNotFound", err)
	}
}

func TestPlayerDetail(t *testing.T) {
	f := newFixture(t)
	ids := f.addPlayers(t, 11)
	f.submit(t, dustTwo(ids[:10]))
	ctx := context.Background()

	detail, err := f.standings.Player(ctx, ids[0])
	if err != nil {
		t.Fatalf("Player() error: %v", err)
	}
	if detail.Season == nil || detail.Season.CompositeRating != 17.86 {
		t.Errorf("Player() season row = %+v", detail.Season)
	}
	if detail.Tier != rating.TierUnranked {
		t.Errorf("Player() tier = %q, want unranked", detail.Tier)
	}

	bench, err := f.standings.Player(ctx, ids[10])
	if err != nil {
		t.Fatalf("Player() error: %v", err)
	}
	if bench.Season != nil {
		t.Errorf("player outside the season has row %+v", bench.Season)
	}

	if _, err := f.standings.Player(ctx, 4242); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Player(4242) error = %v, want ErrNotFound", err)
	}
}

func TestEvents(t *testing.T) {
	f := newFixture(t)
	ids := f.addPlayers(t, 10)
	f.submit(t, dustTwo(ids))
	ctx := context.Background()

	events, err := f.standings.Events(ctx, 1)
	if err != nil {
		t.Fatalf("Events() error: %v", err)
	}
	if len(events) != 1 || events[0].Kind != domain.EventGameSubmitted {
		t.Fatalf("Events(1) = %+v, want the submission", events)
	}

	all, err := f.standings.Events(ctx, 0)
	if err != nil {
		t.Fatalf("Events() error: %v", err)
	}
	if len(all) < 11 {
		t.Errorf("Events(0) returned %d events, want at least 11", len(all))
	}
}

func TestCurrentStandings_KeepsClosedSeasonUntilNextGame(t *testing.T) {
	f := newFixture(t)
	ids := f.addPlayers(t, 10)
	ctx := context.Background()

	var last *Result
	for k := 0; k < constants.SeasonLength; k++ {
		last = f.submit(t, varied(ids, k))
	}
	if !last.RolledOver {
		t.Fatal("season did not roll over")
	}

	cur, err := f.standings.CurrentStandings(ctx)
	if err != nil {
		t.Fatalf("CurrentStandings() error: %v", err)
	}
	if cur.Season == nil || cur.Season.ID != last.Season.ID || cur.Games != constants.SeasonLength || len(cur.Entries) != 10 {
		t.Fatalf("CurrentStandings() after rollover = season %+v games %d entries %d, want the closed season", cur.Season, cur.Games, len(cur.Entries))
	}

	f.submit(t, dustTwo(ids))
	cur, err = f.standings.CurrentStandings(ctx)
	if err != nil {
		t.Fatalf("CurrentStandings() error: %v", err)
	}
	if cur.Season == nil || cur.Season.ID != last.NextSeason.ID || cur.Games != 1 {
		t.Errorf("CurrentStandings() after next game = season %+v games %d, want the new season", cur.Season, cur.Games)
	}
}
