package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/AshfaaqK/JLTV-rankngs/internal/domain"
)

func membersWith(ratings ...float64) []Member {
	ms := make([]Member, len(ratings))
	for i, r := range ratings {
		ms[i] = Member{PlayerID: int64(i + 1), CompositeRating: r}
	}
	return ms
}

func memberIDs(ms []Member) []int64 {
	out := make([]int64, len(ms))
	for i, m := range ms {
		out[i] = m.PlayerID
	}
	return out
}

func TestBestSplits_Partitions(t *testing.T) {
	members := membersWith(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	splits := bestSplits(members, 3)

	if len(splits) != 3 {
		t.Fatalf("got %d splits, want 3", len(splits))
	}
	for i, sp := range splits {
		seen := make(map[int64]int)
		for _, m := range append(append([]Member{}, sp.TeamA...), sp.TeamB...) {
			seen[m.PlayerID]++
		}
		if len(sp.TeamA) != 5 || len(sp.TeamB) != 5 || len(seen) != 10 {
			t.Errorf("split %d is not a 5/5 partition: %v | %v", i, memberIDs(sp.TeamA), memberIDs(sp.TeamB))
		}
		// sums of 1..10 split into 27/28 at best
		if math.Abs(sp.Difference-0.2) > 1e-9 {
			t.Errorf("split %d difference = %v, want 0.2", i, sp.Difference)
		}
		if i > 0 && sp.Difference < splits[i-1].Difference {
			t.Errorf("splits not sorted at %d", i)
		}
	}
}

func TestBestSplits_TiesKeepEnumerationOrder(t *testing.T) {
	splits := bestSplits(membersWith(15, 15, 15, 15, 15, 15, 15, 15, 15, 15), 3)

	want := [][]int64{
		{1, 2, 3, 4, 5},
		{1, 2, 3, 4, 6},
		{1, 2, 3, 4, 7},
	}
	for i, sp := range splits {
		got := memberIDs(sp.TeamA)
		for j := range got {
			if got[j] != want[i][j] {
				t.Errorf("split %d team A = %v, want %v", i, got, want[i])
				break
			}
		}
		if sp.Difference != 0 {
			t.Errorf("split %d difference = %v, want 0", i, sp.Difference)
		}
	}
	if got := memberIDs(splits[0].TeamB); got[0] != 6 || got[4] != 10 {
		t.Errorf("complement not in input order: %v", got)
	}
}

func TestBestSplits_AveragesAreUnrounded(t *testing.T) {
	splits := bestSplits(membersWith(10.01, 10, 10, 10, 10, 10, 10, 10, 10, 10), 1)
	if math.Abs(splits[0].Difference-0.002) > 1e-9 {
		t.Errorf("difference = %v, want 0.002", splits[0].Difference)
	}
}

func TestBalanceTeams(t *testing.T) {
	f := newFixture(t)
	players := f.addPlayers(t, 11)
	ctx := context.Background()

	splits, err := f.balance.BalanceTeams(ctx, players[:10])
	if err != nil {
		t.Fatalf("BalanceTeams() error: %v", err)
	}
	if len(splits) != 3 {
		t.Errorf("got %d splits, want 3", len(splits))
	}
	if splits[0].TeamA[0].Name != "p1" {
		t.Errorf("first member = %+v, want p1", splits[0].TeamA[0])
	}

	dup := append(append([]int64{}, players[:9]...), players[0])
	if _, err := f.balance.BalanceTeams(ctx, dup); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("nine distinct players: error = %v, want ErrValidation", err)
	}

	unknown := append(append([]int64{}, players[:9]...), 4242)
	if _, err := f.balance.BalanceTeams(ctx, unknown); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown player: error = %v, want ErrNotFound", err)
	}
}
