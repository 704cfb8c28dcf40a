package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/AshfaaqK/JLTV-rankngs/internal/constants"
	"github.com/AshfaaqK/JLTV-rankngs/internal/domain"
	"github.com/AshfaaqK/JLTV-rankngs/internal/ledger"

	"github.com/rs/zerolog"
)

type BalanceService struct {
	store  ledger.Reader
	logger zerolog.Logger
}

func NewBalanceService(store ledger.Store, logger zerolog.Logger) *BalanceService {
	return &BalanceService{store: store, logger: logger}
}

type Member struct {
	PlayerID        int64
	Name            string
	CompositeRating float64
}

type Split struct {
	TeamA      []Member
	TeamB      []Member
	AverageA   float64
	AverageB   float64
	Difference float64
}

// BalanceTeams suggests the splits of ten players into two teams whose
// average lifetime composite ratings are closest.
func (s *BalanceService) BalanceTeams(ctx context.Context, playerIDs []int64) ([]Split, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	seen := make(map[int64]bool, len(playerIDs))
	var ids []int64
	for _, id := range playerIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) != constants.MatchSize {
		return nil, fmt.Errorf("%w: need %d distinct players, got %d", domain.ErrValidation, constants.MatchSize, len(ids))
	}

	members := make([]Member, len(ids))
	for i, id := range ids {
		p, err := s.store.GetPlayer(ctx, id)
		if err != nil {
			return nil, err
		}
		members[i] = Member{PlayerID: p.ID, Name: p.Name, CompositeRating: p.CompositeRating}
	}

	splits := bestSplits(members, constants.BalanceSuggestions)
	s.logger.Debug().Float64("best_difference", splits[0].Difference).Msg("teams balanced")
	return splits, nil
}

// bestSplits enumerates every five-player subset in lexicographic index order
// and keeps the n with the smallest average difference. Ties keep
// enumeration order.
func bestSplits(members []Member, n int) []Split {
	var all []Split
	idx := make([]int, constants.TeamSize)
	var choose func(start, depth int)
	choose = func(start, depth int) {
		if depth == constants.TeamSize {
			all = append(all, makeSplit(members, idx))
			return
		}
		for i := start; i <= len(members)-(constants.TeamSize-depth); i++ {
			idx[depth] = i
			choose(i+1, depth+1)
		}
	}
	choose(0, 0)

	sort.SliceStable(all, func(i, j int) bool { return all[i].Difference < all[j].Difference })
	if len(all) > n {
		all = all[:n]
	}
	return all
}

func makeSplit(members []Member, idx []int) Split {
	inA := make(map[int]bool, len(idx))
	for _, i := range idx {
		inA[i] = true
	}

	var split Split
	var sumA, sumB float64
	for i, m := range members {
		if inA[i] {
			split.TeamA = append(split.TeamA, m)
			sumA += m.CompositeRating
		} else {
			split.TeamB = append(split.TeamB, m)
			sumB += m.CompositeRating
		}
	}
	split.AverageA = sumA / constants.TeamSize
	split.AverageB = sumB / constants.TeamSize
	split.Difference = math.Abs(split.AverageA - split.AverageB)
	return split
}
