package rating

import (
	"github.com/AshfaaqK/JLTV-rankngs/internal/domain"
)

// Counters is a contribution to a player's cumulative totals: one match, or
// a whole season when rolling up into lifetime totals.
type Counters struct {
	Played int
	Wins   int
	Kills  int
	Rounds int
}

func MatchCounters(stat *domain.PlayerMatchStat, rounds int) Counters {
	c := Counters{Played: 1, Kills: stat.Kills, Rounds: rounds}
	if stat.Won {
		c.Wins = 1
	}
	return c
}

func CountersOf(a *domain.Aggregate) Counters {
	return Counters{Played: a.Played, Wins: a.TotalWins, Kills: a.TotalKills, Rounds: a.TotalRounds}
}

func (c Counters) AddTo(a *domain.Aggregate) {
	a.Played += c.Played
	a.TotalWins += c.Wins
	a.TotalKills += c.Kills
	a.TotalRounds += c.Rounds
}

func (c Counters) SubtractFrom(a *domain.Aggregate) {
	a.Played -= c.Played
	a.TotalWins -= c.Wins
	a.TotalKills -= c.Kills
	a.TotalRounds -= c.Rounds
}

// Reset zeroes every counter and derived field and restores the seed baseline.
func Reset(a *domain.Aggregate, seed float64) {
	*a = domain.Aggregate{BaselineRating: seed}
}

// DeriveRates recomputes the rate fields and the baseline rating from the
// cumulative counters and the per-match damage values in scope.
func DeriveRates(a *domain.Aggregate, seed float64, adrs []int) {
	if a.Played <= 0 {
		Reset(a, seed)
		return
	}

	played := float64(a.Played)
	a.AvgKills = Round(float64(a.TotalKills)/played, 2)
	a.KPR = 0
	if a.TotalRounds > 0 {
		a.KPR = Round(float64(a.TotalKills)/float64(a.TotalRounds), 3)
	}
	a.AvgDamage = MeanDamage(adrs)
	a.Winrate = int(Round(float64(a.TotalWins)/played*100, 0))
	a.BaselineRating = BaselineRating(a.KPR, NeutralWinrate, a.AvgDamage)
}

// DeriveRatings recomputes the rating fields from the ordered per-match
// ratings and momentum values in scope. With no matches in scope the
// aggregate is left untouched; inconsistency needs at least two.
func DeriveRatings(a *domain.Aggregate, ratings, momenta []float64) {
	if len(ratings) == 0 {
		return
	}

	var ratingSum, momentumSum float64
	for _, r := range ratings {
		ratingSum += r
	}
	for _, m := range momenta {
		momentumSum += m
	}

	if len(ratings) >= 2 {
		v := Round(SampleStdDev(ratings), 1)
		a.Inconsistency = &v
	}
	a.AverageMatchRating = Round(ratingSum/float64(len(ratings)), 1)
	a.TeamBalance = TeamBalance(baselineActual(a.KPR, a.Winrate, a.AvgDamage), a.AverageMatchRating)
	a.CompositeRating = CompositeRating(a.AverageMatchRating, momentumSum)
}

// Series splits stats into their rating and momentum columns, in order.
func Series(stats []*domain.PlayerMatchStat) (ratings, momenta []float64) {
	ratings = make([]float64, len(stats))
	momenta = make([]float64, len(stats))
	for i, s := range stats {
		ratings[i] = s.MatchRating
		momenta[i] = s.Momentum
	}
	return ratings, momenta
}

func MeanDamage(adrs []int) int {
	if len(adrs) == 0 {
		return 0
	}
	sum := 0
	for _, adr := range adrs {
		sum += adr
	}
	return int(Round(float64(sum)/float64(len(adrs)), 0))
}

// MatchKPR is kills per round for a single match.
func MatchKPR(kills, rounds int) float64 {
	if rounds <= 0 {
		return 0
	}
	return Round(float64(kills)/float64(rounds), 2)
}
