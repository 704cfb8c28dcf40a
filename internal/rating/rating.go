package rating

import (
	"math"
	"math/big"
	"strconv"

	"github.com/AshfaaqK/JLTV-rankngs/internal/constants"
)

// MatchRating scores one match, normalized by the strength of the opposing
// team relative to the player's own team.
func MatchRating(kpr float64, winrate, adr int, oppAvg, ownAvg float64) float64 {
	if ownAvg == 0 {
		return 0
	}
	return Round(performance(kpr, winrate, adr)*MatchScale*(oppAvg/ownAvg), 1)
}

// BaselineRating estimates a player's strength without match context.
func BaselineRating(kpr float64, winrate, adr int) float64 {
	return Round(baselineActual(kpr, winrate, adr), 1)
}

// baselineActual is the unrounded baseline that team balance compares
// against.
func baselineActual(kpr float64, winrate, adr int) float64 {
	return performance(kpr, winrate, adr) * BaselineScale
}

func performance(kpr float64, winrate, adr int) float64 {
	kills := math.Pow(kpr*KillScale, KillExponent)
	wins := math.Pow(float64(winrate)+WinrateOffset, WinrateExponent)
	damage := math.Pow(float64(adr)/DamageDivisor, DamageExponent)
	return math.Pow(kills*wins*damage, PerformanceExponent)
}

// Momentum is the signed contribution of one match to the composite rating.
// A loss without a kill contributes nothing.
func Momentum(kpr float64, won bool) float64 {
	if won {
		return kpr * momentumDecay * momentumDecay / winMomentumShare
	}
	if kpr == 0 {
		return 0
	}
	return -(lossMomentumBase * momentumDecay * momentumDecay / lossMomentumDiv) / kpr
}

// TeamAverage is the mean baseline rating of a five player team.
func TeamAverage(baselines []float64) float64 {
	var sum float64
	for _, b := range baselines {
		sum += b
	}
	return Round(sum/constants.TeamSize, 1)
}

// TeamBalance is how far, in percent, the realized average match rating sits
// below the theoretical baseline.
func TeamBalance(baseline, avgMatchRating float64) int {
	if avgMatchRating == 0 {
		return 0
	}
	return int(Round((baseline-avgMatchRating)/avgMatchRating*100, 0))
}

func CompositeRating(avgMatchRating, momentumSum float64) float64 {
	return Round(CompositeBase+avgMatchRating/2+momentumSum, 2)
}

// Round rounds half to even on the exact binary value of x.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return v
}

// SampleStdDev is the n-1 standard deviation, with the variance accumulated
// exactly before the square root.
func SampleStdDev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}

	values := make([]*big.Rat, 0, n)
	sum := new(big.Rat)
	for _, x := range xs {
		r := new(big.Rat)
		if r.SetFloat64(x) == nil {
			return math.NaN()
		}
		values = append(values, r)
		sum.Add(sum, r)
	}
	mean := new(big.Rat).Quo(sum, big.NewRat(int64(n), 1))

	ss := new(big.Rat)
	for _, r := range values {
		d := new(big.Rat).Sub(r, mean)
		ss.Add(ss, d.Mul(d, d))
	}
	variance, _ := ss.Quo(ss, big.NewRat(int64(n-1), 1)).Float64()
	return math.Sqrt(variance)
}
