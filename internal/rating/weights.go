// Package rating implements the match and season rating formulas.
// This file holds the fixed coefficients of those formulas.
package rating

// Performance curve coefficients shared by the match and baseline ratings.
const (
	KillScale           = 27.0   // kills-per-round multiplier
	KillExponent        = 0.8    // diminishing returns on fragging
	WinrateOffset       = 7.0    // keeps a 0% winrate from zeroing the curve
	WinrateExponent     = 0.1877 // winrate weight
	DamageDivisor       = 20.0   // damage-per-round normalizer
	DamageExponent      = 0.1    // damage weight
	PerformanceExponent = 0.8    // outer flattening of the combined curve
)

// Output scales.
const (
	MatchScale    = 1.39  // per-match rating
	BaselineScale = 1.379 // context-free strength estimate
)

// NeutralWinrate is assumed when estimating strength before a match.
const NeutralWinrate = 50

// Composite rating base, added to half the average match rating.
const CompositeBase = 9.4

// Momentum factors are variables so that products over them are rounded to
// float64 at every step.
var (
	momentumDecay    = 0.8
	winMomentumShare = 100.0 / 55.0
	lossMomentumBase = 29.0
	lossMomentumDiv  = 140.0
)
