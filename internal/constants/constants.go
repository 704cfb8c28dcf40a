package constants

import "time"

const (
	SeasonLength = 30
	TeamSize     = 5
	MatchSize    = 2 * TeamSize
)

const (
	// DefaultSeedRating replaces a zero initial strength for new players.
	DefaultSeedRating = 1.0
	// RankedMinimum is the number of matches before a player is tiered.
	RankedMinimum = 7
	// BalanceSuggestions is how many team splits the balancer returns.
	BalanceSuggestions = 3
)

const (
	TierSThreshold = 25.0
	TierAThreshold = 20.0
	TierBThreshold = 15.0
)

const (
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	EventListLimit = 50
)

// MapPool lists the maps a match can be submitted for.
var MapPool = []string{
	"Dust II", "Mirage", "Inferno", "Train", "Overpass",
	"Cache", "Ancient", "Nuke", "Anubis", "Vertigo",
}
