package rating

import "github.com/AshfaaqK/JLTV-rankngs/internal/constants"

type Tier string

const (
	TierS        Tier = "S"
	TierA        Tier = "A"
	TierB        Tier = "B"
	TierC        Tier = "C"
	TierUnranked Tier = "unranked"
)

// TierFor buckets a composite rating. Players below the ranked minimum are
// unranked regardless of rating.
func TierFor(composite float64, played int) Tier {
	switch {
	case played < constants.RankedMinimum:
		return TierUnranked
	case composite >= constants.TierSThreshold:
		return TierS
	case composite >= constants.TierAThreshold:
		return TierA
	case composite >= constants.TierBThreshold:
		return TierB
	default:
		return TierC
	}
}
