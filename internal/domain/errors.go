package domain

import "errors"

var (
	// ErrValidation marks malformed or out-of-range input, rejected before
	// any mutation.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a referenced game, player or season that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConsistency marks a broken ledger invariant. It is never recoverable.
	ErrConsistency = errors.New("ledger consistency violation")
	// ErrSeasonSealed is returned for edits to a season that later seasons
	// already build on. It is always wrapped together with ErrValidation.
	ErrSeasonSealed = errors.New("season is sealed")
)
