package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AshfaaqK/JLTV-rankngs/internal/db"
	"github.com/AshfaaqK/JLTV-rankngs/internal/domain"
	"github.com/AshfaaqK/JLTV-rankngs/internal/ledger"
	"github.com/rs/zerolog"
)

// LedgerRepository is the SQLite ledger.Store. Reads outside Atomically go
// straight to the pool; writes only happen through a transaction.
type LedgerRepository struct {
	*store
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

var _ ledger.Store = (*LedgerRepository)(nil)

func NewLedgerRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *LedgerRepository {
	return &LedgerRepository{
		store:   &store{q: queries},
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *LedgerRepository) Atomically(ctx context.Context, fn func(tx ledger.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&store{q: r.queries.WithTx(tx)}); err != nil {
		r.logger.Debug().Err(err).Msg("ledger transaction rolled back")
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// store implements ledger.Tx over whichever Queries it was handed, pooled or
// transactional.
type store struct {
	q *db.Queries
}

var _ ledger.Tx = (*store)(nil)

func now() time.Time {
	return time.Now().UTC()
}

func lookupErr(err error, what string, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", what, id, domain.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s %v: %w", what, id, err)
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func aggregateParams(a domain.Aggregate) db.AggregateParams {
	return db.AggregateParams{
		Played:             int64(a.Played),
		TotalWins:          int64(a.TotalWins),
		TotalKills:         int64(a.TotalKills),
		TotalRounds:        int64(a.TotalRounds),
		AvgKills:           a.AvgKills,
		Kpr:                a.KPR,
		AvgDamage:          int64(a.AvgDamage),
		Winrate:            int64(a.Winrate),
		Inconsistency:      nullFloat(a.Inconsistency),
		TeamBalance:        int64(a.TeamBalance),
		CompositeRating:    a.CompositeRating,
		BaselineRating:     a.BaselineRating,
		AverageMatchRating: a.AverageMatchRating,
	}
}
