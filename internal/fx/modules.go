package fx

import (
	"database/sql"

	"github.com/AshfaaqK/JLTV-rankngs/internal/config"
	"github.com/AshfaaqK/JLTV-rankngs/internal/database"
	"github.com/AshfaaqK/JLTV-rankngs/internal/db"
	"github.com/AshfaaqK/JLTV-rankngs/internal/ledger"
	"github.com/AshfaaqK/JLTV-rankngs/internal/logger"
	"github.com/AshfaaqK/JLTV-rankngs/internal/metrics"
	"github.com/AshfaaqK/JLTV-rankngs/internal/repository"
	"github.com/AshfaaqK/JLTV-rankngs/internal/server"
	"github.com/AshfaaqK/JLTV-rankngs/internal/service"

	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

func ProvideStore(repo *repository.LedgerRepository) ledger.Store {
	return repo
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	fx.Provide(metrics.New),
	// ledger
	fx.Provide(repository.NewLedgerRepository),
	fx.Provide(ProvideStore),
	// svc
	fx.Provide(service.NewHistoryService),
	fx.Provide(service.NewStandingsService),
	fx.Provide(service.NewBalanceService),
	// server
	fx.Provide(server.NewRankingServer),
)
