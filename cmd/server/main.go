package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/codex-employee-api/internal/adapters/http/handler"
	pgrepo "github.com/ogurasousui/codex-employee-api/internal/adapters/repository/postgres"
	sqliterepo "github.com/ogurasousui/codex-employee-api/internal/adapters/repository/sqlite"
	"github.com/ogurasousui/codex-employee-api/internal/core/employee"
	"github.com/ogurasousui/codex-employee-api/internal/platform/config"
	pg "github.com/ogurasousui/codex-employee-api/internal/platform/db/postgres"
	sqlitedb "github.com/ogurasousui/codex-employee-api/internal/platform/db/sqlite"
	"github.com/ogurasousui/codex-employee-api/internal/platform/logger"
	"github.com/ogurasousui/codex-employee-api/internal/platform/server"
	"github.com/rs/zerolog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := config.LoadDotEnv(); err != nil {
		bootLog.Fatal().Err(err).Msg("failed to load .env")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		bootLog.Fatal().Err(err).Str("path", cfgPath).Msg("failed to load config")
	}

	log, err := logger.New(cfg.Logging, os.Stdout)
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to build logger")
	}

	var (
		repo  employee.Repository
		tx    employee.TransactionManager
		store handler.Pinger
	)

	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := sqlitedb.Open(ctx, cfg.Database.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open sqlite database")
		}
		defer db.Close()

		repo = sqliterepo.NewEmployeeRepository(db)
		store = handler.PingerFunc(db.PingContext)
		log.Info().Str("path", cfg.Database.SQLitePath).Msg("using sqlite store")
	default:
		dbPool, err := pg.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize database pool")
		}
		defer dbPool.Close()

		repo = pgrepo.NewEmployeeRepository(dbPool)
		tx = pg.NewTransactionManager(dbPool)
		store = dbPool
	}

	svc := employee.NewService(repo, nil, tx)
	router := handler.NewRouter(svc, store, log)
	srv := server.New(cfg.Server, router, log)

	if err := srv.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}
