package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ogurasousui/codex-employee-api/internal/platform/config"
	sqlitedb "github.com/ogurasousui/codex-employee-api/internal/platform/db/sqlite"
	"github.com/ogurasousui/codex-employee-api/internal/platform/logger"
	"github.com/rs/zerolog"
)

func main() {
	var (
		configPath    = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		migrationsDir = flag.String("dir", "assets/migrations", "directory containing migration files")
	)
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := config.LoadDotEnv(); err != nil {
		bootLog.Fatal().Err(err).Msg("failed to load .env")
	}

	cfg, err := config.Load(effectiveConfigPath(*configPath))
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log, err := logger.New(cfg.Logging, os.Stderr)
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to build logger")
	}

	switch cfg.Database.Driver {
	case config.DriverSQLite:
		err = runSQLiteMigration(action, cfg.Database.SQLitePath)
	default:
		err = runMigration(log, action, *migrationsDir, cfg.Database.DSN())
	}
	if err != nil {
		log.Fatal().Err(err).Str("action", action).Msg("migration failed")
	}

	log.Info().Str("action", action).Str("driver", cfg.Database.Driver).Msg("migration completed")
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}

func runMigration(log zerolog.Logger, action, dir, dsn string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve path for %s: %w", dir, err)
	}
	absDir = filepath.ToSlash(absDir)

	m, err := migrate.New(fmt.Sprintf("file://%s", absDir), dsn)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "drop":
		return m.Drop()
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				log.Info().Msg("no migration applied")
				return nil
			}
			return err
		}
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("current migration version")
		return nil
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}

// sqlite はスキーマを埋め込みで管理しているため up のみ対応します。
func runSQLiteMigration(action, path string) error {
	if action != "up" {
		return fmt.Errorf("action %q is not supported for sqlite", action)
	}
	db, err := sqlitedb.Open(context.Background(), path)
	if err != nil {
		return err
	}
	return db.Close()
}
