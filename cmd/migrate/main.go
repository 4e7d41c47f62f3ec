package main

import (
	"context"
	"flag"

	"bookshelf/internal/config"
	"bookshelf/internal/database"
	"bookshelf/internal/logger"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log := logger.New("error", true)
		log.Fatal().Err(err).Msg("cannot load config")
	}
	log := logger.New(cfg.Log.Level, true).With().Str("component", "migrate").Logger()

	dir := migrationsDir()
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal().Err(err).Msg("cannot set goose dialect")
	}

	if *command == "create" {
		if *name == "" {
			log.Fatal().Msg("-name is required for 'create'")
		}
		if err := goose.Create(nil, dir, *name, "sql"); err != nil {
			log.Fatal().Err(err).Msg("cannot create migration")
		}
		return
	}

	db, err := database.New(context.Background(), cfg.Database, log, false)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", database.RedactDSN(cfg.Database.DSN)).Msg("cannot open database")
	}
	defer db.Close()

	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	defer sqlDB.Close()

	switch *command {
	case "up":
		err = goose.Up(sqlDB, dir)
	case "down":
		err = goose.Down(sqlDB, dir)
	case "status":
		err = goose.Status(sqlDB, dir)
	default:
		log.Fatal().Str("command", *command).Msg("unknown command, use: up, down, status, create")
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", *command).Msg("migration failed")
	}
	log.Info().Str("command", *command).Str("dir", dir).Msg("migrations done")
}
