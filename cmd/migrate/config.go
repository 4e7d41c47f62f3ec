package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

func migrationsDir() string {
	if v := os.Getenv("BOOKSHELF_MIGRATIONS_DIR"); v != "" {
		return v
	}
	return "db/migrations"
}

// gooseLogger routes goose output through zerolog.
type gooseLogger struct {
	log zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Info().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Fatal().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
