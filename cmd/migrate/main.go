package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/aryan0dhankhar/hrportal/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/hrportal/pkg/config"
	"github.com/aryan0dhankhar/hrportal/pkg/database"
)

func main() {
	action := flag.String("action", "up", "migration action: up, down, drop or version")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	migrator, err := database.NewMigrator(cfg.Database.URL(), log)
	if err != nil {
		log.Error("failed to open migrator", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer migrator.Close()

	if err := migrator.Run(*action); err != nil {
		log.Error("migration failed", slog.String("action", *action), slog.String("error", err.Error()))
		os.Exit(1)
	}
}
