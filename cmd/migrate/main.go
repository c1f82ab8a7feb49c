package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/ircomercio/ordens/internal/infrastructure/config"
	"github.com/ircomercio/ordens/internal/infrastructure/logger"
	"github.com/ircomercio/ordens/internal/infrastructure/migration"
)

const defaultMigrationsPath = "migrations"

func main() {
	var migrationsPath string
	flag.StringVar(&migrationsPath, "path", defaultMigrationsPath, "Path to migrations directory")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(config.LogConfig{Level: cfg.Log.Level, Format: "console", Output: "stdout"})
	defer func() {
		_ = log.Sync()
	}()

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		log.Fatal("Failed to resolve migrations path", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	migrator, err := migration.New(db, absPath, log)
	if err != nil {
		log.Fatal("Failed to initialize migrator", zap.Error(err))
	}

	switch command {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down()
	case "steps":
		if len(args) < 2 {
			log.Fatal("Usage: migrate steps <n>")
		}
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			log.Fatal("Steps argument must be an integer", zap.String("arg", args[1]))
		}
		err = migrator.Steps(n)
	case "version":
		version, dirty, verErr := migrator.Version()
		if verErr != nil {
			log.Fatal("Failed to read version", zap.Error(verErr))
		}
		log.Info("Current schema version",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty))
		return
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatal("Migration failed", zap.String("command", command), zap.Error(err))
	}
	log.Info("Migration finished", zap.String("command", command))
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [-path dir] <command>

Commands:
  up            apply all pending migrations
  down          roll back all migrations
  steps <n>     apply n migrations (negative rolls back)
  version       print the current schema version`)
}
