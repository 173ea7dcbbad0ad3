// Package main is the schema migration CLI.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"varibulk/internal/infrastructure/config"
	"varibulk/internal/infrastructure/migration"
	"varibulk/pkg/logger"
)

func main() {
	var (
		sourceURL string
		logLevel  string
	)
	flag.StringVar(&sourceURL, "source", "", "Migration source URL, e.g. file://migrations (default: embedded)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	_ = godotenv.Load()

	l, err := logger.New(logger.Config{Level: logLevel, Development: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := l.Zap()
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}
	if sourceURL == "" {
		sourceURL = cfg.Database.MigrationsPath
	}

	m, err := migration.New(cfg.Database.DSN(), sourceURL, log)
	if err != nil {
		log.Fatal("failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("migration up failed", zap.Error(err))
		}

	case "down":
		if err := m.Down(); err != nil {
			log.Fatal("migration down failed", zap.Error(err))
		}

	case "step":
		n := intArg(log, args, "step count")
		if err := m.Steps(n); err != nil {
			log.Fatal("migration step failed", zap.Error(err))
		}

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("failed to get version", zap.Error(err))
		}
		if version == 0 {
			log.Info("no migrations applied")
			return
		}
		log.Info("current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))

	case "force":
		version := intArg(log, args, "version")
		if err := m.Force(version); err != nil {
			log.Fatal("force version failed", zap.Error(err))
		}

	default:
		log.Error("unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

func intArg(log *zap.Logger, args []string, name string) int {
	if len(args) < 2 {
		log.Fatal(name + " required")
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatal("invalid "+name, zap.String("value", args[1]))
	}
	return n
}

func printUsage() {
	fmt.Println(`varibulk database migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                Apply all pending migrations
  down              Roll back all migrations
  step <n>          Apply n migrations (positive=up, negative=down)
  version           Show current migration version
  force <version>   Force set migration version after a failed run

Flags:
  -source string    Migration source URL (default: migrations embedded in the binary)
  -log-level string Log level: debug, info, warn, error (default: info)

Configuration is read from config.toml and VARIBULK_DATABASE_* variables.`)
}
