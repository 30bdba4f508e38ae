package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/shopstack-labs/shopstack-backend/pkg/config"
	"github.com/shopstack-labs/shopstack-backend/pkg/db"
	"github.com/shopstack-labs/shopstack-backend/pkg/logger"
	"github.com/shopstack-labs/shopstack-backend/pkg/migrate"
)

type migrateFlags struct {
	cmd     string
	dir     string
	name    string
	version string
}

func parseFlags() migrateFlags {
	var f migrateFlags
	flag.StringVar(&f.cmd, "cmd", "up", "migration command: up|down|status|version|create|validate")
	flag.StringVar(&f.dir, "dir", migrate.DefaultDir, "goose migrations directory")
	flag.StringVar(&f.name, "name", "", "migration name (for create)")
	flag.StringVar(&f.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()
	return f
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// runLocal handles commands that never touch the database. Returns false when
// the command needs a connection.
func runLocal(f migrateFlags) bool {
	switch f.cmd {
	case "create":
		if f.name == "" {
			fail("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(f.dir, f.name)
		if err != nil {
			fail("failed to create migration: %v", err)
		}
		fmt.Println("created migration:", path)
		return true

	case "validate":
		if err := migrate.ValidateDir(f.dir); err != nil {
			fail("migration validation failed: %v", err)
		}
		fmt.Println("migration validation passed")
		return true
	}
	return false
}

func main() {
	_ = godotenv.Load()
	f := parseFlags()

	if runLocal(f) {
		return
	}

	logg := logger.New(logger.Options{ServiceName: "migrate"})
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "loading config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{
		"env": cfg.App.Env,
		"cmd": f.cmd,
		"dir": f.dir,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "connecting to database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		logg.Error(ctx, "extracting sql handle", err)
		os.Exit(1)
	}

	switch f.cmd {
	case "up", "down", "status":
		if err := migrate.Run(ctx, sqlDB, f.dir, f.cmd); err != nil {
			fail("goose %s failed: %v", f.cmd, err)
		}

	case "version":
		if f.version == "" {
			fail("missing -version for version command")
		}
		if err := migrate.MigrateToVersion(ctx, sqlDB, f.dir, f.version); err != nil {
			fail("goose version migrate failed: %v", err)
		}

	default:
		fail("unknown -cmd value: %s", f.cmd)
	}
}
