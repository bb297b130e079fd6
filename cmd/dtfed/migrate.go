package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/BaSui01/dtfed/config"
	"github.com/BaSui01/dtfed/internal/migration"
)

// =============================================================================
// 数据库迁移命令
// =============================================================================

func runMigrate(ctx context.Context, args []string, out io.Writer) error {
	if len(args) < 1 {
		printMigrateUsage(out)
		return fmt.Errorf("%w: migrate requires a subcommand", errUsage)
	}
	sub := args[0]
	if sub == "help" || sub == "-h" || sub == "--help" {
		printMigrateUsage(out)
		return nil
	}

	fs, configPath := newFlagSet("migrate " + sub)
	dbType := fs.String("db-type", "", "Database type (postgres, mysql, sqlite)")
	dbURL := fs.String("db-url", "", "Database connection URL")
	if err := parseFlags(fs, args[1:]); err != nil {
		return err
	}

	var n int
	switch sub {
	case "up", "down", "version", "status":
	case "steps", "force":
		if fs.NArg() != 1 {
			return fmt.Errorf("%w: migrate %s <n>", errUsage, sub)
		}
		v, err := strconv.Atoi(fs.Arg(0))
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", errUsage, fs.Arg(0))
		}
		n = v
	default:
		return fmt.Errorf("%w: unknown migrate subcommand %q", errUsage, sub)
	}

	m, err := createMigrator(*configPath, *dbType, *dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	cli := migration.NewCLI(m)
	cli.SetOutput(out)

	switch sub {
	case "up":
		return cli.RunUp(ctx)
	case "down":
		return cli.RunDown(ctx)
	case "steps":
		return cli.RunSteps(ctx, n)
	case "force":
		return cli.RunForce(ctx, n)
	case "version":
		return cli.RunVersion(ctx)
	default:
		return cli.RunStatus(ctx)
	}
}

// createMigrator 显式给出 --db-type 与 --db-url 时直接使用，否则读取配置
func createMigrator(configPath, dbType, dbURL string) (*migration.DefaultMigrator, error) {
	if dbType != "" && dbURL != "" {
		return migration.NewMigratorFromURL(dbType, dbURL, zap.NewNop())
	}

	loader := config.NewLoader()
	if configPath != "" {
		loader = loader.WithConfigPath(configPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbType != "" {
		cfg.Database.Driver = dbType
	}
	if !cfg.Database.FeatureStoreEnabled() {
		return nil, fmt.Errorf("database.driver is not configured")
	}

	logger := initLogger(cfg.Log)
	return migration.NewMigratorFromDatabaseConfig(cfg.Database, logger)
}

func printMigrateUsage(out io.Writer) {
	fmt.Fprintln(out, `Database Migration Commands

Usage:
  dtfed migrate <subcommand> [options]

Subcommands:
  up          Apply all pending migrations
  down        Rollback the last migration
  steps <n>   Apply n migrations, negative n rolls back
  force <v>   Force set migration version (use with caution)
  version     Show current migration version
  status      Show migration status
  help        Show this help message

Options:
  --config <path>     Path to configuration file (YAML)
  --db-type <type>    Database type: postgres, mysql, sqlite (default: from config)
  --db-url <url>      Database connection URL (default: from config)

Examples:
  dtfed migrate up
  dtfed migrate steps -- -1
  dtfed migrate status --db-type sqlite --db-url "file:dtfed.db?mode=rwc"`)
}
