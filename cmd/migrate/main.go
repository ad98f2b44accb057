package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"github.com/storefront/backend/migrations"
	"go.uber.org/zap"
)

func main() {
	var (
		dir      string
		logLevel string
		confirm  bool
	)
	flag.StringVar(&dir, "path", "", "Migrations directory (default: the schema built into the binary)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&confirm, "confirm", false, "Required by drop")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}
	command := args[0]

	log, err := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stdout", Service: "storefront-migrate"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	switch command {
	case "create":
		if dir == "" {
			dir = "migrations"
		}
		if len(args) < 2 {
			log.Fatal("Usage: migrate create <name> [description]")
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		c, err := migration.CreateMigration(dir, args[1], description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created", zap.String("up", c.UpPath), zap.String("down", c.DownPath))
		return
	case "list":
		entries, err := migration.ListMigrations(sourceFS(dir))
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		for _, e := range entries {
			fmt.Printf("%s\tup=%t down=%t\n", e.FileName(), e.HasUp, e.HasDown)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Database.Driver != "postgres" {
		log.Fatal("Versioned migrations target PostgreSQL; sqlite databases use auto migration",
			zap.String("driver", cfg.Database.Driver))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	src := migration.FromFS(migrations.Files, ".")
	if dir != "" {
		src = migration.FromDir(dir)
	}
	runner, err := migration.Open(db, src, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer runner.Close()

	var state migration.State
	switch command {
	case "up":
		state, err = runner.Up()
	case "down":
		state, err = runner.Down()
	case "step":
		n, perr := strconv.Atoi(arg(args, 1))
		if perr != nil {
			log.Fatal("Usage: migrate step <n>", zap.Error(perr))
		}
		state, err = runner.Steps(n)
	case "goto":
		v, perr := strconv.ParseUint(arg(args, 1), 10, 32)
		if perr != nil {
			log.Fatal("Usage: migrate goto <version>", zap.Error(perr))
		}
		state, err = runner.To(uint(v))
	case "version":
		state, err = runner.State()
	case "force":
		v, perr := strconv.Atoi(arg(args, 1))
		if perr != nil {
			log.Fatal("Usage: migrate force <version>", zap.Error(perr))
		}
		if err = runner.Force(v); err == nil {
			state, err = runner.State()
		}
	case "drop":
		if !confirm {
			log.Fatal("Refusing to drop without -confirm")
		}
		err = runner.Drop()
	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}

	if state.Fresh {
		log.Info("No migrations applied")
		return
	}
	log.Info("Schema version", zap.Uint("version", state.Version), zap.Bool("dirty", state.Dirty))
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func sourceFS(dir string) fs.FS {
	if dir == "" {
		return migrations.Files
	}
	return os.DirFS(dir)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Storefront schema migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (negative rolls back)
  goto <version>        Migrate up or down to a version
  version               Show the current version
  force <version>       Record a version without running SQL
  drop                  Drop every table (migrate -confirm drop)
  create <name> [desc]  Write the next numbered up/down pair into -path
  list                  List migrations

Flags:
  -path string          Migrations directory (default: built-in schema)
  -log-level string     debug, info, warn, error (default: info)
  -confirm              Confirm drop

Environment:
  STOREFRONT_DATABASE_HOST, STOREFRONT_DATABASE_PORT, STOREFRONT_DATABASE_USER,
  STOREFRONT_DATABASE_PASSWORD, STOREFRONT_DATABASE_DBNAME, STOREFRONT_DATABASE_SSLMODE`)
}
