// Package migration applies the versioned SQL schema with golang-migrate.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// MigrationsTable records the applied schema version
const MigrationsTable = "schema_migrations"

// State is the schema version recorded in the database
type State struct {
	Version uint
	Dirty   bool
	// Fresh is true when no migration was ever applied
	Fresh bool
}

// Runner applies migrations against one PostgreSQL database
type Runner struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// Source selects where migration files are read from
type Source func() (name string, drv source.Driver, url string, err error)

// FromDir reads migrations from a directory on disk
func FromDir(dir string) Source {
	return func() (string, source.Driver, string, error) {
		u, err := dirURL(dir)
		return "file", nil, u, err
	}
}

// FromFS reads migrations from an embedded file system
func FromFS(fsys fs.FS, root string) Source {
	return func() (string, source.Driver, string, error) {
		drv, err := iofs.New(fsys, root)
		return "iofs", drv, "", err
	}
}

func dirURL(dir string) (string, error) {
	if dir == "" {
		return "", errors.New("migrations directory is empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve migrations directory: %w", err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

// Open builds a runner on an existing connection. The caller keeps ownership of db.
func Open(db *sql.DB, src Source, logger *zap.Logger) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}
	name, srcDrv, srcURL, err := src()
	if err != nil {
		return nil, err
	}

	var m *migrate.Migrate
	if srcDrv != nil {
		m, err = migrate.NewWithInstance(name, srcDrv, "postgres", driver)
	} else {
		m, err = migrate.NewWithDatabaseInstance(srcURL, "postgres", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	m.Log = zapMigrateLogger{log: logger.Sugar(), verbose: logger.Core().Enabled(zap.DebugLevel)}
	return &Runner{m: m, logger: logger}, nil
}

// State reports the current version
func (r *Runner) State() (State, error) {
	version, dirty, err := r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return State{Fresh: true}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("read schema version: %w", err)
	}
	return State{Version: version, Dirty: dirty}, nil
}

// Up applies every pending migration
func (r *Runner) Up() (State, error) {
	return r.apply("up", r.m.Up())
}

// Down reverts every applied migration
func (r *Runner) Down() (State, error) {
	return r.apply("down", r.m.Down())
}

// Steps moves n migrations forward, or back when n is negative
func (r *Runner) Steps(n int) (State, error) {
	if n == 0 {
		return r.State()
	}
	return r.apply(fmt.Sprintf("steps %+d", n), r.m.Steps(n))
}

// To migrates up or down until version is the current one
func (r *Runner) To(version uint) (State, error) {
	return r.apply(fmt.Sprintf("to %d", version), r.m.Migrate(version))
}

// Force records version as applied and clears the dirty flag without running SQL
func (r *Runner) Force(version int) error {
	r.logger.Warn("Forcing schema version", zap.Int("version", version))
	if err := r.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Drop removes every table in the database, including the version table
func (r *Runner) Drop() error {
	r.logger.Warn("Dropping all database objects")
	if err := r.m.Drop(); err != nil {
		return fmt.Errorf("drop database: %w", err)
	}
	return nil
}

// Close releases the source and the connection the driver reserved. db stays open.
func (r *Runner) Close() error {
	srcErr, dbErr := r.m.Close()
	return errors.Join(srcErr, dbErr)
}

func (r *Runner) apply(op string, err error) (State, error) {
	if errors.Is(err, migrate.ErrNoChange) {
		r.logger.Info("Schema already current", zap.String("op", op))
		return r.State()
	}
	if err != nil {
		return State{}, fmt.Errorf("migrate %s: %w", op, err)
	}
	st, err := r.State()
	if err != nil {
		return st, err
	}
	r.logger.Info("Schema migrated",
		zap.String("op", op),
		zap.Uint("version", st.Version),
		zap.Bool("dirty", st.Dirty),
	)
	return st, nil
}

// zapMigrateLogger implements migrate.Logger
type zapMigrateLogger struct {
	log     *zap.SugaredLogger
	verbose bool
}

func (l zapMigrateLogger) Printf(format string, v ...any) {
	l.log.Debugf(strings.TrimRight(format, "\n"), v...)
}

func (l zapMigrateLogger) Verbose() bool {
	return l.verbose
}
