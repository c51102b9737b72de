package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

var migrationFile = regexp.MustCompile(`^(\d{3})_([a-z0-9_]+)\.sql$`)

// Migration is a single versioned SQL file on disk.
type Migration struct {
	Version int
	Name    string
	Path    string
}

// Migrator applies versioned SQL migrations from a directory. Applied
// versions are tracked in the schema_migrations table, which the migrator
// creates on first run.
type Migrator struct {
	pool *pgxpool.Pool
	dir  string
	log  zerolog.Logger
}

func NewMigrator(pool *pgxpool.Pool, dir string, log zerolog.Logger) *Migrator {
	return &Migrator{pool: pool, dir: dir, log: log}
}

// Up applies every pending migration in version order, each inside its own
// transaction.
func (m *Migrator) Up(ctx context.Context) error {
	if err := m.ensureTable(ctx); err != nil {
		return err
	}
	pending, err := m.Pending(ctx)
	if err != nil {
		return err
	}
	for _, mig := range pending {
		if err := m.apply(ctx, mig); err != nil {
			return fmt.Errorf("migration %03d_%s: %w", mig.Version, mig.Name, err)
		}
		m.log.Info().Int("version", mig.Version).Str("name", mig.Name).Msg("migration applied")
	}
	if len(pending) == 0 {
		m.log.Info().Msg("no pending migrations")
	}
	return nil
}

// Pending returns migrations on disk that have not been applied yet.
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	all, err := m.load()
	if err != nil {
		return nil, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}
	var pending []Migration
	for _, mig := range all {
		if !applied[mig.Version] {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

// Status returns every migration on disk together with its applied state.
func (m *Migrator) Status(ctx context.Context) ([]Migration, map[int]bool, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, nil, err
	}
	all, err := m.load()
	if err != nil {
		return nil, nil, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, nil, err
	}
	return all, applied, nil
}

func (m *Migrator) load() ([]Migration, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var migs []Migration
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		match := migrationFile.FindStringSubmatch(e.Name())
		if match == nil {
			continue
		}
		version, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, fmt.Errorf("migration version %q: %w", match[1], err)
		}
		migs = append(migs, Migration{
			Version: version,
			Name:    match[2],
			Path:    filepath.Join(m.dir, e.Name()),
		})
	}
	sort.Slice(migs, func(i, j int) bool { return migs[i].Version < migs[j].Version })
	for i := 1; i < len(migs); i++ {
		if migs[i].Version == migs[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %03d", migs[i].Version)
		}
	}
	return migs, nil
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}
	return nil
}

func (m *Migrator) applied(ctx context.Context) (map[int]bool, error) {
	rows, err := m.pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()
	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	sql, err := os.ReadFile(mig.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", mig.Path, err)
	}
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if _, err := tx.Exec(ctx, string(sql)); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
		mig.Version, mig.Name); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
