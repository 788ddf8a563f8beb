package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/emiliopalmerini/mreport/migrations"
)

// Migration represents a single database migration with up and down SQL.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

var upPattern = regexp.MustCompile(`^(\d+)_(.+)\.up\.sql$`)

// Migrator applies numbered migrations from source to db and reports
// progress to out.
type Migrator struct {
	db     *sql.DB
	source fs.FS
	out    io.Writer
}

// New returns a Migrator over the embedded submission schema.
func New(db *sql.DB, out io.Writer) *Migrator {
	return NewWithSource(db, migrations.FS, out)
}

// NewWithSource returns a Migrator reading migration files from source.
func NewWithSource(db *sql.DB, source fs.FS, out io.Writer) *Migrator {
	if out == nil {
		out = io.Discard
	}
	return &Migrator{db: db, source: source, out: out}
}

// EnsureMigrationsTable creates the schema_migrations table if it doesn't exist.
func (m *Migrator) EnsureMigrationsTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			dirty INTEGER NOT NULL DEFAULT 0
		)
	`)
	return err
}

// CurrentVersion returns the current migration version and dirty state.
func (m *Migrator) CurrentVersion(ctx context.Context) (int, bool, error) {
	var version int
	var dirty int

	err := m.db.QueryRowContext(ctx, `SELECT version, dirty FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return version, dirty == 1, nil
}

func (m *Migrator) setVersion(ctx context.Context, version int, dirty bool) error {
	dirtyInt := 0
	if dirty {
		dirtyInt = 1
	}

	if _, err := m.db.ExecContext(ctx, `DELETE FROM schema_migrations`); err != nil {
		return err
	}
	if version == 0 {
		return nil
	}
	_, err := m.db.ExecContext(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES (?, ?)`, version, dirtyInt)
	return err
}

// Load reads all migration files and returns them sorted by version.
func (m *Migrator) Load() ([]Migration, error) {
	var result []Migration

	err := fs.WalkDir(m.source, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		matches := upPattern.FindStringSubmatch(path.Base(p))
		if matches == nil {
			return nil
		}

		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return fmt.Errorf("invalid migration version in %s: %w", p, err)
		}

		upSQL, err := fs.ReadFile(m.source, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		downPath := path.Join(path.Dir(p), fmt.Sprintf("%s_%s.down.sql", matches[1], matches[2]))
		downSQL, err := fs.ReadFile(m.source, downPath)
		if err != nil {
			downSQL = nil
		}

		result = append(result, Migration{
			Version: version,
			Name:    matches[2],
			UpSQL:   string(upSQL),
			DownSQL: string(downSQL),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Version < result[j].Version
	})

	return result, nil
}

// Up runs all pending migrations and returns how many were applied.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	all, current, err := m.prepare(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, mig := range all {
		if mig.Version <= current {
			continue
		}
		if err := m.run(ctx, mig, true); err != nil {
			return count, err
		}
		count++
	}

	if count == 0 {
		fmt.Fprintln(m.out, "No migrations to run")
	} else {
		version, _, _ := m.CurrentVersion(ctx)
		fmt.Fprintf(m.out, "Migrated to version %d (%d migrations applied)\n", version, count)
	}
	return count, nil
}

// To migrates up or down until target is the current version.
func (m *Migrator) To(ctx context.Context, target int) error {
	all, current, err := m.prepare(ctx)
	if err != nil {
		return err
	}

	switch {
	case target > current:
		fmt.Fprintf(m.out, "Migrating up to version %d...\n", target)
		for _, mig := range all {
			if mig.Version <= current {
				continue
			}
			if mig.Version > target {
				break
			}
			if err := m.run(ctx, mig, true); err != nil {
				return err
			}
		}
	case target < current:
		fmt.Fprintf(m.out, "Migrating down to version %d...\n", target)
		for i := len(all) - 1; i >= 0; i-- {
			mig := all[i]
			if mig.Version > current {
				continue
			}
			if mig.Version <= target {
				break
			}
			if mig.DownSQL == "" {
				return fmt.Errorf("no down migration for version %d", mig.Version)
			}
			if err := m.run(ctx, mig, false); err != nil {
				return err
			}
		}
	default:
		fmt.Fprintln(m.out, "Already at target version")
		return nil
	}

	fmt.Fprintf(m.out, "Migrated to version %d\n", target)
	return nil
}

func (m *Migrator) prepare(ctx context.Context) ([]Migration, int, error) {
	if err := m.EnsureMigrationsTable(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to create migrations table: %w", err)
	}

	current, dirty, err := m.CurrentVersion(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return nil, 0, fmt.Errorf("database is in dirty state at version %d, manual intervention required", current)
	}

	all, err := m.Load()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load migrations: %w", err)
	}
	return all, current, nil
}

// run executes a single migration. The version is marked dirty while its
// statements run so a failure leaves a visible trace.
func (m *Migrator) run(ctx context.Context, mig Migration, up bool) error {
	direction := "up"
	sqlContent := mig.UpSQL
	targetVersion := mig.Version
	if !up {
		direction = "down"
		sqlContent = mig.DownSQL
		targetVersion = mig.Version - 1
	}

	fmt.Fprintf(m.out, "  %s %d_%s...\n", direction, mig.Version, mig.Name)

	if err := m.setVersion(ctx, mig.Version, true); err != nil {
		return fmt.Errorf("failed to set dirty flag: %w", err)
	}

	for _, stmt := range SplitSQL(sqlContent) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration %d %s: %w\nSQL: %s", mig.Version, direction, err, stmt)
		}
	}

	if err := m.setVersion(ctx, targetVersion, false); err != nil {
		return fmt.Errorf("failed to clear dirty flag: %w", err)
	}
	return nil
}

// SplitSQL splits a SQL script by semicolons and drops empty statements.
// Semicolons inside string literals are not supported.
func SplitSQL(script string) []string {
	var statements []string
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

// RunAll runs all pending migrations on the provided database.
func RunAll(ctx context.Context, db *sql.DB) error {
	_, err := New(db, io.Discard).Up(ctx)
	return err
}
