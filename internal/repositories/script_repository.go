package repositories

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"aith/db/migrations"
	"aith/internal/models"
	"aith/internal/ports"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

const scriptColumns = `id::text, status, topic, created_at, updated_at`

// claimLatestSQL moves the newest row in status $1 to status $2. SKIP LOCKED
// makes a concurrent claim pick the next row instead of the same one.
const claimLatestSQL = `
	UPDATE scripts
	SET status = $2, updated_at = now()
	WHERE id = (
		SELECT id FROM scripts
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	)
	RETURNING ` + scriptColumns

type ScriptRepository struct {
	db *pgxpool.Pool
}

func NewScriptRepository(db *pgxpool.Pool) *ScriptRepository {
	return &ScriptRepository{db: db}
}

// ClaimLatest atomically moves the newest script in status from to status to
// and returns it. Rows locked by a concurrent claim are skipped, so two callers
// never receive the same script. Returns ports.ErrNoScript when nothing matches.
func (r *ScriptRepository) ClaimLatest(ctx context.Context, from, to models.ScriptStatus) (*models.Script, error) {
	row := r.db.QueryRow(ctx, claimLatestSQL, string(from), string(to))

	s, err := scanScript(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrNoScript
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// SetStatus changes the status of id only if it is currently from.
func (r *ScriptRepository) SetStatus(ctx context.Context, id string, from, to models.ScriptStatus) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE scripts
		SET status = $3, updated_at = now()
		WHERE id::text = $1 AND status = $2
	`, id, string(from), string(to))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ports.ErrStatusConflict
	}
	return nil
}

func (r *ScriptRepository) Get(ctx context.Context, id string) (*models.Script, error) {
	row := r.db.QueryRow(ctx, `SELECT `+scriptColumns+` FROM scripts WHERE id::text = $1`, id)

	s, err := scanScript(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrNoScript
	}
	return s, err
}

// List returns scripts newest first, optionally filtered by status.
func (r *ScriptRepository) List(ctx context.Context, status models.ScriptStatus, limit int) ([]models.Script, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+scriptColumns+`
		FROM scripts
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`, string(status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Script, 0)
	for rows.Next() {
		s, err := scanScript(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *ScriptRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Migrate applies every embedded migration not yet recorded in schema_migrations.
func (r *ScriptRepository) Migrate(ctx context.Context) ([]string, error) {
	if _, err := r.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version text PRIMARY KEY, applied_at timestamptz NOT NULL DEFAULT now())`); err != nil {
		return nil, err
	}

	files, err := listMigrationFiles(migrations.Files)
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, file := range files {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, file).Scan(&exists); err != nil {
			return applied, err
		}
		if exists {
			continue
		}
		if err := r.applyMigration(ctx, file); err != nil {
			return applied, err
		}
		applied = append(applied, file)
	}
	return applied, nil
}

func (r *ScriptRepository) applyMigration(ctx context.Context, file string) error {
	sqlBytes, err := migrations.Files.ReadFile(file)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("apply migration %s: %w", file, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, file); err != nil {
		return fmt.Errorf("record migration %s: %w", file, err)
	}
	return tx.Commit(ctx)
}

func listMigrationFiles(migFS fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(migFS, ".")
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

func scanScript(row pgx.Row) (*models.Script, error) {
	var (
		s      models.Script
		status string
	)
	if err := row.Scan(&s.ID, &status, &s.Topic, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Status = models.ScriptStatus(status)
	return &s, nil
}
