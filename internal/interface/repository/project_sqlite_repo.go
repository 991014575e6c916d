package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"uas-projects-service/internal/domain/entity"
	"uas-projects-service/internal/domain/repository"
	"uas-projects-service/pkg/logger"
	"uas-projects-service/pkg/metrics"
)

const sqliteProjectSchema = `CREATE TABLE IF NOT EXISTS projects (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	client      TEXT NOT NULL DEFAULT '',
	location    TEXT NOT NULL DEFAULT '',
	start_date  TEXT NOT NULL DEFAULT '',
	end_date    TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	flights     TEXT NOT NULL DEFAULT '[]',
	crew        TEXT NOT NULL DEFAULT '[]',
	revision    INTEGER NOT NULL DEFAULT 1,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
)`

// fixed width so created_at sorts lexically
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const sqliteProjectColumns = `id, name, client, location, start_date, end_date, description, flights, crew, revision, created_at, updated_at`

// SQLiteProjectRepository stores projects in a single SQLite table with
// flights and crew kept as JSON text columns
type SQLiteProjectRepository struct {
	db      *sql.DB
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewSQLiteProjectRepository creates the projects table if needed and returns the repository
func NewSQLiteProjectRepository(ctx context.Context, db *sql.DB, log logger.Logger, m *metrics.Metrics) (*SQLiteProjectRepository, error) {
	if _, err := db.ExecContext(ctx, sqliteProjectSchema); err != nil {
		return nil, fmt.Errorf("creating projects table: %w", err)
	}
	return &SQLiteProjectRepository{
		db:      db,
		logger:  log.With("store", "sqlite"),
		metrics: m,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// ListAll returns all projects in insertion order
func (r *SQLiteProjectRepository) ListAll(ctx context.Context) ([]*entity.Project, error) {
	r.metrics.StoreOperations.WithLabelValues("list").Inc()

	rows, err := r.db.QueryContext(ctx, `SELECT `+sqliteProjectColumns+` FROM projects ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	projects := []*entity.Project{}
	for rows.Next() {
		p, err := r.scanProject(rows)
		if err != nil {
			var decodeErr *blobDecodeError
			if errors.As(err, &decodeErr) {
				r.logger.Warn("Skipping project with malformed embedded data", "id", decodeErr.id, "error", decodeErr.err)
				r.metrics.SkippedRecords.Inc()
				continue
			}
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

// FindByID finds a project by business id
func (r *SQLiteProjectRepository) FindByID(ctx context.Context, id string) (*entity.Project, error) {
	r.metrics.StoreOperations.WithLabelValues("find").Inc()

	row := r.db.QueryRowContext(ctx, `SELECT `+sqliteProjectColumns+` FROM projects WHERE id = ?`, id)
	p, err := r.scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Upsert inserts the project or overwrites the row with the same id inside one transaction
func (r *SQLiteProjectRepository) Upsert(ctx context.Context, project *entity.Project, expectedRevision int64) (repository.UpsertResult, error) {
	r.metrics.StoreOperations.WithLabelValues("upsert").Inc()

	flights, crew, err := encodeCollections(project)
	if err != nil {
		return repository.UpsertResult{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return repository.UpsertResult{}, fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	var storedRevision int64
	var createdAt string
	err = tx.QueryRowContext(ctx, `SELECT revision, created_at FROM projects WHERE id = ?`, project.ID).
		Scan(&storedRevision, &createdAt)

	now := time.Now().UTC()
	result := repository.UpsertResult{}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		if expectedRevision > 0 {
			return result, repository.ErrRevisionConflict
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO projects (`+sqliteProjectColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
			project.ID, project.Name, project.Client, project.Location,
			project.StartDate, project.EndDate, project.Description,
			flights, crew,
			now.Format(storedTimeLayout), now.Format(storedTimeLayout),
		)
		if err != nil {
			return result, fmt.Errorf("inserting project: %w", err)
		}
		result.Created = true
		project.Revision = 1
		project.CreatedAt = now

	case err != nil:
		return result, fmt.Errorf("checking project: %w", err)

	default:
		if expectedRevision > 0 && expectedRevision != storedRevision {
			return result, repository.ErrRevisionConflict
		}
		res, err := tx.ExecContext(ctx, `UPDATE projects SET name = ?, client = ?, location = ?,
			start_date = ?, end_date = ?, description = ?, flights = ?, crew = ?,
			revision = revision + 1, updated_at = ?
			WHERE id = ? AND revision = ?`,
			project.Name, project.Client, project.Location,
			project.StartDate, project.EndDate, project.Description,
			flights, crew, now.Format(storedTimeLayout),
			project.ID, storedRevision,
		)
		if err != nil {
			return result, fmt.Errorf("updating project: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return result, repository.ErrRevisionConflict
		}
		project.Revision = storedRevision + 1
		project.CreatedAt = parseStoredTime(createdAt)
	}

	if err := tx.Commit(); err != nil {
		return repository.UpsertResult{}, fmt.Errorf("commit upsert: %w", err)
	}
	project.UpdatedAt = now
	return result, nil
}

// DeleteByID removes the project; unknown ids are ignored
func (r *SQLiteProjectRepository) DeleteByID(ctx context.Context, id string) error {
	r.metrics.StoreOperations.WithLabelValues("delete").Inc()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// Ping checks the database connection
func (r *SQLiteProjectRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteProjectRepository) scanProject(row rowScanner) (*entity.Project, error) {
	var p entity.Project
	var flights, crew, createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.Name, &p.Client, &p.Location, &p.StartDate, &p.EndDate,
		&p.Description, &flights, &crew, &p.Revision, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	p.Flights, p.Crew, err = decodeCollections(flights, crew)
	if err != nil {
		return nil, &blobDecodeError{id: p.ID, err: err}
	}
	p.CreatedAt = parseStoredTime(createdAt)
	p.UpdatedAt = parseStoredTime(updatedAt)
	return &p, nil
}

// blobDecodeError marks a row whose embedded collections could not be parsed
type blobDecodeError struct {
	id  string
	err error
}

func (e *blobDecodeError) Error() string {
	return fmt.Sprintf("project %s: %v", e.id, e.err)
}

func (e *blobDecodeError) Unwrap() error { return e.err }

func parseStoredTime(s string) time.Time {
	t, err := time.Parse(storedTimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
