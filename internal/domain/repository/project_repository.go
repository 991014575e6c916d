package repository

import (
	"context"
	"errors"

	"uas-projects-service/internal/domain/entity"
)

var (
	// ErrProjectNotFound is returned by FindByID when no project has the id
	ErrProjectNotFound = errors.New("project not found")

	// ErrRevisionConflict is returned by Upsert when the expected revision
	// no longer matches the stored one
	ErrRevisionConflict = errors.New("project was modified by another writer")
)

// UpsertResult reports which branch an upsert took
type UpsertResult struct {
	Created bool
}

// ProjectRepository defines the storage contract for project aggregates.
// Every backend must behave identically for these operations.
type ProjectRepository interface {
	// ListAll returns every stored project. Records whose embedded
	// collections cannot be decoded are skipped.
	ListAll(ctx context.Context) ([]*entity.Project, error)

	// FindByID returns ErrProjectNotFound when the id is unknown
	FindByID(ctx context.Context, id string) (*entity.Project, error)

	// Upsert fully overwrites the project with the same business id or inserts it.
	// When expectedRevision > 0 the write only succeeds if the stored revision matches.
	// On success project.Revision holds the new stored revision.
	Upsert(ctx context.Context, project *entity.Project, expectedRevision int64) (UpsertResult, error)

	// DeleteByID removes the project. Unknown ids are not an error.
	DeleteByID(ctx context.Context, id string) error

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error
}
