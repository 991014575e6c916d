package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"uas-projects-service/internal/domain/entity"
	"uas-projects-service/internal/domain/repository"
	"uas-projects-service/pkg/logger"
	"uas-projects-service/pkg/metrics"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository implements ProjectRepository on a relational database via GORM.
// Flights and crew are stored as JSON text columns.
type GormProjectRepository struct {
	db      *gorm.DB
	logger  logger.Logger
	metrics *metrics.Metrics
}

// Projects GORM model for database mapping
type Projects struct {
	ID          uint      `gorm:"primaryKey"`
	BusinessID  string    `gorm:"column:business_id;uniqueIndex;not null"`
	Name        string    `gorm:"column:name;not null"`
	Client      string    `gorm:"column:client"`
	Location    string    `gorm:"column:location"`
	StartDate   string    `gorm:"column:start_date"`
	EndDate     string    `gorm:"column:end_date"`
	Description string    `gorm:"column:description"`
	Flights     string    `gorm:"column:flights;type:text"`
	Crew        string    `gorm:"column:crew;type:text"`
	Revision    int64     `gorm:"column:revision;not null;default:1"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

// TableName overrides the default table name
func (Projects) TableName() string {
	return "uas_projects"
}

// NewGormProjectRepository creates a new GORM project repository and migrates its table
func NewGormProjectRepository(db *gorm.DB, log logger.Logger, m *metrics.Metrics) (*GormProjectRepository, error) {
	if err := db.AutoMigrate(&Projects{}); err != nil {
		return nil, fmt.Errorf("migrating %s: %w", Projects{}.TableName(), err)
	}
	return &GormProjectRepository{
		db:      db,
		logger:  log.With("store", "postgres"),
		metrics: m,
	}, nil
}

// ListAll returns all projects ordered by creation
func (r *GormProjectRepository) ListAll(ctx context.Context) ([]*entity.Project, error) {
	r.metrics.StoreOperations.WithLabelValues("list").Inc()

	var records []Projects
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	projects := make([]*entity.Project, 0, len(records))
	for i := range records {
		p, err := toProjectEntity(&records[i])
		if err != nil {
			r.logger.Warn("Skipping project with malformed embedded data", "id", records[i].BusinessID, "error", err)
			r.metrics.SkippedRecords.Inc()
			continue
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// FindByID finds a project by business id
func (r *GormProjectRepository) FindByID(ctx context.Context, id string) (*entity.Project, error) {
	r.metrics.StoreOperations.WithLabelValues("find").Inc()

	var record Projects
	err := r.db.WithContext(ctx).Where("business_id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding project: %w", err)
	}
	return toProjectEntity(&record)
}

// Upsert inserts or overwrites the project by business id in one transaction.
// The existing row is locked, so concurrent last-write-wins saves queue up
// instead of failing; only a non-zero expectedRevision can conflict.
func (r *GormProjectRepository) Upsert(ctx context.Context, project *entity.Project, expectedRevision int64) (repository.UpsertResult, error) {
	r.metrics.StoreOperations.WithLabelValues("upsert").Inc()

	flights, crew, err := encodeCollections(project)
	if err != nil {
		return repository.UpsertResult{}, err
	}

	result := repository.UpsertResult{}
	now := time.Now().UTC()
	fields := map[string]interface{}{
		"name":        project.Name,
		"client":      project.Client,
		"location":    project.Location,
		"start_date":  project.StartDate,
		"end_date":    project.EndDate,
		"description": project.Description,
		"flights":     flights,
		"crew":        crew,
		"updated_at":  now,
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Projects
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("business_id = ?", project.ID).
			First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			if expectedRevision > 0 {
				return repository.ErrRevisionConflict
			}
			return r.insert(tx, project, flights, crew, fields, now, &result)
		}
		if err != nil {
			return fmt.Errorf("checking project: %w", err)
		}

		if expectedRevision > 0 && expectedRevision != existing.Revision {
			return repository.ErrRevisionConflict
		}

		// map updates so empty strings overwrite previous values
		fields["revision"] = existing.Revision + 1
		res := tx.Model(&Projects{}).
			Where("business_id = ?", project.ID).
			Updates(fields)
		if res.Error != nil {
			return fmt.Errorf("updating project: %w", res.Error)
		}
		project.Revision = existing.Revision + 1
		project.CreatedAt = existing.CreatedAt
		return nil
	})
	if err != nil {
		return repository.UpsertResult{}, err
	}

	project.UpdatedAt = now
	return result, nil
}

// insert creates the row. A row inserted concurrently by another caller is
// overwritten through ON CONFLICT; the returned revision tells the two apart.
func (r *GormProjectRepository) insert(tx *gorm.DB, project *entity.Project, flights, crew string, fields map[string]interface{}, now time.Time, result *repository.UpsertResult) error {
	model := Projects{
		BusinessID:  project.ID,
		Name:        project.Name,
		Client:      project.Client,
		Location:    project.Location,
		StartDate:   project.StartDate,
		EndDate:     project.EndDate,
		Description: project.Description,
		Flights:     flights,
		Crew:        crew,
		Revision:    1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	onConflict := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		onConflict[k] = v
	}
	onConflict["revision"] = gorm.Expr(Projects{}.TableName() + ".revision + 1")

	err := tx.Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "business_id"}},
			DoUpdates: clause.Assignments(onConflict),
		},
		clause.Returning{Columns: []clause.Column{{Name: "id"}, {Name: "revision"}, {Name: "created_at"}}},
	).Create(&model).Error
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}

	result.Created = model.Revision == 1
	project.Revision = model.Revision
	project.CreatedAt = model.CreatedAt
	return nil
}

// DeleteByID removes the project; unknown ids are ignored
func (r *GormProjectRepository) DeleteByID(ctx context.Context, id string) error {
	r.metrics.StoreOperations.WithLabelValues("delete").Inc()

	if err := r.db.WithContext(ctx).Where("business_id = ?", id).Delete(&Projects{}).Error; err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// Ping checks the database connection
func (r *GormProjectRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Convert GORM model to domain entity
func toProjectEntity(record *Projects) (*entity.Project, error) {
	flights, crew, err := decodeCollections(record.Flights, record.Crew)
	if err != nil {
		return nil, err
	}
	return &entity.Project{
		ID:          record.BusinessID,
		Name:        record.Name,
		Client:      record.Client,
		Location:    record.Location,
		StartDate:   record.StartDate,
		EndDate:     record.EndDate,
		Description: record.Description,
		Flights:     flights,
		Crew:        crew,
		Revision:    record.Revision,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}, nil
}
