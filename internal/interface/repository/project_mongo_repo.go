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

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProjectRepository implements ProjectRepository on a MongoDB collection.
// Documents are keyed by the business id field "id", not by _id.
type MongoProjectRepository struct {
	collection *mongo.Collection
	logger     logger.Logger
	metrics    *metrics.Metrics
}

// NewMongoProjectRepository creates a new MongoDB project repository
func NewMongoProjectRepository(db *mongo.Database, log logger.Logger, m *metrics.Metrics) *MongoProjectRepository {
	collection := db.Collection("projects")
	log = log.With("store", "mongo")

	// Unique index on the business id
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	idIndex := mongo.IndexModel{
		Keys:    bson.M{"id": 1},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, idIndex); err != nil {
		log.Warn("Failed to create unique index on projects.id", "error", err)
	}

	return &MongoProjectRepository{
		collection: collection,
		logger:     log,
		metrics:    m,
	}
}

// ListAll returns all projects. Documents that fail to decode are skipped.
func (r *MongoProjectRepository) ListAll(ctx context.Context) ([]*entity.Project, error) {
	r.metrics.StoreOperations.WithLabelValues("list").Inc()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer cursor.Close(ctx)

	projects := []*entity.Project{}
	for cursor.Next(ctx) {
		var p entity.Project
		if err := cursor.Decode(&p); err != nil {
			id, _ := cursor.Current.Lookup("id").StringValueOK()
			r.logger.Warn("Skipping project with malformed embedded data", "id", id, "error", err)
			r.metrics.SkippedRecords.Inc()
			continue
		}
		p.EnsureCollections()
		projects = append(projects, &p)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

// FindByID finds a project by business id
func (r *MongoProjectRepository) FindByID(ctx context.Context, id string) (*entity.Project, error) {
	r.metrics.StoreOperations.WithLabelValues("find").Inc()

	var p entity.Project
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding project: %w", err)
	}
	p.EnsureCollections()
	return &p, nil
}

// Upsert replaces the stored fields with a native upsert-by-filter.
// The pre-image tells whether the document was created.
func (r *MongoProjectRepository) Upsert(ctx context.Context, project *entity.Project, expectedRevision int64) (repository.UpsertResult, error) {
	r.metrics.StoreOperations.WithLabelValues("upsert").Inc()

	project.EnsureCollections()
	now := time.Now().UTC()

	filter := bson.M{"id": project.ID}
	if expectedRevision > 0 {
		filter["revision"] = expectedRevision
	}

	update := bson.M{
		"$set": bson.M{
			"name":        project.Name,
			"client":      project.Client,
			"location":    project.Location,
			"startDate":   project.StartDate,
			"endDate":     project.EndDate,
			"description": project.Description,
			"flights":     project.Flights,
			"crew":        project.Crew,
			"updatedAt":   now,
		},
		"$inc":         bson.M{"revision": 1},
		"$setOnInsert": bson.M{"createdAt": now},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(expectedRevision == 0).
		SetReturnDocument(options.Before).
		SetProjection(bson.M{"revision": 1, "createdAt": 1})

	var before entity.Project
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&before)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		if expectedRevision > 0 {
			return repository.UpsertResult{}, repository.ErrRevisionConflict
		}
		project.Revision = 1
		project.CreatedAt = now
		project.UpdatedAt = now
		return repository.UpsertResult{Created: true}, nil
	case err != nil:
		return repository.UpsertResult{}, fmt.Errorf("upserting project: %w", err)
	}

	project.Revision = before.Revision + 1
	project.CreatedAt = before.CreatedAt
	project.UpdatedAt = now
	return repository.UpsertResult{Created: false}, nil
}

// DeleteByID removes the project; unknown ids are ignored
func (r *MongoProjectRepository) DeleteByID(ctx context.Context, id string) error {
	r.metrics.StoreOperations.WithLabelValues("delete").Inc()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// Ping checks the MongoDB connection
func (r *MongoProjectRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, nil)
}
