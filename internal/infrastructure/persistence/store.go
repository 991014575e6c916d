package persistence

import (
	"context"
	"fmt"

	"uas-projects-service/internal/domain/repository"
	"uas-projects-service/internal/infrastructure/config"
	projectRepo "uas-projects-service/internal/interface/repository"
	"uas-projects-service/pkg/logger"
	"uas-projects-service/pkg/metrics"
)

// ProjectStore is the configured project repository plus its shutdown hook
type ProjectStore struct {
	Repository repository.ProjectRepository
	Backend    string
	close      func(ctx context.Context) error
}

// Close releases the underlying connection
func (s *ProjectStore) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenProjectStore connects to the backend selected in cfg.
// Any connection failure is returned so the caller can exit.
func OpenProjectStore(ctx context.Context, cfg *config.Config, log logger.Logger, m *metrics.Metrics) (*ProjectStore, error) {
	store := &ProjectStore{Backend: cfg.StoreBackend}

	switch cfg.StoreBackend {
	case config.BackendMongo:
		log.Info("Connecting to MongoDB", "database", cfg.MongoDB)
		client, db, err := NewMongoClient(ctx, MongoOptions{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDB,
			Username: cfg.MongoUser,
			Password: cfg.MongoPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		store.Repository = projectRepo.NewMongoProjectRepository(db, log, m)
		store.close = client.Disconnect

	case config.BackendPostgres:
		log.Info("Connecting to PostgreSQL")
		db, err := NewPostgresDB(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		repo, err := projectRepo.NewGormProjectRepository(db, log, m)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		store.Repository = repo
		store.close = func(context.Context) error { return sqlDB.Close() }

	case config.BackendSQLite:
		log.Info("Opening SQLite database", "path", cfg.SQLitePath)
		db, err := NewSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		repo, err := projectRepo.NewSQLiteProjectRepository(ctx, db, log, m)
		if err != nil {
			db.Close()
			return nil, err
		}
		store.Repository = repo
		store.close = func(context.Context) error { return db.Close() }

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	if cfg.CacheEnabled {
		store.Repository = projectRepo.NewCachedProjectRepository(store.Repository, m, cfg.CacheTTL)
	}
	return store, nil
}
