package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uas-projects-service/internal/domain/entity"
	"uas-projects-service/internal/infrastructure/config"
	projectRepo "uas-projects-service/internal/interface/repository"
	"uas-projects-service/pkg/logger"
	"uas-projects-service/pkg/metrics"
)

func TestOpenProjectStore_SQLiteWithCache(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Port:         "3000",
		StoreBackend: config.BackendSQLite,
		SQLitePath:   ":memory:",
		CacheEnabled: true,
		CacheTTL:     time.Minute,
	}

	store, err := OpenProjectStore(ctx, cfg, logger.NewNop(), metrics.NewMetrics("test", prometheus.NewRegistry()))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close(ctx) })

	_, ok := store.Repository.(*projectRepo.CachedProjectRepository)
	assert.True(t, ok, "cache decorator expected")

	res, err := store.Repository.Upsert(ctx, &entity.Project{ID: "a1", Name: "Survey"}, 0)
	require.NoError(t, err)
	assert.True(t, res.Created)

	all, err := store.Repository.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Survey", all[0].Name)
}

func TestOpenProjectStore_UnknownBackend(t *testing.T) {
	cfg := &config.Config{StoreBackend: "etcd"}
	_, err := OpenProjectStore(context.Background(), cfg, logger.NewNop(), metrics.NewMetrics("test", prometheus.NewRegistry()))
	assert.Error(t, err)
}

func openSharedSQLite(t *testing.T, path string, cacheTTL time.Duration) *ProjectStore {
	t.Helper()
	ctx := context.Background()
	cfg := &config.Config{
		Port:         "3000",
		StoreBackend: config.BackendSQLite,
		SQLitePath:   path,
		CacheEnabled: cacheTTL > 0,
		CacheTTL:     cacheTTL,
	}
	store, err := OpenProjectStore(ctx, cfg, logger.NewNop(), metrics.NewMetrics("test", prometheus.NewRegistry()))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close(ctx) })
	return store
}

func projectIDs(t *testing.T, repo interface {
	ListAll(context.Context) ([]*entity.Project, error)
}) []string {
	t.Helper()
	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, p := range all {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestOpenProjectStore_CachedServerSeesOutsideWrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "projects.db")
	server := openSharedSQLite(t, path, 100*time.Millisecond)
	cli := openSharedSQLite(t, path, 0)

	_, err := server.Repository.Upsert(ctx, &entity.Project{ID: "a1", Name: "Survey"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, projectIDs(t, server.Repository))

	require.NoError(t, cli.Repository.DeleteByID(ctx, "a1"))
	_, err = cli.Repository.Upsert(ctx, &entity.Project{ID: "b2", Name: "Inspection"}, 0)
	require.NoError(t, err)

	// ids missing from a warm cache fall through to the store
	p, err := server.Repository.FindByID(ctx, "b2")
	require.NoError(t, err)
	assert.Equal(t, "Inspection", p.Name)

	assert.Eventually(t, func() bool {
		ids := projectIDs(t, server.Repository)
		return len(ids) == 1 && ids[0] == "b2"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestOpenProjectStore_UncachedServerSeesOutsideWritesImmediately(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "projects.db")
	server := openSharedSQLite(t, path, 0)
	cli := openSharedSQLite(t, path, 0)

	_, err := server.Repository.Upsert(ctx, &entity.Project{ID: "a1", Name: "Survey"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, projectIDs(t, server.Repository))

	require.NoError(t, cli.Repository.DeleteByID(ctx, "a1"))
	assert.Empty(t, projectIDs(t, server.Repository))
}
