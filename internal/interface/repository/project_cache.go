package repository

import (
	"context"
	"sync"
	"time"

	"uas-projects-service/internal/domain/entity"
	"uas-projects-service/internal/domain/repository"
	"uas-projects-service/pkg/metrics"
)

// CachedProjectRepository keeps the last ListAll result in memory and drops it
// after every mutation made through it or once ttl has passed. Writes made by
// other processes become visible after at most ttl.
type CachedProjectRepository struct {
	inner   repository.ProjectRepository
	metrics *metrics.Metrics
	ttl     time.Duration
	now     func() time.Time

	mu         sync.RWMutex
	projects   []*entity.Project
	loadedAt   time.Time
	valid      bool
	generation uint64
}

// NewCachedProjectRepository wraps inner with a read-through list cache.
// A non-positive ttl disables the cache.
func NewCachedProjectRepository(inner repository.ProjectRepository, m *metrics.Metrics, ttl time.Duration) *CachedProjectRepository {
	return &CachedProjectRepository{
		inner:   inner,
		metrics: m,
		ttl:     ttl,
		now:     time.Now,
	}
}

// fresh reports whether the cached list may be served. Caller holds mu.
func (c *CachedProjectRepository) fresh() bool {
	return c.valid && c.ttl > 0 && c.now().Sub(c.loadedAt) < c.ttl
}

// ListAll serves the cached list when warm and fills it otherwise
func (c *CachedProjectRepository) ListAll(ctx context.Context) ([]*entity.Project, error) {
	c.mu.RLock()
	if c.fresh() {
		out := cloneProjects(c.projects)
		c.mu.RUnlock()
		c.metrics.CacheHits.Inc()
		return out, nil
	}
	gen := c.generation
	c.mu.RUnlock()

	c.metrics.CacheMisses.Inc()
	loadedAt := c.now()
	projects, err := c.inner.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	// a mutation that landed while we were reading makes this result stale
	if gen == c.generation {
		c.projects = cloneProjects(projects)
		c.loadedAt = loadedAt
		c.valid = true
	}
	c.mu.Unlock()

	return projects, nil
}

// FindByID answers from the warm cache. Ids missing from the cached list
// are looked up in the store, which may hold rows written elsewhere.
func (c *CachedProjectRepository) FindByID(ctx context.Context, id string) (*entity.Project, error) {
	c.mu.RLock()
	if c.fresh() {
		for _, p := range c.projects {
			if p.ID == id {
				out := p.Clone()
				c.mu.RUnlock()
				c.metrics.CacheHits.Inc()
				return out, nil
			}
		}
	}
	c.mu.RUnlock()
	return c.inner.FindByID(ctx, id)
}

// Upsert writes through and invalidates the cache
func (c *CachedProjectRepository) Upsert(ctx context.Context, project *entity.Project, expectedRevision int64) (repository.UpsertResult, error) {
	defer c.Invalidate()
	return c.inner.Upsert(ctx, project, expectedRevision)
}

// DeleteByID writes through and invalidates the cache
func (c *CachedProjectRepository) DeleteByID(ctx context.Context, id string) error {
	defer c.Invalidate()
	return c.inner.DeleteByID(ctx, id)
}

// Ping delegates to the wrapped store
func (c *CachedProjectRepository) Ping(ctx context.Context) error {
	return c.inner.Ping(ctx)
}

// Invalidate drops the cached list
func (c *CachedProjectRepository) Invalidate() {
	c.mu.Lock()
	c.projects = nil
	c.valid = false
	c.generation++
	c.mu.Unlock()
}

// Refresh drops the cached list and reloads it from the store
func (c *CachedProjectRepository) Refresh(ctx context.Context) ([]*entity.Project, error) {
	c.Invalidate()
	return c.ListAll(ctx)
}

func cloneProjects(in []*entity.Project) []*entity.Project {
	out := make([]*entity.Project, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}
