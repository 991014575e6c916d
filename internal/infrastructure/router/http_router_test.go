package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uas-projects-service/internal/domain/entity"
	"uas-projects-service/internal/domain/repository"
	"uas-projects-service/internal/interface/handler"
	"uas-projects-service/internal/usecase"
	"uas-projects-service/pkg/logger"
	"uas-projects-service/pkg/metrics"
)

type emptyRepo struct{}

func (emptyRepo) ListAll(ctx context.Context) ([]*entity.Project, error) {
	return []*entity.Project{}, nil
}

func (emptyRepo) FindByID(ctx context.Context, id string) (*entity.Project, error) {
	return nil, repository.ErrProjectNotFound
}

func (emptyRepo) Upsert(ctx context.Context, p *entity.Project, expectedRevision int64) (repository.UpsertResult, error) {
	return repository.UpsertResult{Created: true}, nil
}

func (emptyRepo) DeleteByID(ctx context.Context, id string) error { return nil }

func (emptyRepo) Ping(ctx context.Context) error { return nil }

func newTestMux(t *testing.T, opts Options) (http.Handler, *metrics.Metrics) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics("test", reg)
	log := logger.NewNop()
	projects := handler.NewProjectHandler(usecase.NewProjectService(emptyRepo{}, log), log, m)
	if opts.MetricsHandler == nil {
		opts.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}
	return NewRouter(projects, handler.NewHealthHandler(emptyRepo{}), log, m, opts), m
}

func TestNewRouter_Routes(t *testing.T) {
	mux, _ := newTestMux(t, Options{})

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/projects", http.StatusOK},
		{http.MethodGet, "/api/projects/", http.StatusOK},
		{http.MethodGet, "/api/projects/nope", http.StatusNotFound},
		{http.MethodGet, "/api/projects/nope/totals", http.StatusNotFound},
		{http.MethodDelete, "/api/projects/nope", http.StatusOK},
		{http.MethodGet, "/api/summary", http.StatusOK},
		{http.MethodGet, "/api/export", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodPut, "/api/projects", http.StatusMethodNotAllowed},
		{http.MethodGet, "/index.html", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Len(t, rec.Header().Get("X-Request-ID"), 8)
		})
	}
}

func TestNewRouter_StaticDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(\"UAS\")"), 0o644))
	mux, _ := newTestMux(t, Options{StaticDir: dir})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "UAS")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestPrometheusMiddleware_RecordsRoutePattern(t *testing.T) {
	mux, m := newTestMux(t, Options{})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no/such/page", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequestsInFlight))
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestCORS_Preflight(t *testing.T) {
	mux, _ := newTestMux(t, Options{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/projects", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
