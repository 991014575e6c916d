package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"uas-projects-service/internal/infrastructure/config"
	"uas-projects-service/internal/infrastructure/persistence"
	"uas-projects-service/internal/infrastructure/router"
	"uas-projects-service/internal/interface/handler"
	"uas-projects-service/internal/usecase"
	"uas-projects-service/pkg/logger"
	"uas-projects-service/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting UAS Projects Service", "version", cfg.AppVersion, "backend", cfg.StoreBackend)

	m := metrics.NewMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)

	// Cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// An unreachable store at startup is fatal
	store, err := persistence.OpenProjectStore(ctx, cfg, log, m)
	if err != nil {
		log.Fatal("Failed to open project store", "backend", cfg.StoreBackend, "error", err)
	}

	projectService := usecase.NewProjectService(store.Repository, log)
	mux := router.NewRouter(
		handler.NewProjectHandler(projectService, log, m),
		handler.NewHealthHandler(store.Repository),
		log,
		m,
		router.Options{StaticDir: cfg.StaticDir},
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")

		// Graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", "error", err)
		}
		if err := store.Close(shutdownCtx); err != nil {
			log.Error("Project store close error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal("HTTP server error", "error", err)
	}
	log.Info("Service stopped")
}
