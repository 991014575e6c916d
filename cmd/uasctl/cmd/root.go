// Package cmd contains the CLI commands for uasctl.
package cmd

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"uas-projects-service/internal/infrastructure/config"
	"uas-projects-service/internal/infrastructure/persistence"
	"uas-projects-service/internal/usecase"
	"uas-projects-service/pkg/logger"
	"uas-projects-service/pkg/metrics"
)

// globalFlags override the environment configuration
type globalFlags struct {
	backend    string
	sqlitePath string
	verbose    bool
}

// NewRootCmd builds the uasctl command tree
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "uasctl",
		Short: "Manage UAS project records",
		Long: `uasctl works directly against the project store configured for the
service (STORE_BACKEND, MONGO_URI, POSTGRES_DSN, SQLITE_PATH or .env).

Examples:
  # List all projects
  uasctl list

  # Export every project as JSON
  uasctl export json --file droneProjects.json

  # Export one project's flight log, newest first
  uasctl export csv 1714 --order newest

  # Import projects from a previous export
  uasctl import droneProjects.json`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&flags.backend, "backend", "", "store backend override (mongo, postgres, sqlite)")
	root.PersistentFlags().StringVar(&flags.sqlitePath, "sqlite-path", "", "SQLite database path override")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(
		newListCmd(flags),
		newShowCmd(flags),
		newDeleteCmd(flags),
		newExportCmd(flags),
		newImportCmd(flags),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// openService connects to the configured store. The caller must call the returned closer.
func openService(ctx context.Context, flags *globalFlags) (*usecase.ProjectService, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if flags.backend != "" {
		cfg.StoreBackend = flags.backend
	}
	if flags.sqlitePath != "" {
		cfg.SQLitePath = flags.sqlitePath
	}
	// one-shot commands never reread
	cfg.CacheEnabled = false
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	level := "warn"
	if flags.verbose {
		level = "debug"
	}
	log := logger.NewLogger(level)
	m := metrics.NewMetrics("uasctl", prometheus.NewRegistry())

	store, err := persistence.OpenProjectStore(ctx, cfg, log, m)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	closer := func() {
		store.Close(context.Background())
		log.Sync()
	}
	return usecase.NewProjectService(store.Repository, log), closer, nil
}
