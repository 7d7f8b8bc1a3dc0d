package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/orghealth/core"
	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/internal/store"
	"github.com/huangsam/orghealth/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads only the store settings and opens the store.
// Store subcommands skip the full shared setup since they take no positional input.
func storeSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := storeBackendConfig()
	if err != nil {
		return err
	}
	if err := store.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// storeConfigOnly loads the store settings without opening the store.
// clear and migrate must work on a database the store cannot open yet, or is about to remove.
func storeConfigOnly(_ *cobra.Command, _ []string) error {
	backend, connStr, err := storeBackendConfig()
	if err != nil {
		return err
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// storeCmd focused on store management.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the org store (status, clear, migrate, export)",
	Long: `Manage the database that holds projects, teams, initiatives and health updates.

Supported backends: SQLite (default), MySQL, PostgreSQL, or memory (nothing persisted)

Subcommands:
  status  - Show row counts and connection details
  clear   - Remove all stored org data
  migrate - Run database schema migrations
  export  - Export updates, weekly points and entity health to Parquet

Examples:
  orghealth store status
  orghealth store export --output-file org`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show the backend, connection state and the number of stored teams,
projects, initiatives and health updates, with the latest update day.

Examples:
  orghealth store status --store-backend postgresql --store-db-connect "host=localhost dbname=org"`,
	Args:    cobra.NoArgs,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		s := storeManager.GetStore()
		if s == nil {
			contract.LogFatal("Failed to get store status", fmt.Errorf("store is not initialized"))
		}
		status, err := s.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		store.PrintStoreStatus(os.Stdout, status)
	},
}

// storeClearCmd clears all org data.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored org data",
	Long: `Delete every project, team, initiative and health update.

For SQLite the database file is removed. For MySQL and PostgreSQL the org
tables are dropped.

WARNING: This action cannot be undone. Consider exporting a snapshot first.

Examples:
  orghealth snapshot export --output-file backup.yaml
  orghealth store clear`,
	Args:    cobra.NoArgs,
	PreRunE: storeConfigOnly,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := contract.GetDBFilePath()
		if cfg.StoreBackend == schema.SQLiteBackend && cfg.StoreDBConnect != "" {
			dbFilePath = cfg.StoreDBConnect
		}
		if err := store.ClearStore(cfg.StoreBackend, dbFilePath, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeMigrateCmd runs database migrations for the org store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the org store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  orghealth store migrate

  # Rollback to initial state
  orghealth store migrate --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: storeConfigOnly,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.StoreBackend == schema.MemoryBackend {
			contract.LogFatal("Failed to run migrations", fmt.Errorf("the %s backend has no schema", cfg.StoreBackend))
		}
		targetVersion := viper.GetInt("target-version")
		if err := store.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

// storeExportCmd exports analytics tables to Parquet.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export health data to Parquet for BI tools and analytics",
	Long: `Export three Parquet datasets next to the --output-file prefix:

- <prefix>.health_updates.parquet - every recorded health update
- <prefix>.weekly_points.parquet  - weekly buckets of active root projects
- <prefix>.entity_health.parquet  - the full org report as of --today

Examples:
  orghealth store export --output-file org
  duckdb -c "SELECT * FROM read_parquet('org.entity_health.parquet') LIMIT 10"`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor(core.ExecuteStoreExport, "Failed to export store")
	},
}
