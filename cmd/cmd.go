// Package cmd defines the command-line interface for orghealth.
package cmd

import (
	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Read commands
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(leavesCmd)
	rootCmd.AddCommand(confidenceCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(checkCmd)

	// Write commands
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(transitionCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(linkCmd)

	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	snapshotCmd.AddCommand(snapshotImportCmd)
	snapshotCmd.AddCommand(snapshotExportCmd)

	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)
	storeCmd.AddCommand(storeExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of ranked results to display (0 = all)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("today", "", "Evaluation day as YYYY-MM-DD or 'N weeks ago' (defaults to the current day)")
	rootCmd.PersistentFlags().String("node-policy", string(schema.StrictPolicy), "Rollup classifier: strict or rounded")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or memory")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Command flags are bound to Viper in sharedSetup
	updateCmd.Flags().String("date", "", "Day of the update as YYYY-MM-DD or 'N weeks ago' (defaults to today)")
	updateCmd.Flags().String("description", "", "Free-form note attached to the update")

	transitionCmd.Flags().Bool("cascade", false, "Also move every leaf project when an initiative enters todo, on_hold or done")

	createCmd.Flags().String("parent", "", "Parent project (for projects) or leading team (for teams)")
	createCmd.Flags().String("team", "", "Owning team of a new project")

	assignCmd.Flags().String("parent", "", "Parent project (for projects) or leading team (for teams)")
	assignCmd.Flags().String("team", "", "Owning team of the project")

	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding migrate flags", err)
	}
}
