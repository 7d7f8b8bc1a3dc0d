package cmd

import (
	"github.com/huangsam/orghealth/core"
	"github.com/spf13/cobra"
)

// snapshotCmd groups YAML import and export of the whole org graph.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Import or export the org graph as a YAML snapshot",
	Long: `Move the whole org graph in and out of the store as one YAML document.

Teams and projects nest under their parents, initiatives list their related
root projects, and health updates sit on their owners. Imports write records
as they appear in the file; lifecycle rules are not replayed.

Subcommands:
  import - Load a snapshot into the active store
  export - Write the active store as a snapshot

Examples:
  orghealth snapshot import org.yaml --store-backend memory
  orghealth snapshot export --output-file org.yaml`,
}

// snapshotImportCmd loads a YAML snapshot.
var snapshotImportCmd = &cobra.Command{
	Use:     "import <path>",
	Short:   "Load a YAML snapshot into the active store",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor(core.ExecuteSnapshotImport, "Failed to import snapshot")
	},
}

// snapshotExportCmd writes the store as YAML.
var snapshotExportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Write the active store as a YAML snapshot (stdout unless --output-file)",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor(core.ExecuteSnapshotExport, "Failed to export snapshot")
	},
}
